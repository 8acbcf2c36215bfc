package seoshop

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfiguration    = errors.New("invalid configuration")
	ErrInvalidSignature = errors.New("signature is not authentic")
)

// TransportError is returned when the request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a non-empty response body is not valid JSON.
type ParseError struct {
	Code int
	Body []byte
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode response, status: %d: %v", e.Code, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// APIError carries the value of the "error" or "errors" field of a response
// together with its status code. Data holds the complete response payload.
type APIError struct {
	Message any             `json:"error"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"-"`
}

func (e *APIError) Error() string {
	detail, ok := e.Message.(string)
	if !ok {
		bs, err := json.Marshal(e.Message)
		if err != nil {
			detail = fmt.Sprint(e.Message)
		} else {
			detail = string(bs)
		}
	}
	return fmt.Sprintf("request failed, status: %d, detail: %s", e.Code, detail)
}

func IsRateLimited(err error) bool {
	var e *APIError
	return errors.As(err, &e) && e.Code == http.StatusTooManyRequests
}
