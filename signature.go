package seoshop

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type SignatureScheme int

const (
	// SchemeMD5 is the checksum the platform signs callbacks and webhooks with:
	// md5(message + secret).
	SchemeMD5 SignatureScheme = iota
	// SchemeHMACSHA256 keys an HMAC-SHA256 with the secret instead.
	SchemeHMACSHA256
)

func (s SignatureScheme) String() string {
	switch s {
	case SchemeMD5:
		return "md5"
	case SchemeHMACSHA256:
		return "hmac-sha256"
	default:
		return "unknown"
	}
}

func (s SignatureScheme) sign(message string, secret string) string {
	switch s {
	case SchemeHMACSHA256:
		hash := hmac.New(sha256.New, []byte(secret))
		hash.Write([]byte(message))
		return hex.EncodeToString(hash.Sum(nil))
	default:
		sum := md5.Sum([]byte(message + secret))
		return hex.EncodeToString(sum[:])
	}
}

// Signature computes the signature of params, ignoring any "signature" entry.
func Signature(scheme SignatureScheme, params map[string]string, secret string) string {
	return scheme.sign(canonicalParams(params), secret)
}

// UserSecret derives the basic auth password for a shop token.
func UserSecret(token string, appSecret string) string {
	if token == "" {
		return ""
	}
	return SchemeMD5.sign(token, appSecret)
}

// Sign returns the signature of params under the client's secret and scheme.
func (c *ClientConfig) Sign(params map[string]string) string {
	return Signature(c.scheme, params, c.appSecret)
}

// VerifySignature checks the callback params sent by the platform and returns
// the session they describe. Nothing on the client is changed.
func (c *ClientConfig) VerifySignature(params map[string]string) (*Session, error) {
	expected := []byte(c.Sign(params))
	if !hmac.Equal(expected, []byte(params[signatureParam])) {
		return nil, ErrInvalidSignature
	}
	ts, err := c.checkTimestamp(params["timestamp"])
	if err != nil {
		return nil, err
	}
	sess := c.NewSession(params["shop_id"], params["token"], params["language"])
	sess.Timestamp = ts
	return sess, nil
}

// VerifyQuery is VerifySignature for a callback query string.
func (c *ClientConfig) VerifyQuery(q url.Values) (*Session, error) {
	params := make(map[string]string, len(q))
	for k := range q {
		params[k] = q.Get(k)
	}
	return c.VerifySignature(params)
}

// VerifyWebhookPayload checks the signature header of a webhook delivery,
// computed over the raw body.
func (c *ClientConfig) VerifyWebhookPayload(body []byte, signature string) bool {
	expected := c.scheme.sign(string(body), c.appSecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *ClientConfig) checkTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		if c.maxCallbackAge > 0 {
			return nil, fmt.Errorf("%w: missing timestamp", ErrInvalidSignature)
		}
		return nil, nil
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if c.maxCallbackAge > 0 {
			return nil, fmt.Errorf("%w: malformed timestamp %q", ErrInvalidSignature, raw)
		}
		return nil, nil
	}
	ts := time.Unix(secs, 0)
	if c.maxCallbackAge > 0 && time.Since(ts) > c.maxCallbackAge {
		return nil, fmt.Errorf("%w: callback expired at %s", ErrInvalidSignature, ts.Add(c.maxCallbackAge).UTC().Format(time.RFC3339))
	}
	return &ts, nil
}
