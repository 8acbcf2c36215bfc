package seoshop

import (
	"fmt"
	"golang.org/x/time/rate"
	log "log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL           = "https://api.webshopapp.com"
	DefaultLanguage          = "nl"
	DefaultRetries           = 5
	DefaultRateLimitDelay    = 10 * time.Second
	DefaultMaxRateLimitDelay = 80 * time.Second
)

type Credentials struct {
	AppKey    string
	AppSecret string
}

func (c *Credentials) validate() error {
	if c == nil || c.AppKey == "" || c.AppSecret == "" {
		return fmt.Errorf("%w: app key and app secret are required", ErrConfiguration)
	}
	return nil
}

type ClientConfig struct {
	appKey            string
	appSecret         string
	baseURL           string
	language          string
	retries           int
	rateLimitDelay    time.Duration
	maxRateLimitDelay time.Duration
	scheme            SignatureScheme
	maxCallbackAge    time.Duration
	limiter           *rate.Limiter
	http              *http.Client
	logger            *log.Logger
}

func newClientConfig(creds *Credentials) *ClientConfig {
	return &ClientConfig{
		appKey:            creds.AppKey,
		appSecret:         creds.AppSecret,
		baseURL:           DefaultBaseURL,
		language:          DefaultLanguage,
		retries:           DefaultRetries,
		rateLimitDelay:    DefaultRateLimitDelay,
		maxRateLimitDelay: DefaultMaxRateLimitDelay,
		scheme:            SchemeMD5,
		http:              &http.Client{},
		logger:            log.Default(),
	}
}

// Endpoint returns the absolute URL of endpoint for the given shop language.
func (c *ClientConfig) Endpoint(language string, endpoint string) string {
	if language == "" {
		language = c.language
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return c.baseURL + "/" + language + endpoint
}

type Opt = func(c *ClientConfig)

func WithBaseURL(u string) Opt {
	return func(c *ClientConfig) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

func WithLanguage(lang string) Opt {
	return func(c *ClientConfig) {
		c.language = lang
	}
}

// WithRetry bounds the number of times a rate limited request is re-issued.
func WithRetry(n int) Opt {
	return func(c *ClientConfig) {
		if n < 0 {
			n = 0
		}
		c.retries = n
	}
}

// WithRateLimitDelay sets the wait before the first retry of a rate limited
// request. The wait doubles on every consecutive 429 up to the max delay.
func WithRateLimitDelay(d time.Duration) Opt {
	return func(c *ClientConfig) {
		c.rateLimitDelay = d
		if c.maxRateLimitDelay < d {
			c.maxRateLimitDelay = d
		}
	}
}

func WithMaxRateLimitDelay(d time.Duration) Opt {
	return func(c *ClientConfig) {
		c.maxRateLimitDelay = d
	}
}

func WithRateLimiter(l *rate.Limiter) Opt {
	return func(c *ClientConfig) {
		c.limiter = l
	}
}

func WithHTTPClient(h *http.Client) Opt {
	return func(c *ClientConfig) {
		c.http = h
	}
}

func WithLogger(l *log.Logger) Opt {
	return func(c *ClientConfig) {
		c.logger = l
	}
}

func WithSignatureScheme(s SignatureScheme) Opt {
	return func(c *ClientConfig) {
		c.scheme = s
	}
}

// WithMaxCallbackAge rejects callbacks whose timestamp is older than d.
func WithMaxCallbackAge(d time.Duration) Opt {
	return func(c *ClientConfig) {
		c.maxCallbackAge = d
	}
}
