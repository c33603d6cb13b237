package filevault

import (
	"net/http"
	"time"
)

// ClientOption represents an option for configuring the filevault client
type ClientOption func(*ClientConfig)

// ClientConfig holds the configuration for the filevault client
type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	DefaultHeaders map[string]string
	Transport      http.RoundTripper
	UserAgent      string
}

// DefaultConfig returns the default configuration. Failed requests are not
// retried unless WithRetry says otherwise.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://localhost:8000/api",
		Timeout:       30 * time.Second,
		RetryAttempts: 0,
		RetryDelay:    1 * time.Second,
		DefaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		UserAgent: "filevault-cli/1.0.0",
	}
}

// WithBaseURL sets the base URL of the backend API, e.g. http://localhost:8000/api
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		c.BaseURL = baseURL
	}
}

// WithTimeout sets the request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithRetry sets the retry configuration for idempotent requests
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.RetryAttempts = attempts
		c.RetryDelay = delay
	}
}

// WithTransport sets the round tripper used for every request
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *ClientConfig) {
		c.Transport = transport
	}
}

// WithUserAgent sets a custom user agent
func WithUserAgent(userAgent string) ClientOption {
	return func(c *ClientConfig) {
		c.UserAgent = userAgent
	}
}
