package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds the client configuration shared by every command.
type Config struct {
	// BaseURL is the lesson site origin, e.g. "https://learn.example.com".
	// Grading and completion paths are resolved against it.
	BaseURL string

	// CSRFCookieName is the cookie carrying the anti-forgery token.
	// Default: "csrftoken".
	CSRFCookieName string

	// CSRFHeader is the request header the token is echoed in.
	// Default: "X-CSRFToken".
	CSRFHeader string

	// Cookies seeds the cookie jar before the first request, in
	// "name=value; name2=value2" form. Usually carries the session cookie.
	Cookies string

	// RequestTimeout bounds every grading and completion request.
	// Default: 15s.
	RequestTimeout time.Duration

	// ToastDuration is how long a completion toast stays on screen.
	// Default: 5s.
	ToastDuration time.Duration

	// DBPath is the answer journal database. Empty means the default
	// XDG location.
	DBPath string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		CSRFCookieName: "csrftoken",
		CSRFHeader:     "X-CSRFToken",
		RequestTimeout: 15 * time.Second,
		ToastDuration:  5 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CHAPTERQUIZ_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CHAPTERQUIZ_CSRF_COOKIE"); v != "" {
		cfg.CSRFCookieName = v
	}
	if v := os.Getenv("CHAPTERQUIZ_CSRF_HEADER"); v != "" {
		cfg.CSRFHeader = v
	}
	if v := os.Getenv("CHAPTERQUIZ_SESSION"); v != "" {
		cfg.Cookies = v
	}
	if v := os.Getenv("CHAPTERQUIZ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("CHAPTERQUIZ_DB"); v != "" {
		cfg.DBPath = v
	}

	return cfg
}

// Validate checks that the configuration can be used to talk to a server.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	if c.CSRFCookieName == "" {
		return fmt.Errorf("CSRF cookie name is required")
	}
	if c.CSRFHeader == "" {
		return fmt.Errorf("CSRF header name is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.ToastDuration <= 0 {
		return fmt.Errorf("toast duration must be positive, got %s", c.ToastDuration)
	}
	return nil
}

// ParsedBaseURL returns BaseURL as a *url.URL. Call Validate first.
func (c Config) ParsedBaseURL() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}
