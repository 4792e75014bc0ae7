// Package lessonapi talks to the lesson site's grading and chapter
// completion endpoints.
package lessonapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultCSRFHeader = "X-CSRFToken"
	maxBodyBytes      = 1 << 20
)

// TokenSource yields the current anti-forgery token. It is consulted on
// every request.
type TokenSource interface {
	Token() (string, bool)
}

// Grader submits answers and chapter completions.
type Grader interface {
	// Submit sends one answer for grading. Every failure is folded into a
	// GradeFailed result.
	Submit(ctx context.Context, questionID string, ans Answer) GradingResult

	// CompleteChapter notifies the completion endpoint at path.
	CompleteChapter(ctx context.Context, path string) (CompletionResult, error)
}

// Client is the HTTP implementation of Grader.
type Client struct {
	baseURL    *url.URL
	tokens     TokenSource
	client     *http.Client
	timeout    time.Duration
	csrfHeader string
}

var _ Grader = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. It should carry the session cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCSRFHeader sets the header that carries the anti-forgery token.
func WithCSRFHeader(name string) Option {
	return func(c *Client) { c.csrfHeader = name }
}

// NewClient creates a Client for the lesson site at baseURL.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:    u,
		tokens:     tokens,
		client:     http.DefaultClient,
		timeout:    defaultTimeout,
		csrfHeader: defaultCSRFHeader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ChapterPath returns the path of a chapter page.
func ChapterPath(chapterID string) string {
	return "/chapter/" + url.PathEscape(chapterID) + "/"
}

// SubmitPath returns the grading endpoint path for a question.
func SubmitPath(questionID string) string {
	return "/question/" + url.PathEscape(questionID) + "/submit/"
}

// CompletionPath returns the default completion endpoint path for a chapter.
func CompletionPath(chapterID string) string {
	return ChapterPath(chapterID) + "complete/"
}

// Submit posts the encoded answer and interprets the grading response.
func (c *Client) Submit(ctx context.Context, questionID string, ans Answer) GradingResult {
	form := url.Values{"answer": {ans.Encode()}}
	body, err := c.post(ctx, SubmitPath(questionID), form.Encode(), true)
	if err != nil {
		return Failed(err)
	}
	return parseGrading(body)
}

// CompleteChapter posts an empty form to the completion endpoint.
func (c *Client) CompleteChapter(ctx context.Context, path string) (CompletionResult, error) {
	body, err := c.post(ctx, path, "", false)
	if err != nil {
		return CompletionResult{}, err
	}

	var resp completionResponse
	if err := decodeResponse(completionSchema, body, &resp); err != nil {
		return CompletionResult{}, err
	}
	return resp.result(), nil
}

// parseGrading maps a 2xx grading body to a result. "correct" wins over
// "error"; a body with neither is malformed.
func parseGrading(body []byte) GradingResult {
	var resp gradingResponse
	if err := decodeResponse(gradingSchema, body, &resp); err != nil {
		return Failed(err)
	}
	switch {
	case resp.Correct != nil:
		return resp.result()
	case resp.Error != nil && *resp.Error != "":
		return Failed(&GradingError{Message: *resp.Error})
	default:
		return Failed(&ProtocolError{Body: body, Err: errors.New("response has neither correct nor error")})
	}
}

// post sends a form POST to path and returns the body of a 2xx response.
func (c *Client) post(ctx context.Context, path, form string, ajax bool) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target, err := c.resolve(path)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ajax {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	if c.tokens != nil {
		if tok, ok := c.tokens.Token(); ok {
			req.Header.Set(c.csrfHeader, tok)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.classify(ctx, err)
	}
	return body, nil
}

// classify turns a request error into a *TimeoutError when the per-request
// deadline expired, and a *TransportError otherwise.
func (c *Client) classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{After: c.timeout}
	}
	return &TransportError{Err: err}
}

// resolve joins path (absolute or relative) onto the base URL.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}
