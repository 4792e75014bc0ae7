package lessonpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
)

const maxPageBytes = 4 << 20

// Loader resolves chapter sources to pages.
type Loader struct {
	client  *http.Client
	baseURL *url.URL
}

// NewLoader creates a Loader. hc should carry the session cookie jar so
// the anti-forgery cookie set by the page lands in it.
func NewLoader(hc *http.Client, baseURL *url.URL) *Loader {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Loader{client: hc, baseURL: baseURL}
}

// Load reads a chapter from source, which is one of:
//   - a .yaml/.yml manifest file
//   - a saved .html/.htm page
//   - an absolute http(s) URL
//   - a chapter ID, fetched from {base}/chapter/{id}/
func (l *Loader) Load(ctx context.Context, source string) (*Page, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("no chapter given")
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".yaml", ".yml":
		return LoadManifest(source)
	case ".html", ".htm":
		if _, err := os.Stat(source); err == nil {
			return l.loadFile(source)
		}
	}

	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.Fetch(ctx, u)
	}

	if l.baseURL == nil {
		return nil, fmt.Errorf("chapter %q: no base URL configured", source)
	}
	ref, err := url.Parse(lessonapi.ChapterPath(source))
	if err != nil {
		return nil, fmt.Errorf("chapter %q: %w", source, err)
	}
	return l.Fetch(ctx, l.baseURL.ResolveReference(ref))
}

func (l *Loader) loadFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return ParseHTML(f, nil)
}

// Fetch downloads and parses the chapter page at u.
func (l *Loader) Fetch(ctx context.Context, u *url.URL) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chapter: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch chapter: HTTP %d for %s", resp.StatusCode, u)
	}
	return ParseHTML(io.LimitReader(resp.Body, maxPageBytes), resp.Request.URL)
}
