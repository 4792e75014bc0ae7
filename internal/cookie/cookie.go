// Package cookie reads named values out of the ambient cookie store.
//
// The anti-forgery token lives in a cookie the server sets when the lesson
// page is rendered. It is read fresh on every request and never cached, so
// the server may rotate it between requests.
package cookie

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Accessor reads one named cookie from a jar for a fixed URL.
type Accessor struct {
	jar  http.CookieJar
	url  *url.URL
	name string
}

// NewAccessor creates an Accessor for the cookie called name as it would be
// sent to u.
func NewAccessor(jar http.CookieJar, u *url.URL, name string) *Accessor {
	return &Accessor{jar: jar, url: u, name: name}
}

// Name returns the cookie name this accessor looks up.
func (a *Accessor) Name() string {
	return a.name
}

// Token returns the decoded cookie value. The second result is false when
// no cookie matches the name exactly.
func (a *Accessor) Token() (string, bool) {
	if a == nil || a.jar == nil {
		return "", false
	}
	for _, c := range a.jar.Cookies(a.url) {
		if c.Name == a.name {
			return decode(c.Value), true
		}
	}
	return "", false
}

// Lookup finds name in a "a=1; b=2" cookie header. Matching is by exact
// name; surrounding whitespace is ignored and the value is percent-decoded.
func Lookup(header, name string) (string, bool) {
	if header == "" || name == "" {
		return "", false
	}
	prefix := name + "="
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, prefix) {
			return decode(part[len(prefix):]), true
		}
	}
	return "", false
}

// NewJar creates a cookie jar that applies public-suffix domain rules.
func NewJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

// Seed stores every "name=value" pair of header into jar for u.
// Pairs without a name are rejected.
func Seed(jar http.CookieJar, u *url.URL, header string) error {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	var cookies []*http.Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid cookie %q: want name=value", part)
		}
		cookies = append(cookies, &http.Cookie{Name: name, Value: strings.TrimSpace(value), Path: "/"})
	}
	jar.SetCookies(u, cookies)
	return nil
}

// decode percent-decodes v, returning it unchanged when it is not valid
// percent-encoding.
func decode(v string) string {
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}
