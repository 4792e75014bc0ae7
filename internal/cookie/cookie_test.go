package cookie

import (
	"net/http"
	"net/url"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		header string
		key    string
		want   string
		found  bool
	}{
		{"single", "csrftoken=abc", "csrftoken", "abc", true},
		{"among others", "sessionid=s1; csrftoken=abc; theme=dark", "csrftoken", "abc", true},
		{"whitespace", "  a=1 ;   csrftoken=xyz  ", "csrftoken", "xyz", true},
		{"percent encoded", "csrftoken=a%2Fb%20c", "csrftoken", "a/b c", true},
		{"bad encoding kept raw", "csrftoken=100%", "csrftoken", "100%", true},
		{"prefix is not a match", "csrftoken2=abc", "csrftoken", "", false},
		{"suffix is not a match", "xcsrftoken=abc", "csrftoken", "", false},
		{"missing", "sessionid=s1", "csrftoken", "", false},
		{"empty header", "", "csrftoken", "", false},
		{"empty value", "csrftoken=", "csrftoken", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.header, tt.key)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if got != tt.want {
				t.Errorf("value = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAccessor_ReadsFreshOnEveryCall(t *testing.T) {
	jar, err := NewJar()
	if err != nil {
		t.Fatalf("new jar: %v", err)
	}
	u, _ := url.Parse("http://learn.example.com/")
	a := NewAccessor(jar, u, "csrftoken")

	if _, ok := a.Token(); ok {
		t.Fatal("expected no token before the cookie is set")
	}

	jar.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "first", Path: "/"}})
	if got, _ := a.Token(); got != "first" {
		t.Fatalf("token = %q, want first", got)
	}

	// Server rotates the token.
	jar.SetCookies(u, []*http.Cookie{{Name: "csrftoken", Value: "second", Path: "/"}})
	if got, _ := a.Token(); got != "second" {
		t.Fatalf("token = %q, want second", got)
	}
}

func TestAccessor_NilSafe(t *testing.T) {
	var a *Accessor
	if _, ok := a.Token(); ok {
		t.Fatal("nil accessor should report no token")
	}
}

func TestSeed(t *testing.T) {
	jar, _ := NewJar()
	u, _ := url.Parse("http://learn.example.com/")

	if err := Seed(jar, u, "sessionid=s1; csrftoken=tok"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, ok := NewAccessor(jar, u, "sessionid").Token()
	if !ok || got != "s1" {
		t.Errorf("sessionid = %q (%v)", got, ok)
	}
	got, ok = NewAccessor(jar, u, "csrftoken").Token()
	if !ok || got != "tok" {
		t.Errorf("csrftoken = %q (%v)", got, ok)
	}
}

func TestSeed_Invalid(t *testing.T) {
	jar, _ := NewJar()
	u, _ := url.Parse("http://learn.example.com/")
	if err := Seed(jar, u, "novalue"); err == nil {
		t.Fatal("expected error for pair without '='")
	}
	if err := Seed(jar, u, "=x"); err == nil {
		t.Fatal("expected error for pair without name")
	}
	if err := Seed(jar, u, "   "); err != nil {
		t.Fatalf("blank header should be a no-op: %v", err)
	}
}
