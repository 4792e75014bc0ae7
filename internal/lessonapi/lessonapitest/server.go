// Package lessonapitest provides an in-process lesson site for tests.
package lessonapitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// CSRFToken is the anti-forgery token the fake site issues.
const CSRFToken = "test-csrf-token"

// Request is one POST received by the fake site.
type Request struct {
	Path        string
	Answer      string
	Body        string
	CSRF        string
	Ajax        string
	ContentType string
}

// reply is a canned response.
type reply struct {
	status int
	body   string
	delay  time.Duration
}

// Server is a fake lesson site serving chapter pages, the grading endpoint
// and the completion endpoint with canned replies.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	pages       map[string]string
	grades      map[string][]reply
	completions map[string][]reply
	requests    []Request
	requireCSRF bool
}

// New starts a fake lesson site. Close it when done.
func New() *Server {
	s := &Server{
		pages:       make(map[string]string),
		grades:      make(map[string][]reply),
		completions: make(map[string][]reply),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/chapter/{chapterID}/", s.servePage)
	r.With(s.checkCSRF).Post("/question/{questionID}/submit/", s.serveGrade)
	r.With(s.checkCSRF).Post("/chapter/{chapterID}/complete/", s.serveCompletion)

	s.Server = httptest.NewServer(r)
	return s
}

// BaseURL returns the parsed base URL of the site.
func (s *Server) BaseURL() *url.URL {
	u, _ := url.Parse(s.Server.URL)
	return u
}

// RequireCSRF makes POSTs without the issued token fail with 403.
func (s *Server) RequireCSRF() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireCSRF = true
}

// Page serves html at /chapter/{chapterID}/ and sets the csrftoken cookie.
func (s *Server) Page(chapterID, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[chapterID] = html
}

// Grade queues a reply for the next submission of questionID. The last
// queued reply repeats once the queue is drained.
func (s *Server) Grade(questionID string, status int, body string) {
	s.GradeAfter(questionID, status, body, 0)
}

// GradeAfter is like Grade but waits delay before replying.
func (s *Server) GradeAfter(questionID string, status int, body string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grades[questionID] = append(s.grades[questionID], reply{status: status, body: body, delay: delay})
}

// Complete queues a reply for the next completion of chapterID.
func (s *Server) Complete(chapterID string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions[chapterID] = append(s.completions[chapterID], reply{status: status, body: body})
}

// Requests returns a copy of the POSTs received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	html, ok := s.pages[chi.URLParam(r, "chapterID")]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: CSRFToken, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (s *Server) checkCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		required := s.requireCSRF
		s.mu.Unlock()
		if required && r.Header.Get("X-CSRFToken") != CSRFToken {
			http.Error(w, "CSRF verification failed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) serveGrade(w http.ResponseWriter, r *http.Request) {
	rep := s.record(r, s.grades, chi.URLParam(r, "questionID"))
	s.write(w, r, rep)
}

func (s *Server) serveCompletion(w http.ResponseWriter, r *http.Request) {
	rep := s.record(r, s.completions, chi.URLParam(r, "chapterID"))
	s.write(w, r, rep)
}

// record logs the request and pops the next reply for key.
func (s *Server) record(r *http.Request, replies map[string][]reply, key string) reply {
	body, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(body))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Path:        r.URL.Path,
		Answer:      form.Get("answer"),
		Body:        string(body),
		CSRF:        r.Header.Get("X-CSRFToken"),
		Ajax:        r.Header.Get("X-Requested-With"),
		ContentType: r.Header.Get("Content-Type"),
	})

	queue := replies[key]
	if len(queue) == 0 {
		return reply{status: http.StatusNotFound, body: `{"error":"not found"}`}
	}
	rep := queue[0]
	if len(queue) > 1 {
		replies[key] = queue[1:]
	}
	return rep
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, rep reply) {
	if rep.delay > 0 {
		select {
		case <-time.After(rep.delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}
