package lessonapi_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/chapterquiz/internal/cookie"
	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/lessonapi/lessonapitest"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func newClient(t *testing.T, srv *lessonapitest.Server, opts ...lessonapi.Option) *lessonapi.Client {
	t.Helper()
	c, err := lessonapi.NewClient(srv.URL, staticToken(lessonapitest.CSRFToken), opts...)
	require.NoError(t, err)
	return c
}

func TestSubmit_ChoiceIncorrectWithHint(t *testing.T) {
	srv := lessonapitest.New()
	defer srv.Close()
	srv.Grade("42", http.StatusOK, `{"correct": false, "hint": "try A"}`)

	res := newClient(t, srv).Submit(context.Background(), "42", lessonapi.ChoiceAnswer("B"))

	assert.Equal(t, lessonapi.GradeIncorrect, res.Kind)
	assert.Equal(t, "try A", res.Hint)
	assert.NoError(t, res.Err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/question/42/submit/", reqs[0].Path)
	assert.Equal(t, "B", reqs[0].Answer)
	assert.Equal(t, lessonapitest.CSRFToken, reqs[0].CSRF)
	assert.Equal(t, "XMLHttpRequest", reqs[0].Ajax)
	assert.Equal(t, "application/x-www-form-urlencoded", reqs[0].ContentType)
}

func TestSubmit_FillAnswerEncodedAsJSON(t *testing.T) {
	srv := lessonapitest.New()
	defer srv.Close()
	srv.Grade("7", http.StatusOK, `{"correct": true, "explanation": "well done"}`)

	ans := lessonapi.FillAnswer(map[int]string{0: "print", 1: "x"})
	res := newClient(t, srv).Submit(context.Background(), "7", ans)

	assert.Equal(t, lessonapi.GradeCorrect, res.Kind)
	assert.Equal(t, "well done", res.Explanation)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"0":"print","1":"x"}`, reqs[0].Answer)
}

func TestSubmit_ResultMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind lessonapi.GradeKind
		check    func(t *testing.T, res lessonapi.GradingResult)
	}{
		{
			name:     "incorrect with answers",
			status:   http.StatusOK,
			body:     `{"correct": false, "explanation": "because", "correct_answers": ["a", "b"]}`,
			wantKind: lessonapi.GradeIncorrect,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				assert.Equal(t, []string{"a", "b"}, res.CorrectAnswers)
				assert.Equal(t, "because", res.Explanation)
			},
		},
		{
			name:     "correct wins over error",
			status:   http.StatusOK,
			body:     `{"correct": true, "error": "ignored"}`,
			wantKind: lessonapi.GradeCorrect,
		},
		{
			name:     "server error message",
			status:   http.StatusOK,
			body:     `{"error": "Question is closed"}`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var ge *lessonapi.GradingError
				require.ErrorAs(t, res.Err, &ge)
				assert.Equal(t, "Question is closed", ge.Message)
			},
		},
		{
			name:     "neither correct nor error",
			status:   http.StatusOK,
			body:     `{"status": "ok"}`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var pe *lessonapi.ProtocolError
				require.ErrorAs(t, res.Err, &pe)
			},
		},
		{
			name:     "empty error string is malformed",
			status:   http.StatusOK,
			body:     `{"error": ""}`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var pe *lessonapi.ProtocolError
				require.ErrorAs(t, res.Err, &pe)
			},
		},
		{
			name:     "not JSON",
			status:   http.StatusOK,
			body:     `<html>oops</html>`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var pe *lessonapi.ProtocolError
				require.ErrorAs(t, res.Err, &pe)
			},
		},
		{
			name:     "wrong type for correct",
			status:   http.StatusOK,
			body:     `{"correct": "yes"}`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var pe *lessonapi.ProtocolError
				require.ErrorAs(t, res.Err, &pe)
			},
		},
		{
			name:     "server error status ignores body",
			status:   http.StatusInternalServerError,
			body:     `{"correct": true}`,
			wantKind: lessonapi.GradeFailed,
			check: func(t *testing.T, res lessonapi.GradingResult) {
				var te *lessonapi.TransportError
				require.ErrorAs(t, res.Err, &te)
				assert.Equal(t, http.StatusInternalServerError, te.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := lessonapitest.New()
			defer srv.Close()
			srv.Grade("1", tt.status, tt.body)

			res := newClient(t, srv).Submit(context.Background(), "1", lessonapi.ChoiceAnswer("A"))
			assert.Equal(t, tt.wantKind, res.Kind)
			if tt.check != nil {
				tt.check(t, res)
			}
		})
	}
}

func TestSubmit_ConnectionRefused(t *testing.T) {
	srv := lessonapitest.New()
	base := srv.URL
	srv.Close()

	c, err := lessonapi.NewClient(base, nil)
	require.NoError(t, err)
	res := c.Submit(context.Background(), "1", lessonapi.ChoiceAnswer("A"))

	require.Equal(t, lessonapi.GradeFailed, res.Kind)
	var te *lessonapi.TransportError
	require.ErrorAs(t, res.Err, &te)
	assert.Zero(t, te.StatusCode)
}

func TestSubmit_Timeout(t *testing.T) {
	srv := lessonapitest.New()
	defer srv.Close()
	srv.GradeAfter("1", http.StatusOK, `{"correct": true}`, 2*time.Second)

	res := newClient(t, srv, lessonapi.WithTimeout(50*time.Millisecond)).
		Submit(context.Background(), "1", lessonapi.ChoiceAnswer("A"))

	require.Equal(t, lessonapi.GradeFailed, res.Kind)
	var te *lessonapi.TimeoutError
	require.ErrorAs(t, res.Err, &te)
	assert.Equal(t, 50*time.Millisecond, te.After)
}

func TestSubmit_TokenReadFreshFromJar(t *testing.T) {
	srv := lessonapitest.New()
	defer srv.Close()
	srv.RequireCSRF()
	srv.Page("3", "<html></html>")
	srv.Grade("1", http.StatusOK, `{"correct": true}`)

	jar, err := cookie.NewJar()
	require.NoError(t, err)
	hc := &http.Client{Jar: jar}
	tokens := cookie.NewAccessor(jar, srv.BaseURL(), "csrftoken")

	c, err := lessonapi.NewClient(srv.URL, tokens, lessonapi.WithHTTPClient(hc))
	require.NoError(t, err)

	// No cookie yet: the server rejects the POST.
	res := c.Submit(context.Background(), "1", lessonapi.ChoiceAnswer("A"))
	var te *lessonapi.TransportError
	require.ErrorAs(t, res.Err, &te)
	assert.Equal(t, http.StatusForbidden, te.StatusCode)

	// Loading the page sets the cookie; the next request picks it up.
	resp, err := hc.Get(srv.URL + "/chapter/3/")
	require.NoError(t, err)
	resp.Body.Close()

	res = c.Submit(context.Background(), "1", lessonapi.ChoiceAnswer("A"))
	assert.Equal(t, lessonapi.GradeCorrect, res.Kind)
}

func TestCompleteChapter(t *testing.T) {
	tests := []struct {
		name string
		body string
		want lessonapi.CompletionResult
	}{
		{
			name: "level up",
			body: `{"success": true, "experience_added": 50, "level_up": true, "old_level": 2, "new_level": 3}`,
			want: lessonapi.CompletionResult{Success: true, ExperienceAdded: 50, LevelUp: true, OldLevel: 2, NewLevel: 3},
		},
		{
			name: "already completed ignores experience",
			body: `{"success": true, "already_completed": true, "experience_added": 50}`,
			want: lessonapi.CompletionResult{Success: true, AlreadyCompleted: true},
		},
		{
			name: "experience_gained fallback",
			body: `{"success": true, "experience_gained": 20}`,
			want: lessonapi.CompletionResult{Success: true, ExperienceAdded: 20},
		},
		{
			name: "level up with only the new level",
			body: `{"success": true, "experience_gained": 10, "level_up": true, "new_level": 4}`,
			want: lessonapi.CompletionResult{Success: true, ExperienceAdded: 10, LevelUp: true, NewLevel: 4},
		},
		{
			name: "level up without levels is dropped",
			body: `{"success": true, "level_up": true}`,
			want: lessonapi.CompletionResult{Success: true},
		},
		{
			name: "failure message",
			body: `{"success": false, "message": "Session not found"}`,
			want: lessonapi.CompletionResult{Message: "Session not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := lessonapitest.New()
			defer srv.Close()
			srv.Complete("3", http.StatusOK, tt.body)

			got, err := newClient(t, srv).CompleteChapter(context.Background(), lessonapi.CompletionPath("3"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			reqs := srv.Requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/chapter/3/complete/", reqs[0].Path)
			assert.Empty(t, reqs[0].Body)
			assert.Equal(t, lessonapitest.CSRFToken, reqs[0].CSRF)
			assert.Equal(t, "application/x-www-form-urlencoded", reqs[0].ContentType)
		})
	}
}

func TestCompleteChapter_Errors(t *testing.T) {
	srv := lessonapitest.New()
	defer srv.Close()
	srv.Complete("3", http.StatusBadRequest, `{"success": false}`)
	srv.Complete("4", http.StatusOK, `{"experience_added": 5}`)

	c := newClient(t, srv)

	_, err := c.CompleteChapter(context.Background(), lessonapi.CompletionPath("3"))
	var te *lessonapi.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)

	_, err = c.CompleteChapter(context.Background(), lessonapi.CompletionPath("4"))
	var pe *lessonapi.ProtocolError
	require.ErrorAs(t, err, &pe)
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := lessonapi.NewClient("/chapter/1", nil)
	require.Error(t, err)
}

func TestFailureKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&lessonapi.GradingError{Message: "x"}, "grading"},
		{&lessonapi.ProtocolError{Err: errors.New("x")}, "protocol"},
		{&lessonapi.TransportError{StatusCode: 500}, "transport"},
		{&lessonapi.TimeoutError{After: time.Second}, "timeout"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lessonapi.FailureKind(tt.err))
	}
}
