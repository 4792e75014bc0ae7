package lessonpage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/abhisek/chapterquiz/internal/question"
)

const sampleManifest = `
chapter_id: "3"
title: Functions
progress_steps: 3
questions:
  - id: "42"
    type: choice
    text: Which keyword defines a function?
    options:
      - id: A
        label: def
      - id: B
        label: func
    hint: Think of "define".
  - id: "7"
    type: fill
    text: Complete the call
    blanks: 2
    previous:
      correct: false
      blanks:
        0: print
`

func TestParseManifest(t *testing.T) {
	p, err := ParseManifest([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.ChapterID != "3" || p.CompletePath != "/chapter/3/complete/" || p.ProgressSteps != 3 {
		t.Errorf("page = %+v", p)
	}
	if len(p.Questions) != 2 {
		t.Fatalf("questions = %d", len(p.Questions))
	}

	choice := p.Questions[0].Question
	if choice.Kind != question.KindChoice || len(choice.Options) != 2 || !choice.HasHint {
		t.Errorf("choice = %+v", choice)
	}

	fill := p.Questions[1]
	if fill.Question.Kind != question.KindFillBlank || fill.Question.BlankCount != 2 {
		t.Errorf("fill = %+v", fill.Question)
	}
	if fill.Previous == nil || fill.Previous.Correct || fill.Previous.Blanks[0] != "print" {
		t.Errorf("previous = %+v", fill.Previous)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"unknown field", "chapter_id: '1'\nsurprise: true\n", "surprise"},
		{"unknown type", "chapter_id: '1'\nquestions:\n  - id: '1'\n    type: essay\n", "unknown type"},
		{"no chapter", "questions: []\n", "chapter id"},
		{"choice without options", "chapter_id: '1'\nquestions:\n  - id: '1'\n    type: choice\n", "no options"},
		{"two documents", "chapter_id: '1'\n---\nchapter_id: '2'\n", "multiple documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestManifestFor_SavedPageReplaysOffline(t *testing.T) {
	page := parseTestdata(t)

	var buf bytes.Buffer
	if err := ManifestFor(page).Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := ParseManifest(buf.Bytes())
	if err != nil {
		t.Fatalf("parse exported manifest: %v\n%s", err, buf.String())
	}

	if back.ChapterID != page.ChapterID || back.CompletePath != page.CompletePath {
		t.Errorf("page header = %+v", back)
	}
	if len(back.Questions) != len(page.Questions) {
		t.Fatalf("questions = %d, want %d", len(back.Questions), len(page.Questions))
	}
	for i, e := range back.Questions {
		want := page.Questions[i].Question
		if e.Question.ID != want.ID || e.Question.Kind != want.Kind || e.Question.HasHint != want.HasHint {
			t.Errorf("question %d = %+v, want %+v", i, e.Question, want)
		}
		if (e.Previous == nil) != (page.Questions[i].Previous == nil) {
			t.Errorf("question %s previous answer lost", want.ID)
		}
	}
}
