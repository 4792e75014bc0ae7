package lessonpage

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/question"
)

// Manifest is the YAML form of a chapter page.
type Manifest struct {
	ChapterID     string             `yaml:"chapter_id"`
	Title         string             `yaml:"title"`
	CompleteURL   string             `yaml:"complete_url,omitempty"`
	ProgressSteps int                `yaml:"progress_steps,omitempty"`
	Completed     bool               `yaml:"completed,omitempty"`
	Questions     []ManifestQuestion `yaml:"questions"`
}

// ManifestQuestion describes one question in a manifest.
type ManifestQuestion struct {
	ID       string           `yaml:"id"`
	Type     string           `yaml:"type"` // choice | fill
	Text     string           `yaml:"text,omitempty"`
	Code     string           `yaml:"code,omitempty"`
	Options  []ManifestOption `yaml:"options,omitempty"`
	Blanks   int              `yaml:"blanks,omitempty"`
	Hint     string           `yaml:"hint,omitempty"`
	HasHint  bool             `yaml:"has_hint,omitempty"`
	Previous *ManifestAnswer  `yaml:"previous,omitempty"`
}

// ManifestOption is one choice.
type ManifestOption struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// ManifestAnswer is a result already given for a question.
type ManifestAnswer struct {
	Correct   bool           `yaml:"correct"`
	Selection string         `yaml:"selection,omitempty"`
	Blanks    map[int]string `yaml:"blanks,omitempty"`
}

// LoadManifest reads and validates a chapter manifest file.
func LoadManifest(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes a single YAML document into a validated Page.
func ParseManifest(data []byte) (*Page, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return m.Page()
}

// Page converts the manifest to a validated Page.
func (m Manifest) Page() (*Page, error) {
	p := &Page{
		ChapterID:     m.ChapterID,
		Title:         m.Title,
		CompletePath:  m.CompleteURL,
		ProgressSteps: m.ProgressSteps,
		Completed:     m.Completed,
	}
	if p.CompletePath == "" && p.ChapterID != "" {
		p.CompletePath = lessonapi.CompletionPath(p.ChapterID)
	}

	for _, mq := range m.Questions {
		q := question.Question{
			ID:         mq.ID,
			Text:       mq.Text,
			Code:       mq.Code,
			BlankCount: mq.Blanks,
			Hint:       mq.Hint,
			HasHint:    mq.HasHint || mq.Hint != "",
		}
		switch mq.Type {
		case "choice":
			q.Kind = question.KindChoice
			for _, o := range mq.Options {
				q.Options = append(q.Options, question.Option{ID: o.ID, Label: o.Label})
			}
		case "fill":
			q.Kind = question.KindFillBlank
		default:
			return nil, fmt.Errorf("question %s: unknown type %q (expected choice|fill)", mq.ID, mq.Type)
		}

		entry := Entry{Question: q}
		if mq.Previous != nil {
			entry.Previous = &question.Previous{
				Correct:   mq.Previous.Correct,
				Selection: mq.Previous.Selection,
				Blanks:    mq.Previous.Blanks,
			}
		}
		p.Questions = append(p.Questions, entry)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ManifestFor converts a parsed page back to its manifest form, so a saved
// page can be edited and replayed offline.
func ManifestFor(p *Page) Manifest {
	m := Manifest{
		ChapterID:     p.ChapterID,
		Title:         p.Title,
		CompleteURL:   p.CompletePath,
		ProgressSteps: p.ProgressSteps,
		Completed:     p.Completed,
	}
	for _, e := range p.Questions {
		q := e.Question
		mq := ManifestQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Code:    q.Code,
			Hint:    q.Hint,
			HasHint: q.HasHint && q.Hint == "",
		}
		if q.Kind == question.KindChoice {
			mq.Type = "choice"
			for _, o := range q.Options {
				mq.Options = append(mq.Options, ManifestOption{ID: o.ID, Label: o.Label})
			}
		} else {
			mq.Type = "fill"
			mq.Blanks = q.BlankCount
		}
		if e.Previous != nil {
			mq.Previous = &ManifestAnswer{
				Correct:   e.Previous.Correct,
				Selection: e.Previous.Selection,
				Blanks:    e.Previous.Blanks,
			}
		}
		m.Questions = append(m.Questions, mq)
	}
	return m
}

// Encode writes m as a single YAML document.
func (m Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
