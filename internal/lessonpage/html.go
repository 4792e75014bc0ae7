package lessonpage

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/abhisek/chapterquiz/internal/lessonapi"
	"github.com/abhisek/chapterquiz/internal/question"
)

var chapterPathRe = regexp.MustCompile(`/chapter/([^/]+)/?`)

// ParseHTML reads a chapter page. pageURL, when non-nil, supplies the
// chapter ID if the markup does not carry one.
func ParseHTML(r io.Reader, pageURL *url.URL) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	ids := indexIDs(doc)
	p := &Page{Title: pageTitle(doc)}

	if body := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Body }); body != nil {
		p.ChapterID = attr(body, "data-chapter-id")
	}

	submitAll := ids["submit-all-answers"]
	if submitAll == nil {
		return nil, &MissingElementError{Element: "submit-all-answers"}
	}
	if p.ChapterID == "" {
		p.ChapterID = attr(submitAll, "data-chapter-id")
	}
	p.CompletePath = attr(submitAll, "data-complete-url")
	_, p.Completed = attrOK(submitAll, "disabled")

	if p.ChapterID == "" && pageURL != nil {
		if m := chapterPathRe.FindStringSubmatch(pageURL.Path); m != nil {
			p.ChapterID = m[1]
		}
	}
	if p.ChapterID == "" {
		return nil, &MissingElementError{Element: "chapter id"}
	}
	if p.CompletePath == "" {
		p.CompletePath = lessonapi.CompletionPath(p.ChapterID)
	}

	p.ProgressSteps = len(findAll(doc, func(n *html.Node) bool { return hasClass(n, "progress-step") }))

	for _, container := range findAll(doc, func(n *html.Node) bool { return hasClass(n, "question") }) {
		entry, err := parseQuestion(container, ids)
		if err != nil {
			return nil, err
		}
		p.Questions = append(p.Questions, entry)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func questionID(container *html.Node) string {
	if id := attr(container, "data-question-id"); id != "" {
		return id
	}
	return strings.TrimPrefix(attr(container, "id"), "question-")
}

func parseQuestion(container *html.Node, ids map[string]*html.Node) (Entry, error) {
	qid := questionID(container)
	if qid == "" {
		return Entry{}, &MissingElementError{Element: "question id"}
	}

	q := question.Question{ID: qid}
	if textNode := findFirst(container, func(n *html.Node) bool { return hasClass(n, "question-text") }); textNode != nil {
		q.Text = textContent(textNode)
	} else if para := findFirst(container, func(n *html.Node) bool { return n.DataAtom == atom.P }); para != nil {
		q.Text = textContent(para)
	}
	if pre := findFirst(container, func(n *html.Node) bool { return n.DataAtom == atom.Pre }); pre != nil {
		q.Code = strings.Trim(textContent(pre), "\n")
	}

	result := ids["result-"+qid]
	if result == nil {
		return Entry{}, &MissingElementError{QuestionID: qid, Element: "result-" + qid}
	}

	var prev *question.Previous
	switch {
	case hasClass(result, "correct"):
		prev = &question.Previous{Correct: true}
	case hasClass(result, "incorrect"):
		prev = &question.Previous{}
	}

	radios := findAll(container, func(n *html.Node) bool {
		return isInput(n, "radio") && attr(n, "name") == "choice-"+qid
	})
	texts := findAll(container, func(n *html.Node) bool { return isInput(n, "text") })

	switch {
	case len(radios) > 0:
		q.Kind = question.KindChoice
		if ids["choice-submit-"+qid] == nil {
			return Entry{}, &MissingElementError{QuestionID: qid, Element: "choice-submit-" + qid}
		}
		for _, r := range radios {
			opt := question.Option{ID: attr(r, "value")}
			if opt.ID == "" {
				opt.ID = strings.TrimPrefix(attr(r, "id"), "choice-")
			}
			opt.Label = radioLabel(r, container)
			if opt.Label == "" {
				opt.Label = opt.ID
			}
			q.Options = append(q.Options, opt)
			if _, checked := attrOK(r, "checked"); checked && prev != nil {
				prev.Selection = opt.ID
			}
		}
	case len(texts) > 0:
		q.Kind = question.KindFillBlank
		if ids["submit-"+qid] == nil {
			return Entry{}, &MissingElementError{QuestionID: qid, Element: "submit-" + qid}
		}
		q.BlankCount = len(texts)
		values := make(map[int]string, len(texts))
		for pos, in := range texts {
			idx := pos
			if raw := attr(in, "data-blank-index"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n < 0 || n >= len(texts) {
					return Entry{}, fmt.Errorf("question %s: bad data-blank-index %q", qid, raw)
				}
				idx = n
			}
			if v := attr(in, "value"); v != "" {
				values[idx] = v
			}
		}
		if prev != nil {
			prev.Blanks = values
		}
	default:
		return Entry{}, &MissingElementError{QuestionID: qid, Element: "answer inputs"}
	}

	if btn := ids["hint-btn-"+qid]; btn != nil {
		q.HasHint = true
		if box := ids["hint-"+qid]; box != nil {
			q.Hint = textContent(box)
		}
	}

	return Entry{Question: q, Previous: prev}, nil
}

// radioLabel returns the text of the label wrapping r, or of the label
// pointing at it with for=.
func radioLabel(r, scope *html.Node) string {
	for n := r.Parent; n != nil && n != scope.Parent; n = n.Parent {
		if n.DataAtom == atom.Label {
			return textContent(n)
		}
	}
	if id := attr(r, "id"); id != "" {
		lbl := findFirst(scope, func(n *html.Node) bool {
			return n.DataAtom == atom.Label && attr(n, "for") == id
		})
		if lbl != nil {
			return textContent(lbl)
		}
	}
	return ""
}

func pageTitle(doc *html.Node) string {
	if h1 := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.H1 }); h1 != nil {
		return textContent(h1)
	}
	if t := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		return textContent(t)
	}
	return ""
}

// indexIDs maps every id attribute to its element. The first one wins.
func indexIDs(doc *html.Node) map[string]*html.Node {
	ids := make(map[string]*html.Node)
	walk(doc, func(n *html.Node) bool {
		if id := attr(n, "id"); id != "" {
			if _, dup := ids[id]; !dup {
				ids[id] = n
			}
		}
		return true
	})
	return ids
}

func isInput(n *html.Node, typ string) bool {
	if n.Type != html.ElementNode || n.DataAtom != atom.Input {
		return false
	}
	t := strings.ToLower(attr(n, "type"))
	if typ == "text" {
		return t == "" || t == "text"
	}
	return t == typ
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// textContent returns the whitespace-collapsed text below n. Text inside
// <pre> keeps its layout.
func textContent(n *html.Node) string {
	var parts []string
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			parts = append(parts, c.Data)
		}
		return c.DataAtom != atom.Script && c.DataAtom != atom.Style
	})
	if n.DataAtom == atom.Pre {
		return strings.Join(parts, "")
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
