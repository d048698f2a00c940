package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/dmitrijs2005/hyperblog/internal/client/models"
)

// Fragment is one rendered entry.
type Fragment struct {
	EntryID int64
	Text    string
}

type Renderer interface {
	Render(v models.EntryView) (Fragment, error)
}

type Options struct {
	// Style is a glamour standard style name ("dark", "light", "notty")
	// or "auto" to detect from the terminal.
	Style         string
	WordWrap      int
	ExcerptLength int
}

// TermRenderer renders entry views for a terminal.
type TermRenderer struct {
	md        *glamour.TermRenderer
	converter *Converter
	excerpt   int
}

func NewTermRenderer(opts Options) (*TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if opts.Style != "" && opts.Style != "auto" {
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}
	wrap := opts.WordWrap
	if wrap <= 0 {
		wrap = 80
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err != nil {
		return nil, fmt.Errorf("glamour renderer: %w", err)
	}
	return &TermRenderer{md: r, converter: NewConverter(), excerpt: opts.ExcerptLength}, nil
}

func (r *TermRenderer) Render(v models.EntryView) (Fragment, error) {
	body, err := r.body(v.Content, r.excerpt)
	if err != nil {
		return Fragment{}, fmt.Errorf("render entry %d: %w", v.ID, err)
	}

	var b strings.Builder
	b.WriteString(header(v))
	b.WriteString(body)
	b.WriteString(Link(entryPath(v.ID)))
	b.WriteString("\n")

	return Fragment{EntryID: v.ID, Text: b.String()}, nil
}

// RenderDetail renders the whole body followed by the recommended titles.
func (r *TermRenderer) RenderDetail(v models.EntryView, recommended []models.Entry) (Fragment, error) {
	body, err := r.body(v.Content, 0)
	if err != nil {
		return Fragment{}, fmt.Errorf("render entry %d: %w", v.ID, err)
	}

	var b strings.Builder
	b.WriteString(header(v))
	b.WriteString(body)
	if len(recommended) > 0 {
		b.WriteString(metaStyle.Render("Recommended"))
		b.WriteString("\n")
		for _, e := range recommended {
			fmt.Fprintf(&b, "  • %s %s\n", e.Title, Link(entryPath(e.ID)))
		}
	}
	return Fragment{EntryID: v.ID, Text: b.String()}, nil
}

func (r *TermRenderer) body(content string, limit int) (string, error) {
	markdown, err := r.converter.ToMarkdown(content)
	if err != nil {
		return "", err
	}
	if markdown == "" {
		return "", nil
	}
	return r.md.Render(Excerpt(markdown, limit))
}

func header(v models.EntryView) string {
	title := v.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	meta := "by " + v.Author
	if !v.Updated.IsZero() {
		meta += " · " + v.Updated.UTC().Format("2006-01-02 15:04")
	}
	return titleStyle.Render(title) + "\n" + metaStyle.Render(meta) + "\n"
}

func entryPath(id int64) string {
	return "/blog/" + strconv.FormatInt(id, 10) + "/"
}

// DetailRenderer also renders the single-entry view.
type DetailRenderer interface {
	Renderer
	RenderDetail(v models.EntryView, recommended []models.Entry) (Fragment, error)
}

var _ DetailRenderer = (*TermRenderer)(nil)
