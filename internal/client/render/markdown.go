package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
)

var (
	htmlTagRe        = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Converter turns HTML entry bodies into markdown. Plain text and
// markdown pass through unchanged.
type Converter struct {
	converter *md.Converter
}

func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

func (c *Converter) ToMarkdown(content string) (string, error) {
	if !htmlTagRe.MatchString(content) {
		return strings.TrimSpace(content), nil
	}
	out, err := c.converter.ConvertString(content)
	if err != nil {
		return "", err
	}
	out = excessiveLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// Excerpt cuts s to at most limit runes, preferring a word boundary, and
// marks the cut with an ellipsis. limit <= 0 disables cutting.
func Excerpt(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexAny(cut, " \n\t"); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n\t.,;:") + "…"
}
