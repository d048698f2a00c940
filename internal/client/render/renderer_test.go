package render

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, excerpt int) *TermRenderer {
	t.Helper()
	r, err := NewTermRenderer(Options{Style: "notty", WordWrap: 120, ExcerptLength: excerpt})
	require.NoError(t, err)
	return r
}

func TestNewTermRenderer_UnknownStyle(t *testing.T) {
	_, err := NewTermRenderer(Options{Style: "no-such-style"})
	assert.Error(t, err)
}

func TestRender_IncludesTitleAuthorDateAndLink(t *testing.T) {
	r := newTestRenderer(t, 0)

	f, err := r.Render(models.EntryView{
		ID:      7,
		Title:   "Hello Go",
		Content: "<p>Channels are <strong>typed</strong> conduits.</p>",
		Author:  "neo",
		Updated: models.Timestamp{Time: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), f.EntryID)
	assert.Contains(t, f.Text, "Hello Go")
	assert.Contains(t, f.Text, "by neo · 2024-03-01 12:30")
	assert.Contains(t, f.Text, "Channels are")
	assert.Contains(t, f.Text, "typed")
	assert.NotContains(t, f.Text, "<strong>")
	assert.Contains(t, f.Text, "/blog/7/")
}

func TestRender_UntitledAndEmptyBody(t *testing.T) {
	r := newTestRenderer(t, 0)

	f, err := r.Render(models.EntryView{ID: 1, Author: "user #3"})
	require.NoError(t, err)
	assert.Contains(t, f.Text, "(untitled)")
	assert.Contains(t, f.Text, "by user #3")
	assert.NotContains(t, f.Text, "·")
}

func TestRender_Excerpt(t *testing.T) {
	r := newTestRenderer(t, 20)

	f, err := r.Render(models.EntryView{ID: 1, Title: "t", Author: "a", Content: strings.Repeat("word ", 40)})
	require.NoError(t, err)
	assert.Contains(t, f.Text, "…")
	assert.Less(t, strings.Count(f.Text, "word"), 10)
}

func TestRenderDetail_ListsRecommended(t *testing.T) {
	r := newTestRenderer(t, 5)

	f, err := r.RenderDetail(
		models.EntryView{ID: 1, Title: "Main", Author: "a", Content: strings.Repeat("long body ", 10)},
		[]models.Entry{{ID: 2, Title: "Other"}},
	)
	require.NoError(t, err)
	assert.NotContains(t, f.Text, "…")
	assert.Contains(t, f.Text, "Recommended")
	assert.Contains(t, f.Text, "Other")
	assert.Contains(t, f.Text, "/blog/2/")
}

func TestConverter_ToMarkdown(t *testing.T) {
	c := NewConverter()

	out, err := c.ToMarkdown("<h2>Intro</h2><p>see <a href=\"https://go.dev\">go.dev</a></p>")
	require.NoError(t, err)
	assert.Contains(t, out, "## Intro")
	assert.Contains(t, out, "[go.dev](https://go.dev)")

	out, err = c.ToMarkdown("  plain *markdown* stays  ")
	require.NoError(t, err)
	assert.Equal(t, "plain *markdown* stays", out)

	out, err = c.ToMarkdown("1 < 2 and 3 > 2")
	require.NoError(t, err)
	assert.Equal(t, "1 < 2 and 3 > 2", out)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "anything", Excerpt("anything", 0))
	assert.Equal(t, "hello world…", Excerpt("hello world again", 11))
	assert.Equal(t, "the quick…", Excerpt("the quick brown fox", 12))
	assert.Equal(t, "абвгд…", Excerpt("абвгдежзий", 5))
}

func TestWriterContainer_SeparatesFragments(t *testing.T) {
	var buf bytes.Buffer
	c := NewWriterContainer(&buf)

	require.NoError(t, c.Append(Fragment{EntryID: 1, Text: "one\n"}))
	require.NoError(t, c.Append(Fragment{EntryID: 2, Text: "two\n"}))

	assert.Equal(t, "one\n\ntwo\n", buf.String())
	assert.Equal(t, 2, c.Len())
}

func TestWriterContainer_ConcurrentAppend(t *testing.T) {
	var buf bytes.Buffer
	c := NewWriterContainer(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Append(Fragment{Text: "x\n"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	assert.Equal(t, 50, strings.Count(buf.String(), "x"))
}

func TestStyles_KeepText(t *testing.T) {
	assert.Contains(t, ErrorState("failed"), "failed")
	assert.Contains(t, Alert("check input"), "check input")
	assert.Contains(t, Success("done"), "done")
	assert.Contains(t, Link("/person.html?id=1"), "/person.html?id=1")
}
