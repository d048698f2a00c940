package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/apitest"
	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func entries(authors ...int64) []models.Entry {
	out := make([]models.Entry, len(authors))
	for i, a := range authors {
		out[i] = models.Entry{ID: int64(i + 1), Title: fmt.Sprintf("post %d", i+1), AuthorID: a}
	}
	return out
}

// slowResolver answers after a delay that shrinks with the uid, so later
// authors finish first. It records the peak number of lookups in flight.
type slowResolver struct {
	inflight atomic.Int32
	peak     atomic.Int32
	calls    sync.Map
	fail     map[int64]bool
}

func (r *slowResolver) Nick(ctx context.Context, uid int64) (string, error) {
	n := r.inflight.Add(1)
	defer r.inflight.Add(-1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	v, _ := r.calls.LoadOrStore(uid, new(atomic.Int32))
	v.(*atomic.Int32).Add(1)

	select {
	case <-time.After(time.Duration(10-uid%10) * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if r.fail[uid] {
		return "", errors.New("lookup failed")
	}
	return fmt.Sprintf("nick%d", uid), nil
}

func (r *slowResolver) callsFor(uid int64) int32 {
	v, ok := r.calls.Load(uid)
	if !ok {
		return 0
	}
	return v.(*atomic.Int32).Load()
}

func TestListingService_DefaultListing(t *testing.T) {
	c := newFakeClient()
	c.ListRet = &models.Page{Content: entries(1, 2)}
	c.Users[1] = "ann"
	c.Users[2] = "bob"
	svc := NewListingService(c, NewAuthorResolver(c, time.Minute, logging.Nop()), plainRenderer{}, logging.Nop(), 4, 20)

	dst := &sliceContainer{}
	res, err := svc.Load(context.Background(), url.Values{}, dst)

	require.NoError(t, err)
	assert.Equal(t, models.SourceDefault, res.Source)
	assert.Equal(t, 2, res.Count)
	assert.NotNil(t, res.Page)
	assert.Equal(t, 1, c.ListCalls)
	assert.Zero(t, c.SearchCalls)
	assert.Equal(t, 20, c.LastListOpts.Size)
	assert.Equal(t, []string{"post 1 by ann", "post 2 by bob"}, dst.Texts())
}

func TestListingService_Sources(t *testing.T) {
	tests := []struct {
		name   string
		query  url.Values
		source models.Source
		check  func(t *testing.T, c *fakeClient)
	}{
		{
			name:   "search",
			query:  url.Values{"q": {"go"}},
			source: models.SourceSearch,
			check: func(t *testing.T, c *fakeClient) {
				assert.Equal(t, 1, c.SearchCalls)
				assert.Equal(t, "go", c.LastSearchTerm)
				assert.Zero(t, c.ListCalls)
			},
		},
		{
			name:   "blank q is the default listing",
			query:  url.Values{"q": {"  "}},
			source: models.SourceDefault,
			check: func(t *testing.T, c *fakeClient) {
				assert.Equal(t, 1, c.ListCalls)
				assert.Zero(t, c.SearchCalls)
			},
		},
		{
			name:   "author",
			query:  url.Values{"author": {"7"}},
			source: models.SourceAuthor,
			check: func(t *testing.T, c *fakeClient) {
				assert.Equal(t, int64(7), c.LastUserListUID)
			},
		},
		{
			name:   "starred",
			query:  url.Values{"star": {"8"}},
			source: models.SourceStarred,
			check: func(t *testing.T, c *fakeClient) {
				assert.Equal(t, int64(8), c.LastStarListUID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeClient()
			c.ListRet = &models.Page{Content: entries(1)}
			c.SearchRet = entries(1)
			c.UserListRet = &models.Page{Content: entries(7)}
			c.StarListRet = &models.Page{Content: entries(3)}
			svc := NewListingService(c, NewAuthorResolver(c, time.Minute, logging.Nop()), plainRenderer{}, logging.Nop(), 2, 10)

			res, err := svc.Load(context.Background(), tt.query, &sliceContainer{})

			require.NoError(t, err)
			assert.Equal(t, tt.source, res.Source)
			assert.Equal(t, 1, res.Count)
			tt.check(t, c)
		})
	}
}

func TestListingService_KeepsSourceOrderAndBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	authors := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 2, 5, 1}
	c := newFakeClient()
	c.ListRet = &models.Page{Content: entries(authors...)}
	r := &slowResolver{}
	svc := NewListingService(c, r, plainRenderer{}, logging.Nop(), 3, 20)

	dst := &sliceContainer{}
	res, err := svc.Load(context.Background(), nil, dst)
	require.NoError(t, err)
	require.Equal(t, len(authors), res.Count)

	want := make([]string, len(authors))
	for i, a := range authors {
		want[i] = fmt.Sprintf("post %d by nick%d", i+1, a)
	}
	assert.Equal(t, want, dst.Texts())

	assert.LessOrEqual(t, r.peak.Load(), int32(3))
	for _, uid := range []int64{1, 2, 5} {
		assert.Equal(t, int32(1), r.callsFor(uid), "uid %d looked up more than once", uid)
	}
}

func TestListingService_AuthorFailureUsesPlaceholder(t *testing.T) {
	c := newFakeClient()
	c.ListRet = &models.Page{Content: entries(1, 2)}
	r := &slowResolver{fail: map[int64]bool{2: true}}
	log, buf := newBufferLogger()
	svc := NewListingService(c, r, plainRenderer{}, log, 4, 20)

	dst := &sliceContainer{}
	res, err := svc.Load(context.Background(), nil, dst)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, []string{"post 1 by nick1", "post 2 by user #2"}, dst.Texts())
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestListingService_FetchErrorAppendsNothing(t *testing.T) {
	c := newFakeClient()
	c.ListErr = client.ErrUnavailable
	log, buf := newBufferLogger()
	svc := NewListingService(c, NewAuthorResolver(c, time.Minute, logging.Nop()), plainRenderer{}, log, 4, 20)

	dst := &sliceContainer{}
	res, err := svc.Load(context.Background(), nil, dst)

	assert.ErrorIs(t, err, client.ErrUnavailable)
	assert.Zero(t, res.Count)
	assert.Empty(t, dst.Texts())
	assert.Contains(t, buf.String(), "level=ERROR")
}

func TestListingService_CanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := newFakeClient()
	c.ListRet = &models.Page{Content: entries(1, 2, 3)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewListingService(c, &slowResolver{}, plainRenderer{}, logging.Nop(), 2, 20)

	dst := &sliceContainer{}
	_, err := svc.Load(ctx, nil, dst)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dst.Texts())
}

func TestListingService_RenderError(t *testing.T) {
	c := newFakeClient()
	c.ListRet = &models.Page{Content: entries(1)}
	boom := errors.New("boom")
	svc := NewListingService(c, &slowResolver{}, plainRenderer{Err: boom}, logging.Nop(), 1, 20)

	_, err := svc.Load(context.Background(), nil, &sliceContainer{})
	assert.ErrorIs(t, err, boom)
}

func TestListingService_Show(t *testing.T) {
	c := newFakeClient()
	c.EntryRet = &models.EntryDetail{
		Entry:       models.Entry{ID: 4, Title: "main", AuthorID: 1},
		Recommended: entries(2, 3),
	}
	c.Users[1] = "ann"
	svc := NewListingService(c, NewAuthorResolver(c, time.Minute, logging.Nop()), plainRenderer{}, logging.Nop(), 1, 20)

	frag, err := svc.Show(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, int64(4), frag.EntryID)
	assert.Equal(t, "main by ann\n+ post 1\n+ post 2", frag.Text)
}

func TestListingService_ShowNotFound(t *testing.T) {
	c := newFakeClient()
	c.EntryErr = client.ErrNotFound
	svc := NewListingService(c, &slowResolver{}, plainRenderer{}, logging.Nop(), 1, 20)

	_, err := svc.Show(context.Background(), 4)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestListingService_OverHTTP(t *testing.T) {
	api := apitest.New()
	api.Envelope = true
	api.Entries = []models.Entry{
		{ID: 1, Title: "first", Content: "<p>hello <b>world</b></p>", AuthorID: 10},
		{ID: 2, Title: "second", Content: "plain text", AuthorID: 20},
		{ID: 3, Title: "third", Content: "more", AuthorID: 10},
	}
	api.Users[10] = "ann"
	api.UserStatus[20] = http.StatusInternalServerError
	ts := apitest.Start(t, api)

	c, err := client.NewHTTPClient(ts.URL, ts.Client(), logging.Nop())
	require.NoError(t, err)
	r, err := render.NewTermRenderer(render.Options{Style: "notty", WordWrap: 60, ExcerptLength: 100})
	require.NoError(t, err)

	svc := NewListingService(c, NewAuthorResolver(c, time.Minute, logging.Nop()), r, logging.Nop(), 4, 20)

	var out bytes.Buffer
	dst := render.NewWriterContainer(&out)
	res, err := svc.Load(context.Background(), url.Values{}, dst)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, 3, dst.Len())

	text := out.String()
	assert.Contains(t, text, "by ann")
	assert.Contains(t, text, "by user #20")
	assert.Contains(t, text, "world")
	assert.NotContains(t, text, "<b>")

	first := bytes.Index(out.Bytes(), []byte("first"))
	third := bytes.Index(out.Bytes(), []byte("third"))
	assert.Less(t, first, third)

	assert.Equal(t, 1, api.Count(http.MethodGet, "/blog/"))
	assert.Zero(t, api.Count(http.MethodGet, "/blog/search/"))
	assert.Equal(t, 1, api.Count(http.MethodGet, "/user/10/"))
}
