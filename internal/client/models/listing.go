package models

import (
	"net/url"
	"strconv"
	"strings"
)

// Source names which endpoint a listing load reads from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSearch  Source = "search"
	SourceAuthor  Source = "author"
	SourceStarred Source = "starred"
)

// ListOptions are the paging and time-window parameters of the default,
// per-author and starred listings. Zero values are omitted from the query.
type ListOptions struct {
	Page  int
	Size  int
	Since int64 // epoch ms, "s"
	Until int64 // epoch ms, "t"
}

func (o ListOptions) Values() url.Values {
	v := url.Values{}
	if o.Page > 0 {
		v.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		v.Set("size", strconv.Itoa(o.Size))
	}
	if o.Since > 0 {
		v.Set("s", strconv.FormatInt(o.Since, 10))
	}
	if o.Until > 0 {
		v.Set("t", strconv.FormatInt(o.Until, 10))
	}
	return v
}

// ListQuery is the parsed form of a page query string.
type ListQuery struct {
	Source  Source
	Term    string
	UserID  int64
	Options ListOptions
}

// ParseListQuery picks the listing source from query parameters:
// a non-empty "q" selects search, "author" and "star" select the
// per-user listings, anything else the default listing.
// Unparseable numbers are ignored.
func ParseListQuery(q url.Values) ListQuery {
	lq := ListQuery{Source: SourceDefault}
	lq.Options.Page = atoiOrZero(q.Get("page"))
	lq.Options.Size = atoiOrZero(q.Get("size"))
	lq.Options.Since = atoi64OrZero(q.Get("s"))
	lq.Options.Until = atoi64OrZero(q.Get("t"))

	if term := strings.TrimSpace(q.Get("q")); term != "" {
		lq.Source = SourceSearch
		lq.Term = term
		return lq
	}
	if uid := atoi64OrZero(q.Get("author")); uid > 0 {
		lq.Source = SourceAuthor
		lq.UserID = uid
		return lq
	}
	if uid := atoi64OrZero(q.Get("star")); uid > 0 {
		lq.Source = SourceStarred
		lq.UserID = uid
	}
	return lq
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func atoi64OrZero(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
