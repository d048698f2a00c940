package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/models"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
	"golang.org/x/sync/errgroup"
)

// LoadResult summarizes one listing load.
type LoadResult struct {
	Source models.Source
	Count  int
	// Page is nil for search results, which are not paginated.
	Page *models.Page
}

// ListingService fetches entries and renders them into a container.
type ListingService interface {
	// Load reads the listing selected by query (see models.ParseListQuery)
	// and appends one fragment per entry to dst, in the order returned by
	// the server. On a fetch error nothing is appended.
	Load(ctx context.Context, query url.Values, dst render.Container) (LoadResult, error)
	// Show renders a single entry with its recommendations.
	Show(ctx context.Context, id int64) (render.Fragment, error)
}

type listingService struct {
	client      client.Client
	authors     AuthorResolver
	renderer    render.DetailRenderer
	log         logging.Logger
	concurrency int
	pageSize    int
}

// NewListingService builds a ListingService. concurrency bounds parallel
// author lookups; pageSize is used when the query does not set "size".
func NewListingService(c client.Client, authors AuthorResolver, r render.DetailRenderer, log logging.Logger, concurrency, pageSize int) ListingService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &listingService{
		client:      c,
		authors:     authors,
		renderer:    r,
		log:         log,
		concurrency: concurrency,
		pageSize:    pageSize,
	}
}

func (s *listingService) Load(ctx context.Context, query url.Values, dst render.Container) (LoadResult, error) {
	const op = "services.ListingService.Load"
	log := s.log.With(logging.Op(op))

	lq := models.ParseListQuery(query)
	if lq.Options.Size == 0 {
		lq.Options.Size = s.pageSize
	}
	result := LoadResult{Source: lq.Source}

	entries, page, err := s.fetch(ctx, lq)
	if err != nil {
		log.Error(ctx, "failed to load entries", "source", lq.Source, logging.Err(err))
		return result, fmt.Errorf("%s: %w", op, err)
	}
	result.Page = page

	nicks, err := s.resolveAuthors(ctx, entries)
	if err != nil {
		return result, fmt.Errorf("%s: %w", op, err)
	}

	for _, e := range entries {
		frag, err := s.renderer.Render(models.NewEntryView(e, nicks[e.AuthorID]))
		if err != nil {
			return result, fmt.Errorf("%s: %w", op, err)
		}
		if err := dst.Append(frag); err != nil {
			return result, fmt.Errorf("%s: append: %w", op, err)
		}
		result.Count++
	}

	log.Info(ctx, "entries loaded", "source", lq.Source, "count", result.Count)
	return result, nil
}

func (s *listingService) fetch(ctx context.Context, lq models.ListQuery) ([]models.Entry, *models.Page, error) {
	var (
		page *models.Page
		err  error
	)
	switch lq.Source {
	case models.SourceSearch:
		entries, err := s.client.SearchEntries(ctx, lq.Term)
		return entries, nil, err
	case models.SourceAuthor:
		page, err = s.client.ListUserEntries(ctx, lq.UserID, lq.Options)
	case models.SourceStarred:
		page, err = s.client.ListStarredEntries(ctx, lq.UserID, lq.Options)
	default:
		page, err = s.client.ListEntries(ctx, lq.Options)
	}
	if err != nil {
		return nil, nil, err
	}
	return page.Content, page, nil
}

// resolveAuthors looks up every distinct author at most once, with at most
// s.concurrency lookups in flight. A failed lookup degrades to
// PlaceholderAuthor; only context cancellation aborts.
func (s *listingService) resolveAuthors(ctx context.Context, entries []models.Entry) (map[int64]string, error) {
	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AuthorID]; ok {
			continue
		}
		seen[e.AuthorID] = struct{}{}
		ids = append(ids, e.AuthorID)
	}

	nicks := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, uid := range ids {
		g.Go(func() error {
			nick, err := s.authors.Nick(gctx, uid)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warn(gctx, "author lookup failed, using placeholder", "uid", uid, logging.Err(err))
				nick = PlaceholderAuthor(uid)
			}
			nicks[i] = nick
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(ids))
	for i, uid := range ids {
		out[uid] = nicks[i]
	}
	return out, nil
}

func (s *listingService) Show(ctx context.Context, id int64) (render.Fragment, error) {
	const op = "services.ListingService.Show"

	detail, err := s.client.GetEntry(ctx, id)
	if err != nil {
		return render.Fragment{}, fmt.Errorf("%s: %w", op, err)
	}

	nick, err := s.authors.Nick(ctx, detail.AuthorID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return render.Fragment{}, fmt.Errorf("%s: %w", op, ctxErr)
		}
		s.log.Warn(ctx, "author lookup failed, using placeholder", logging.Op(op), "uid", detail.AuthorID, logging.Err(err))
		nick = PlaceholderAuthor(detail.AuthorID)
	}

	frag, err := s.renderer.RenderDetail(models.NewEntryView(detail.Entry, nick), detail.Recommended)
	if err != nil {
		return render.Fragment{}, fmt.Errorf("%s: %w", op, err)
	}
	return frag, nil
}
