package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/client/services"
)

// List loads a listing selected by query ("q", "author", "star", "page",
// "size", "s", "t") and prints it.
func (a *App) List(ctx context.Context, query url.Values) error {
	container := render.NewWriterContainer(a.out)

	res, err := a.listing.Load(ctx, query, container)
	if err != nil {
		a.println(render.ErrorState(describeError(err)))
		return shown(err)
	}

	if container.Len() == 0 {
		a.println(render.Alert("No entries found"))
		return nil
	}
	if p := res.Page; p != nil && p.TotalPages > 1 {
		a.println()
		a.println(fmt.Sprintf("page %d of %d (%d entries)", p.Number+1, p.TotalPages, p.TotalElements))
	}
	return nil
}

func (a *App) Search(ctx context.Context, term string) error {
	return a.List(ctx, url.Values{"q": {term}})
}

func (a *App) Show(ctx context.Context, id int64) error {
	frag, err := a.listing.Show(ctx, id)
	if err != nil {
		a.println(render.ErrorState(describeError(err)))
		return shown(err)
	}
	a.println(frag.Text)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	p, err := a.sessions.Current(ctx)
	if err != nil {
		return err
	}
	if p == nil {
		a.println("Not registered on this machine")
		return nil
	}
	a.println(fmt.Sprintf("%s <%s> uid=%d", p.Nick, p.Email, p.UID))
	a.println(render.Link(a.config.BaseURL + services.ProfilePath(p.UID)))

	history, err := a.sessions.History(ctx)
	if err != nil {
		return err
	}
	for _, h := range history {
		if h.UID == p.UID {
			continue
		}
		a.println(fmt.Sprintf("  also registered: %s <%s> uid=%d", h.Nick, h.Email, h.UID))
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.sessions.Forget(ctx); err != nil {
		return err
	}
	a.println("Forgot the current profile")
	return nil
}

// shownError marks an error whose message the user has already seen.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func shown(err error) error { return &shownError{err: err} }

// AlreadyShown reports whether a command printed err itself, so the caller
// only needs to set the exit status.
func AlreadyShown(err error) bool {
	var se *shownError
	return errors.As(err, &se)
}

// describeError turns a listing failure into a one-line message.
func describeError(err error) string {
	switch {
	case isTimeout(err):
		return "The server took too long to answer"
	case client.IsNetworkError(err):
		return "Cannot reach the blog server"
	case errors.Is(err, client.ErrUnavailable):
		return "The blog server is unavailable, try again later"
	case errors.Is(err, client.ErrNotFound):
		return "Not found"
	case errors.Is(err, client.ErrMalformedResponse):
		return "The server sent an unexpected response"
	default:
		return "Failed to load entries"
	}
}

// isTimeout matches both an expired caller context and the HTTP client's
// own timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}
