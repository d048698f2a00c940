package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/hyperblog/internal/client/client"
	"github.com/dmitrijs2005/hyperblog/internal/client/config"
	"github.com/dmitrijs2005/hyperblog/internal/client/render"
	"github.com/dmitrijs2005/hyperblog/internal/client/services"
	"github.com/dmitrijs2005/hyperblog/internal/filex"
	"github.com/dmitrijs2005/hyperblog/internal/logging"
	"github.com/dmitrijs2005/hyperblog/internal/netx"
)

type App struct {
	config    *config.Config
	log       logging.Logger
	client    client.Client
	db        *sql.DB
	listing   services.ListingService
	registrar services.Registrar
	sessions  services.SessionService
	reader    *bufio.Reader
	out       io.Writer
}

// NewApp wires the API client, the local profile database and the services.
// User-facing output goes to out, logs to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := logging.New(c.Env, logOut)

	apiClient, err := client.NewHTTPClient(c.BaseURL, netx.NewHTTPClient(c.RequestTimeout), log)
	if err != nil {
		return nil, err
	}

	dbPath, err := filex.ExpandHome(c.DBPath)
	if err != nil {
		return nil, err
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", dbPath, logging.Err(err))
		return nil, err
	}

	renderer, err := render.NewTermRenderer(render.Options{
		Style:         c.RenderStyle,
		WordWrap:      c.WordWrap,
		ExcerptLength: c.ExcerptLength,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	authors := services.NewAuthorResolver(apiClient, c.AuthorCacheTTL, log)

	return &App{
		config:    c,
		log:       log,
		client:    apiClient,
		db:        db,
		listing:   services.NewListingService(apiClient, authors, renderer, log, c.LookupConcurrency, c.PageSize),
		registrar: services.NewRegistrar(apiClient, log),
		sessions:  services.NewSessionService(db),
		reader:    bufio.NewReader(in),
		out:       out,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// status is shown in the REPL prompt.
func (a *App) status(ctx context.Context) string {
	p, err := a.sessions.Current(ctx)
	if err != nil || p == nil {
		return "guest"
	}
	return p.Nick
}

// Shell runs the interactive loop until the user exits or the input is
// exhausted. Commands that prompt read from the same input.
func (a *App) Shell(ctx context.Context) {
	a.println("hyperblog shell (type 'help' for commands)")
	statusFn := func() string { return a.status(ctx) }
	runREPL(ctx, a, statusFn, bufio.NewScanner(&lineReader{r: a.reader}))
}

var _ execIface = (*App)(nil)
