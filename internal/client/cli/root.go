package cli

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hyperblog/internal/buildinfo"
	"github.com/dmitrijs2005/hyperblog/internal/client/config"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by every subcommand. Only
// flags the user actually set override the loaded config.
type globalFlags struct {
	configFile string
	baseURL    string
	env        string
	dbPath     string
	style      string
	timeout    time.Duration
}

// NewRootCmd builds the hyperblog command tree.
func NewRootCmd() *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:           "hyperblog",
		Short:         "Read and search the HyperKit blog, and register an account",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&gf.configFile, "config", "c", "", "JSON config file")
	pf.StringVarP(&gf.baseURL, "addr", "a", "", "blog API base URL, e.g. http://127.0.0.1:8080")
	pf.StringVar(&gf.env, "env", "", "logging environment: local, dev or prod")
	pf.StringVar(&gf.dbPath, "db", "", "path of the local profile database")
	pf.StringVar(&gf.style, "style", "", "render style: auto, dark, light or notty")
	pf.DurationVar(&gf.timeout, "timeout", 0, "per-request timeout")

	root.AddCommand(
		newListCmd(&gf),
		newSearchCmd(&gf),
		newShowCmd(&gf),
		newRegisterCmd(&gf),
		newWhoamiCmd(&gf),
		newLogoutCmd(&gf),
		newShellCmd(&gf),
		newVersionCmd(),
	)
	return root
}

// loadConfig reads the config file and environment, then applies the
// flags that were set on cmd.
func loadConfig(cmd *cobra.Command, gf *globalFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(gf.configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.BaseURL = gf.baseURL
	}
	if flags.Changed("env") {
		cfg.Env = gf.env
	}
	if flags.Changed("db") {
		cfg.DBPath = gf.dbPath
	}
	if flags.Changed("style") {
		cfg.RenderStyle = gf.style
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = gf.timeout
	}
	return cfg, nil
}

// withApp builds an App bound to the command's streams, runs fn and closes
// the App.
func withApp(gf *globalFlags, fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, gf)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := NewApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a, args)
	}
}

func newListCmd(gf *globalFlags) *cobra.Command {
	var (
		page, size   int
		since, until int64
		author, star int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the latest entries",
		Long: `Show the latest entries, newest first.

Examples:
  hyperblog list
  hyperblog list --page 2 --size 10
  hyperblog list --author 7
  hyperblog list --star 7`,
		Args: cobra.NoArgs,
		RunE: withApp(gf, func(ctx context.Context, a *App, _ []string) error {
			q := url.Values{}
			setPositive(q, "page", int64(page))
			setPositive(q, "size", int64(size))
			setPositive(q, "s", since)
			setPositive(q, "t", until)
			setPositive(q, "author", author)
			setPositive(q, "star", star)
			return a.List(ctx, q)
		}),
	}

	f := cmd.Flags()
	f.IntVar(&page, "page", 0, "page number, starting at 0")
	f.IntVar(&size, "size", 0, "entries per page (default from config)")
	f.Int64Var(&since, "since", 0, "only entries updated after this epoch-ms time")
	f.Int64Var(&until, "until", 0, "only entries updated before this epoch-ms time")
	f.Int64Var(&author, "author", 0, "only entries written by this user id")
	f.Int64Var(&star, "star", 0, "entries starred by this user id")
	cmd.MarkFlagsMutuallyExclusive("author", "star")
	return cmd
}

func setPositive(q url.Values, key string, v int64) {
	if v > 0 {
		q.Set(key, strconv.FormatInt(v, 10))
	}
}

func newSearchCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <terms...>",
		Short: "Full-text search over entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(gf, func(ctx context.Context, a *App, args []string) error {
			return a.Search(ctx, strings.Join(args, " "))
		}),
	}
}

func newShowCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entry and its recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(gf, func(ctx context.Context, a *App, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.Show(ctx, id)
		}),
	}
}

func newRegisterCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account with an emailed verification code",
		Args:  cobra.NoArgs,
		RunE: withApp(gf, func(ctx context.Context, a *App, _ []string) error {
			return a.Register(ctx)
		}),
	}
}

func newWhoamiCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the profile registered from this machine",
		Args:  cobra.NoArgs,
		RunE: withApp(gf, func(ctx context.Context, a *App, _ []string) error {
			return a.Whoami(ctx)
		}),
	}
}

func newLogoutCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the profile registered from this machine",
		Args:  cobra.NoArgs,
		RunE: withApp(gf, func(ctx context.Context, a *App, _ []string) error {
			return a.Logout(ctx)
		}),
	}
}

func newShellCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell",
		Args:  cobra.NoArgs,
		RunE: withApp(gf, func(ctx context.Context, a *App, _ []string) error {
			a.Shell(ctx)
			return nil
		}),
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
