package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakedash/lakedash/internal/backend"
	"github.com/lakedash/lakedash/internal/config"
	"github.com/lakedash/lakedash/internal/render"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	cfgFile   string
	urlFlag   string
	tokenFlag string
	verbose   bool
	cfg       *config.Config
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lakedash",
	Short: "Dashboard client for the email warehouse app",
	Long: `lakedash is a terminal and HTML dashboard client for an email-archive
demo backend fronting a Delta-Lake compatible warehouse.

It shows who you are signed in as, whether the warehouse is reachable,
and a filtered preview of the synced email table — interactively
(lakedash dash), as one-shot commands (whoami, ping, emails), or as a
static HTML snapshot (lakedash report).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "update" {
			return nil
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Ensure home directory exists on first use
		if err := cfg.EnsureHomeDir(); err != nil {
			return fmt.Errorf("create data directory %s: %w", cfg.HomeDir, err)
		}

		if urlFlag != "" {
			cfg.Backend.URL = urlFlag
		}
		if tokenFlag != "" {
			cfg.Backend.Token = tokenFlag
		}

		render.SetLocale(cfg.UI.Locale)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newClient builds the backend client from config and flag overrides.
func newClient() (*backend.Client, error) {
	if cfg.Backend.URL == "" {
		return nil, fmt.Errorf(`no backend configured

Options:
  1. Run 'lakedash setup' to write %s
  2. Pass --url https://myapp.example.com
  3. For local development: 'lakedash demo' then --url http://%s`,
			cfg.ConfigPath(), cfg.Demo.Listen)
	}

	return backend.New(backend.Config{
		URL:           cfg.Backend.URL,
		Token:         cfg.Backend.Token,
		AllowInsecure: cfg.Backend.AllowInsecure,
		Timeout:       cfg.Backend.Timeout(),
		UserAgent:     "lakedash/" + Version,
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.lakedash/config.toml)")
	rootCmd.PersistentFlags().StringVar(&urlFlag, "url", "", "backend URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&tokenFlag, "token", "", "access token (overrides config and LAKEDASH_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
