// storybrowser is a terminal browser for Hacker News story listings.
//
// The listing's identifiers are fetched once and split into pages of ten.
// Stories for the selected page are fetched concurrently; a page shows only
// once every story on it has arrived.
//
// Two modes of operation:
//
// TUI mode (default): full-screen Bubble Tea interface with prev/next/jump
// navigation.
//
// Plain mode (--plain): loads a single page and prints ranked titles to
// stdout, one per line. Useful for scripts and smoke tests.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/abelbrown/storybrowser/internal/browser"
	"github.com/abelbrown/storybrowser/internal/config"
	"github.com/abelbrown/storybrowser/internal/hn"
	"github.com/abelbrown/storybrowser/internal/httpclient"
	"github.com/abelbrown/storybrowser/internal/loader"
	"github.com/abelbrown/storybrowser/internal/logging"
	"github.com/abelbrown/storybrowser/internal/metrics"
	"github.com/abelbrown/storybrowser/internal/otel"
	"github.com/abelbrown/storybrowser/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("storybrowser", pflag.ContinueOnError)
	flagSet.String("config", config.ConfigPath(), "path to JSON config file")
	flagSet.String("base-url", "", "Hacker News API root (default from config)")
	flagSet.String("listing", "", "story list: top, new, best, ask, show, job")
	flagSet.Int("page", 1, "page to open, 1-based; clamped to the last page")
	flagSet.Bool("plain", false, "print the page's titles to stdout instead of starting the TUI")
	flagSet.Duration("timeout", 0, "per-request HTTP timeout (default from config)")
	flagSet.Int("concurrency", -1, "max concurrent item requests per page, 0 = unlimited (default from config)")
	flagSet.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flagSet.String("log-file", "", "JSONL event log (default ~/.storybrowser/logs/events-<date>.jsonl)")
	flagSet.String("log-level", "warn", "stderr diagnostics level: debug, info, warn, error")
	flagSet.BoolP("help", "h", false, "show help")
	return flagSet
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flagSet := newFlagSet()
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	configPath, _ := flagSet.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, flagSet); err != nil {
		return err
	}

	page, _ := flagSet.GetInt("page")
	plain, _ := flagSet.GetBool("plain")
	level, _ := flagSet.GetString("log-level")
	diag := logging.New(stderr, level)
	diag.Debug().
		Str("base_url", cfg.BaseURL).
		Str("listing", cfg.Listing).
		Dur("timeout", cfg.Timeout.Std()).
		Int("concurrency", cfg.Concurrency).
		Msg("config loaded")

	logger, closeLog := openLogger(cfg.LogFile, diag)
	defer closeLog()
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	logger.SetRingBuffer(ring)

	client := hn.NewClient(
		hn.WithBaseURL(cfg.BaseURL),
		hn.WithListing(cfg.Listing),
		hn.WithHTTPClient(httpclient.New(cfg.Timeout.Std())),
	)

	logger.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindStartup,
		Comp:  "main",
		Extra: map[string]any{
			"base_url":    cfg.BaseURL,
			"listing":     cfg.Listing,
			"endpoint":    client.Listing(),
			"concurrency": cfg.Concurrency,
			"plain":       plain,
		},
	})
	defer logger.Info(otel.KindShutdown, "main", "exit")

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, logger, logging.WithComponent(diag, "metrics"))
		defer shutdown()
	}

	driver := browser.NewDriver(client, loader.New(client, cfg.Concurrency), logger)

	if plain {
		return runPlain(ctx, driver, page-1, stdout)
	}

	app := ui.NewAppWithConfig(ui.AppConfig{
		Context:     ctx,
		Runner:      driver,
		InitialPage: page - 1,
		Listing:     cfg.Listing,
		Obs:         ui.ObsConfig{Logger: logger, Ring: ring},
	})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error(otel.KindError, "main", err)
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// applyFlags overrides cfg with flags given on the command line.
func applyFlags(cfg *config.Config, flagSet *pflag.FlagSet) error {
	if flagSet.Changed("base-url") {
		cfg.BaseURL, _ = flagSet.GetString("base-url")
	}
	if flagSet.Changed("listing") {
		cfg.Listing, _ = flagSet.GetString("listing")
	}
	if flagSet.Changed("timeout") {
		d, _ := flagSet.GetDuration("timeout")
		cfg.Timeout = config.Duration(d)
	}
	if flagSet.Changed("concurrency") {
		cfg.Concurrency, _ = flagSet.GetInt("concurrency")
	}
	if flagSet.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flagSet.GetString("metrics-addr")
	}
	if flagSet.Changed("log-file") {
		cfg.LogFile, _ = flagSet.GetString("log-file")
	}
	return cfg.Validate()
}

// openLogger opens the JSONL event log. On failure it warns and falls back
// to a discarding logger so the browser still runs.
func openLogger(path string, diag zerolog.Logger) (*otel.Logger, func()) {
	if path == "" {
		path = config.DefaultLogFile(time.Now())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		diag.Warn().Err(err).Msg("event log disabled")
		l := otel.NewNullLogger()
		return l, l.Close
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		diag.Warn().Err(err).Str("path", path).Msg("event log disabled")
		l := otel.NewNullLogger()
		return l, l.Close
	}
	diag.Debug().Str("path", path).Msg("event log opened")

	l := otel.NewLogger(f)
	return l, func() {
		l.Close()
		f.Close()
	}
}

// serveMetrics starts the Prometheus endpoint and returns its shutdown func.
// Listen errors go to the event log; diag only sees the startup line since
// stderr is hidden behind the TUI.
func serveMetrics(addr string, logger *otel.Logger, diag zerolog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	diag.Info().Str("addr", addr).Msg("serving /metrics")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(otel.KindError, "metrics", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// runPlain drives one page load to completion and prints "rank. title" lines.
func runPlain(ctx context.Context, driver *browser.Driver, initialPage int, w io.Writer) error {
	s := driver.Drive(ctx, browser.New(initialPage), browser.Start{})
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.LastErr != nil {
		return fmt.Errorf("failed to load stories: %w", s.LastErr)
	}
	if s.PageCount() == 0 {
		fmt.Fprintln(w, "no stories")
		return nil
	}

	firstRank := s.ItemsPage*s.PageSize + 1
	for i, item := range s.Items {
		fmt.Fprintf(w, "%d. %s\n", firstRank+i, item.Title)
	}
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `storybrowser - browse Hacker News stories page by page.

Usage:
  storybrowser [flags]

Examples:
  # Browse top stories
  storybrowser

  # Open page 3 of Ask HN
  storybrowser --listing ask --page 3

  # Print the first page of new stories and exit
  storybrowser --plain --listing new

Keys:
%s
Flags:
`, ui.KeyHelp())
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
	fmt.Fprintf(w, "\nEnvironment:\n%s\n", config.Usage())
}
