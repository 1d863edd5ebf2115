package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/modelsync/pkg/engine"
)

// options holds the command-line flags.
type options struct {
	configPath string
	envFile    string
	output     string
	diff       bool
	summary    bool
	dryRun     bool
	verbose    bool
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: modelsync [flags]\n\nDiscover Groq and Gemini models and write models.json.\n\nFlags:\n")
		flag.PrintDefaults()
	}

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to configuration file (default: "+defaultConfigFile+" if present)")
	flag.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	flag.StringVar(&opts.output, "out", "", "output file (overrides config, default: "+engine.DefaultOutput+")")
	flag.BoolVar(&opts.diff, "diff", false, "log a unified diff against the previous output file")
	flag.BoolVar(&opts.summary, "summary", false, "print a per-provider summary table")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "print the document to stdout instead of writing it")
	flag.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	run(ctx, opts, os.Stdout, os.Stderr, os.Getenv)

	// The job always reports success; failures only show up in the logs.
}

// run performs one sync. Logs go to stdout, or to stderr on a dry run so that
// stdout carries only the document.
func run(ctx context.Context, opts options, stdout, stderr io.Writer, getenv func(string) string) engine.Outcome {
	logOut := stdout
	if opts.dryRun {
		logOut = stderr
	}

	log := newLogger(logOut, opts.verbose)

	if err := loadDotEnv(opts.envFile); err != nil {
		log.WarnContext(ctx, "cannot load env file", "path", opts.envFile, "error", err)
	}

	cfg, err := engine.LoadConfig(resolveConfigPath(opts.configPath))
	if err != nil {
		cfg = engine.DefaultConfig()
		applyFlags(&cfg, opts)

		return engine.New(cfg, log, engine.WithStdout(stdout)).Fallback(ctx, err)
	}

	cfg.ApplyEnv(getenv)
	applyFlags(&cfg, opts)

	out := engine.New(cfg, log, engine.WithStdout(stdout)).Run(ctx)

	if opts.summary {
		_, _ = fmt.Fprint(logOut, renderSummary(out))
	}

	return out
}

// applyFlags copies command-line overrides into cfg.
func applyFlags(cfg *engine.Config, opts options) {
	if opts.output != "" {
		cfg.Output = opts.output
	}
	cfg.Diff = opts.diff
	cfg.DryRun = opts.dryRun
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
