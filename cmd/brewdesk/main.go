// Brewdesk: terminal dashboard for the coffee-shop backend.
//
// Sign in with a magic link, then manage inventory and recipes from the
// keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brewdesk/brewdesk/internal/api"
	"github.com/brewdesk/brewdesk/internal/config"
	"github.com/brewdesk/brewdesk/internal/session"
	"github.com/brewdesk/brewdesk/internal/tui"
	"github.com/brewdesk/brewdesk/internal/tui/views/auth"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		magicLink   = flag.String("magic-link", "", "Magic link (or bare token) to sign in with")
		showVersion = flag.Bool("version", false, "Show version and exit")
		debugMode   = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("Brewdesk version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		// Force exit after timeout
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, *configPath, *magicLink, *debugMode); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, magicLink string, debugMode bool) error {
	cfg, cfgPath, err := config.Load(configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	// Logs go to a file; stderr belongs to the TUI.
	var logHandler slog.Handler
	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	slog.Info("Brewdesk starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
		"backend", cfg.Backend.BaseURL,
	)

	sessionPath, err := config.EnsureSessionDir(cfg)
	if err != nil {
		return fmt.Errorf("ensuring session directory: %w", err)
	}

	store, err := session.Open(sessionPath)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("error closing session store", "error", err)
		}
	}()

	client := api.New(cfg.Backend.BaseURL, store, logger)

	// A pasted link or bare token on the command line skips the sign-in
	// screen.
	magicToken := ""
	if magicLink != "" {
		magicToken = auth.ExtractToken(magicLink)
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	slog.Info("starting TUI")

	if err := tui.Run(ctx, client, store, cfg, logger, magicToken); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	slog.Info("Brewdesk shutdown complete")
	return nil
}
