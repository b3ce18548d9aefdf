package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marocz/scoreboard/internal/api"
	"github.com/marocz/scoreboard/internal/auth"
	"github.com/marocz/scoreboard/internal/config"
	"github.com/marocz/scoreboard/internal/display"
	"github.com/marocz/scoreboard/internal/metrics"
	"github.com/marocz/scoreboard/internal/poll"
	"github.com/marocz/scoreboard/internal/sheets"
	"github.com/marocz/scoreboard/internal/ws"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var uiDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the sheet, rotate pages, and serve the display",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return runServe(ctx, root.configPath, uiDir)
		},
	}
	cmd.Flags().StringVar(&uiDir, "ui-dir", "", "serve renderer static files from this directory (overrides server.ui_dir)")
	return cmd
}

func runServe(ctx context.Context, configPath, uiDir string) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	installLogger(os.Stdout)
	slog.Info("scoreboard starting", "config", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Server.Auth.Check(); err != nil {
		return err
	}
	logLevel.Set(cfg.Log.SlogLevel())
	if uiDir == "" {
		uiDir = cfg.Server.UIDir
	}

	pages := cfg.Display.PageTable()
	slog.Info("config loaded",
		"pages", len(pages),
		"poll_interval", cfg.Display.PollInterval,
		"rotate_interval", cfg.Display.RotateInterval,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
	)

	client, err := sheets.New(cfg.Source)
	if err != nil {
		return err
	}
	session := display.NewSession(pages, poll.New(pages, client), display.Options{
		PollInterval:   cfg.Display.PollInterval,
		RotateInterval: cfg.Display.RotateInterval,
		InitialMode:    cfg.Display.Mode(),
	})

	// Only the log level is applied live; everything else needs a restart.
	go func() {
		if err := config.Watch(ctx, configPath, func(updated *config.Config) {
			logLevel.Set(updated.Log.SlogLevel())
			slog.Info("config hot-reloaded", "log_level", updated.Log.Level)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	authMode, authHeader, authKey := cfg.Server.Auth.Mode, cfg.Server.Auth.EffectiveHeader(), cfg.Server.Auth.Key()
	guard := auth.APIKeyMiddleware(authMode, authHeader, authKey)

	hub := ws.New(session, cfg.Server.BroadcastInterval, auth.APIKeyAuthorizer(authMode, authHeader, authKey))
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(session, guard))
	mux.Handle("/ws/display", hub)
	mux.Handle("/metrics", metrics.Handler(session, hub.Count))
	if uiDir != "" {
		mux.Handle("/", spaHandler(uiDir))
		slog.Info("serving UI static files", "dir", uiDir)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	listenErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- fmt.Errorf("http server: %w", err)
			stop()
		}
	}()

	session.Run(ctx) // blocks until ctx is cancelled

	slog.Info("scoreboard shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx) //nolint:errcheck

	select {
	case err := <-listenErr:
		return err
	default:
		return nil
	}
}

// spaHandler serves files from dir, falling back to index.html for unknown
// paths so client-side routing works.
func spaHandler(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
}
