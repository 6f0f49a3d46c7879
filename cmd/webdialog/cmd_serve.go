package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-webdialog/internal/server"
)

// ServeCmd runs the HTTP host.
type ServeCmd struct {
	Addr    string `help:"Listen address, overrides server.addr."`
	BaseURL string `name:"base-url" help:"Client resource prefix, overrides server.base_url."`
}

// Run serves until SIGINT or SIGTERM.
func (c *ServeCmd) Run(cli *CLI, rt *runtime) error {
	a, err := cli.bootstrap(rt, false)
	if err != nil {
		return err
	}

	addr := a.cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}
	baseURL := a.cfg.Server.BaseURL
	if c.BaseURL != "" {
		baseURL = c.BaseURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, a.orch,
		server.WithLogger(a.logger),
		server.WithLocaleMatcher(a.catalog),
		server.WithTranslator(a.catalog),
		server.WithBaseURL(baseURL),
		server.WithVersion(version),
	)
	if err != nil {
		return err
	}

	a.logger.Info("starting webdialog",
		slog.String("version", version),
		slog.String("addr", addr),
		slog.Any("dialogs", a.orch.Dialogs().List()),
		slog.Any("locales", a.catalog.Locales()),
	)
	return srv.Run(ctx, addr, a.cfg.Server.Grace)
}
