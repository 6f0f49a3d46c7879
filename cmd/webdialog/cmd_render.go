package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/spf13/afero"

	"github.com/goliatone/go-webdialog/internal/prompt"
	"github.com/goliatone/go-webdialog/pkg/orchestrator"
	"github.com/goliatone/go-webdialog/pkg/render"
)

// RenderCmd renders one dialog to stdout or a file.
type RenderCmd struct {
	Dialog      string            `arg:"" optional:"" help:"Dialog name, e.g. attachitem."`
	Param       map[string]string `short:"p" help:"Page parameter as name=value, e.g. -p storeid=abc123."`
	Locale      string            `short:"l" help:"Locale; defaults to i18n.default_locale."`
	Format      string            `short:"f" default:"page" enum:"page,json" help:"Output format (page, json)."`
	Theme       string            `help:"Theme name."`
	Variant     string            `help:"Theme variant."`
	BaseURL     string            `name:"base-url" help:"Client resource prefix, overrides server.base_url."`
	Output      string            `short:"o" help:"Write to file instead of stdout."`
	Force       bool              `help:"Overwrite an existing output file."`
	Highlight   bool              `help:"Syntax highlight stdout output."`
	Style       string            `default:"monokai" help:"Highlight style."`
	Interactive bool              `short:"i" help:"Prompt for the dialog, locale and missing parameters."`
}

// Run executes the render command.
func (c *RenderCmd) Run(cli *CLI, rt *runtime) error {
	a, err := cli.bootstrap(rt, false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	query := url.Values{}
	for name, value := range c.Param {
		query.Set(name, value)
	}

	name, locale := c.Dialog, c.Locale
	if c.Interactive {
		if name, locale, query, err = c.collect(ctx, a, rt.promptDriver(), query); err != nil {
			return err
		}
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("dialog name is required (or use --interactive)")
	}
	if locale != "" {
		locale = a.catalog.Match(locale)
	}

	baseURL := a.cfg.Server.BaseURL
	if c.BaseURL != "" {
		baseURL = c.BaseURL
	}

	result, err := a.orch.Render(ctx, orchestrator.Request{
		Dialog:        name,
		Query:         query,
		Locale:        locale,
		Renderer:      rendererForFormat(c.Format),
		ThemeName:     c.Theme,
		ThemeVariant:  c.Variant,
		RenderOptions: render.RenderOptions{BaseURL: baseURL},
	})
	if err != nil {
		return err
	}

	if c.Output != "" {
		return c.writeFile(ctx, a, rt, result.Output)
	}
	if c.Highlight {
		return quick.Highlight(rt.stdout, string(result.Output), lexerForFormat(c.Format), "terminal256", c.Style)
	}
	_, err = rt.stdout.Write(result.Output)
	return err
}

// collect fills the dialog name, locale and page parameters interactively.
func (c *RenderCmd) collect(ctx context.Context, a *app, driver prompt.Driver, query url.Values) (string, string, url.Values, error) {
	name, err := prompt.Choose(ctx, driver, "Dialog", a.orch.Dialogs().List(), c.Dialog)
	if err != nil {
		return "", "", nil, err
	}
	locale, err := prompt.Choose(ctx, driver, "Locale", a.catalog.Locales(), c.Locale)
	if err != nil {
		return "", "", nil, err
	}
	d, err := a.orch.Dialogs().Get(name)
	if err != nil {
		return "", "", nil, err
	}
	query, err = prompt.Params(ctx, driver, d.Params(), query)
	if err != nil {
		return "", "", nil, err
	}
	return name, locale, query, nil
}

func (c *RenderCmd) writeFile(ctx context.Context, a *app, rt *runtime, output []byte) error {
	exists, err := afero.Exists(rt.fs, c.Output)
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.Output, err)
	}
	if exists && !c.Force {
		if !c.Interactive {
			return fmt.Errorf("%s already exists (use --force to overwrite)", c.Output)
		}
		overwrite, err := rt.promptDriver().Confirm(ctx, prompt.ConfirmConfig{
			Message: fmt.Sprintf("Overwrite %s?", c.Output),
		})
		if err != nil {
			return err
		}
		if !overwrite {
			return prompt.ErrAborted
		}
	}
	if err := afero.WriteFile(rt.fs, c.Output, output, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	a.logger.Info("dialog written", slog.String("path", c.Output), slog.Int("bytes", len(output)))
	return nil
}

func rendererForFormat(format string) string {
	if format == "json" {
		return "fragment"
	}
	return "page"
}

func lexerForFormat(format string) string {
	if format == "json" {
		return "json"
	}
	return "html"
}

