package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/goliatone/go-webdialog/internal/config"
	"github.com/goliatone/go-webdialog/pkg/i18n"
	"github.com/goliatone/go-webdialog/pkg/orchestrator"
	"github.com/goliatone/go-webdialog/pkg/render"
	"github.com/goliatone/go-webdialog/pkg/renderers/fragment"
	"github.com/goliatone/go-webdialog/pkg/renderers/page"
	"github.com/goliatone/go-webdialog/pkg/theming"
)

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	catalog *i18n.Catalog
	orch    *orchestrator.Orchestrator
}

func (c *CLI) loadConfig() (config.Config, error) {
	options := []config.Option{config.WithEnvFile(c.EnvFile)}
	if c.Config != "" {
		options = append(options, config.WithConfigFile(c.Config))
	}
	return config.Load(options...)
}

// bootstrap loads config and builds the catalog, theme selector, renderers
// and orchestrator. Directories named in the config are read through rt.fs.
func (c *CLI) bootstrap(rt *runtime, contractCheck bool) (*app, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	logger := newLogger(rt.stderr, level, cfg.Log.Format)

	catalog, err := i18n.Default(cfg.I18n.DefaultLocale)
	if err != nil {
		return nil, err
	}
	if cfg.I18n.Dir != "" {
		if err := catalog.LoadFS(dirFS(rt.fs, cfg.I18n.Dir)); err != nil {
			return nil, err
		}
		logger.Debug("loaded catalogs", slog.String("dir", cfg.I18n.Dir), slog.Any("locales", catalog.Locales()))
	}

	pageOptions := []page.Option{page.WithTranslator(catalog)}
	if cfg.Templates.Dir != "" {
		pageOptions = append(pageOptions, page.WithTemplatesFS(dirFS(rt.fs, cfg.Templates.Dir)))
	}
	if contractCheck {
		pageOptions = append(pageOptions, page.WithContractCheck())
	}
	pageRenderer, err := page.New(pageOptions...)
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(pageRenderer)
	registry.MustRegister(fragment.New(fragment.WithTranslator(catalog)))

	options := []orchestrator.Option{
		orchestrator.WithTranslator(catalog),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultLocale(cfg.I18n.DefaultLocale),
	}
	if cfg.Theme.Dir != "" {
		selector, err := loadThemes(rt.fs, cfg.Theme)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded themes", slog.String("dir", cfg.Theme.Dir), slog.Any("themes", selector.Themes()))
		options = append(options, orchestrator.WithThemeSelector(selector))
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		orch:    orchestrator.New(options...),
	}, nil
}

func loadThemes(fsys afero.Fs, cfg config.ThemeConfig) (*theming.ManifestSelector, error) {
	manifests, err := theming.LoadManifests(dirFS(fsys, cfg.Dir))
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, fmt.Errorf("theme dir %s: no manifests found", cfg.Dir)
	}
	defaultTheme := cfg.Name
	if defaultTheme == "" {
		defaultTheme = manifests[0].Name
	}
	return theming.NewManifestSelector(defaultTheme, cfg.Variant, manifests...)
}

func dirFS(fsys afero.Fs, dir string) afero.IOFS {
	return afero.NewIOFS(afero.NewBasePathFs(fsys, dir))
}
