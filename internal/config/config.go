// Package config loads the webdialog host configuration from an optional
// YAML file, a .env file and WEBDIALOG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName   = "webdialog"
	envPrefix = "WEBDIALOG"
	// EnvConfigFile names an explicit config file, like --config.
	EnvConfigFile = "WEBDIALOG_CONFIG"
)

// Config holds application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP host settings.
type ServerConfig struct {
	Addr  string        `mapstructure:"addr" validate:"required,hostname_port"`
	Grace time.Duration `mapstructure:"grace" validate:"gte=0"`
	// BaseURL prefixes the client resource paths, e.g. "/webaccess".
	BaseURL string `mapstructure:"base_url"`
}

// I18nConfig selects message catalogs.
type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale" validate:"required,bcp47_language_tag"`
	// Dir holds extra <locale>.yaml catalogs merged over the built-in ones.
	Dir string `mapstructure:"dir" validate:"omitempty,dir"`
}

// ThemeConfig selects the go-theme manifests and the default theme.
type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
	Dir     string `mapstructure:"dir" validate:"omitempty,dir"`
}

// TemplatesConfig overrides the page layout bundle.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir" validate:"omitempty,dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// ValidationError reports the first invalid field.
type ValidationError struct {
	Field   string
	Tag     string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: invalid %s: %s", e.Field, e.Message)
}

// Option customises Load.
type Option func(*loadOptions)

type loadOptions struct {
	file        string
	searchPaths []string
	envFile     string
}

// WithConfigFile reads an explicit file. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.file = strings.TrimSpace(path)
	}
}

// WithSearchPaths replaces the directories searched for config.yaml.
func WithSearchPaths(dirs ...string) Option {
	return func(o *loadOptions) {
		o.searchPaths = dirs
	}
}

// WithEnvFile reads variables from a dotenv file before consulting the
// environment. Existing variables win. Empty disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = strings.TrimSpace(path)
	}
}

// DefaultConfigDir is the per-user config directory.
func DefaultConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:  ":8080",
			Grace: 5 * time.Second,
		},
		I18n: I18nConfig{
			DefaultLocale: "en",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from file and env. Env var overrides use prefix
// WEBDIALOG_, with dots replaced by underscores (WEBDIALOG_SERVER_ADDR).
func Load(options ...Option) (Config, error) {
	opts := loadOptions{
		file:        os.Getenv(EnvConfigFile),
		searchPaths: []string{DefaultConfigDir(), "."},
		envFile:     ".env",
	}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load env file %s: %w", opts.envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetConfigType("yaml")
	if opts.file != "" {
		v.SetConfigFile(opts.file)
	} else {
		v.SetConfigName("config")
		for _, dir := range opts.searchPaths {
			if strings.TrimSpace(dir) != "" {
				v.AddConfigPath(dir)
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal config: %w", err)
	}
	if err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.grace", d.Server.Grace)
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("i18n.default_locale", d.I18n.DefaultLocale)
	v.SetDefault("i18n.dir", d.I18n.Dir)
	v.SetDefault("theme.name", d.Theme.Name)
	v.SetDefault("theme.variant", d.Theme.Variant)
	v.SetDefault("theme.dir", d.Theme.Dir)
	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg with the struct tags above.
func Validate(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			e := validationErrors[0]
			return ValidationError{
				Field:   e.Namespace(),
				Tag:     e.Tag(),
				Value:   e.Value(),
				Message: fmt.Sprintf("validation failed on tag '%s' with value '%v'", e.Tag(), e.Value()),
			}
		}
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}
