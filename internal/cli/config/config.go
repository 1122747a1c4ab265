// Package config loads schemadoc settings from schemadoc.yaml, the
// environment and command flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/goliatone/go-schemadoc/internal/version"
)

// EnvPrefix prefixes every environment variable read by schemadoc.
const EnvPrefix = "SCHEMADOC"

// LegacyVersionEnv is the variable the docs build has always exported.
const LegacyVersionEnv = "DOCS_VERSION"

// Config represents the schemadoc configuration.
type Config struct {
	Version    string           `mapstructure:"version"`
	Schema     SchemaConfig     `mapstructure:"schema"`
	Output     OutputConfig     `mapstructure:"output"`
	Document   DocumentConfig   `mapstructure:"document"`
	Visibility VisibilityConfig `mapstructure:"visibility"`
	Log        LogConfig        `mapstructure:"log"`
}

// SchemaConfig locates the schema to document.
type SchemaConfig struct {
	Dir       string `mapstructure:"dir"`
	Pattern   string `mapstructure:"pattern"`
	File      string `mapstructure:"file"`
	Component string `mapstructure:"component"`
	AllowHTTP bool   `mapstructure:"allow_http"`
}

// OutputConfig selects the sink and destination.
type OutputConfig struct {
	Path      string `mapstructure:"path"`
	Format    string `mapstructure:"format"`
	Indent    int    `mapstructure:"indent"`
	Templates string `mapstructure:"templates"`
}

// DocumentConfig overrides the document chrome.
type DocumentConfig struct {
	Title    string `mapstructure:"title"`
	Anchor   string `mapstructure:"anchor"`
	Preamble string `mapstructure:"preamble"`
	Preset   string `mapstructure:"preset"`
	NoChrome bool   `mapstructure:"no_chrome"`
}

// VisibilityConfig holds rule-based filtering.
type VisibilityConfig struct {
	Hide     []string `mapstructure:"hide"`
	Only     []string `mapstructure:"only"`
	MaxDepth int      `mapstructure:"max_depth"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults.
const (
	DefaultSchemaDir = "schemas"
	DefaultFormat    = "rst"
	DefaultIndent    = 4
	DefaultMaxDepth  = 64
	DefaultLogLevel  = "info"
)

// New returns a viper instance with schemadoc defaults and environment
// bindings. Commands bind their flags onto it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("schema.dir", DefaultSchemaDir)
	v.SetDefault("schema.pattern", version.DefaultPattern)
	v.SetDefault("schema.allow_http", false)
	v.SetDefault("output.path", "-")
	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.indent", DefaultIndent)
	v.SetDefault("visibility.max_depth", DefaultMaxDepth)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Explicit env names bypass the prefix, so the prefixed one is listed too.
	_ = v.BindEnv("version", EnvPrefix+"_VERSION", LegacyVersionEnv)

	return v
}

// LoadOptions control where the configuration file is read from.
type LoadOptions struct {
	// File is an explicit config file; empty searches for schemadoc.yaml in Dir.
	File string
	// Dir is searched for schemadoc.yaml when File is empty. Defaults to ".".
	Dir string
	// FS backs file reads. Defaults to the OS filesystem.
	FS afero.Fs
}

// Load reads the config file (if any) into v and decodes the result.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	if v == nil {
		v = New()
	}
	if opts.FS != nil {
		v.SetFs(opts.FS)
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName("schemadoc")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be repaired with defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output.Format) == "" {
		return errors.New("config: output.format must not be empty")
	}
	if c.Output.Indent < 1 {
		return fmt.Errorf("config: output.indent must be >= 1, got %d", c.Output.Indent)
	}
	if c.Visibility.MaxDepth < 0 {
		return fmt.Errorf("config: visibility.max_depth must be >= 0, got %d", c.Visibility.MaxDepth)
	}
	if c.Schema.File == "" && !strings.Contains(c.Schema.Pattern, version.Placeholder) {
		return fmt.Errorf("config: schema.pattern %q must contain %s", c.Schema.Pattern, version.Placeholder)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}

// SchemaPath resolves the schema file to document. An explicit schema.file
// wins; otherwise the normalised version is expanded into the pattern.
func (c *Config) SchemaPath() (path string, normalized string, err error) {
	if c.Schema.File != "" {
		return c.Schema.File, c.normalizedVersionOrEmpty(), nil
	}
	normalized, err = version.Normalize(c.Version)
	if err != nil {
		return "", "", err
	}
	name, err := version.SchemaFile(c.Schema.Pattern, normalized)
	if err != nil {
		return "", "", err
	}
	if c.Schema.Dir == "" {
		return name, normalized, nil
	}
	return filepath.Join(c.Schema.Dir, name), normalized, nil
}

func (c *Config) normalizedVersionOrEmpty() string {
	v, err := version.Normalize(c.Version)
	if err != nil {
		return ""
	}
	return v
}
