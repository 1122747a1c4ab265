package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemadoc/internal/cli/config"
	"github.com/goliatone/go-schemadoc/internal/cli/prompt"
	"github.com/goliatone/go-schemadoc/internal/output"
	internalLoader "github.com/goliatone/go-schemadoc/internal/schema/loader"
	"github.com/goliatone/go-schemadoc/internal/version"
	"github.com/goliatone/go-schemadoc/pkg/openapi"
	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/schema"
	"github.com/goliatone/go-schemadoc/pkg/sink"
	"github.com/goliatone/go-schemadoc/pkg/visibility"
	"github.com/goliatone/go-schemadoc/pkg/visibility/expr"
)

const httpTimeout = 30 * time.Second

// flagBindings maps generate flags onto config keys.
var flagBindings = map[string]string{
	"version":    "version",
	"schema-dir": "schema.dir",
	"pattern":    "schema.pattern",
	"schema":     "schema.file",
	"component":  "schema.component",
	"allow-http": "schema.allow_http",
	"format":     "output.format",
	"output":     "output.path",
	"indent":     "output.indent",
	"templates":  "output.templates",
	"title":      "document.title",
	"anchor":     "document.anchor",
	"preset":     "document.preset",
	"no-chrome":  "document.no_chrome",
	"max-depth":  "visibility.max_depth",
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand(app *App, globals *globalFlags) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "generate [output]",
		Short: "Render schema documentation",
		Long: `Render the property reference for a versioned configuration schema.

The schema file is resolved from --schema, or from the schema directory and
file pattern using --version (SCHEMADOC_VERSION or DOCS_VERSION). The output
path defaults to stdout; "-" also selects stdout.`,
		Example: `  schemadoc generate --version v49.0.0 docs/versions/v49.0.0/guides/configuration.rst
  DOCS_VERSION=unversioned schemadoc generate -f markdown -o docs/exp.md
  schemadoc generate --schema openapi.yaml --component AppConfig --hide 'meta.deprecated == true'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			for flag, key := range flagBindings {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
					return fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
			cfg, err := loadConfig(app, v, globals)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Output.Path = args[0]
			}
			if cmd.Flags().Changed("hide") {
				cfg.Visibility.Hide, _ = cmd.Flags().GetStringArray("hide")
			}
			if cmd.Flags().Changed("only") {
				cfg.Visibility.Only, _ = cmd.Flags().GetStringArray("only")
			}

			logger, err := app.logger(cfg.Log.Level, globals.verbose, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			return runGenerate(cmd, app, cfg, interactive, logger)
		},
	}

	flags := cmd.Flags()
	flags.String("version", "", "schema version (v49.0.0, 49.0.0 or unversioned)")
	flags.String("schema-dir", config.DefaultSchemaDir, "directory holding versioned schema files")
	flags.String("pattern", version.DefaultPattern, "schema file name pattern")
	flags.StringP("schema", "s", "", "schema file or URL; overrides --version")
	flags.String("component", "", "document an OpenAPI components.schemas entry")
	flags.Bool("allow-http", false, "allow http(s) schema locations")
	flags.StringP("format", "f", config.DefaultFormat, "output format (see 'schemadoc formats')")
	flags.StringP("output", "o", "-", "output file, - for stdout")
	flags.Int("indent", config.DefaultIndent, "rst indentation width per level")
	flags.String("templates", "", "directory overriding the markdown/html templates")
	flags.String("title", "", "page title")
	flags.String("anchor", "", "rst reference label")
	flags.String("preset", "", "JSON preset patching titles and node text")
	flags.Bool("no-chrome", false, "write property entries only")
	flags.Int("max-depth", config.DefaultMaxDepth, "maximum nesting depth")
	flags.StringArray("hide", nil, "hide properties matching a rule (repeatable)")
	flags.StringArray("only", nil, "keep only properties matching a rule (repeatable)")
	flags.BoolVarP(&interactive, "interactive", "i", false, "pick the schema version interactively")

	return cmd
}

func loadConfig(app *App, v *viper.Viper, globals *globalFlags) (*config.Config, error) {
	return config.Load(v, config.LoadOptions{File: globals.configFile, FS: app.FS})
}

func runGenerate(cmd *cobra.Command, app *App, cfg *config.Config, interactive bool, logger *zap.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if interactive && cfg.Schema.File == "" && strings.TrimSpace(cfg.Version) == "" {
		versions, err := version.Discover(app.FS, cfg.Schema.Dir, cfg.Schema.Pattern)
		if err != nil {
			return err
		}
		chosen, err := prompt.ChooseVersion(ctx, app.Selector, versions)
		if err != nil {
			return err
		}
		cfg.Version = chosen
	}

	location, normalized, err := cfg.SchemaPath()
	if err != nil {
		return err
	}
	logger.Debug("schema resolved", zap.String("source", location), zap.String("version", normalized))

	predicate, err := buildPredicate(cfg.Visibility)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg.Output)
	if err != nil {
		return err
	}
	if !registry.Has(cfg.Output.Format) {
		return fmt.Errorf("unknown format %q (available: %s)", cfg.Output.Format, strings.Join(registry.List(), ", "))
	}

	opts := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithPredicate(predicate),
		orchestrator.WithMaxDepth(cfg.Visibility.MaxDepth),
		orchestrator.WithLogger(logger),
	}
	if cfg.Schema.AllowHTTP {
		opts = append(opts, orchestrator.WithLoader(internalLoader.New(
			schema.NewLoaderOptions(schema.WithHTTPFallback(httpTimeout)),
		)))
	}
	if cfg.Schema.Component != "" {
		opts = append(opts, orchestrator.WithDecoder(openapi.NewDecoder(cfg.Schema.Component)))
	}
	if cfg.Document.Preset != "" {
		data, err := afero.ReadFile(app.FS, cfg.Document.Preset)
		if err != nil {
			return fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(data)
		if err != nil {
			return err
		}
		opts = append(opts, orchestrator.WithTransformer(preset))
	}

	req := orchestrator.Request{
		Sink:     cfg.Output.Format,
		Title:    cfg.Document.Title,
		Anchor:   cfg.Document.Anchor,
		Preamble: cfg.Document.Preamble,
		Version:  normalized,
		NoChrome: cfg.Document.NoChrome,
	}
	if err := resolveSource(app, cfg.Schema.AllowHTTP, location, &req); err != nil {
		return err
	}

	data, err := orchestrator.New(opts...).Generate(ctx, req)
	if err != nil {
		return err
	}

	writer := output.NewWriter(app.FS, cmd.OutOrStdout(), logger)
	written, err := writer.Write(cfg.Output.Path, data)
	if err != nil {
		return err
	}
	if cfg.Output.Path == output.Stdout {
		return nil
	}

	status := cmd.ErrOrStderr()
	if written {
		color.New(color.FgGreen).Fprintf(status, "✓ Wrote %s (%s)\n", cfg.Output.Path, cfg.Output.Format)
	} else {
		color.New(color.FgYellow).Fprintf(status, "• %s is up to date\n", cfg.Output.Path)
	}
	return nil
}

// resolveSource reads local schemas through app.FS and leaves URLs to the
// orchestrator loader.
func resolveSource(app *App, allowHTTP bool, location string, req *orchestrator.Request) error {
	src, err := schema.ParseSource(location)
	if err != nil {
		return err
	}
	if src.Kind() == schema.SourceKindURL {
		if !allowHTTP {
			return fmt.Errorf("schema %s is remote; pass --allow-http to fetch it", location)
		}
		req.Source = src
		return nil
	}

	raw, err := afero.ReadFile(app.FS, location)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		return err
	}
	req.Document = &doc
	return nil
}

func buildPredicate(cfg config.VisibilityConfig) (visibility.Predicate, error) {
	predicates := []visibility.Predicate{visibility.Default()}
	if len(cfg.Hide) > 0 {
		hide, err := expr.Hide(cfg.Hide...)
		if err != nil {
			return nil, fmt.Errorf("--hide: %w", err)
		}
		predicates = append(predicates, hide)
	}
	if len(cfg.Only) > 0 {
		only, err := expr.Show(cfg.Only...)
		if err != nil {
			return nil, fmt.Errorf("--only: %w", err)
		}
		predicates = append(predicates, only)
	}
	return visibility.All(predicates...), nil
}

func buildRegistry(cfg config.OutputConfig) (*sink.Registry, error) {
	var templateOpts []sink.TemplateOption
	if cfg.Templates != "" {
		templateOpts = append(templateOpts, sink.WithTemplateDir(cfg.Templates))
	}

	registry := sink.NewRegistry()
	registry.MustRegister(sink.NewRST(sink.WithIndentWidth(cfg.Indent)))
	registry.MustRegister(sink.NewJSON())

	markdown, err := sink.NewMarkdown(templateOpts...)
	if err != nil {
		return nil, err
	}
	html, err := sink.NewHTML(templateOpts...)
	if err != nil {
		return nil, err
	}
	for _, s := range []sink.Sink{markdown, html} {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
