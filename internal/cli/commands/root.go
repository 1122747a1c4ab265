// Package commands wires the schemadoc command line.
package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemadoc/internal/cli/prompt"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// App carries the side-effecting dependencies of the CLI so tests can swap
// them out.
type App struct {
	// FS backs schema discovery, schema reads, presets and output.
	FS afero.Fs
	// Selector drives --interactive version selection.
	Selector prompt.Selector
	// Logger overrides the logger built from configuration.
	Logger *zap.Logger
}

// DefaultApp returns an App bound to the OS filesystem and terminal.
func DefaultApp() *App {
	return &App{
		FS:       afero.NewOsFs(),
		Selector: prompt.NewSurveySelector(),
	}
}

type globalFlags struct {
	configFile string
	verbose    bool
	noColor    bool
}

// NewRootCommand creates the root command bound to the OS.
func NewRootCommand() *cobra.Command {
	return NewRootCommandFor(DefaultApp())
}

// NewRootCommandFor creates the root command using app's dependencies.
func NewRootCommandFor(app *App) *cobra.Command {
	if app == nil {
		app = DefaultApp()
	}
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "schemadoc",
		Short: "Generate reference documentation from configuration schemas",
		Long: color.CyanString(`schemadoc - configuration schema documentation

schemadoc reads a JSON Schema (or an OpenAPI component schema) that describes
an app configuration file and writes a nested property reference as
reStructuredText, Markdown, HTML or JSON.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if globals.noColor {
				color.NoColor = true
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.configFile, "config", "", "config file (default ./schemadoc.yaml)")
	flags.BoolVarP(&globals.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&globals.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewGenerateCommand(app, globals))
	rootCmd.AddCommand(NewVersionsCommand(app, globals))
	rootCmd.AddCommand(NewFormatsCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the schemadoc version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Fprint(out, "schemadoc version: ")
			valueColor.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			valueColor.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			valueColor.Fprintln(out, BuildDate)

			titleColor.Fprint(out, "Go version: ")
			valueColor.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
