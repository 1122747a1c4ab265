package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemadoc/internal/cli/config"
	"github.com/goliatone/go-schemadoc/internal/version"
)

var errNoVersions = errors.New("no schema versions found")

// NewVersionsCommand creates the versions command
func NewVersionsCommand(app *App, globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List schema versions available in the schema directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := v.BindPFlag("schema.dir", cmd.Flags().Lookup("schema-dir")); err != nil {
				return err
			}
			if err := v.BindPFlag("schema.pattern", cmd.Flags().Lookup("pattern")); err != nil {
				return err
			}
			cfg, err := loadConfig(app, v, globals)
			if err != nil {
				return err
			}

			versions, err := version.Discover(app.FS, cfg.Schema.Dir, cfg.Schema.Pattern)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				return fmt.Errorf("%w in %s matching %s", errNoVersions, cfg.Schema.Dir, cfg.Schema.Pattern)
			}

			out := cmd.OutOrStdout()
			for _, name := range versions {
				fmt.Fprintln(out, name)
			}
			color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "%d versions in %s\n", len(versions), cfg.Schema.Dir)
			return nil
		},
	}

	cmd.Flags().String("schema-dir", config.DefaultSchemaDir, "directory holding versioned schema files")
	cmd.Flags().String("pattern", version.DefaultPattern, "schema file name pattern")
	return cmd
}
