package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemadoc/pkg/sink"
)

// NewFormatsCommand creates the formats command
func NewFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := sink.DefaultRegistry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range registry.List() {
				fmt.Fprintf(tw, "%s\t%s\n", name, registry.MustGet(name).ContentType())
			}
			return tw.Flush()
		},
	}
}
