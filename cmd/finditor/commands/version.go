package commands

import (
	"fmt"

	"github.com/sonemaro/finditor/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand(opts *Options) *cobra.Command {
	var showFull bool
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !showFull && (format == "" || format == "text") {
				fmt.Fprintln(opts.Stdout, version.Short())
				return nil
			}

			out, err := version.Render(format)
			if err != nil {
				return err
			}
			fmt.Fprint(opts.Stdout, out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showFull, "full", "f", false,
		"show full version information")
	cmd.Flags().StringVarP(&format, "output", "o", "text",
		"output format: text|json|yaml")

	return cmd
}
