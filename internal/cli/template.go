package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/ogppu/layout"
)

func (c *CLI) templateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the default card template",
		Long:  "Print the default card template. Save it, edit it and pass it back with --template.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), layout.DefaultTemplate)
			return err
		},
	}
}
