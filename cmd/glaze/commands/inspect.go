package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/glaze/internal/app"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <material>",
		Short: "Print the generated WGSL and binding layout of a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, _ := cmd.Flags().GetString("stage")
			return c.app.Inspect(cmd.Context(), args[0], app.InspectOptions{
				Overrides: overrides(cmd),
				Stage:     stage,
			})
		},
	}
	cmd.Flags().StringP("stage", "s", "", "Only print one stage: vertex, fragment or compute")
	return cmd
}
