package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/glaze/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <material>",
		Short: "Recompile a material whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debounce, _ := cmd.Flags().GetDuration("debounce")
			return c.app.Watch(cmd.Context(), args[0], app.WatchOptions{
				Overrides: overrides(cmd),
				Debounce:  debounce,
			})
		},
	}
	cmd.Flags().Duration("debounce", 0, "Quiet period before recompiling after a change")
	return cmd
}
