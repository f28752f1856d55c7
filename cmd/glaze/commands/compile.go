package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/glaze/internal/app"
)

func (c *CLI) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [materials|dirs|globs...]",
		Short: "Compile material files into shaders",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			outDir, _ := cmd.Flags().GetString("out")
			return c.app.Compile(cmd.Context(), args, app.CompileOptions{
				Overrides: overrides(cmd),
				OutDir:    outDir,
			})
		},
	}
	cmd.Flags().StringP("out", "o", "", "Directory to write compiled artifacts to")
	return cmd
}
