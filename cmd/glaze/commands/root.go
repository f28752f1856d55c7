// Package commands implements the CLI commands for glaze.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/glaze/internal/app"
	"go.trai.ch/glaze/internal/build"
)

// CLI represents the command line interface for glaze.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Compile(ctx context.Context, paths []string, opts app.CompileOptions) error
	Inspect(ctx context.Context, path string, opts app.InspectOptions) error
	Watch(ctx context.Context, path string, opts app.WatchOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "glaze",
		Short:         "Compile material node graphs into GPU shaders",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringP("dir", "C", ".", "Directory to search for glaze.yaml")
	flags.StringP("engine", "e", "", "Engine: eevee or compositor")
	flags.StringP("target", "t", "", "Compiler target: spirv, glsl, msl or hlsl")
	flags.BoolP("optimize", "O", false, "Compile the optimized variant directly")
	flags.Bool("no-two-tier", false, "Skip the fast first-tier compile")
	flags.IntP("workers", "j", 0, "Maximum concurrent background compilations")
	flags.String("dump-dir", "", "Write generated WGSL to a content-addressed store")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newCompileCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// overrides reads the persistent flags. Flags left unset keep glaze.yaml values.
func overrides(cmd *cobra.Command) app.Overrides {
	flags := cmd.Flags()
	o := app.Overrides{}
	o.Dir, _ = flags.GetString("dir")
	o.Engine, _ = flags.GetString("engine")
	o.Target, _ = flags.GetString("target")
	if flags.Changed("optimize") {
		optimize, _ := flags.GetBool("optimize")
		o.Optimize = &optimize
	}
	o.NoTwoTier, _ = flags.GetBool("no-two-tier")
	o.Workers, _ = flags.GetInt("workers")
	o.DumpDir, _ = flags.GetString("dump-dir")
	return o
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
