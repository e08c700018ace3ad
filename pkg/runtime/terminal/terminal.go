package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/de-tools/goal-master/pkg/runtime/terminal/commands"
	"github.com/de-tools/goal-master/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	env      commands.Env
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	OpenStore   commands.StoreOpener
	NewUploader func(ctx context.Context) (export.Uploader, error)
	Now         func() time.Time
	Output      io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		env: commands.Env{
			OpenStore:   opts.OpenStore,
			NewUploader: opts.NewUploader,
			Now:         opts.Now,
		},
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, used by tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "goalmaster",
		Short:         "Goal progress analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(commands.NewReportCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewRankCmd(cli.env))
	cmd.AddCommand(commands.NewImportCmd(cli.env))

	return cmd
}
