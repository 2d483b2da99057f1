package terminal

import (
	"io"
	"os"

	"github.com/de-tools/tag-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/tag-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/inventory"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	engine   *compliance.Engine
	sources  inventory.Registry
	billing  reconcile.Registry
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Engine  *compliance.Engine
	Sources inventory.Registry
	Billing reconcile.Registry
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Engine == nil {
		opts.Engine = compliance.NewEngine(compliance.Options{})
	}

	cli := &CLI{
		engine:   opts.Engine,
		sources:  opts.Sources,
		billing:  opts.Billing,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagatlas",
		Short: "Cloud resource tag compliance tool",
	}

	cmd.AddCommand(commands.NewReportCmd(cli.engine, cli.reporter))
	cmd.AddCommand(commands.NewRemediationCmd(cli.engine))
	cmd.AddCommand(commands.NewExportCmd(cli.engine))
	cmd.AddCommand(commands.NewScanCmd(cli.sources, cli.engine))
	cmd.AddCommand(commands.NewReconcileCmd(cli.billing, cli.engine, cli.reporter))

	return cmd
}
