package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/store/csvfile"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	filePath        string
	outPath         string
	derived         bool
	remediationOnly bool
	engine          *compliance.Engine
}

func NewExportCmd(engine *compliance.Engine) *cobra.Command {
	ec := &ExportCmd{engine: engine}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an inventory back out as CSV",
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.filePath, "file", "", "Path to the inventory CSV file")
	cmd.Flags().StringVar(&ec.outPath, "out", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&ec.derived, "derived", false, "Append computed score and status columns")
	cmd.Flags().BoolVar(&ec.remediationOnly, "remediation-only", false, "Export only resources that need remediation")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, args []string) error {
	table, err := loadTable(cmd.Context(), ec.engine, ec.filePath)
	if err != nil {
		return err
	}

	if ec.remediationOnly {
		table = ec.engine.SelectForRemediation(table)
	}

	out := cmd.OutOrStdout()
	if ec.outPath != "" {
		f, err := os.Create(ec.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return csvfile.Export(out, table, csvfile.ExportOptions{IncludeDerived: ec.derived})
}
