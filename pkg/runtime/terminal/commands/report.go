package commands

import (
	"github.com/de-tools/tag-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/spf13/cobra"
)

type ReportCmd struct {
	filePath string
	engine   *compliance.Engine
	reporter *export.Reporter
}

func NewReportCmd(engine *compliance.Engine, reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{engine: engine, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize tag compliance for an inventory file",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.filePath, "file", "", "Path to the inventory CSV file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	table, err := loadTable(cmd.Context(), rc.engine, rc.filePath)
	if err != nil {
		return err
	}

	return rc.reporter.Handle(rc.engine.BuildReport(table))
}
