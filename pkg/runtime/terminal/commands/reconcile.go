package commands

import (
	"fmt"

	"github.com/de-tools/tag-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile"
	"github.com/spf13/cobra"
)

type ReconcileCmd struct {
	filePath string
	platform string
	profile  string
	duration int
	registry reconcile.Registry
	engine   *compliance.Engine
	reporter *export.Reporter
}

func NewReconcileCmd(registry reconcile.Registry, engine *compliance.Engine, reporter *export.Reporter) *cobra.Command {
	rc := &ReconcileCmd{registry: registry, engine: engine, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare inventory costs against billed costs",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.filePath, "file", "", "Path to the inventory CSV file")
	cmd.Flags().StringVar(&rc.platform, "platform", "", "Platform to query billing for (e.g., aws, azure)")
	cmd.Flags().StringVar(&rc.profile, "profile", "", "Configuration profile to use")
	cmd.Flags().IntVar(&rc.duration, "duration", 30, "Duration in days to reconcile")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (rc *ReconcileCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	table, err := loadTable(ctx, rc.engine, rc.filePath)
	if err != nil {
		return err
	}

	source, err := rc.registry.Create(ctx, rc.platform, rc.profile)
	if err != nil {
		return fmt.Errorf("failed to create billing source for platform %s: %w", rc.platform, err)
	}

	billed, err := source.BilledByService(ctx, rc.duration)
	if err != nil {
		return fmt.Errorf("failed to fetch billed costs: %w", err)
	}

	return rc.reporter.Handle(reconcile.BuildReport(table, billed, rc.platform, rc.duration))
}
