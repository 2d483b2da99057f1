package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/inventory"
	"github.com/de-tools/tag-atlas/pkg/store/csvfile"
	"github.com/spf13/cobra"
)

type ScanCmd struct {
	platform string
	profile  string
	outPath  string
	registry inventory.Registry
	engine   *compliance.Engine
}

func NewScanCmd(registry inventory.Registry, engine *compliance.Engine) *cobra.Command {
	sc := &ScanCmd{registry: registry, engine: engine}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Collect a live resource inventory from a cloud platform",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.platform, "platform", "", "Platform to scan (e.g., aws)")
	cmd.Flags().StringVar(&sc.profile, "profile", "", "Configuration profile to use")
	cmd.Flags().StringVar(&sc.outPath, "out", "", "Output file path (default: stdout)")
	_ = cmd.MarkFlagRequired("platform")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	source, err := sc.registry.Create(ctx, sc.platform, sc.profile)
	if err != nil {
		return fmt.Errorf("failed to create source for platform %s: %w", sc.platform, err)
	}

	rows, err := source.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan %s resources: %w", sc.platform, err)
	}

	table, err := sc.engine.Load(ctx, inventory.Header(), rows)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if sc.outPath != "" {
		f, err := os.Create(sc.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := csvfile.Export(out, table, csvfile.ExportOptions{}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Collected %d resources from %s\n", table.Len(), sc.platform)
	return nil
}
