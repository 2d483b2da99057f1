package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/spf13/cobra"
)

type RemediationCmd struct {
	filePath string
	limit    int
	engine   *compliance.Engine
}

func NewRemediationCmd(engine *compliance.Engine) *cobra.Command {
	rc := &RemediationCmd{engine: engine}
	cmd := &cobra.Command{
		Use:   "remediation",
		Short: "List resources that need tag remediation",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.filePath, "file", "", "Path to the inventory CSV file")
	cmd.Flags().IntVar(&rc.limit, "limit", 0, "Show at most this many resources (0 = all)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *RemediationCmd) run(cmd *cobra.Command, args []string) error {
	table, err := loadTable(cmd.Context(), rc.engine, rc.filePath)
	if err != nil {
		return err
	}

	queue := rc.engine.SelectForRemediation(table)
	if queue.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No resources need remediation.")
		return nil
	}

	rows := queue.Rows
	if rc.limit > 0 && rc.limit < len(rows) {
		rows = rows[:rc.limit]
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d resources need remediation:\n\n", len(rows), queue.Len())
	for _, r := range rows {
		var gaps []string
		for _, field := range domain.TagFields() {
			if queue.HasColumn(field) && r.Missing(field) {
				gaps = append(gaps, field)
			}
		}
		if queue.HasColumn(domain.ColTagged) && r.Untagged() {
			gaps = append(gaps, "marked untagged")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "- %s (score %d): %s\n", r.ID, r.Score, strings.Join(gaps, ", "))
	}

	return nil
}
