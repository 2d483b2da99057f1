package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// Derived column names appended on request. They never collide with
// source columns because the loader leaves derived computation to the
// engine.
const (
	ColCompletenessScore = "TagCompletenessScore"
	ColTaggedStatus      = "Tagged_Status"
	ColEnvStatus         = "Environment_Status"
)

// ExportOptions control the shape of a CSV dump.
type ExportOptions struct {
	// IncludeDerived appends the derived compliance columns after the
	// original ones.
	IncludeDerived bool
}

// Export writes a table as CSV, preserving the original column order.
// The caller chooses the row set by passing either the full working
// table or a remediation-candidate view.
func Export(w io.Writer, t *domain.ResourceTable, opts ExportOptions) error {
	columns := append([]string(nil), t.Columns...)
	if opts.IncludeDerived {
		columns = append(columns, ColCompletenessScore)
		if t.Schema.HasTagged {
			columns = append(columns, ColTaggedStatus)
		}
		if t.HasColumn(domain.ColEnvironment) {
			columns = append(columns, ColEnvStatus)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cells := make([]string, len(columns))
	for _, r := range t.Rows {
		for i, col := range columns {
			cells[i] = cellValue(r, col)
		}
		if err := writer.Write(cells); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func cellValue(r domain.Record, col string) string {
	switch col {
	case domain.ColResourceID:
		return r.ID
	case domain.ColMonthlyCost:
		if r.Cost == nil {
			return ""
		}
		return strconv.FormatFloat(*r.Cost, 'f', -1, 64)
	case ColCompletenessScore:
		return strconv.Itoa(r.Score)
	case ColTaggedStatus:
		return r.StatusLabel(domain.ColTagged)
	case ColEnvStatus:
		return r.StatusLabel(domain.ColEnvironment)
	default:
		v, _ := r.Field(col)
		return v
	}
}
