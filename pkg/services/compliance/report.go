package compliance

import (
	"fmt"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// BuildReport assembles the terminal compliance report for a table.
// Sections whose source columns are absent are replaced by a notice
// instead of failing.
func (e *Engine) BuildReport(t *domain.ResourceTable) *domain.Report {
	m := e.Metrics(t)

	report := &domain.Report{
		Title:       "Tagging Compliance Report",
		GeneratedAt: time.Now(),
		TotalAmount: m.TotalCost,
		Currency:    "USD",
	}

	report.Sections = append(report.Sections, e.overviewSection(t, m))
	report.Sections = append(report.Sections, e.costSection(t, m))
	report.Sections = append(report.Sections, e.complianceSection(t, m))
	return report
}

func (e *Engine) overviewSection(t *domain.ResourceTable, m domain.ComplianceMetrics) domain.ReportSection {
	section := domain.ReportSection{
		Title: "Inventory Overview",
		Summary: map[string]interface{}{
			"Resources": m.RowCount,
		},
	}

	if !t.Schema.HasTagged {
		section.Summary["Notice"] = "Tagged column absent, tagging breakdown skipped"
		return section
	}

	section.Summary["Untagged"] = fmt.Sprintf("%d (%.2f%%)", m.UntaggedCount, m.UntaggedPct)
	for _, bucket := range m.TaggedCounts {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        bucket.Label,
			Value:       bucket.Count,
			Unit:        "resources",
			Description: "resources by tagging status",
		})
	}
	return section
}

func (e *Engine) costSection(t *domain.ResourceTable, m domain.ComplianceMetrics) domain.ReportSection {
	section := domain.ReportSection{Title: "Cost Visibility"}

	if !t.Schema.HasCost {
		section.Summary = map[string]interface{}{
			"Notice": "MonthlyCostUSD column absent, cost visibility skipped",
		}
		return section
	}

	section.Summary = map[string]interface{}{
		"Total Cost":    fmt.Sprintf("%.2f USD", m.TotalCost),
		"Untagged Cost": fmt.Sprintf("%.2f USD (%.2f%%)", m.UntaggedCost, m.UntaggedCostPct),
	}

	groups := []struct {
		name    string
		buckets []domain.CostBucket
	}{
		{"department", m.CostByDepartment},
		{"service", m.CostByService},
		{"environment", m.CostByEnvironment},
	}
	for _, g := range groups {
		for _, bucket := range g.buckets {
			section.Details = append(section.Details, domain.ReportDetail{
				Name:        bucket.Label,
				Value:       fmt.Sprintf("%.2f", bucket.Cost),
				Unit:        "USD",
				Description: fmt.Sprintf("total cost by %s", g.name),
			})
		}
	}
	return section
}

func (e *Engine) complianceSection(t *domain.ResourceTable, m domain.ComplianceMetrics) domain.ReportSection {
	section := domain.ReportSection{
		Title: "Tagging Compliance",
		Summary: map[string]interface{}{
			"Tag Fields": fmt.Sprintf("%v", t.Schema.TagFields),
		},
	}
	if t.HasColumn(domain.ColOwner) {
		section.Summary["Missing Owner"] = m.MissingOwnerCount
	}

	for _, gap := range m.MissingTagFields {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        gap.Field,
			Value:       gap.MissingCount,
			Unit:        "rows",
			Description: fmt.Sprintf("%.2f%% of resources missing this tag", gap.MissingPct),
		})
	}

	for _, r := range e.LowestCompleteness(t, 5) {
		section.Details = append(section.Details, domain.ReportDetail{
			Name:        r.ID,
			Value:       r.Score,
			Unit:        "tags",
			Description: "among the least complete resources",
		})
	}
	return section
}
