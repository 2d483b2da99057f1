package domain

import "time"

// Report is a renderable analysis report (terminal output, exports).
type Report struct {
	Title       string
	GeneratedAt time.Time
	Sections    []ReportSection
	TotalAmount float64
	Currency    string
}

// ReportSection is one logical block of a report.
type ReportSection struct {
	Title   string
	Summary map[string]interface{}
	Details []ReportDetail
}

// ReportDetail is a single labeled value within a section.
type ReportDetail struct {
	Name        string
	Value       interface{}
	Unit        string
	Description string
}
