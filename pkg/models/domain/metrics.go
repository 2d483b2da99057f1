package domain

// CostBucket is a grouped cost sum for one category value. Null cells
// fall into a synthetic "Missing" bucket.
type CostBucket struct {
	Label string
	Cost  float64
}

// CountBucket is a grouped row count for one category value.
type CountBucket struct {
	Label string
	Count int
}

// FieldGap reports how often a column is null across a table.
type FieldGap struct {
	Field        string
	MissingCount int
	MissingPct   float64
}

// EnvTagCost is one (Environment, Tagged) cell of the environment
// tagging-quality breakdown.
type EnvTagCost struct {
	Environment string
	Tagged      string
	Cost        float64
	Count       int
}

// ComplianceMetrics is the derived compliance view of one table.
// Sections whose source columns are absent are zero-valued; callers
// gate on the table schema when presenting them.
type ComplianceMetrics struct {
	RowCount int

	TotalCost       float64
	UntaggedCost    float64
	UntaggedCostPct float64
	UntaggedCount   int
	UntaggedPct     float64

	MissingOwnerCount int

	TaggedCounts      []CountBucket
	CostByDepartment  []CostBucket
	CostByService     []CostBucket
	CostByEnvironment []CostBucket

	MissingTagFields []FieldGap
}

// Comparison holds the same-filter metrics of the original snapshot and
// the edited working table.
type Comparison struct {
	Before ComplianceMetrics
	After  ComplianceMetrics
}
