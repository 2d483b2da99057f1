package api

// CostBucket is a grouped cost sum for one category value.
type CostBucket struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// CountBucket is a grouped row count for one category value.
type CountBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FieldGap reports null frequency for one tag field.
type FieldGap struct {
	Field        string  `json:"field"`
	MissingCount int     `json:"missing_count"`
	MissingPct   float64 `json:"missing_pct"`
}

// Metrics is the compliance view of one (possibly filtered) table.
type Metrics struct {
	RowCount int `json:"row_count"`

	TotalCost       float64 `json:"total_cost"`
	UntaggedCost    float64 `json:"untagged_cost"`
	UntaggedCostPct float64 `json:"untagged_cost_pct"`
	UntaggedCount   int     `json:"untagged_count"`
	UntaggedPct     float64 `json:"untagged_pct"`

	MissingOwnerCount int `json:"missing_owner_count"`

	TaggedCounts      []CountBucket `json:"tagged_counts,omitempty"`
	CostByDepartment  []CostBucket  `json:"cost_by_department,omitempty"`
	CostByService     []CostBucket  `json:"cost_by_service,omitempty"`
	CostByEnvironment []CostBucket  `json:"cost_by_environment,omitempty"`

	MissingTagFields []FieldGap `json:"missing_tag_fields,omitempty"`
}

// Comparison pairs before/after metrics under one filter set.
type Comparison struct {
	Before Metrics `json:"before"`
	After  Metrics `json:"after"`
}
