package api

// Resource is one inventory row as served to the dashboard grid.
type Resource struct {
	ResourceID        string            `json:"resource_id"`
	MonthlyCostUSD    *float64          `json:"monthly_cost_usd,omitempty"`
	Tags              map[string]string `json:"tags"`
	TaggedStatus      string            `json:"tagged_status,omitempty"`
	EnvironmentStatus string            `json:"environment_status,omitempty"`
	CompletenessScore int               `json:"completeness_score"`
}

// ResourcePage wraps a row listing with its totals so the grid can show
// "filtered N of M".
type ResourcePage struct {
	Resources []Resource `json:"resources"`
	Filtered  int        `json:"filtered"`
	Total     int        `json:"total"`
}

// Schema describes which optional dashboard sections the loaded
// inventory supports.
type Schema struct {
	HasCost        bool     `json:"has_cost"`
	HasTagged      bool     `json:"has_tagged"`
	TagFields      []string `json:"tag_fields"`
	MissingColumns []string `json:"missing_columns,omitempty"`
}

// Session is the response to session creation.
type Session struct {
	ID       string   `json:"id"`
	Schema   Schema   `json:"schema"`
	Warnings []string `json:"warnings,omitempty"`
}

// FilterOptions lists the selectable values per filterable column.
type FilterOptions map[string][]string
