package domain

import "sort"

// Recognized inventory columns.
const (
	ColResourceID  = "ResourceID"
	ColMonthlyCost = "MonthlyCostUSD"
	ColTagged      = "Tagged"
	ColService     = "Service"
	ColRegion      = "Region"
	ColDepartment  = "Department"
	ColProject     = "Project"
	ColEnvironment = "Environment"
	ColOwner       = "Owner"
	ColCostCenter  = "CostCenter"
	ColCreatedBy   = "CreatedBy"
)

const (
	TaggedYes = "Yes"
	TaggedNo  = "No"

	// MissingLabel is the display bucket for null categorical values.
	MissingLabel = "Missing"
)

// TagFields returns the columns counted toward the completeness score,
// in canonical order.
func TagFields() []string {
	return []string{ColDepartment, ColProject, ColEnvironment, ColOwner, ColCostCenter, ColCreatedBy}
}

// CoreTagFields returns the fields whose joint completeness promotes a
// resource to Tagged = "Yes".
func CoreTagFields() []string {
	return []string{ColDepartment, ColProject, ColEnvironment, ColOwner}
}

// FilterFields returns the columns exposed as categorical filters.
func FilterFields() []string {
	return []string{ColService, ColRegion, ColDepartment}
}

// Record is one cloud resource row. Categorical cells live in Fields;
// an absent key is a null value. Cost is nil when the source value was
// absent or unparseable.
type Record struct {
	ID     string
	Fields map[string]string
	Cost   *float64
	Score  int
}

// Field returns the raw cell value and whether it is non-null.
func (r Record) Field(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Missing reports whether the given column is null for this record.
func (r Record) Missing(name string) bool {
	_, ok := r.Field(name)
	return !ok
}

// StatusLabel returns the cell value with nulls replaced by the
// "Missing" display label. Used for grouping and chart labels only,
// never for compliance arithmetic.
func (r Record) StatusLabel(name string) string {
	v, ok := r.Field(name)
	if !ok {
		return MissingLabel
	}
	return v
}

// Untagged reports whether the record counts toward untagged cost.
// Only the literal "No" qualifies; nulls and any other value do not.
func (r Record) Untagged() bool {
	v, _ := r.Field(ColTagged)
	return v == TaggedNo
}

// CostValue returns the monthly cost with unknown values treated as 0.
func (r Record) CostValue() float64 {
	if r.Cost == nil {
		return 0
	}
	return *r.Cost
}

func (r Record) Clone() Record {
	out := Record{ID: r.ID, Score: r.Score, Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	if r.Cost != nil {
		c := *r.Cost
		out.Cost = &c
	}
	return out
}

// Schema captures which optional capabilities the loaded inventory
// supports. It is computed once at load time; consumers skip sections
// whose columns are absent instead of erroring.
type Schema struct {
	HasCost   bool
	HasTagged bool
	// TagFields is the subset of configured tag fields present in the
	// input, in canonical order.
	TagFields []string
	// MissingColumns lists recognized optional columns absent from the
	// input, surfaced as non-fatal warnings.
	MissingColumns []string
}

// ResourceTable is an in-memory resource inventory. Columns preserves
// the original input column order for export.
type ResourceTable struct {
	Columns []string
	Schema  Schema
	Rows    []Record
}

func (t *ResourceTable) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the input carried the given column.
func (t *ResourceTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy; edits to the copy never touch the
// original snapshot.
func (t *ResourceTable) Clone() *ResourceTable {
	out := &ResourceTable{
		Columns: append([]string(nil), t.Columns...),
		Schema:  t.Schema.clone(),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}

// View returns a shallow projection sharing the given rows. Views are
// read-only by convention; mutation goes through edit application,
// which clones first.
func (t *ResourceTable) View(rows []Record) *ResourceTable {
	return &ResourceTable{Columns: t.Columns, Schema: t.Schema, Rows: rows}
}

// DistinctValues returns the sorted distinct non-null values of a
// column.
func (t *ResourceTable) DistinctValues(name string) []string {
	seen := make(map[string]struct{})
	for _, r := range t.Rows {
		if v, ok := r.Field(name); ok {
			seen[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Schema) clone() Schema {
	out := s
	out.TagFields = append([]string(nil), s.TagFields...)
	out.MissingColumns = append([]string(nil), s.MissingColumns...)
	return out
}

// FilterSet maps a column name to its allowed values. A row passes a
// field when its value is a member of the allowed set or null; an empty
// allowed set leaves the field unconstrained.
type FilterSet map[string][]string
