package compliance

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// ErrMissingResourceID is returned by Load when the input carries no
// ResourceID column. It is the only fatal schema defect; every other
// column is optional.
var ErrMissingResourceID = errors.New("required column ResourceID is absent")

var optionalColumns = []string{
	domain.ColMonthlyCost,
	domain.ColTagged,
	domain.ColService,
	domain.ColRegion,
	domain.ColDepartment,
	domain.ColProject,
	domain.ColEnvironment,
	domain.ColOwner,
	domain.ColCostCenter,
	domain.ColCreatedBy,
}

// Engine computes derived compliance columns and metrics over resource
// tables. All operations are synchronous, single-pass transformations;
// none of them mutates its input table.
type Engine struct {
	tagFields  []string
	coreFields []string
}

// Options configure the engine. A nil TagFields keeps the canonical
// tag field set.
type Options struct {
	TagFields []string
}

func NewEngine(opts Options) *Engine {
	fields := opts.TagFields
	if len(fields) == 0 {
		fields = domain.TagFields()
	}
	return &Engine{
		tagFields:  fields,
		coreFields: domain.CoreTagFields(),
	}
}

// Load normalizes raw rows into a ResourceTable. MonthlyCostUSD cells
// that fail numeric coercion become null and are reported through
// missing-value counts rather than errors. Optional columns absent
// from the header are recorded in the schema and logged as warnings.
func (e *Engine) Load(ctx context.Context, header []string, rows []map[string]string) (*domain.ResourceTable, error) {
	logger := zerolog.Ctx(ctx)

	present := make(map[string]bool, len(header))
	for _, c := range header {
		present[c] = true
	}
	if !present[domain.ColResourceID] {
		return nil, ErrMissingResourceID
	}

	schema := domain.Schema{
		HasCost:   present[domain.ColMonthlyCost],
		HasTagged: present[domain.ColTagged],
	}
	for _, f := range e.tagFields {
		if present[f] {
			schema.TagFields = append(schema.TagFields, f)
		}
	}
	for _, c := range optionalColumns {
		if !present[c] {
			schema.MissingColumns = append(schema.MissingColumns, c)
		}
	}
	for _, c := range schema.MissingColumns {
		logger.Warn().Str("column", c).Msg("optional column absent, dependent sections will be skipped")
	}

	table := &domain.ResourceTable{
		Columns: append([]string(nil), header...),
		Schema:  schema,
		Rows:    make([]domain.Record, 0, len(rows)),
	}

	for _, raw := range rows {
		rec := domain.Record{
			ID:     strings.TrimSpace(raw[domain.ColResourceID]),
			Fields: make(map[string]string),
		}
		for _, c := range header {
			if c == domain.ColResourceID || c == domain.ColMonthlyCost {
				continue
			}
			if v := strings.TrimSpace(raw[c]); v != "" {
				rec.Fields[c] = v
			}
		}
		if schema.HasCost {
			rec.Cost = parseCost(raw[domain.ColMonthlyCost])
		}
		table.Rows = append(table.Rows, rec)
	}

	e.recomputeScores(table)
	return table, nil
}

func parseCost(raw string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &v
}

// Filter returns the rows whose values pass every per-field allowed
// set. Null values always pass: a categorical filter never hides rows
// with missing attribution. A pure projection; no side effects.
func (e *Engine) Filter(t *domain.ResourceTable, fs domain.FilterSet) *domain.ResourceTable {
	if len(fs) == 0 {
		return t.View(t.Rows)
	}

	allowed := make(map[string]map[string]struct{}, len(fs))
	for field, values := range fs {
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		allowed[field] = set
	}

	var rows []domain.Record
	for _, r := range t.Rows {
		if rowPasses(r, allowed) {
			rows = append(rows, r)
		}
	}
	return t.View(rows)
}

func rowPasses(r domain.Record, allowed map[string]map[string]struct{}) bool {
	for field, set := range allowed {
		v, ok := r.Field(field)
		if !ok {
			continue // nulls are never filtered out
		}
		if _, member := set[v]; !member {
			return false
		}
	}
	return true
}

// SelectForRemediation returns the remediation candidate set: rows
// marked untagged plus rows whose Department, Project, or Owner is
// null even though the Tagged flag says otherwise. Fields absent from
// the input schema do not contribute candidates.
func (e *Engine) SelectForRemediation(t *domain.ResourceTable) *domain.ResourceTable {
	checks := make([]string, 0, 3)
	for _, f := range []string{domain.ColDepartment, domain.ColProject, domain.ColOwner} {
		if t.HasColumn(f) {
			checks = append(checks, f)
		}
	}

	var rows []domain.Record
	for _, r := range t.Rows {
		candidate := r.Untagged()
		for _, f := range checks {
			if candidate {
				break
			}
			candidate = r.Missing(f)
		}
		if candidate {
			rows = append(rows, r)
		}
	}
	return t.View(rows)
}

// ApplyEdits applies a batch of field overwrites and returns a new
// table; the input table is never touched, so a failed batch leaves
// callers holding their prior state. Rows whose edits changed at least
// one field are re-evaluated against the tagging ratchet: once all
// core tag fields are non-null the row becomes Tagged = "Yes", and the
// promotion is never reversed here. Completeness scores are recomputed
// table-wide. Edits addressing unknown resource ids are dropped,
// logged, and reported in the result.
func (e *Engine) ApplyEdits(
	ctx context.Context,
	t *domain.ResourceTable,
	batch domain.EditBatch,
) (*domain.ResourceTable, domain.ApplyResult) {
	logger := zerolog.Ctx(ctx)

	out := t.Clone()
	index := make(map[string]int, len(out.Rows))
	for i, r := range out.Rows {
		index[r.ID] = i
	}

	var result domain.ApplyResult
	touched := make(map[int]bool)

	for _, edit := range batch.Edits {
		i, ok := index[edit.ResourceID]
		if !ok {
			logger.Warn().Str("resource_id", edit.ResourceID).Msg("edit targets unknown resource, dropped")
			result.Ignored = append(result.Ignored, edit.ResourceID)
			continue
		}

		changed := false
		for field, value := range edit.Fields {
			if !editable(out, field) {
				logger.Debug().Str("field", field).Msg("edit names a non-editable column, skipped")
				continue
			}
			if value == nil || *value == "" {
				if _, had := out.Rows[i].Fields[field]; had {
					delete(out.Rows[i].Fields, field)
					changed = true
				}
				continue
			}
			if out.Rows[i].Fields[field] != *value {
				out.Rows[i].Fields[field] = *value
				changed = true
			}
		}

		result.Applied++
		if changed {
			touched[i] = true
		}
	}

	if out.Schema.HasTagged {
		for i := range touched {
			if e.coreComplete(out, out.Rows[i]) {
				out.Rows[i].Fields[domain.ColTagged] = domain.TaggedYes
			}
		}
	}

	e.recomputeScores(out)
	return out, result
}

func editable(t *domain.ResourceTable, field string) bool {
	if field == domain.ColResourceID || field == domain.ColMonthlyCost {
		return false
	}
	return t.HasColumn(field)
}

// coreComplete reports whether every core tag field present in the
// schema is non-null. Fields the input never carried are treated as
// not applicable rather than permanently blocking promotion.
func (e *Engine) coreComplete(t *domain.ResourceTable, r domain.Record) bool {
	for _, f := range e.coreFields {
		if !t.HasColumn(f) {
			continue
		}
		if r.Missing(f) {
			return false
		}
	}
	return true
}

func (e *Engine) recomputeScores(t *domain.ResourceTable) {
	for i := range t.Rows {
		score := 0
		for _, f := range t.Schema.TagFields {
			if !t.Rows[i].Missing(f) {
				score++
			}
		}
		t.Rows[i].Score = score
	}
}

// Metrics computes the compliance metrics of the given table, which the
// caller has already filtered as desired. Unknown costs count as 0 in
// sums. Sections whose columns are absent come back zero-valued; the
// table schema tells consumers which of them to present.
func (e *Engine) Metrics(t *domain.ResourceTable) domain.ComplianceMetrics {
	m := domain.ComplianceMetrics{RowCount: t.Len()}

	for _, r := range t.Rows {
		m.TotalCost += r.CostValue()
		if r.Untagged() {
			m.UntaggedCost += r.CostValue()
			m.UntaggedCount++
		}
		if t.HasColumn(domain.ColOwner) && r.Missing(domain.ColOwner) {
			m.MissingOwnerCount++
		}
	}

	if m.TotalCost > 0 {
		m.UntaggedCostPct = m.UntaggedCost / m.TotalCost * 100
	}
	if m.RowCount > 0 {
		m.UntaggedPct = float64(m.UntaggedCount) / float64(m.RowCount) * 100
	}

	if t.Schema.HasTagged {
		m.TaggedCounts = countByStatus(t, domain.ColTagged)
	}
	if t.Schema.HasCost {
		if t.HasColumn(domain.ColDepartment) {
			m.CostByDepartment = costByStatus(t, domain.ColDepartment)
		}
		if t.HasColumn(domain.ColService) {
			m.CostByService = costByStatus(t, domain.ColService)
		}
		if t.HasColumn(domain.ColEnvironment) {
			m.CostByEnvironment = costByStatus(t, domain.ColEnvironment)
		}
	}

	m.MissingTagFields = e.missingTagFields(t)
	return m
}

// costByStatus groups cost by the display label of a column, so null
// cells land in a "Missing" bucket instead of vanishing. Buckets are
// ordered by descending cost, then ascending label, for deterministic
// output.
func costByStatus(t *domain.ResourceTable, field string) []domain.CostBucket {
	sums := make(map[string]float64)
	for _, r := range t.Rows {
		sums[r.StatusLabel(field)] += r.CostValue()
	}

	out := make([]domain.CostBucket, 0, len(sums))
	for label, cost := range sums {
		out = append(out, domain.CostBucket{Label: label, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost > out[j].Cost
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func countByStatus(t *domain.ResourceTable, field string) []domain.CountBucket {
	counts := make(map[string]int)
	for _, r := range t.Rows {
		counts[r.StatusLabel(field)]++
	}

	out := make([]domain.CountBucket, 0, len(counts))
	for label, n := range counts {
		out = append(out, domain.CountBucket{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (e *Engine) missingTagFields(t *domain.ResourceTable) []domain.FieldGap {
	out := make([]domain.FieldGap, 0, len(t.Schema.TagFields))
	for _, f := range t.Schema.TagFields {
		gap := domain.FieldGap{Field: f}
		for _, r := range t.Rows {
			if r.Missing(f) {
				gap.MissingCount++
			}
		}
		if t.Len() > 0 {
			gap.MissingPct = float64(gap.MissingCount) / float64(t.Len()) * 100
		}
		out = append(out, gap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MissingCount != out[j].MissingCount {
			return out[i].MissingCount > out[j].MissingCount
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// CompareBeforeAfter filters the original snapshot and the working
// table independently (each on its own current field values, since
// edits may change which rows a filter matches) and computes metrics
// on both.
func (e *Engine) CompareBeforeAfter(
	original, working *domain.ResourceTable,
	fs domain.FilterSet,
) domain.Comparison {
	return domain.Comparison{
		Before: e.Metrics(e.Filter(original, fs)),
		After:  e.Metrics(e.Filter(working, fs)),
	}
}

// MissingValueCounts reports the null count of every input column,
// most-gapped first.
func (e *Engine) MissingValueCounts(t *domain.ResourceTable) []domain.FieldGap {
	out := make([]domain.FieldGap, 0, len(t.Columns))
	for _, c := range t.Columns {
		gap := domain.FieldGap{Field: c}
		for _, r := range t.Rows {
			switch c {
			case domain.ColResourceID:
				if r.ID == "" {
					gap.MissingCount++
				}
			case domain.ColMonthlyCost:
				if r.Cost == nil {
					gap.MissingCount++
				}
			default:
				if r.Missing(c) {
					gap.MissingCount++
				}
			}
		}
		if t.Len() > 0 {
			gap.MissingPct = float64(gap.MissingCount) / float64(t.Len()) * 100
		}
		out = append(out, gap)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MissingCount != out[j].MissingCount {
			return out[i].MissingCount > out[j].MissingCount
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// LowestCompleteness returns the n rows with the lowest completeness
// scores, ties broken by resource id for stable output.
func (e *Engine) LowestCompleteness(t *domain.ResourceTable, n int) []domain.Record {
	rows := append([]domain.Record(nil), t.Rows...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score < rows[j].Score
		}
		return rows[i].ID < rows[j].ID
	})
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}

// FilterOptions returns the selectable values for every filterable
// column present in the input. Feeds the dashboard multiselects.
func (e *Engine) FilterOptions(t *domain.ResourceTable) map[string][]string {
	out := make(map[string][]string)
	for _, f := range domain.FilterFields() {
		if t.HasColumn(f) {
			out[f] = t.DistinctValues(f)
		}
	}
	return out
}

// CostByEnvironmentAndTagged breaks cost and resource counts down by
// (Environment, Tagged) pairs, nulls bucketed as "Missing". Rows are
// ordered by environment then tagging status.
func (e *Engine) CostByEnvironmentAndTagged(t *domain.ResourceTable) []domain.EnvTagCost {
	if !t.HasColumn(domain.ColEnvironment) || !t.Schema.HasTagged {
		return nil
	}

	type key struct{ env, tagged string }
	cells := make(map[key]*domain.EnvTagCost)
	for _, r := range t.Rows {
		k := key{r.StatusLabel(domain.ColEnvironment), r.StatusLabel(domain.ColTagged)}
		cell, ok := cells[k]
		if !ok {
			cell = &domain.EnvTagCost{Environment: k.env, Tagged: k.tagged}
			cells[k] = cell
		}
		cell.Cost += r.CostValue()
		cell.Count++
	}

	out := make([]domain.EnvTagCost, 0, len(cells))
	for _, cell := range cells {
		out = append(out, *cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Environment != out[j].Environment {
			return out[i].Environment < out[j].Environment
		}
		return out[i].Tagged < out[j].Tagged
	})
	return out
}
