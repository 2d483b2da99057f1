package adapters

import (
	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

func MapRecordDomainToApi(r domain.Record, schema domain.Schema) api.Resource {
	out := api.Resource{
		ResourceID:        r.ID,
		Tags:              make(map[string]string, len(r.Fields)),
		CompletenessScore: r.Score,
	}

	for k, v := range r.Fields {
		out.Tags[k] = v
	}
	if r.Cost != nil {
		c := *r.Cost
		out.MonthlyCostUSD = &c
	}
	if schema.HasTagged {
		out.TaggedStatus = r.StatusLabel(domain.ColTagged)
	}
	for _, f := range schema.TagFields {
		if f == domain.ColEnvironment {
			out.EnvironmentStatus = r.StatusLabel(domain.ColEnvironment)
		}
	}
	return out
}

func MapTableDomainToApi(view *domain.ResourceTable, total int) api.ResourcePage {
	page := api.ResourcePage{
		Resources: make([]api.Resource, 0, len(view.Rows)),
		Filtered:  view.Len(),
		Total:     total,
	}
	for _, r := range view.Rows {
		page.Resources = append(page.Resources, MapRecordDomainToApi(r, view.Schema))
	}
	return page
}

func MapSchemaDomainToApi(s domain.Schema) api.Schema {
	return api.Schema{
		HasCost:        s.HasCost,
		HasTagged:      s.HasTagged,
		TagFields:      append([]string(nil), s.TagFields...),
		MissingColumns: append([]string(nil), s.MissingColumns...),
	}
}

func MapEditBatchApiToDomain(batch api.EditBatch) domain.EditBatch {
	out := domain.EditBatch{Edits: make([]domain.FieldEdit, 0, len(batch.Edits))}
	for _, e := range batch.Edits {
		fields := make(map[string]*string, len(e.Fields))
		for k, v := range e.Fields {
			fields[k] = v
		}
		out.Edits = append(out.Edits, domain.FieldEdit{ResourceID: e.ResourceID, Fields: fields})
	}
	return out
}

func MapApplyResultDomainToApi(r domain.ApplyResult) api.ApplyResult {
	return api.ApplyResult{Applied: r.Applied, Ignored: r.Ignored}
}
