package adapters

import (
	"github.com/de-tools/tag-atlas/pkg/models/api"
	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

func MapMetricsDomainToApi(m domain.ComplianceMetrics) api.Metrics {
	out := api.Metrics{
		RowCount:          m.RowCount,
		TotalCost:         m.TotalCost,
		UntaggedCost:      m.UntaggedCost,
		UntaggedCostPct:   m.UntaggedCostPct,
		UntaggedCount:     m.UntaggedCount,
		UntaggedPct:       m.UntaggedPct,
		MissingOwnerCount: m.MissingOwnerCount,
	}

	for _, b := range m.TaggedCounts {
		out.TaggedCounts = append(out.TaggedCounts, api.CountBucket{Label: b.Label, Count: b.Count})
	}
	out.CostByDepartment = mapCostBuckets(m.CostByDepartment)
	out.CostByService = mapCostBuckets(m.CostByService)
	out.CostByEnvironment = mapCostBuckets(m.CostByEnvironment)

	for _, g := range m.MissingTagFields {
		out.MissingTagFields = append(out.MissingTagFields, api.FieldGap{
			Field:        g.Field,
			MissingCount: g.MissingCount,
			MissingPct:   g.MissingPct,
		})
	}
	return out
}

func mapCostBuckets(buckets []domain.CostBucket) []api.CostBucket {
	out := make([]api.CostBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, api.CostBucket{Label: b.Label, Cost: b.Cost})
	}
	return out
}

func MapComparisonDomainToApi(c domain.Comparison) api.Comparison {
	return api.Comparison{
		Before: MapMetricsDomainToApi(c.Before),
		After:  MapMetricsDomainToApi(c.After),
	}
}
