package awsce

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	awsinventory "github.com/de-tools/tag-atlas/pkg/services/inventory/aws"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile"
)

// serviceNames maps Cost Explorer service labels onto the short names
// the inventory uses.
var serviceNames = map[string]string{
	"Amazon Elastic Compute Cloud - Compute": "EC2",
	"Amazon Simple Storage Service":          "S3",
	"Amazon Relational Database Service":     "RDS",
}

type source struct {
	client *costexplorer.Client
}

// SourceFactory builds the Cost Explorer billed-cost source from a
// shared-config profile.
func SourceFactory(ctx context.Context, profile string) (reconcile.Source, error) {
	cfg, err := awsinventory.LoadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	return &source{client: costexplorer.NewFromConfig(*cfg)}, nil
}

func (s *source) Platform() string {
	return "aws"
}

// BilledByService queries unblended cost grouped by service over the
// trailing period, excluding credits so figures line up with invoiced
// spend.
func (s *source) BilledByService(ctx context.Context, days int) ([]reconcile.ServiceCost, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format("2006-01-02")),
			End:   aws.String(end.Format("2006-01-02")),
		},
		Granularity: types.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []types.GroupDefinition{
			{
				Type: types.GroupDefinitionTypeDimension,
				Key:  aws.String(string(types.DimensionService)),
			},
		},
		Filter: &types.Expression{
			Not: &types.Expression{
				Dimensions: &types.DimensionValues{
					Key:    types.DimensionRecordType,
					Values: []string{"Credit", "Refund"},
				},
			},
		},
	}

	resp, err := s.client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost explorer: %w", err)
	}

	sums := make(map[string]float64)
	for _, result := range resp.ResultsByTime {
		for _, group := range result.Groups {
			if len(group.Keys) == 0 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			amount, err := strconv.ParseFloat(aws.ToString(metric.Amount), 64)
			if err != nil {
				continue
			}

			name := group.Keys[0]
			if short, ok := serviceNames[name]; ok {
				name = short
			}
			sums[name] += amount
		}
	}

	costs := make([]reconcile.ServiceCost, 0, len(sums))
	for svc, cost := range sums {
		costs = append(costs, reconcile.ServiceCost{Service: svc, Cost: cost})
	}
	return costs, nil
}
