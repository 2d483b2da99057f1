package azure

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/costmanagement/armcostmanagement"
	"github.com/de-tools/tag-atlas/pkg/services/reconcile"
)

type source struct {
	costFactory    *armcostmanagement.ClientFactory
	subscriptionID string
	scope          string
}

func SourceFactory(ctx context.Context, profile string) (reconcile.Source, error) {
	cfg, err := LoadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	factory, err := armcostmanagement.NewClientFactory(cfg.Credentials, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cost management client factory: %w", err)
	}

	return &source{
		costFactory:    factory,
		subscriptionID: cfg.SubscriptionID,
		scope:          fmt.Sprintf("/subscriptions/%s", cfg.SubscriptionID),
	}, nil
}

func (s *source) Platform() string {
	return "azure"
}

func (s *source) BilledByService(ctx context.Context, days int) ([]reconcile.ServiceCost, error) {
	client := s.costFactory.NewQueryClient()

	timeFrom := time.Now().AddDate(0, 0, -days)
	timeTo := time.Now()

	exportType := armcostmanagement.ExportTypeActualCost
	granularity := armcostmanagement.GranularityType("Monthly")
	timeframe := armcostmanagement.TimeframeTypeCustom
	dimension := armcostmanagement.QueryColumnTypeDimension

	params := armcostmanagement.QueryDefinition{
		Type: &exportType,
		Dataset: &armcostmanagement.QueryDataset{
			Granularity: &granularity,
			Aggregation: map[string]*armcostmanagement.QueryAggregation{
				"totalCost": {
					Name:     to.Ptr("Cost"),
					Function: to.Ptr(armcostmanagement.FunctionTypeSum),
				},
			},
			Grouping: []*armcostmanagement.QueryGrouping{
				{
					Name: to.Ptr("ServiceName"),
					Type: &dimension,
				},
			},
		},
		Timeframe: &timeframe,
		TimePeriod: &armcostmanagement.QueryTimePeriod{
			From: &timeFrom,
			To:   &timeTo,
		},
	}

	result, err := client.Usage(ctx, s.scope, params, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query costs: %w", err)
	}

	costIdx, serviceIdx := -1, -1
	for i, col := range result.Properties.Columns {
		if col == nil || col.Name == nil {
			continue
		}
		switch {
		case strings.EqualFold(*col.Name, "Cost"):
			costIdx = i
		case strings.EqualFold(*col.Name, "ServiceName"):
			serviceIdx = i
		}
	}
	if costIdx < 0 || serviceIdx < 0 {
		return nil, fmt.Errorf("unexpected query result shape: missing Cost or ServiceName column")
	}

	totals := make(map[string]float64)
	for _, row := range result.Properties.Rows {
		if len(row) <= costIdx || len(row) <= serviceIdx {
			continue
		}
		amount, ok := row[costIdx].(float64)
		if !ok {
			continue
		}
		service := fmt.Sprintf("%v", row[serviceIdx])
		totals[service] += amount
	}

	costs := make([]reconcile.ServiceCost, 0, len(totals))
	for service, amount := range totals {
		costs = append(costs, reconcile.ServiceCost{Service: service, Cost: amount})
	}
	sort.Slice(costs, func(i, j int) bool { return costs[i].Service < costs[j].Service })

	return costs, nil
}
