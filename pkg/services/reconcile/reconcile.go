package reconcile

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// ServiceCost is the billed cost of one cloud service over the queried
// period.
type ServiceCost struct {
	Service string
	Cost    float64
}

// Source answers billed-cost queries for one platform.
type Source interface {
	Platform() string
	BilledByService(ctx context.Context, days int) ([]ServiceCost, error)
}

// SourceFactory builds a Source from a platform profile name.
type SourceFactory func(ctx context.Context, profile string) (Source, error)

// Registry manages platform billed-cost source factories.
type Registry interface {
	Register(platform string, factory SourceFactory) error
	Create(ctx context.Context, platform, profile string) (Source, error)
	ListPlatforms() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]SourceFactory
}

func NewRegistry() Registry {
	return &registry{factories: make(map[string]SourceFactory)}
}

func (r *registry) Register(platform string, factory SourceFactory) error {
	if platform == "" {
		return fmt.Errorf("platform name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[platform]; exists {
		return fmt.Errorf("platform %q is already registered", platform)
	}
	r.factories[platform] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, platform, profile string) (Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[platform]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("platform %q is not registered", platform)
	}
	return factory(ctx, profile)
}

func (r *registry) ListPlatforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]string, 0, len(r.factories))
	for platform := range r.factories {
		platforms = append(platforms, platform)
	}
	return platforms
}

// BuildReport compares the inventory's per-service monthly cost with
// the billed figures. Services present on only one side still get a
// row, so untracked spend and stale inventory both show up.
func BuildReport(t *domain.ResourceTable, billed []ServiceCost, platform string, days int) *domain.Report {
	inventoryCost := make(map[string]float64)
	for _, r := range t.Rows {
		inventoryCost[r.StatusLabel(domain.ColService)] += r.CostValue()
	}

	billedCost := make(map[string]float64, len(billed))
	for _, b := range billed {
		billedCost[b.Service] += b.Cost
	}

	services := make(map[string]struct{})
	for svc := range inventoryCost {
		services[svc] = struct{}{}
	}
	for svc := range billedCost {
		services[svc] = struct{}{}
	}

	names := make([]string, 0, len(services))
	for svc := range services {
		names = append(names, svc)
	}
	sort.Strings(names)

	section := domain.ReportSection{
		Title: "Inventory vs Billed Cost by Service",
		Summary: map[string]interface{}{
			"Platform": platform,
			"Period":   fmt.Sprintf("last %d days", days),
		},
	}

	var totalBilled float64
	for _, svc := range names {
		inv := inventoryCost[svc]
		bill := billedCost[svc]
		totalBilled += bill

		section.Details = append(section.Details, domain.ReportDetail{
			Name:        svc,
			Value:       fmt.Sprintf("inventory %.2f / billed %.2f", inv, bill),
			Unit:        "USD",
			Description: fmt.Sprintf("delta %.2f", math.Abs(inv-bill)),
		})
	}

	return &domain.Report{
		Title:       "Cost Reconciliation",
		GeneratedAt: time.Now(),
		Sections:    []domain.ReportSection{section},
		TotalAmount: totalBilled,
		Currency:    "USD",
	}
}
