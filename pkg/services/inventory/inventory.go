package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
)

// Source collects live resource rows from one cloud platform, shaped
// like the CSV inventory: one cell map per resource, keyed by the
// recognized column names.
type Source interface {
	Platform() string
	Collect(ctx context.Context) ([]map[string]string, error)
}

// SourceFactory builds a Source from a shared-config profile name.
type SourceFactory func(ctx context.Context, profile string) (Source, error)

// Header returns the column order scan output is written with.
func Header() []string {
	return []string{
		domain.ColResourceID,
		domain.ColService,
		domain.ColRegion,
		domain.ColMonthlyCost,
		domain.ColTagged,
		domain.ColDepartment,
		domain.ColProject,
		domain.ColEnvironment,
		domain.ColOwner,
		domain.ColCostCenter,
		domain.ColCreatedBy,
	}
}

// Registry manages platform source factories.
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
	return &registry{
		factories: make(map[string]SourceFactory),
	}
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
