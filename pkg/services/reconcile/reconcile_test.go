package reconcile

import (
	"context"
	"testing"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Platform() string {
	args := m.Called()
	return args.String(0)
}

func (m *mockSource) BilledByService(ctx context.Context, days int) ([]ServiceCost, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ServiceCost), args.Error(1)
}

func cost(v float64) *float64 { return &v }

func inventoryTable() *domain.ResourceTable {
	return &domain.ResourceTable{
		Columns: []string{domain.ColResourceID, domain.ColService, domain.ColMonthlyCost},
		Schema:  domain.Schema{HasCost: true},
		Rows: []domain.Record{
			{ID: "i-1", Fields: map[string]string{domain.ColService: "EC2"}, Cost: cost(100)},
			{ID: "i-2", Fields: map[string]string{domain.ColService: "EC2"}, Cost: cost(50)},
			{ID: "b-1", Fields: map[string]string{domain.ColService: "S3"}, Cost: cost(10)},
			{ID: "x-1", Fields: map[string]string{}, Cost: cost(5)},
		},
	}
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	registry := NewRegistry()

	src := &mockSource{}
	err := registry.Register("aws", func(ctx context.Context, profile string) (Source, error) {
		return src, nil
	})
	require.NoError(t, err)

	err = registry.Register("aws", func(ctx context.Context, profile string) (Source, error) {
		return src, nil
	})
	assert.Error(t, err, "duplicate registration should fail")

	created, err := registry.Create(context.Background(), "aws", "default")
	require.NoError(t, err)
	assert.Same(t, src, created)

	_, err = registry.Create(context.Background(), "gcp", "default")
	assert.Error(t, err)

	assert.Equal(t, []string{"aws"}, registry.ListPlatforms())
}

func TestBuildReport_UnionOfServices(t *testing.T) {
	billed := []ServiceCost{
		{Service: "EC2", Cost: 180},
		{Service: "RDS", Cost: 75},
	}

	report := BuildReport(inventoryTable(), billed, "aws", 30)

	require.Len(t, report.Sections, 1)
	section := report.Sections[0]

	names := make([]string, 0, len(section.Details))
	for _, d := range section.Details {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"EC2", "Missing", "RDS", "S3"}, names,
		"every service from either side appears, sorted")

	assert.Equal(t, "inventory 150.00 / billed 180.00", section.Details[0].Value)
	assert.Equal(t, "delta 30.00", section.Details[0].Description)

	// RDS is billed only, S3 is inventory only.
	assert.Equal(t, "inventory 0.00 / billed 75.00", section.Details[2].Value)
	assert.Equal(t, "inventory 10.00 / billed 0.00", section.Details[3].Value)

	assert.InDelta(t, 255.0, report.TotalAmount, 1e-9)
	assert.Equal(t, "USD", report.Currency)
	assert.Equal(t, "aws", section.Summary["Platform"])
}

func TestBuildReport_UsesSourceFigures(t *testing.T) {
	src := &mockSource{}
	src.On("BilledByService", mock.Anything, 30).Return([]ServiceCost{
		{Service: "EC2", Cost: 200},
	}, nil)

	billed, err := src.BilledByService(context.Background(), 30)
	require.NoError(t, err)

	report := BuildReport(inventoryTable(), billed, "aws", 30)
	assert.InDelta(t, 200.0, report.TotalAmount, 1e-9)
	src.AssertExpectations(t)
}
