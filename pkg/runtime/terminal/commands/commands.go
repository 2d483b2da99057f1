package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/store/csvfile"
)

func loadTable(ctx context.Context, engine *compliance.Engine, path string) (*domain.ResourceTable, error) {
	inv, err := csvfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory file: %w", err)
	}

	table, err := engine.Load(ctx, inv.Header, inv.Rows)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	return table, nil
}
