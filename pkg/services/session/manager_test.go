package session

import (
	"context"
	"testing"

	"github.com/de-tools/tag-atlas/pkg/models/domain"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) (*Manager, *compliance.Engine) {
	t.Helper()
	engine := compliance.NewEngine(compliance.Options{})
	original, err := engine.Load(context.Background(),
		[]string{"ResourceID", "MonthlyCostUSD", "Tagged", "Department", "Project", "Environment", "Owner"},
		[]map[string]string{
			{"ResourceID": "R1", "MonthlyCostUSD": "100", "Tagged": "No"},
			{"ResourceID": "R2", "MonthlyCostUSD": "50", "Tagged": "Yes", "Department": "Sales"},
		})
	require.NoError(t, err)
	return NewManager(engine, original), engine
}

func strPtr(s string) *string { return &s }

func TestManager_SessionsAreIndependentCopies(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	a := m.Create(ctx)
	b := m.Create(ctx)

	_, err := m.ApplyEdits(ctx, a.ID, domain.EditBatch{
		Edits: []domain.FieldEdit{{
			ResourceID: "R1",
			Fields:     map[string]*string{"Department": strPtr("Eng")},
		}},
	})
	require.NoError(t, err)

	workingA, err := m.Working(a.ID)
	require.NoError(t, err)
	workingB, err := m.Working(b.ID)
	require.NoError(t, err)

	assert.False(t, workingA.Rows[0].Missing("Department"))
	assert.True(t, workingB.Rows[0].Missing("Department"))
	assert.True(t, m.Original().Rows[0].Missing("Department"))
}

func TestManager_UnknownSession(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	_, err := m.Working("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.ApplyEdits(ctx, "nope", domain.EditBatch{})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, m.Delete(ctx, "nope"), ErrSessionNotFound)
}

func TestManager_DeleteDiscardsWorkingCopy(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s := m.Create(ctx)
	require.NoError(t, m.Delete(ctx, s.ID))

	_, err := m.Working(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_CompareReflectsEdits(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	s := m.Create(ctx)
	_, err := m.ApplyEdits(ctx, s.ID, domain.EditBatch{
		Edits: []domain.FieldEdit{{
			ResourceID: "R1",
			Fields: map[string]*string{
				"Department":  strPtr("Eng"),
				"Project":     strPtr("Atlas"),
				"Environment": strPtr("Prod"),
				"Owner":       strPtr("alice"),
			},
		}},
	})
	require.NoError(t, err)

	cmp, err := m.Compare(s.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cmp.Before.UntaggedCount)
	assert.Zero(t, cmp.After.UntaggedCount)
	assert.Equal(t, 100.0, cmp.Before.UntaggedCost)
	assert.Zero(t, cmp.After.UntaggedCost)
}
