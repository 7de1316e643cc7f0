package dedupe

import (
	"context"
	"testing"

	"provider-dedupe/core/database"
	"provider-dedupe/core/store"
	"provider-dedupe/feature/dedupe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestStore(t *testing.T) *store.Store {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	s := store.New(db)
	require.NoError(t, s.Migrate())
	return s
}

func seedDuplicates(t *testing.T, s *store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, "rec000000000001", map[string]any{
		models.FieldEmail:    "jane@example.com",
		models.FieldFullName: "Jane Doe",
	}))
	require.NoError(t, s.Create(ctx, "rec000000000002", map[string]any{
		models.FieldEmail: "Jane+alt@Example.com",
		models.FieldTitle: "Engineer",
	}))
	require.NoError(t, s.Create(ctx, "rec000000000003", map[string]any{
		models.FieldEmail:    "peter@example.com",
		models.FieldFullName: "Peter Smith",
	}))
}

func newTestService(t *testing.T, s *store.Store) *Service {
	svc, err := NewService(DefaultConfig(), s, nil, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestServiceRunMergesDuplicates(t *testing.T) {
	s := setupTestStore(t)
	seedDuplicates(t, s)
	svc := newTestService(t, s)

	report, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.OriginalRecords)
	assert.Equal(t, 2, report.FinalRecords)
	assert.Equal(t, 1, report.RecordsUpdated)
	assert.Equal(t, 0, report.RecordsCreated)
	assert.Equal(t, 0, report.RecordsRemoved, "removal is off by default")

	// The surviving record absorbed the duplicate's fields.
	rec, err := s.Get(context.Background(), "rec000000000001")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", rec.Fields[models.FieldTitle])
	assert.Equal(t, "merged", rec.Fields[models.FieldMatchStatus])

	// The absorbed duplicate still exists without the removal policy.
	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestServiceRunIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	seedDuplicates(t, s)
	svc := newTestService(t, s)

	first, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, first.RecordsUpdated)

	second, err := svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Equal(t, 0, second.RecordsUpdated, "re-run must be a no-op")
	assert.Equal(t, 0, second.RecordsCreated)
	assert.Equal(t, 0, second.RecordsRemoved)
}

func TestServiceRunWithRemoval(t *testing.T) {
	s := setupTestStore(t)
	seedDuplicates(t, s)
	svc := newTestService(t, s)

	report, err := svc.Run(context.Background(), RunOptions{Remove: true})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.Equal(t, 1, report.RecordsRemoved)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = s.Get(context.Background(), "rec000000000002")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceDryRunAppliesNothing(t *testing.T) {
	s := setupTestStore(t)
	seedDuplicates(t, s)
	svc := newTestService(t, s)

	report, err := svc.Run(context.Background(), RunOptions{DryRun: true, Remove: true})
	require.NoError(t, err)

	assert.True(t, report.Success)
	assert.True(t, report.DryRun)
	require.NotNil(t, report.Plan)
	assert.Equal(t, 1, report.Plan.Updates)
	assert.Equal(t, 1, report.Plan.Removes)

	// Nothing touched.
	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	rec, err := s.Get(context.Background(), "rec000000000001")
	require.NoError(t, err)
	assert.Nil(t, rec.Fields[models.FieldTitle])
}

func TestServicePreviewCachesAndInvalidates(t *testing.T) {
	s := setupTestStore(t)
	seedDuplicates(t, s)
	svc := newTestService(t, s)

	first, err := svc.Preview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Updates)

	// Within the TTL the same plan instance is served.
	again, err := svc.Preview(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again)

	// Applying a run invalidates the cache; the next preview is a no-op plan.
	_, err = svc.Run(context.Background(), RunOptions{})
	require.NoError(t, err)

	fresh, err := svc.Preview(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
	assert.Empty(t, fresh.Mutations)
}
