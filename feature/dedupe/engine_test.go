package dedupe

import (
	"testing"

	"provider-dedupe/feature/dedupe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawRecord(id string, fields map[string]any) models.RawRecord {
	return models.RawRecord{
		SourceID: id,
		Source:   "import",
		Fields:   models.ParseFields(fields),
	}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Match.NameThreshold = 1.5

	_, err := NewEngine(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.BatchSize = 0
	_, err = NewEngine(cfg)
	assert.Error(t, err)
}

func TestEnginePlanMergesBatch(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	records := []models.RawRecord{
		rawRecord("a", map[string]any{
			models.FieldEmail:    "jane@example.com",
			models.FieldFullName: "Jane Doe",
		}),
		rawRecord("b", map[string]any{
			models.FieldEmail: "Jane+alt@example.com",
			models.FieldTitle: "Engineer",
		}),
		rawRecord("c", map[string]any{
			models.FieldEmail:    "peter@example.com",
			models.FieldFullName: "Peter Smith",
		}),
	}

	plan, err := engine.Plan(records, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, plan.OriginalRecords)
	assert.Equal(t, 2, plan.FinalRecords)
	assert.Equal(t, 2, plan.Creates)
	assert.Equal(t, 0, plan.Updates)

	// The merged record carries fields from both duplicates.
	var merged models.FieldMap
	for _, mut := range plan.Mutations {
		if mut.Fields[models.FieldEmail].Text == "jane@example.com" {
			merged = mut.Fields
		}
	}
	require.NotNil(t, merged)
	assert.Equal(t, "Jane Doe", merged[models.FieldFullName].Text)
	assert.Equal(t, "Engineer", merged[models.FieldTitle].Text)
	assert.Equal(t, "merged", merged[models.FieldMatchStatus].Text)
}

func TestEnginePlanMapsBatchOntoPersistedState(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	state := map[string]models.FieldMap{
		"rec000000000001": models.ParseFields(map[string]any{
			models.FieldEmail:    "jane@example.com",
			models.FieldFullName: "Jane Doe",
		}),
	}

	records := []models.RawRecord{
		rawRecord("batch-1", map[string]any{
			models.FieldEmail: "jane@example.com",
			models.FieldTitle: "Engineer",
		}),
	}

	plan, err := engine.Plan(records, state)
	require.NoError(t, err)

	// The batch record lands on the persisted identity instead of creating
	// a twin.
	assert.Equal(t, 0, plan.Creates)
	require.Equal(t, 1, plan.Updates)
	mut := plan.Mutations[0]
	assert.Equal(t, "rec000000000001", mut.RecordID)
	assert.Equal(t, "Engineer", mut.Fields[models.FieldTitle].Text)
}

func TestEnginePlanIgnoresPureStateClusters(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	state := map[string]models.FieldMap{
		"rec000000000001": models.ParseFields(map[string]any{
			models.FieldEmail: "other@example.com",
		}),
	}

	records := []models.RawRecord{
		rawRecord("batch-1", map[string]any{models.FieldEmail: "jane@example.com"}),
	}

	plan, err := engine.Plan(records, state)
	require.NoError(t, err)

	// Only the batch record produces a mutation; untouched persisted
	// records stay out of scope.
	require.Equal(t, 1, plan.Creates)
	assert.Equal(t, 1, len(plan.Mutations))
}

func TestEnginePlanIsIdempotent(t *testing.T) {
	engine, err := NewEngine(DefaultConfig())
	require.NoError(t, err)

	records := []models.RawRecord{
		rawRecord("a", map[string]any{
			models.FieldEmail:    "jane@example.com",
			models.FieldFullName: "Jane Doe",
		}),
		rawRecord("b", map[string]any{
			models.FieldEmail: "jane@example.com",
			models.FieldTitle: "Engineer",
		}),
	}

	first, err := engine.Plan(records, nil)
	require.NoError(t, err)
	require.Equal(t, 1, first.Creates)

	// Simulate the store after applying the first plan.
	state := make(map[string]models.FieldMap)
	for _, mut := range first.Mutations {
		state[mut.RecordID] = mut.Fields
	}

	// Running the same batch against the updated store changes nothing.
	second, err := engine.Plan(records, state)
	require.NoError(t, err)
	assert.Empty(t, second.Mutations, "second run must be a no-op")
	assert.Equal(t, 2, second.OriginalRecords)
	assert.Equal(t, 1, second.FinalRecords)
}
