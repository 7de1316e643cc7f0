package merge

import (
	"testing"

	"provider-dedupe/feature/dedupe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, source string, fields map[string]any) models.RawRecord {
	return models.RawRecord{
		SourceID: id,
		Source:   source,
		Fields:   models.ParseFields(fields),
	}
}

func TestMergeEmptyCluster(t *testing.T) {
	r := New(nil, nil)
	_, err := r.Merge(models.DuplicateCluster{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCluster)
}

func TestMergePrefersPersistedIdentity(t *testing.T) {
	r := New(nil, nil)

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("batch-1", "import", map[string]any{
				models.FieldEmail: "jane@example.com",
				models.FieldPhone: "555-123-4567",
				models.FieldTitle: "Engineer",
			}),
			record("rec000000000001", "store", map[string]any{
				models.FieldEmail: "jane@example.com",
			}),
		},
		Reasons: []string{"email"},
	}
	state := map[string]models.FieldMap{
		"rec000000000001": cluster.Members[1].Fields,
	}

	canonical, err := r.Merge(cluster, state)
	require.NoError(t, err)

	// The persisted member anchors the identity even though the batch
	// member is more complete.
	assert.Equal(t, "rec000000000001", canonical.ID)
	assert.True(t, canonical.Persisted)
	assert.Equal(t, "Engineer", canonical.Fields[models.FieldTitle].Text)
	assert.ElementsMatch(t, []string{"batch-1", "rec000000000001"}, canonical.MemberIDs)
}

func TestMergeCompletenessBreaksTies(t *testing.T) {
	r := New(nil, nil)

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("sparse", "a", map[string]any{
				models.FieldEmail: "jane@old.example.com",
			}),
			record("rich", "b", map[string]any{
				models.FieldEmail:   "jane@example.com",
				models.FieldPhone:   "555-123-4567",
				models.FieldCompany: "Acme",
			}),
		},
	}

	canonical, err := r.Merge(cluster, nil)
	require.NoError(t, err)

	assert.False(t, canonical.Persisted)
	assert.Empty(t, canonical.ID)
	assert.Equal(t, "jane@example.com", canonical.Fields[models.FieldEmail].Text)
}

func TestMergeBlankNeverOverwrites(t *testing.T) {
	r := New(nil, nil)

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("a", "x", map[string]any{
				models.FieldEmail: "jane@example.com",
				models.FieldPhone: "555-123-4567",
			}),
			record("b", "y", map[string]any{
				models.FieldEmail: "jane@example.com",
				models.FieldTitle: "Director",
			}),
		},
	}

	canonical, err := r.Merge(cluster, nil)
	require.NoError(t, err)

	// Each field comes from whichever member has it populated.
	assert.Equal(t, "555-123-4567", canonical.Fields[models.FieldPhone].Text)
	assert.Equal(t, "Director", canonical.Fields[models.FieldTitle].Text)
}

func TestMergeUnionsLinkedRecordFields(t *testing.T) {
	r := New([]string{models.FieldEvents}, nil)

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("a", "x", map[string]any{
				models.FieldEvents: []any{"recEvent01xxxxx", "recEvent02xxxxx"},
			}),
			record("b", "y", map[string]any{
				models.FieldEvents: []any{"recEvent02xxxxx", "recEvent03xxxxx"},
			}),
		},
	}

	canonical, err := r.Merge(cluster, nil)
	require.NoError(t, err)

	v := canonical.Fields[models.FieldEvents]
	assert.Equal(t, models.KindReferences, v.Kind)
	assert.Equal(t, []string{"recEvent01xxxxx", "recEvent02xxxxx", "recEvent03xxxxx"}, v.Refs)
}

func TestMergeFieldPriorityOverride(t *testing.T) {
	r := New(nil, map[string][]string{
		models.FieldTitle: {"crm"},
	})

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("a", "import", map[string]any{
				models.FieldEmail:   "jane@example.com",
				models.FieldPhone:   "555",
				models.FieldCompany: "Acme",
				models.FieldTitle:   "Engineer",
			}),
			record("b", "crm", map[string]any{
				models.FieldTitle: "Staff Engineer",
			}),
		},
	}

	canonical, err := r.Merge(cluster, nil)
	require.NoError(t, err)

	// Title follows the per-field source priority, everything else follows
	// the completeness ranking.
	assert.Equal(t, "Staff Engineer", canonical.Fields[models.FieldTitle].Text)
	assert.Equal(t, "Acme", canonical.Fields[models.FieldCompany].Text)
}

func TestMergeAnnotations(t *testing.T) {
	r := New(nil, nil)

	t.Run("Merged", func(t *testing.T) {
		cluster := models.DuplicateCluster{
			Members: []models.RawRecord{
				record("a", "x", map[string]any{models.FieldEmail: "jane@example.com"}),
				record("b", "y", map[string]any{models.FieldEmail: "jane@example.com"}),
			},
			Reasons: []string{"email", "name"},
		}

		canonical, err := r.Merge(cluster, nil)
		require.NoError(t, err)
		assert.Equal(t, "merged", canonical.Fields[models.FieldMatchStatus].Text)
		assert.Equal(t, "email, name", canonical.Fields[models.FieldMatchReasons].Text)
	})

	t.Run("Unique", func(t *testing.T) {
		cluster := models.DuplicateCluster{
			Members: []models.RawRecord{
				record("a", "x", map[string]any{models.FieldEmail: "jane@example.com"}),
			},
		}

		canonical, err := r.Merge(cluster, nil)
		require.NoError(t, err)
		assert.Equal(t, "unique", canonical.Fields[models.FieldMatchStatus].Text)
		assert.True(t, canonical.Fields[models.FieldMatchReasons].IsEmpty())
	})
}

func TestMergeCarriesIdentityFields(t *testing.T) {
	r := New(nil, nil)

	cluster := models.DuplicateCluster{
		Members: []models.RawRecord{
			record("a", "x", map[string]any{
				models.FieldEmail: "jane@example.com",
				models.FieldPhone: "555-123-4567",
			}),
			record("b", "y", map[string]any{
				models.FieldEmail:    "jane@example.com",
				models.FieldUID:      "U-42",
				models.FieldJoinDate: "2019-04-01",
			}),
		},
	}

	canonical, err := r.Merge(cluster, nil)
	require.NoError(t, err)

	assert.Equal(t, "U-42", canonical.Fields[models.FieldUID].Text)
	assert.Equal(t, "2019-04-01", canonical.Fields[models.FieldJoinDate].Text)
}
