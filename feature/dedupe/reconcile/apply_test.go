package reconcile

import (
	"context"
	"testing"

	"provider-dedupe/feature/dedupe/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// mockStore is a mock implementation of StoreClient.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, id string, fields models.FieldMap) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, id string, fields models.FieldMap) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockStore) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testPlan(muts ...models.Mutation) *Plan {
	p := &Plan{OriginalRecords: 3, FinalRecords: 2, Mutations: muts}
	for _, m := range muts {
		switch m.Op {
		case models.OpCreate:
			p.Creates++
		case models.OpUpdate:
			p.Updates++
		case models.OpRemove:
			p.Removes++
		}
	}
	return p
}

func TestApplyCountsByKind(t *testing.T) {
	client := new(mockStore)
	client.On("Create", mock.Anything, "recA", mock.Anything).Return(nil)
	client.On("Update", mock.Anything, "recB", mock.Anything).Return(nil)
	client.On("Remove", mock.Anything, "recC").Return(nil)

	plan := testPlan(
		models.Mutation{Op: models.OpCreate, RecordID: "recA"},
		models.Mutation{Op: models.OpUpdate, RecordID: "recB"},
		models.Mutation{Op: models.OpRemove, RecordID: "recC"},
	)

	result := Apply(context.Background(), client, plan, Options{Concurrency: 2, BatchSize: 10}, zap.NewNop())

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsCreated)
	assert.Equal(t, 1, result.RecordsUpdated)
	assert.Equal(t, 1, result.RecordsRemoved)
	assert.Equal(t, 0, result.RecordsFailed)
	assert.Equal(t, 3, result.OriginalRecords)
	assert.Equal(t, 2, result.FinalRecords)
	client.AssertExpectations(t)
}

func TestApplyIsolatesFailures(t *testing.T) {
	client := new(mockStore)
	client.On("Create", mock.Anything, "recA", mock.Anything).Return(assert.AnError)
	client.On("Update", mock.Anything, "recB", mock.Anything).Return(nil)

	plan := testPlan(
		models.Mutation{Op: models.OpCreate, RecordID: "recA"},
		models.Mutation{Op: models.OpUpdate, RecordID: "recB"},
	)

	result := Apply(context.Background(), client, plan, Options{}, zap.NewNop())

	// A failed mutation does not stop the rest, and the run still counts
	// as successful with the failure reported.
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.RecordsFailed)
	assert.Equal(t, 1, result.RecordsUpdated)
	assert.Equal(t, 0, result.RecordsCreated)
	assert.Contains(t, result.Message, "failed")
	client.AssertExpectations(t)
}

func TestApplyStopsOnCancelledContext(t *testing.T) {
	client := new(mockStore)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := testPlan(
		models.Mutation{Op: models.OpCreate, RecordID: "recA"},
	)

	result := Apply(ctx, client, plan, Options{}, zap.NewNop())

	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "cancelled")
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyEmptyPlan(t *testing.T) {
	client := new(mockStore)

	result := Apply(context.Background(), client, testPlan(), Options{}, zap.NewNop())

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.RecordsCreated+result.RecordsUpdated+result.RecordsRemoved)
	assert.Contains(t, result.Message, "complete")
}
