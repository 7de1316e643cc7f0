package reconcile

import (
	"context"

	"provider-dedupe/feature/dedupe/models"
)

// StoreClient is the per-record CRUD contract of the persistent store.
// Each call targets exactly one persisted identity and is independent of
// the others.
type StoreClient interface {
	// Create persists a new record under the given identity.
	Create(ctx context.Context, id string, fields models.FieldMap) error
	// Update applies a partial field update to an existing record.
	// Persisted fields not present in the map are preserved.
	Update(ctx context.Context, id string, fields models.FieldMap) error
	// Remove deletes a record.
	Remove(ctx context.Context, id string) error
}

// Options controls reconciliation behavior.
type Options struct {
	// RemovalEnabled allows the plan to delete persisted records absorbed
	// into another canonical record. Disabled by default: the default run
	// is additive and idempotent, never destructive.
	RemovalEnabled bool
	// Concurrency bounds the number of in-flight store mutations.
	Concurrency int
	// BatchSize groups mutations into dispatch waves, matching the store's
	// batch limits.
	BatchSize int
}

// Plan is the set of store mutations that reconciles the merge output with
// the persisted state. Building a plan performs no I/O.
type Plan struct {
	// OriginalRecords is the size of the input batch before clustering.
	OriginalRecords int `json:"original_records"`
	// FinalRecords is the number of canonical records after merging.
	FinalRecords int `json:"final_records"`
	// Mutations lists the planned operations.
	Mutations []models.Mutation `json:"mutations"`
	// Creates, Updates and Removes count the planned operations by kind.
	Creates int `json:"creates"`
	Updates int `json:"updates"`
	Removes int `json:"removes"`
	// RemovalCandidates counts persisted records that would be removed if
	// the removal policy were enabled. Informational when it is not.
	RemovalCandidates int `json:"removal_candidates"`
}
