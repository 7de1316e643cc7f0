// Package reconcile diffs canonical records against the persisted state
// and applies the resulting mutation plan.
//
// Planning is pure: it only reads. Apply dispatches mutations in batches
// with bounded concurrency, tolerates partial failure, and reports what
// it actually changed. Updates that would not change a stored record are
// suppressed, which is what makes runs idempotent.
package reconcile
