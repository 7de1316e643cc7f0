// Package dedupe implements the provider record deduplication feature.
//
// It finds duplicate provider records, merges each duplicate group into a
// single canonical record, and reconciles the record store to match. The
// pipeline runs in stages, each in its own subpackage:
//  1. normalize: canonicalize identity signals (emails, phones, names, URLs).
//  2. match: score record pairs on those signals.
//  3. cluster: connect matching pairs into duplicate clusters.
//  4. merge: resolve each cluster into one canonical record.
//  5. reconcile: diff canon against the store and apply the mutations.
//
// Re-running over an already-deduplicated store is a no-op: the plan diff
// suppresses updates that would not change anything, so runs are idempotent.
//
// # Components
//
//   - Engine: The pipeline as a library, usable without the HTTP layer.
//   - Service: Runs the engine over the record store, with preview caching
//     and report archival.
//   - Handler: Exposes HTTP endpoints for runs and previews.
//   - Feature: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /dedupe/run : Execute a run (options: remove, dry_run).
//   - GET /dedupe/preview : Build the mutation plan without applying it.
package dedupe
