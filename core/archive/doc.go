// Package archive stores deduplication run reports in object storage.
//
// It wraps the MinIO Go client behind a small Client interface so report
// writing can be mocked in unit tests (see core/archive/mocks). The same
// client works against AWS S3 and self-hosted MinIO instances.
//
// Reports are written as one JSON object per run under
// reports/<date>/<run-id>.json, so an operator can answer "what did the
// run on the 14th actually change" without database access.
//
// # Usage
//
//	client, err := archive.NewClient(cfg.Archive)
//	reports := archive.NewReports(client, cfg.Archive)
//	key, err := reports.Save(ctx, runID, result)
package archive
