// Package store persists provider records in the relational database.
//
// Records are stored as an identity plus an open JSON field map, so the
// schema does not have to change when the upstream field set does. All
// writes are per-record; callers that need multi-record coordination
// sequence their own calls.
package store
