// Package models defines the record, signal, cluster, and mutation types
// shared by the deduplication pipeline stages.
package models
