package dedupe

import (
	"fmt"
	"time"

	"provider-dedupe/feature/dedupe/match"
	"provider-dedupe/feature/dedupe/models"
)

// Config holds all knobs of the deduplication pipeline. It is passed into
// the engine explicitly; there is no module-level state.
type Config struct {
	// LinkedRecordFields names the fields whose values are linked-record
	// references and must never be flattened to strings.
	LinkedRecordFields []string `mapstructure:"linked_record_fields" default:"Events"`
	// RemovalEnabled allows the run to delete absorbed duplicate records.
	// Off by default: repeated runs converge without shrinking the store.
	RemovalEnabled bool `mapstructure:"removal_enabled" default:"false"`
	// ApplyConcurrency bounds concurrent store mutations.
	ApplyConcurrency int `mapstructure:"apply_concurrency" default:"4"`
	// BatchSize groups mutations into dispatch waves.
	BatchSize int `mapstructure:"batch_size" default:"10"`
	// RunTimeoutSeconds is the deadline for a whole run.
	RunTimeoutSeconds int `mapstructure:"run_timeout_seconds" default:"300"`
	// PreviewTTLSeconds is the time-to-live of the cached preview plan.
	PreviewTTLSeconds int `mapstructure:"preview_ttl_seconds" default:"60"`
	// ArchiveReports enables writing a JSON run report to object storage.
	ArchiveReports bool `mapstructure:"archive_reports" default:"false"`
	// Match holds per-signal thresholds and weights.
	Match match.Config `mapstructure:"match"`

	// FieldPriority optionally overrides the member authority ordering per
	// field with a preferred source-tag order. Library callers set it
	// programmatically.
	FieldPriority map[string][]string
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		LinkedRecordFields: []string{models.FieldEvents},
		ApplyConcurrency:   4,
		BatchSize:          10,
		RunTimeoutSeconds:  300,
		PreviewTTLSeconds:  60,
		Match:              match.DefaultConfig(),
	}
}

// Validate reports malformed configuration. A run never starts, and no
// mutation is attempted, when validation fails.
func (c Config) Validate() error {
	if c.Match.NameThreshold <= 0 || c.Match.NameThreshold > 1 {
		return fmt.Errorf("invalid config: name threshold %v not in (0, 1]", c.Match.NameThreshold)
	}
	for name, w := range map[string]float64{
		"email":       c.Match.EmailWeight,
		"phone":       c.Match.PhoneWeight,
		"external_id": c.Match.ExternalIDWeight,
		"linkedin":    c.Match.LinkedInWeight,
		"name":        c.Match.NameWeight,
	} {
		if w < 0 {
			return fmt.Errorf("invalid config: negative weight for %s signal", name)
		}
	}
	if c.ApplyConcurrency < 1 {
		return fmt.Errorf("invalid config: apply concurrency %d < 1", c.ApplyConcurrency)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("invalid config: batch size %d < 1", c.BatchSize)
	}
	return nil
}

// RunTimeout returns the run deadline as a duration.
func (c Config) RunTimeout() time.Duration {
	if c.RunTimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}

// PreviewTTL returns the preview cache time-to-live.
func (c Config) PreviewTTL() time.Duration {
	if c.PreviewTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.PreviewTTLSeconds) * time.Second
}
