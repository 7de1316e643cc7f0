package dedupe

import (
	"context"
	"sync"
	"time"

	"provider-dedupe/core/archive"
	"provider-dedupe/core/store"
	"provider-dedupe/feature/dedupe/models"
	"provider-dedupe/feature/dedupe/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RunOptions control a single deduplication run.
type RunOptions struct {
	// Remove enables removal of absorbed duplicate records for this run,
	// on top of whatever the configuration allows.
	Remove bool `json:"remove"`
	// DryRun builds and returns the mutation plan without applying it.
	DryRun bool `json:"dry_run"`
}

// RunReport is the outcome of one deduplication run.
type RunReport struct {
	RunID  string `json:"run_id"`
	DryRun bool   `json:"dry_run,omitempty"`
	models.RunResult
	// Plan is included for dry runs so callers can inspect what would
	// have happened.
	Plan *reconcile.Plan `json:"plan,omitempty"`
	// ArchiveKey is the object key of the archived report, when report
	// archival is enabled.
	ArchiveKey string `json:"archive_key,omitempty"`
}

// Service runs deduplication over the persisted provider records.
type Service struct {
	cfg     Config
	store   *store.Store
	reports *archive.Reports
	logger  *zap.Logger

	previewMu    sync.RWMutex
	previewPlan  *reconcile.Plan
	previewBuilt time.Time
	sf           singleflight.Group
}

// NewService creates a deduplication service. reports may be nil when
// report archival is disabled.
func NewService(cfg Config, st *store.Store, reports *archive.Reports, logger *zap.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		cfg:     cfg,
		store:   st,
		reports: reports,
		logger:  logger,
	}, nil
}

// loadState reads all persisted records and returns them both as the raw
// batch to deduplicate and as the persisted-state index.
func (s *Service) loadState(ctx context.Context) ([]models.RawRecord, map[string]models.FieldMap, error) {
	persisted, err := s.store.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	records := make([]models.RawRecord, 0, len(persisted))
	state := make(map[string]models.FieldMap, len(persisted))
	for _, rec := range persisted {
		fields := models.ParseFields(rec.Fields)
		records = append(records, models.RawRecord{
			SourceID: rec.ID,
			Source:   "store",
			Fields:   fields,
		})
		state[rec.ID] = fields
	}
	return records, state, nil
}

// Run executes one deduplication run over the store: plan, then apply,
// then report. The run is bounded by the configured timeout.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout())
	defer cancel()

	cfg := s.cfg
	cfg.RemovalEnabled = cfg.RemovalEnabled || opts.Remove

	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	records, state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := engine.Plan(records, state)
	if err != nil {
		return nil, err
	}

	logger.Info("Deduplication plan built",
		zap.Int("original_records", plan.OriginalRecords),
		zap.Int("final_records", plan.FinalRecords),
		zap.Int("creates", plan.Creates),
		zap.Int("updates", plan.Updates),
		zap.Int("removes", plan.Removes),
		zap.Int("removal_candidates", plan.RemovalCandidates),
		zap.Bool("dry_run", opts.DryRun))

	if opts.DryRun {
		return &RunReport{
			RunID:  runID,
			DryRun: true,
			RunResult: models.RunResult{
				Success:         true,
				Message:         "Dry run, no mutations applied.",
				OriginalRecords: plan.OriginalRecords,
				FinalRecords:    plan.FinalRecords,
			},
			Plan: plan,
		}, nil
	}

	result := reconcile.Apply(ctx, &storeAdapter{store: s.store}, plan, reconcile.Options{
		RemovalEnabled: cfg.RemovalEnabled,
		Concurrency:    cfg.ApplyConcurrency,
		BatchSize:      cfg.BatchSize,
	}, logger)

	if len(result.Applied) > 0 {
		s.invalidatePreview()
	}

	report := &RunReport{RunID: runID, RunResult: result}

	if s.reports != nil && s.cfg.ArchiveReports {
		// Archival is best effort; the run outcome stands either way.
		key, archiveErr := s.reports.Save(ctx, runID, report)
		if archiveErr != nil {
			logger.Warn("Failed to archive run report", zap.Error(archiveErr))
		} else {
			report.ArchiveKey = key
		}
	}

	logger.Info("Deduplication run finished",
		zap.Bool("success", result.Success),
		zap.Int("records_created", result.RecordsCreated),
		zap.Int("records_updated", result.RecordsUpdated),
		zap.Int("records_removed", result.RecordsRemoved),
		zap.Int("records_failed", result.RecordsFailed))

	return report, nil
}

// Preview returns the current mutation plan without applying it. Plans are
// cached for the configured TTL; concurrent requests share one build.
func (s *Service) Preview(ctx context.Context) (*reconcile.Plan, error) {
	ttl := s.cfg.PreviewTTL()

	// Fast path: fresh cached plan.
	s.previewMu.RLock()
	plan, built := s.previewPlan, s.previewBuilt
	s.previewMu.RUnlock()
	if plan != nil && time.Since(built) <= ttl {
		return plan, nil
	}

	// Slow path: build under singleflight to prevent stampedes.
	result, err, _ := s.sf.Do("preview", func() (interface{}, error) {
		s.previewMu.RLock()
		plan, built := s.previewPlan, s.previewBuilt
		s.previewMu.RUnlock()
		if plan != nil && time.Since(built) <= ttl {
			return plan, nil
		}

		engine, err := NewEngine(s.cfg)
		if err != nil {
			return nil, err
		}
		records, state, err := s.loadState(ctx)
		if err != nil {
			return nil, err
		}
		fresh, err := engine.Plan(records, state)
		if err != nil {
			return nil, err
		}

		s.previewMu.Lock()
		s.previewPlan = fresh
		s.previewBuilt = time.Now()
		s.previewMu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*reconcile.Plan), nil
}

// invalidatePreview drops the cached plan after the store changed.
func (s *Service) invalidatePreview() {
	s.previewMu.Lock()
	s.previewPlan = nil
	s.previewMu.Unlock()
}

// storeAdapter exposes the record store as a reconcile target.
type storeAdapter struct {
	store *store.Store
}

func (a *storeAdapter) Create(ctx context.Context, id string, fields models.FieldMap) error {
	return a.store.Create(ctx, id, fields.ToAny())
}

func (a *storeAdapter) Update(ctx context.Context, id string, fields models.FieldMap) error {
	return a.store.Update(ctx, id, fields.ToAny())
}

func (a *storeAdapter) Remove(ctx context.Context, id string) error {
	return a.store.Remove(ctx, id)
}
