package dedupe

import (
	"context"
	"fmt"

	"provider-dedupe/feature/dedupe/cluster"
	"provider-dedupe/feature/dedupe/match"
	"provider-dedupe/feature/dedupe/merge"
	"provider-dedupe/feature/dedupe/models"
	"provider-dedupe/feature/dedupe/normalize"
	"provider-dedupe/feature/dedupe/reconcile"

	"go.uber.org/zap"
)

// Engine is the deduplication pipeline, free of HTTP and store wiring.
// Callers that own their store connection can build a plan and apply the
// mutations themselves.
type Engine struct {
	cfg      Config
	builder  *cluster.Builder
	resolver *merge.Resolver
}

// NewEngine validates the configuration and assembles the pipeline stages.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	norm := normalize.New(cfg.Match.CorroboratingFields)
	matcher := match.New(cfg.Match)

	return &Engine{
		cfg:      cfg,
		builder:  cluster.New(norm, matcher),
		resolver: merge.New(cfg.LinkedRecordFields, cfg.FieldPriority),
	}, nil
}

// Plan runs the pure stages of the pipeline: normalize, match, cluster,
// merge, and diff against the persisted state. No I/O is performed.
//
// Persisted records from state that are not already part of the batch join
// the clustering input, so a raw record that duplicates an existing store
// record maps onto its persisted identity instead of creating a twin.
// Clusters made up purely of such state records are outside the run's scope
// and produce no canonical record.
func (e *Engine) Plan(records []models.RawRecord, state map[string]models.FieldMap) (*reconcile.Plan, error) {
	inputIDs := make(map[string]struct{}, len(records))
	combined := make([]models.RawRecord, 0, len(records)+len(state))
	for _, rec := range records {
		inputIDs[rec.SourceID] = struct{}{}
		combined = append(combined, rec)
	}
	for id, fields := range state {
		if _, ok := inputIDs[id]; ok {
			continue
		}
		combined = append(combined, models.RawRecord{SourceID: id, Source: "store", Fields: fields})
	}

	clusters := e.builder.Cluster(combined)

	canonical := make([]models.CanonicalRecord, 0, len(clusters))
	for _, c := range clusters {
		if !containsInput(c, inputIDs) {
			continue
		}
		merged, err := e.resolver.Merge(c, state)
		if err != nil {
			return nil, fmt.Errorf("merge failed: %w", err)
		}
		canonical = append(canonical, merged)
	}

	opts := reconcile.Options{
		RemovalEnabled: e.cfg.RemovalEnabled,
		Concurrency:    e.cfg.ApplyConcurrency,
		BatchSize:      e.cfg.BatchSize,
	}
	return reconcile.BuildPlan(len(records), canonical, state, opts), nil
}

// Run plans and applies in one call.
func (e *Engine) Run(ctx context.Context, records []models.RawRecord, state map[string]models.FieldMap, client reconcile.StoreClient, logger *zap.Logger) (*models.RunResult, error) {
	plan, err := e.Plan(records, state)
	if err != nil {
		return nil, err
	}

	opts := reconcile.Options{
		RemovalEnabled: e.cfg.RemovalEnabled,
		Concurrency:    e.cfg.ApplyConcurrency,
		BatchSize:      e.cfg.BatchSize,
	}
	result := reconcile.Apply(ctx, client, plan, opts, logger)
	return &result, nil
}

func containsInput(c models.DuplicateCluster, inputIDs map[string]struct{}) bool {
	for _, m := range c.Members {
		if _, ok := inputIDs[m.SourceID]; ok {
			return true
		}
	}
	return false
}
