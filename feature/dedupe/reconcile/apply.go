package reconcile

import (
	"context"
	"errors"
	"sync"

	"provider-dedupe/feature/dedupe/models"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Apply dispatches the plan's mutations to the store in batches, with
// bounded concurrency inside each batch. Failures are isolated per record:
// a failed mutation is logged and counted, and the remaining mutations still
// run. Cancellation is checked before each dispatch; a mutation already
// dispatched runs to completion.
func Apply(ctx context.Context, client StoreClient, plan *Plan, opts Options, logger *zap.Logger) models.RunResult {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}

	var (
		mu      sync.Mutex
		applied []models.Mutation
		failed  int
	)

	sem := semaphore.NewWeighted(int64(opts.Concurrency))
	expired := false

	var wg sync.WaitGroup

batches:
	for start := 0; start < len(plan.Mutations); start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > len(plan.Mutations) {
			end = len(plan.Mutations)
		}

		for _, mut := range plan.Mutations[start:end] {
			if err := ctx.Err(); err != nil {
				expired = true
				break batches
			}
			if err := sem.Acquire(ctx, 1); err != nil {
				expired = true
				break batches
			}

			wg.Add(1)
			go func(mut models.Mutation) {
				defer wg.Done()
				defer sem.Release(1)

				// A dispatched mutation runs to completion even if the run
				// deadline expires while it is in flight.
				if err := dispatch(context.WithoutCancel(ctx), client, mut); err != nil {
					logger.Warn("mutation failed",
						zap.String("op", string(mut.Op)),
						zap.String("record_id", mut.RecordID),
						zap.Error(err),
					)
					mu.Lock()
					failed++
					mu.Unlock()
					return
				}
				mu.Lock()
				applied = append(applied, mut)
				mu.Unlock()
			}(mut)
		}
		wg.Wait()
	}

	// Mutations dispatched before an early stop still run to completion.
	wg.Wait()

	// Distinguish a run cut short by its deadline from one that merely had
	// per-record failures.
	deadline := expired && errors.Is(ctx.Err(), context.DeadlineExceeded)
	cancelled := expired && !deadline

	return Summarize(plan, applied, failed, deadline, cancelled)
}

func dispatch(ctx context.Context, client StoreClient, mut models.Mutation) error {
	switch mut.Op {
	case models.OpCreate:
		return client.Create(ctx, mut.RecordID, mut.Fields)
	case models.OpUpdate:
		return client.Update(ctx, mut.RecordID, mut.Fields)
	case models.OpRemove:
		return client.Remove(ctx, mut.RecordID)
	default:
		return errors.New("unknown mutation op: " + string(mut.Op))
	}
}
