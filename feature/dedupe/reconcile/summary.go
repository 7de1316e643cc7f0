package reconcile

import (
	"fmt"

	"provider-dedupe/feature/dedupe/models"
)

// Summarize aggregates the run counts. Pure aggregation, no decision logic.
func Summarize(plan *Plan, applied []models.Mutation, failed int, deadline, cancelled bool) models.RunResult {
	result := models.RunResult{
		Success:         !deadline && !cancelled,
		OriginalRecords: plan.OriginalRecords,
		FinalRecords:    plan.FinalRecords,
		RecordsFailed:   failed,
		Applied:         applied,
	}

	for _, mut := range applied {
		switch mut.Op {
		case models.OpCreate:
			result.RecordsCreated++
		case models.OpUpdate:
			result.RecordsUpdated++
		case models.OpRemove:
			result.RecordsRemoved++
		}
	}

	switch {
	case deadline:
		result.Message = fmt.Sprintf("run deadline exceeded: %d of %d mutations applied", len(applied), len(plan.Mutations))
	case cancelled:
		result.Message = fmt.Sprintf("run cancelled: %d of %d mutations applied", len(applied), len(plan.Mutations))
	case failed > 0:
		result.Message = fmt.Sprintf("completed with %d failed mutations", failed)
	default:
		result.Message = fmt.Sprintf("deduplication complete: %d records merged to %d", plan.OriginalRecords, plan.FinalRecords)
	}

	return result
}
