package reconcile

import (
	"fmt"
	"sort"

	"provider-dedupe/feature/dedupe/models"
)

// BuildPlan diffs canonical records against the persisted state and decides
// which records to update in place, which to create, which to leave
// untouched, and which to remove.
//
// Updates are partial: only substantive fields whose merged value differs
// from the persisted one are written, so an unchanged input produces no
// mutations at all. Advisory annotation fields never trigger an update on
// their own; they are refreshed only alongside a substantive change.
func BuildPlan(originalCount int, canonical []models.CanonicalRecord, state map[string]models.FieldMap, opts Options) *Plan {
	plan := &Plan{
		OriginalRecords: originalCount,
		FinalRecords:    len(canonical),
	}

	covered := make(map[string]struct{}, len(canonical))

	for _, c := range canonical {
		if c.Persisted {
			covered[c.ID] = struct{}{}
			changed := diffFields(c.Fields, state[c.ID])
			if len(changed) == 0 {
				continue
			}
			// Refresh annotations along with the substantive change.
			for name := range models.AnnotationFields {
				if v, ok := c.Fields[name]; ok && !v.IsEmpty() {
					changed[name] = v
				}
			}
			plan.Mutations = append(plan.Mutations, models.Mutation{
				Op:       models.OpUpdate,
				RecordID: c.ID,
				Fields:   changed,
				Reason:   fmt.Sprintf("merged %d source records", len(c.MemberIDs)),
			})
			plan.Updates++
			continue
		}

		id := models.MintRecordID()
		fields := make(models.FieldMap, len(c.Fields))
		for name, v := range c.Fields {
			if !v.IsEmpty() {
				fields[name] = v
			}
		}
		plan.Mutations = append(plan.Mutations, models.Mutation{
			Op:       models.OpCreate,
			RecordID: id,
			Fields:   fields,
			Reason:   fmt.Sprintf("new record from %d source records", len(c.MemberIDs)),
		})
		plan.Creates++
	}

	// Persisted records absorbed into another canonical identity no longer
	// correspond to a surviving record. They become removals only when the
	// policy explicitly allows it.
	for _, id := range sortedStateIDs(state) {
		if _, ok := covered[id]; ok {
			continue
		}
		if !absorbed(id, canonical) {
			// Untouched by this run; leave it alone.
			continue
		}
		plan.RemovalCandidates++
		if !opts.RemovalEnabled {
			continue
		}
		plan.Mutations = append(plan.Mutations, models.Mutation{
			Op:       models.OpRemove,
			RecordID: id,
			Reason:   "duplicate absorbed into merged record",
		})
		plan.Removes++
	}

	return plan
}

// diffFields returns the substantive fields of the canonical record whose
// values differ from the persisted ones. Empty canonical values never
// overwrite persisted data.
func diffFields(canonical, persisted models.FieldMap) models.FieldMap {
	changed := make(models.FieldMap)
	for name, v := range canonical {
		if _, advisory := models.AnnotationFields[name]; advisory {
			continue
		}
		if v.IsEmpty() {
			continue
		}
		if !v.Equal(persisted[name]) {
			changed[name] = v
		}
	}
	return changed
}

// absorbed reports whether a persisted identity appears among the members of
// any canonical record. Only absorbed records are removal candidates.
func absorbed(id string, canonical []models.CanonicalRecord) bool {
	for _, c := range canonical {
		for _, member := range c.MemberIDs {
			if member == id {
				return true
			}
		}
	}
	return false
}

func sortedStateIDs(state map[string]models.FieldMap) []string {
	ids := make([]string, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
