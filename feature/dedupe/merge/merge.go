package merge

import (
	"errors"
	"sort"
	"strings"

	"provider-dedupe/feature/dedupe/models"
)

// ErrEmptyCluster signals an invariant violation in the cluster builder.
// Clusters partition the input, so an empty cluster is not a reachable
// state and is never recovered from.
var ErrEmptyCluster = errors.New("merge: empty cluster")

// Resolver collapses duplicate clusters into canonical records using
// deterministic field rules.
type Resolver struct {
	linkedFields  map[string]struct{}
	fieldPriority map[string][]string
}

// New creates a Resolver. linkedFields names the fields whose values are
// always reference-valued; fieldPriority optionally overrides the member
// authority ordering per field with a preferred source-tag order.
func New(linkedFields []string, fieldPriority map[string][]string) *Resolver {
	linked := make(map[string]struct{}, len(linkedFields))
	for _, f := range linkedFields {
		linked[f] = struct{}{}
	}
	return &Resolver{linkedFields: linked, fieldPriority: fieldPriority}
}

// Merge collapses one cluster into a canonical record.
//
// Member authority: a member backed by a persisted record outranks the rest,
// then the member with the most populated fields, then ascending source-ID
// order. Scalar fields take the most authoritative non-empty value, so a
// blank never overwrites a populated value. Reference-valued fields take the
// union of all referenced identifiers in first-seen order and are never
// flattened. Identity and history fields are carried, not regenerated; the
// canonical identity is left empty when no member maps to a persisted
// record, for the reconciler to mint.
func (r *Resolver) Merge(cluster models.DuplicateCluster, state map[string]models.FieldMap) (models.CanonicalRecord, error) {
	if len(cluster.Members) == 0 {
		return models.CanonicalRecord{}, ErrEmptyCluster
	}

	ranked := r.rankMembers(cluster.Members, state)

	canonical := models.CanonicalRecord{
		Fields: make(models.FieldMap),
	}
	for _, m := range ranked {
		canonical.MemberIDs = append(canonical.MemberIDs, m.SourceID)
	}

	if _, ok := state[ranked[0].SourceID]; ok {
		canonical.ID = ranked[0].SourceID
		canonical.Persisted = true
	}

	fields := fieldUniverse(ranked)
	for _, name := range fields {
		if r.isLinked(name, ranked) {
			canonical.Fields[name] = unionReferences(name, ranked)
			continue
		}
		canonical.Fields[name] = r.resolveScalar(name, ranked)
	}

	r.annotate(&canonical, cluster)

	return canonical, nil
}

// rankMembers orders cluster members by authority.
func (r *Resolver) rankMembers(members []models.RawRecord, state map[string]models.FieldMap) []models.RawRecord {
	ranked := make([]models.RawRecord, len(members))
	copy(ranked, members)

	persisted := func(m models.RawRecord) bool {
		_, ok := state[m.SourceID]
		return ok
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		pa, pb := persisted(ranked[a]), persisted(ranked[b])
		if pa != pb {
			return pa
		}
		ca := ranked[a].Fields.PopulatedCount(models.AnnotationFields)
		cb := ranked[b].Fields.PopulatedCount(models.AnnotationFields)
		if ca != cb {
			return ca > cb
		}
		return ranked[a].SourceID < ranked[b].SourceID
	})

	return ranked
}

// isLinked reports whether a field is reference-valued: either configured as
// such, or carrying references in any member.
func (r *Resolver) isLinked(name string, members []models.RawRecord) bool {
	if _, ok := r.linkedFields[name]; ok {
		return true
	}
	for _, m := range members {
		if m.Fields[name].Kind == models.KindReferences {
			return true
		}
	}
	return false
}

// resolveScalar picks the scalar value for one field across the ranked
// members: the first non-empty value in authority order wins. A per-field
// priority override re-ranks members by source tag before the global order.
func (r *Resolver) resolveScalar(name string, ranked []models.RawRecord) models.Value {
	order := ranked
	if prefs, ok := r.fieldPriority[name]; ok && len(prefs) > 0 {
		order = reorderBySource(ranked, prefs)
	}
	for _, m := range order {
		if v := m.Fields[name]; !v.IsEmpty() {
			return v
		}
	}
	return models.Absent
}

// reorderBySource stably moves members whose source tag appears in prefs to
// the front, in prefs order. Members with unlisted sources keep their
// relative authority order after them.
func reorderBySource(ranked []models.RawRecord, prefs []string) []models.RawRecord {
	pos := make(map[string]int, len(prefs))
	for i, src := range prefs {
		pos[src] = i
	}
	out := make([]models.RawRecord, len(ranked))
	copy(out, ranked)
	sort.SliceStable(out, func(a, b int) bool {
		ia, oka := pos[out[a].Source]
		ib, okb := pos[out[b].Source]
		if oka != okb {
			return oka
		}
		if oka && okb && ia != ib {
			return ia < ib
		}
		return false
	})
	return out
}

// unionReferences unions all referenced identifiers for one field across
// the members, deduplicated, preserving first-seen order.
func unionReferences(name string, members []models.RawRecord) models.Value {
	var all []string
	for _, m := range members {
		v := m.Fields[name]
		if v.Kind == models.KindReferences {
			all = append(all, v.Refs...)
		}
	}
	return models.NewReferences(all...)
}

// fieldUniverse returns the sorted set of field names present in any member.
func fieldUniverse(members []models.RawRecord) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range members {
		for name := range m.Fields {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// annotate writes the engine's advisory fields. A cluster counts as merged
// when it joined records with at least two distinct source identities.
func (r *Resolver) annotate(canonical *models.CanonicalRecord, cluster models.DuplicateCluster) {
	distinct := make(map[string]struct{}, len(cluster.Members))
	for _, m := range cluster.Members {
		distinct[m.SourceID] = struct{}{}
	}

	status := "unique"
	if len(distinct) > 1 {
		status = "merged"
	}
	canonical.Fields[models.FieldMatchStatus] = models.NewText(status)

	if len(cluster.Reasons) > 0 {
		canonical.Fields[models.FieldMatchReasons] = models.NewText(strings.Join(cluster.Reasons, ", "))
	}
}
