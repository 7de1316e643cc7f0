package cluster

import (
	"sort"
	"strings"

	"provider-dedupe/feature/dedupe/match"
	"provider-dedupe/feature/dedupe/models"
	"provider-dedupe/feature/dedupe/normalize"
)

// Builder groups a record batch into duplicate clusters.
//
// Full pairwise comparison is quadratic, so a blocking pre-pass buckets
// records by coarse keys (canonical email, phone key, external IDs, profile
// URL, name tokens) and only pairs within a shared bucket are compared.
// Exact-signal buckets guarantee that two records with an identical strong
// signal are always compared, so blocking never loses a strong match.
type Builder struct {
	norm    *normalize.Normalizer
	matcher *match.Matcher
}

// New creates a Builder.
func New(norm *normalize.Normalizer, matcher *match.Matcher) *Builder {
	return &Builder{norm: norm, matcher: matcher}
}

// Cluster partitions the batch into duplicate clusters. Every record lands
// in exactly one cluster; singletons are valid clusters. The result is
// deterministic for a fixed input order: members are sorted by source ID and
// clusters by their first member's source ID.
//
// Transitive closure is intentional: if A matches B and B matches C, all
// three merge even when A and C alone would not match.
func (b *Builder) Cluster(records []models.RawRecord) []models.DuplicateCluster {
	n := len(records)
	if n == 0 {
		return nil
	}

	signals := make([]models.Signals, n)
	for i, rec := range records {
		signals[i] = b.norm.Normalize(rec)
	}

	uf := newUnionFind(n)
	reasons := make(map[int]map[string]struct{})

	compared := make(map[[2]int]struct{})
	for _, block := range buildBlocks(signals) {
		for x := 0; x < len(block); x++ {
			for y := x + 1; y < len(block); y++ {
				i, j := block[x], block[y]
				pair := [2]int{i, j}
				if _, done := compared[pair]; done {
					continue
				}
				compared[pair] = struct{}{}

				edge, ok := b.matcher.Match(signals[i], signals[j])
				if !ok {
					continue
				}
				uf.union(i, j)
				root := uf.find(i)
				set := reasons[root]
				if set == nil {
					set = make(map[string]struct{})
				}
				for _, name := range match.SignalNames(edge.Signals) {
					set[name] = struct{}{}
				}
				reasons[root] = set
			}
		}
	}

	// Reasons may be keyed by stale roots after later unions; fold them
	// into the final roots.
	merged := make(map[int]map[string]struct{})
	for root, set := range reasons {
		final := uf.find(root)
		dst := merged[final]
		if dst == nil {
			dst = make(map[string]struct{})
			merged[final] = dst
		}
		for name := range set {
			dst[name] = struct{}{}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	clusters := make([]models.DuplicateCluster, 0, len(groups))
	for root, indices := range groups {
		members := make([]models.RawRecord, 0, len(indices))
		for _, i := range indices {
			members = append(members, records[i])
		}
		sort.Slice(members, func(a, b int) bool {
			return members[a].SourceID < members[b].SourceID
		})

		var names []string
		if len(indices) > 1 {
			for name := range merged[root] {
				names = append(names, name)
			}
			sort.Strings(names)
		}

		clusters = append(clusters, models.DuplicateCluster{Members: members, Reasons: names})
	}

	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].Members[0].SourceID < clusters[b].Members[0].SourceID
	})

	return clusters
}

// buildBlocks buckets record indices by coarse comparison keys.
// Block keys are namespaced to keep dimensions apart.
func buildBlocks(signals []models.Signals) map[string][]int {
	blocks := make(map[string][]int)
	add := func(key string, i int) {
		blocks[key] = append(blocks[key], i)
	}

	for i, sig := range signals {
		if sig.Email != "" {
			add("e:"+sig.Email, i)
		}
		if sig.Phone != "" {
			add("p:"+sig.Phone, i)
		}
		for _, id := range sig.ExternalIDs {
			add("x:"+id, i)
		}
		if sig.LinkedIn != "" {
			add("l:"+sig.LinkedIn, i)
		}
		// Name tokens bucket candidates for the fuzzy dimension. A typo in
		// one token still leaves the others shared.
		for _, tok := range strings.Fields(sig.Name) {
			if len(tok) >= 2 {
				add("n:"+tok, i)
			}
		}
	}

	return blocks
}
