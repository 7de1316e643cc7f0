// Package match scores pairs of normalized records.
//
// Strong signals (email, phone, external ID, profile URL) match on exact
// canonical equality. Names match fuzzily via token-sorted edit distance,
// and only count when a strong signal or a corroborating field agrees.
package match
