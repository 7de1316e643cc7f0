// Package merge resolves a duplicate cluster into one canonical record,
// preferring persisted identities and filling each field from the most
// authoritative member that has it.
package merge
