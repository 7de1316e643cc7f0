package models

import (
	"strings"

	"github.com/google/uuid"
)

// recordIDPrefix is the store's record identifier prefix.
const recordIDPrefix = "rec"

// LooksLikeReference reports whether a string value is a linked-record
// identifier: the "rec" prefix followed by at least one character.
// This heuristic is load-bearing: it decides which list values are preserved
// as linked-record references instead of being flattened to text.
func LooksLikeReference(s string) bool {
	return len(s) > len(recordIDPrefix) && strings.HasPrefix(s, recordIDPrefix)
}

// MintRecordID generates a fresh store record identifier.
func MintRecordID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return recordIDPrefix + raw[:14]
}
