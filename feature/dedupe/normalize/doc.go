// Package normalize canonicalizes raw field values into comparable
// identity signals.
//
// Emails are lowercased and stripped of plus-tags, phone numbers reduced
// to their significant digits, names lowercased with diacritics folded
// and honorifics removed, and profile URLs normalized to a scheme-less
// canonical form. Matching never sees raw field values, only these
// canonical signals.
package normalize
