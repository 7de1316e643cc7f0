package normalize

import (
	"net/url"
	"sort"
	"strings"
	"unicode"

	"provider-dedupe/feature/dedupe/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// honorifics and suffixes stripped from names before comparison.
var honorifics = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "miss": {}, "dr": {}, "prof": {},
	"rev": {}, "sir": {}, "dame": {},
}

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
	"phd": {}, "md": {}, "esq": {}, "dds": {}, "cpa": {}, "mba": {},
}

// externalIDFields maps intake field names to the namespace used for the
// external-identifier signal. Namespacing keeps identifiers from different
// ID spaces from colliding.
var externalIDFields = map[string]string{
	models.FieldUID:      "uid",
	models.FieldNeonID:   "neon",
	models.FieldCircleID: "circle",
	models.FieldTPGID:    "tpg",
}

// Normalizer derives matching signals from raw records.
type Normalizer struct {
	corroborating []string
	diacritics    transform.Transformer
}

// New creates a Normalizer. corroborating lists the field names whose values
// feed the weak corroborating dimensions of the matcher.
func New(corroborating []string) *Normalizer {
	return &Normalizer{
		corroborating: corroborating,
		diacritics:    transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// Normalize computes the matching signals for one record. It is a pure
// function: malformed or missing fields yield absent signals, never errors.
func (n *Normalizer) Normalize(rec models.RawRecord) models.Signals {
	sig := models.Signals{
		Email:    CanonicalEmail(rec.Fields[models.FieldEmail].AsText()),
		Phone:    CanonicalPhone(rec.Fields[models.FieldPhone].AsText()),
		Name:     n.CanonicalName(nameOf(rec.Fields)),
		LinkedIn: CanonicalURL(rec.Fields[models.FieldLinkedIn].AsText()),
	}

	for field, ns := range externalIDFields {
		if id := strings.TrimSpace(rec.Fields[field].AsText()); id != "" {
			sig.ExternalIDs = append(sig.ExternalIDs, ns+":"+strings.ToLower(id))
		}
	}
	sort.Strings(sig.ExternalIDs)

	if len(n.corroborating) > 0 {
		sig.Corroborants = make(map[string][]string, len(n.corroborating))
		for _, field := range n.corroborating {
			tokens := corroborantTokens(rec.Fields[field].AsText())
			if len(tokens) > 0 {
				sig.Corroborants[field] = tokens
			}
		}
	}

	return sig
}

// nameOf picks the record's best full-name source: the dedicated full-name
// field, else first and last name joined.
func nameOf(fields models.FieldMap) string {
	if full := fields[models.FieldFullName].AsText(); strings.TrimSpace(full) != "" {
		return full
	}
	first := fields[models.FieldFirstName].AsText()
	last := fields[models.FieldLastName].AsText()
	return strings.TrimSpace(first + " " + last)
}

// CanonicalEmail lowercases, trims, and strips the subaddress tag from an
// email address ("local+tag@domain" becomes "local@domain").
func CanonicalEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || !strings.Contains(s, "@") {
		return ""
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	if plus := strings.Index(local, "+"); plus >= 0 {
		local = local[:plus]
	}
	if local == "" || domain == "" {
		return ""
	}
	return local + "@" + domain
}

// CanonicalPhone strips non-digits and keeps the last ten digits as the
// national-number comparison key. Shorter numbers are not comparable.
func CanonicalPhone(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if len(d) < 10 {
		return ""
	}
	return d[len(d)-10:]
}

// CanonicalName lowercases, folds diacritics, strips honorifics and
// suffixes, and collapses whitespace.
func (n *Normalizer) CanonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(n.diacritics, s); err == nil {
		s = folded
	}

	var cleaned strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			cleaned.WriteRune(r)
		} else {
			cleaned.WriteRune(' ')
		}
	}

	tokens := strings.Fields(cleaned.String())
	kept := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		if i == 0 {
			if _, ok := honorifics[tok]; ok {
				continue
			}
		}
		if i > 0 {
			if _, ok := nameSuffixes[tok]; ok {
				continue
			}
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// CanonicalURL normalizes a profile URL: https scheme, lowercased host and
// path, query string and trailing slash dropped.
func CanonicalURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	path := strings.TrimSuffix(strings.ToLower(u.Path), "/")
	return "https://" + host + path
}

// corroborantTokens splits a weak-dimension value into canonical tokens.
// Comma-separated values (tags) become one token each.
func corroborantTokens(s string) []string {
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
