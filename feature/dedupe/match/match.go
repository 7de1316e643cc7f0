package match

import (
	"sort"

	"provider-dedupe/feature/dedupe/models"
)

// Config holds the per-signal thresholds and weights.
type Config struct {
	// NameThreshold is the minimum fuzzy name similarity (0-1) for the name
	// dimension to fire.
	NameThreshold float64 `mapstructure:"name_threshold" default:"0.85"`
	// Per-signal weights for the aggregate confidence score.
	EmailWeight      float64 `mapstructure:"email_weight" default:"1.0"`
	PhoneWeight      float64 `mapstructure:"phone_weight" default:"0.8"`
	ExternalIDWeight float64 `mapstructure:"external_id_weight" default:"1.0"`
	LinkedInWeight   float64 `mapstructure:"linkedin_weight" default:"0.9"`
	NameWeight       float64 `mapstructure:"name_weight" default:"0.6"`
	// CorroboratingFields lists the field names whose shared values let a
	// fuzzy name match through. A name match alone never produces an edge.
	CorroboratingFields []string `mapstructure:"corroborating_fields" default:"Company,Tags,Provider Type"`
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		NameThreshold:       0.85,
		EmailWeight:         1.0,
		PhoneWeight:         0.8,
		ExternalIDWeight:    1.0,
		LinkedInWeight:      0.9,
		NameWeight:          0.6,
		CorroboratingFields: []string{models.FieldCompany, models.FieldTags, models.FieldProviderType},
	}
}

// Matcher computes pairwise similarity between normalized records.
type Matcher struct {
	cfg Config
}

// New creates a Matcher.
func New(cfg Config) *Matcher {
	return &Matcher{cfg: cfg}
}

// Config returns the matcher's configuration.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Match evaluates two records' signals and reports whether they form an
// edge. The comparison is symmetric. An edge requires at least one strong
// signal (email, phone, external ID, LinkedIn), or a fuzzy name match above
// the threshold corroborated by at least one shared weak dimension.
func (m *Matcher) Match(a, b models.Signals) (models.MatchEdge, bool) {
	var fired []models.Signal
	confidence := 0.0

	if a.Email != "" && a.Email == b.Email {
		fired = append(fired, models.SignalEmail)
		confidence += m.cfg.EmailWeight
	}
	if a.Phone != "" && a.Phone == b.Phone {
		fired = append(fired, models.SignalPhone)
		confidence += m.cfg.PhoneWeight
	}
	if idsIntersect(a.ExternalIDs, b.ExternalIDs) {
		fired = append(fired, models.SignalExternalID)
		confidence += m.cfg.ExternalIDWeight
	}
	if a.LinkedIn != "" && a.LinkedIn == b.LinkedIn {
		fired = append(fired, models.SignalLinkedIn)
		confidence += m.cfg.LinkedInWeight
	}

	strong := len(fired) > 0

	// The fuzzy name dimension fires only with corroboration, to avoid
	// false positives from common names.
	if a.Name != "" && b.Name != "" {
		if TokenSortRatio(a.Name, b.Name) >= m.cfg.NameThreshold {
			if strong || m.corroborated(a, b) {
				fired = append(fired, models.SignalName)
				confidence += m.cfg.NameWeight
			}
		}
	}

	if !strong && !containsSignal(fired, models.SignalName) {
		return models.MatchEdge{}, false
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return models.MatchEdge{Signals: fired, Confidence: confidence}, true
}

// corroborated reports whether the two records share a value on any of the
// configured weak dimensions.
func (m *Matcher) corroborated(a, b models.Signals) bool {
	for _, field := range m.cfg.CorroboratingFields {
		if tokensIntersect(a.Corroborants[field], b.Corroborants[field]) {
			return true
		}
	}
	return false
}

// idsIntersect reports whether two sorted identifier sets share an element.
func idsIntersect(a, b []string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			return true
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return false
}

func tokensIntersect(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func containsSignal(signals []models.Signal, s models.Signal) bool {
	for _, sig := range signals {
		if sig == s {
			return true
		}
	}
	return false
}

// SignalNames renders a sorted, de-duplicated list of signal names.
func SignalNames(signals []models.Signal) []string {
	seen := make(map[string]struct{}, len(signals))
	out := make([]string, 0, len(signals))
	for _, s := range signals {
		name := string(s)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
