package models

// Well-known field names in the unified intake schema.
// Sources are consolidated into these names before the engine runs.
const (
	FieldEmail        = "Email"
	FieldFirstName    = "First Name"
	FieldLastName     = "Last Name"
	FieldFullName     = "Registrant Full Name (F)"
	FieldPhone        = "Phone"
	FieldLinkedIn     = "LinkedIn URL"
	FieldCompany      = "Company"
	FieldTitle        = "Title"
	FieldProviderType = "Provider Type"
	FieldTags         = "Tags"
	FieldUID          = "UID"
	FieldNeonID       = "NeonCRM Account ID"
	FieldCircleID     = "Circle Account ID (C)"
	FieldTPGID        = "TPG ID"
	FieldEvents       = "Events"
	FieldJoinDate     = "Join Date"
	FieldNotes        = "Notes"
	FieldMatchStatus  = "Match Status"
	FieldMatchReasons = "Match Reasons"
)

// AnnotationFields are written by the engine itself and never treated as
// substantive record content: they do not trigger updates on their own and
// are ignored when ranking members by completeness.
var AnnotationFields = map[string]struct{}{
	FieldMatchStatus:  {},
	FieldMatchReasons: {},
}

// IdentityFields carry stable identity or history. They are never
// regenerated when any cluster member already holds one.
var IdentityFields = map[string]struct{}{
	FieldUID:      {},
	FieldJoinDate: {},
	FieldNotes:    {},
}

// RawRecord is one row pulled from a source collection before deduplication.
// It is an immutable snapshot: the engine never mutates it.
type RawRecord struct {
	// SourceID is the opaque identifier of the record in its source.
	// Records read from the persistent store carry their store identity here.
	SourceID string
	// Source tags the provider or source type the record came from.
	Source string
	// Fields holds the resolved field values.
	Fields FieldMap
}

// Signals is the derived, non-authoritative view of a record used only for
// matching. It is computed fresh each run and never persisted.
type Signals struct {
	// Email is the canonical email (lowercased, subaddress stripped).
	Email string
	// Phone is the phone comparison key (digits only, last ten kept).
	Phone string
	// Name is the canonicalized full name.
	Name string
	// LinkedIn is the normalized profile URL.
	LinkedIn string
	// ExternalIDs holds namespaced source-specific unique identifiers.
	ExternalIDs []string
	// Corroborants holds canonical tokens for the weak corroborating
	// dimensions (company, tags, ...), keyed by field name.
	Corroborants map[string][]string
}

// Signal names a matching dimension that fired between two records.
type Signal string

const (
	SignalEmail      Signal = "email"
	SignalPhone      Signal = "phone"
	SignalExternalID Signal = "external_id"
	SignalLinkedIn   Signal = "linkedin"
	SignalName       Signal = "name"
)

// MatchEdge is an undirected relation between two records of a batch.
// It exists only transiently during clustering.
type MatchEdge struct {
	// A and B are indices into the run's record slice, A < B.
	A, B int
	// Signals lists the dimensions that matched.
	Signals []Signal
	// Confidence is the weighted aggregate score of the fired signals.
	Confidence float64
}

// DuplicateCluster is a maximal set of records judged to be duplicates,
// directly or transitively. Singleton clusters represent unique individuals.
type DuplicateCluster struct {
	// Members holds the cluster's records in deterministic source-ID order.
	Members []RawRecord
	// Reasons lists the distinct signal names that connected the members,
	// sorted. Empty for singletons.
	Reasons []string
}

// MutationOp is the kind of store mutation.
type MutationOp string

const (
	OpCreate MutationOp = "create"
	OpUpdate MutationOp = "update"
	OpRemove MutationOp = "remove"
)

// Mutation is one planned store operation. Each mutation targets a disjoint
// persisted identity, so no ordering between mutations is required.
type Mutation struct {
	Op MutationOp `json:"op"`
	// RecordID is the persisted identity the mutation targets. Creates carry
	// a freshly minted identifier.
	RecordID string `json:"record_id"`
	// Fields holds the full field set for creates and only the changed
	// fields for updates. Empty for removes.
	Fields FieldMap `json:"fields,omitempty"`
	// Reason explains why the mutation was planned.
	Reason string `json:"reason,omitempty"`
}

// CanonicalRecord is the merge output of one cluster.
type CanonicalRecord struct {
	// ID is the stable identity, reused from an existing persisted record
	// when the cluster maps to one. Empty until the reconciler mints one
	// for a new record.
	ID string
	// Fields is the merged field set.
	Fields FieldMap
	// MemberIDs lists the source identifiers of all cluster members.
	MemberIDs []string
	// Persisted reports whether ID refers to an existing persisted record.
	Persisted bool
}

// RunResult summarizes one engine invocation. It is immutable after
// construction.
type RunResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	OriginalRecords int    `json:"original_records"`
	FinalRecords    int    `json:"final_records"`
	RecordsUpdated  int    `json:"records_updated"`
	RecordsCreated  int    `json:"records_created"`
	RecordsRemoved  int    `json:"records_removed"`
	RecordsFailed   int    `json:"records_failed"`

	// Applied lists the mutations that were actually applied. Not part of
	// the external response shape.
	Applied []Mutation `json:"-"`
}
