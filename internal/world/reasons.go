package world

// Rejection reason codes returned by mutation handlers. A handler that
// refuses an action returns OK=false with one of these; the transport maps
// the code to a human-readable server_debug diagnostic for the caller only.
//
// A stale reference (target already destroyed by a concurrent actor) is not
// a rejection: handlers treat it as a no-op and return OK=false with an
// empty reason, which suppresses the diagnostic.
const (
	RejectMissingField  = "missing_field"
	RejectNotOwner      = "not_owner"
	RejectUnaffordable  = "unaffordable"
	RejectPopulationCap = "population_cap"
	RejectOutOfRange    = "out_of_range"
	RejectSlotOccupied  = "slot_occupied"
	RejectSlotEmpty     = "slot_empty"
	RejectUnknownKind   = "unknown_kind"
	RejectUnknownPlayer = "unknown_player"
)

// Result is the common outcome of a mutation handler. Dirty names the tables
// the mutation changed so the caller can persist them; it is zero when
// nothing changed.
type Result struct {
	OK     bool
	Reason string
	Dirty  Table
}

// Silent reports whether the refusal should produce no diagnostic (stale
// reference no-ops).
func (r Result) Silent() bool { return !r.OK && r.Reason == "" }

func reject(reason string) Result { return Result{Reason: reason} }

func noop() Result { return Result{} }

func changed(tables Table) Result { return Result{OK: true, Dirty: tables} }
