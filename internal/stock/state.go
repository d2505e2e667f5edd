package stock

// State is the resolved stock-availability state of a product page.
// Exactly one state is produced per check attempt.
type State string

const (
	StateAvailable  State = "AVAILABLE"
	StatePreOrder   State = "PRE_ORDER"
	StateComingSoon State = "COMING_SOON"
	StateBackorder  State = "BACKORDER"
	StateRetired    State = "RETIRED"
	StateTempOut    State = "TEMP_OUT"
	StateSoldOut    State = "SOLD_OUT"
	StateOutOfStock State = "OUT_OF_STOCK"
	StateBlocked    State = "BLOCKED"
	StateUnknown    State = "UNKNOWN"
	StateError      State = "ERROR"
)

// AllStates lists every state the classifier and orchestrator can produce.
func AllStates() []State {
	return []State{
		StateAvailable,
		StatePreOrder,
		StateComingSoon,
		StateBackorder,
		StateRetired,
		StateTempOut,
		StateSoldOut,
		StateOutOfStock,
		StateBlocked,
		StateUnknown,
		StateError,
	}
}

// ParseState maps a config string to a State, or StateUnknown with ok=false
// when the value is not part of the enumeration.
func ParseState(s string) (State, bool) {
	for _, st := range AllStates() {
		if string(st) == s {
			return st, true
		}
	}
	return StateUnknown, false
}

// DefaultNotifyStates is the reference notification policy: states worth
// waking an operator for.
func DefaultNotifyStates() []State {
	return []State{StateAvailable, StatePreOrder, StateBackorder}
}
