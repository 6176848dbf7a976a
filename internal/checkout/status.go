package checkout

// Status tracks a checkout attempt through the orchestrator.
type Status string

const (
	StatusValidating      Status = "VALIDATING"
	StatusPricingComputed Status = "PRICING_COMPUTED"
	StatusStockReserved   Status = "STOCK_RESERVED"
	StatusAssembled       Status = "ASSEMBLED"
	StatusPersisted       Status = "PERSISTED"
	StatusFailed          Status = "FAILED"
)

var statusOrder = map[Status]int{
	StatusValidating:      0,
	StatusPricingComputed: 1,
	StatusStockReserved:   2,
	StatusAssembled:       3,
	StatusPersisted:       4,
}

func (s Status) IsTerminal() bool {
	return s == StatusPersisted || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo allows only the next step in the pipeline, plus FAILED
// from any non-terminal state.
func (s Status) CanTransitionTo(to Status) bool {
	if s.IsTerminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}

	fromIdx, ok := statusOrder[s]
	if !ok {
		return false
	}
	toIdx, ok := statusOrder[to]
	if !ok {
		return false
	}
	return toIdx == fromIdx+1
}
