package domain

// Operation describes a category of encounter operation for status checks.
type Operation int

const (
	// OpUnspecified represents an invalid operation.
	OpUnspecified Operation = iota
	// OpRead represents read-only operations.
	OpRead
	// OpStart represents fixing the turn order and opening combat.
	OpStart
	// OpResolve represents attack resolution, fleeing, and turn advancement.
	OpResolve
	// OpEnd represents completing the encounter with a winner.
	OpEnd
)

// ValidateOperation ensures the encounter status allows the requested
// operation.
func (e *Encounter) ValidateOperation(op Operation) error {
	switch op {
	case OpRead:
		return nil
	case OpStart:
		if e.Status == EncounterStatusNotStarted {
			return nil
		}
	case OpResolve:
		if e.Status == EncounterStatusActive {
			return nil
		}
	case OpEnd:
		if e.Status == EncounterStatusNotStarted || e.Status == EncounterStatusActive {
			return nil
		}
	}
	return newStatusOpError(e.Status, operationLabel(op))
}

// operationLabel returns a stable label for an encounter operation.
func operationLabel(op Operation) string {
	switch op {
	case OpRead:
		return "read"
	case OpStart:
		return "start"
	case OpResolve:
		return "resolve"
	case OpEnd:
		return "end"
	default:
		return "unspecified"
	}
}
