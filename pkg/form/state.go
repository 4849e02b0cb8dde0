package form

import "maps"

// Phase is the controller lifecycle position.
type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseSubmitting Phase = "submitting"
)

// State is a snapshot of the controller's FormState. Errors only holds keys
// for fields whose latest validation failed.
type State struct {
	Values     map[string]string
	Errors     map[string]string
	Submitting bool
}

// Phase derives the lifecycle phase from the snapshot.
func (s State) Phase() Phase {
	if s.Submitting {
		return PhaseSubmitting
	}
	return PhaseEditing
}

// Valid reports whether no field currently carries an error.
func (s State) Valid() bool {
	return len(s.Errors) == 0
}

// Error returns the message recorded for name, or "".
func (s State) Error(name string) string {
	return s.Errors[name]
}

func (s State) clone() State {
	return State{
		Values:     maps.Clone(s.Values),
		Errors:     maps.Clone(s.Errors),
		Submitting: s.Submitting,
	}
}
