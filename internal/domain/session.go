package domain

import "time"

// State identifies the step of a workflow a user is currently in.
type State string

const (
	StateInitial State = "initial"

	StateCounselorQ1      State = "counselor_q1"
	StateCounselorQ2      State = "counselor_q2"
	StateCounselorQ3      State = "counselor_q3"
	StateCounselorQ4      State = "counselor_q4"
	StateCounselorQ5      State = "counselor_q5"
	StateCounselorConfirm State = "counselor_confirm"

	StateAnonymousInput State = "anonymous_complaint_input"

	StateDepartmentSelection State = "department_selection"
	StateUrgencySelection    State = "urgency_selection"
	StateDepartmentInput     State = "department_complaint_input"
	StateDepartmentConfirm   State = "department_complaint_confirm"
)

var knownStates = map[State]struct{}{
	StateInitial:             {},
	StateCounselorQ1:         {},
	StateCounselorQ2:         {},
	StateCounselorQ3:         {},
	StateCounselorQ4:         {},
	StateCounselorQ5:         {},
	StateCounselorConfirm:    {},
	StateAnonymousInput:      {},
	StateDepartmentSelection: {},
	StateUrgencySelection:    {},
	StateDepartmentInput:     {},
	StateDepartmentConfirm:   {},
}

// Valid reports whether s belongs to one of the workflows.
func (s State) Valid() bool {
	_, ok := knownStates[s]
	return ok
}

// Session is the per-user conversation record.
type Session struct {
	UserID         string
	State          State
	Data           map[string]string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// Clone returns a deep copy so callers never share the data map with the store.
func (s Session) Clone() Session {
	out := s
	out.Data = make(map[string]string, len(s.Data))
	for k, v := range s.Data {
		out.Data[k] = v
	}
	return out
}
