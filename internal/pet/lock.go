package pet

// ResolutionState is the begin -> resolve lifecycle shared by clearing
// entities and care-action locks.
type ResolutionState int

const (
	StateIdle ResolutionState = iota
	StateResolving
	StateDone
)

func (s ResolutionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s ResolutionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *ResolutionState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "resolving":
		*s = StateResolving
	case "done":
		*s = StateDone
	default:
		*s = StateIdle
	}
	return nil
}

// transition is the only place resolution states change. begin succeeds
// only from idle; finish succeeds only from resolving. release returns a
// resolving lock to idle so it can be taken again.
func (s *ResolutionState) transition(to ResolutionState) bool {
	switch {
	case *s == StateIdle && to == StateResolving:
	case *s == StateResolving && (to == StateDone || to == StateIdle):
	default:
		return false
	}
	*s = to
	return true
}

func (s *ResolutionState) begin() bool   { return s.transition(StateResolving) }
func (s *ResolutionState) finish() bool  { return s.transition(StateDone) }
func (s *ResolutionState) release() bool { return s.transition(StateIdle) }

// actionLocks holds one resolution lock per care action kind.
type actionLocks map[ActionKind]*ResolutionState

func (l actionLocks) acquire(kind ActionKind) bool {
	st, ok := l[kind]
	if !ok {
		st = new(ResolutionState)
		l[kind] = st
	}
	return st.begin()
}

func (l actionLocks) release(kind ActionKind) {
	if st, ok := l[kind]; ok {
		st.release()
	}
}

func (l actionLocks) held(kind ActionKind) bool {
	st, ok := l[kind]
	return ok && *st == StateResolving
}

// resolving returns a care action whose window is open, if any.
func (l actionLocks) resolving() ActionKind {
	for _, kind := range careActions {
		if l.held(kind) {
			return kind
		}
	}
	return ""
}
