// Package stack implements one application's layered HMI state: a
// mandatory Regular layer, zero or more Temporary layers, and an
// optional out-of-band Postponed layer.
package stack

import (
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

// Stack holds one application's layered HMI state. It is owned
// exclusively by the controller; nothing else mutates it.
type Stack struct {
	regular   hmistate.State
	temporary map[hmistate.StateID]hmistate.State
	postponed *hmistate.State
}

// New creates a stack with only a Regular layer installed.
func New(regular hmistate.State) *Stack {
	regular.ID = hmistate.StateRegular
	return &Stack{
		regular:   regular,
		temporary: make(map[hmistate.StateID]hmistate.State),
	}
}

// Regular returns the current Regular layer.
func (s *Stack) Regular() hmistate.State {
	return s.regular
}

// SetRegular replaces the Regular layer. It is the only way the Regular
// layer changes: exactly one Regular layer exists at the bottom at all
// times after registration.
func (s *Stack) SetRegular(state hmistate.State) {
	state.ID = hmistate.StateRegular
	s.regular = state
}

// AddTemporary pushes (or replaces) the Temporary layer for id. At most
// one layer per Temporary StateID may exist simultaneously.
func (s *Stack) AddTemporary(state hmistate.State) {
	if !state.ID.IsTemporary() {
		return
	}
	s.temporary[state.ID] = state
}

// RemoveTemporary pops the Temporary layer for id, if present. Reports
// whether a layer was actually removed.
func (s *Stack) RemoveTemporary(id hmistate.StateID) bool {
	if _, ok := s.temporary[id]; !ok {
		return false
	}
	delete(s.temporary, id)
	return true
}

// HasTemporary reports whether a Temporary layer of the given id is
// currently present.
func (s *Stack) HasTemporary(id hmistate.StateID) bool {
	_, ok := s.temporary[id]
	return ok
}

// ActiveTemporaryIDs returns the set of Temporary StateIDs currently
// present, suitable for passing to hmistate.Compose.
func (s *Stack) ActiveTemporaryIDs() map[hmistate.StateID]struct{} {
	out := make(map[hmistate.StateID]struct{}, len(s.temporary))
	for id := range s.temporary {
		out[id] = struct{}{}
	}
	return out
}

// GetState returns the layer for the given StateID if it currently
// exists on the stack (Regular, Postponed, or an active Temporary).
func (s *Stack) GetState(id hmistate.StateID) (hmistate.State, bool) {
	switch id {
	case hmistate.StateRegular:
		return s.regular, true
	case hmistate.StatePostponed:
		if s.postponed != nil {
			return *s.postponed, true
		}
		return hmistate.State{}, false
	default:
		st, ok := s.temporary[id]
		return st, ok
	}
}

// Current composes Regular plus every active Temporary layer, in the
// canonical order, into the single observable Current state.
func (s *Stack) Current(caps hmistate.Capabilities, opts hmistate.Options) hmistate.State {
	return hmistate.Compose(s.regular, s.ActiveTemporaryIDs(), caps, opts)
}

// SetPostponed stages a Regular transition for later application,
// replacing any existing Postponed layer (write-over semantics).
func (s *Stack) SetPostponed(state hmistate.State) {
	state.ID = hmistate.StatePostponed
	s.postponed = &state
}

// Postponed returns the staged Postponed layer, if any.
func (s *Stack) Postponed() (hmistate.State, bool) {
	if s.postponed == nil {
		return hmistate.State{}, false
	}
	return *s.postponed, true
}

// RemovePostponed clears the Postponed slot unconditionally.
func (s *Stack) RemovePostponed() {
	s.postponed = nil
}

// HasAnyTemporary reports whether at least one Temporary layer is active
// on this stack — used by the controller's "resuming phase" check.
func (s *Stack) HasAnyTemporary() bool {
	return len(s.temporary) > 0
}
