package stack

import (
	"testing"

	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

func regular(level hmistate.HmiLevel, audio hmistate.AudioStreamingState) hmistate.State {
	return hmistate.New(hmistate.StateRegular, level, audio, hmistate.NotStreamable, hmistate.ContextMain)
}

func TestNewTagsRegularLayer(t *testing.T) {
	s := New(regular(hmistate.LevelFull, hmistate.Audible))
	if s.Regular().ID != hmistate.StateRegular {
		t.Fatalf("Regular().ID = %v, want StateRegular", s.Regular().ID)
	}
}

func TestAddTemporaryRejectsNonTemporaryIDs(t *testing.T) {
	s := New(regular(hmistate.LevelNone, hmistate.NotAudible))
	s.AddTemporary(hmistate.State{ID: hmistate.StateRegular})
	if s.HasTemporary(hmistate.StateRegular) {
		t.Fatalf("Regular should never be addable as a Temporary layer")
	}
}

func TestAddRemoveTemporary(t *testing.T) {
	s := New(regular(hmistate.LevelNone, hmistate.NotAudible))
	s.AddTemporary(hmistate.State{ID: hmistate.StateVRSession})
	if !s.HasTemporary(hmistate.StateVRSession) {
		t.Fatalf("expected VR_SESSION to be present after AddTemporary")
	}
	if !s.RemoveTemporary(hmistate.StateVRSession) {
		t.Fatalf("expected RemoveTemporary to report success")
	}
	if s.HasTemporary(hmistate.StateVRSession) {
		t.Fatalf("expected VR_SESSION to be gone after RemoveTemporary")
	}
	if s.RemoveTemporary(hmistate.StateVRSession) {
		t.Fatalf("expected a second RemoveTemporary to report no-op")
	}
}

func TestPostponedWriteOverSemantics(t *testing.T) {
	s := New(regular(hmistate.LevelNone, hmistate.NotAudible))
	s.SetPostponed(regular(hmistate.LevelLimited, hmistate.Audible))
	s.SetPostponed(regular(hmistate.LevelFull, hmistate.Audible))

	got, ok := s.Postponed()
	if !ok {
		t.Fatalf("expected a postponed state to be present")
	}
	if got.Level != hmistate.LevelFull {
		t.Fatalf("Level = %v, want the second (overwriting) postponement's FULL", got.Level)
	}
}

func TestRemovePostponed(t *testing.T) {
	s := New(regular(hmistate.LevelNone, hmistate.NotAudible))
	s.SetPostponed(regular(hmistate.LevelFull, hmistate.Audible))
	s.RemovePostponed()
	if _, ok := s.Postponed(); ok {
		t.Fatalf("expected no postponed state after RemovePostponed")
	}
}

func TestHasAnyTemporary(t *testing.T) {
	s := New(regular(hmistate.LevelNone, hmistate.NotAudible))
	if s.HasAnyTemporary() {
		t.Fatalf("fresh stack should have no Temporary layers")
	}
	s.AddTemporary(hmistate.State{ID: hmistate.StateTTSSession})
	if !s.HasAnyTemporary() {
		t.Fatalf("expected HasAnyTemporary to be true after a push")
	}
}

func TestGetState(t *testing.T) {
	s := New(regular(hmistate.LevelFull, hmistate.Audible))
	if _, ok := s.GetState(hmistate.StatePostponed); ok {
		t.Fatalf("expected no postponed layer initially")
	}
	if st, ok := s.GetState(hmistate.StateRegular); !ok || st.Level != hmistate.LevelFull {
		t.Fatalf("expected GetState(StateRegular) to return the Regular layer")
	}
	s.AddTemporary(hmistate.State{ID: hmistate.StatePhoneCall})
	if _, ok := s.GetState(hmistate.StatePhoneCall); !ok {
		t.Fatalf("expected GetState to find the active Temporary layer")
	}
}

func TestCurrentComposesActiveTemporaries(t *testing.T) {
	s := New(regular(hmistate.LevelFull, hmistate.Audible))
	s.AddTemporary(hmistate.State{ID: hmistate.StateVRSession})
	current := s.Current(hmistate.Capabilities{Media: true}, hmistate.Options{})
	if current.Context != hmistate.ContextVRSession || current.Audio != hmistate.NotAudible {
		t.Fatalf("Current = %+v, want VR-projected state", current)
	}
}
