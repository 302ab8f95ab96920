package hmistate

import "testing"

func TestClampToCapabilitiesForcesNotAudibleForNonAudio(t *testing.T) {
	s := State{Level: LevelFull, Audio: Audible, Video: NotStreamable, Context: ContextMain}
	got := ClampToCapabilities(s, Capabilities{})
	if got.Audio != NotAudible {
		t.Fatalf("Audio = %v, want NOT_AUDIBLE for a non-Audio app", got.Audio)
	}
}

func TestClampToCapabilitiesForcesNotStreamableForNonVideo(t *testing.T) {
	s := State{Level: LevelFull, Audio: NotAudible, Video: Streamable, Context: ContextMain}
	got := ClampToCapabilities(s, Capabilities{Media: true})
	if got.Video != NotStreamable {
		t.Fatalf("Video = %v, want NOT_STREAMABLE for a non-Video app", got.Video)
	}
}

func TestClampToCapabilitiesForcesNotAudibleOutsideFullLimited(t *testing.T) {
	for _, level := range []HmiLevel{LevelBackground, LevelNone} {
		s := State{Level: level, Audio: Audible, Video: NotStreamable, Context: ContextMain}
		got := ClampToCapabilities(s, Capabilities{Media: true})
		if got.Audio != NotAudible {
			t.Fatalf("level=%v: Audio = %v, want NOT_AUDIBLE", level, got.Audio)
		}
	}
}

func TestEqualIgnoresStateID(t *testing.T) {
	a := New(StateRegular, LevelFull, Audible, NotStreamable, ContextMain)
	b := New(StateCurrent, LevelFull, Audible, NotStreamable, ContextMain)
	if !a.Equal(b) {
		t.Fatalf("expected Equal to ignore the StateID tag")
	}
}

func TestValid(t *testing.T) {
	valid := New(StateRegular, LevelFull, Audible, NotStreamable, ContextMain)
	if !valid.Valid() {
		t.Fatalf("expected fully-populated state to be valid")
	}
	invalid := State{Level: LevelInvalid, Audio: Audible, Video: NotStreamable, Context: ContextMain}
	if invalid.Valid() {
		t.Fatalf("expected state with INVALID level to be invalid")
	}
}

func TestIsTemporary(t *testing.T) {
	for _, id := range []StateID{StateRegular, StateCurrent, StatePostponed} {
		if id.IsTemporary() {
			t.Fatalf("%v should not be Temporary", id)
		}
	}
	for _, id := range []StateID{StateVRSession, StatePhoneCall, StateVideoStreaming} {
		if !id.IsTemporary() {
			t.Fatalf("%v should be Temporary", id)
		}
	}
}

func TestCapabilitiesDerived(t *testing.T) {
	if (Capabilities{}).IsAudio() {
		t.Fatalf("empty capabilities should not be Audio")
	}
	if !(Capabilities{VoiceComm: true}).IsAudio() {
		t.Fatalf("voice-comm capability should be Audio")
	}
	if !(Capabilities{Projection: true}).IsVideo() {
		t.Fatalf("projection capability should be Video")
	}
}
