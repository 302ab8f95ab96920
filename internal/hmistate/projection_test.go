package hmistate

import "testing"

func regularFull(audio AudioStreamingState) State {
	return New(StateRegular, LevelFull, audio, NotStreamable, ContextMain)
}

func TestComposeVRSessionForcesNotAudibleAndVRContext(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StateVRSession: {}}
	got := Compose(regular, active, Capabilities{Media: true}, Options{})

	if got.Audio != NotAudible {
		t.Fatalf("Audio = %v, want NOT_AUDIBLE during VR", got.Audio)
	}
	if got.Context != ContextVRSession {
		t.Fatalf("Context = %v, want VRSESSION", got.Context)
	}
	if got.Level != LevelFull {
		t.Fatalf("Level = %v, want unchanged FULL", got.Level)
	}
}

func TestComposeTTSAttenuatedForAudioAppAtFull(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StateTTSSession: {}}
	got := Compose(regular, active, Capabilities{Media: true}, Options{AttenuatedSupported: true})

	if got.Audio != Attenuated {
		t.Fatalf("Audio = %v, want ATTENUATED", got.Audio)
	}
}

func TestComposeTTSNonAttenuatedForcesNotAudible(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StateTTSSession: {}}
	got := Compose(regular, active, Capabilities{Media: true}, Options{AttenuatedSupported: false})

	if got.Audio != NotAudible {
		t.Fatalf("Audio = %v, want NOT_AUDIBLE without attenuation support", got.Audio)
	}
}

func TestComposePhoneCallOverMediaApp(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StatePhoneCall: {}}
	got := Compose(regular, active, Capabilities{Media: true}, Options{})

	if got.Level != LevelBackground || got.Audio != NotAudible {
		t.Fatalf("media app during call = %v/%v, want BACKGROUND/NOT_AUDIBLE", got.Level, got.Audio)
	}
}

func TestComposePhoneCallOverNaviApp(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StatePhoneCall: {}}
	got := Compose(regular, active, Capabilities{Navi: true}, Options{})

	if got.Level != LevelLimited || got.Audio != NotAudible {
		t.Fatalf("navi app during call = %v/%v, want LIMITED/NOT_AUDIBLE", got.Level, got.Audio)
	}
}

func TestComposePhoneCallOverPlainApp(t *testing.T) {
	regular := New(StateRegular, LevelFull, NotAudible, NotStreamable, ContextMain)
	active := map[StateID]struct{}{StatePhoneCall: {}}
	got := Compose(regular, active, Capabilities{}, Options{})

	if got.Level != LevelFull {
		t.Fatalf("non-media non-navi app during call: Level = %v, want unchanged FULL", got.Level)
	}
}

func TestComposeVideoStreamingClampsNonNaviApps(t *testing.T) {
	regular := New(StateRegular, LevelFull, NotAudible, Streamable, ContextMain)
	active := map[StateID]struct{}{StateVideoStreaming: {}}
	got := Compose(regular, active, Capabilities{Projection: true}, Options{})

	if got.Level != LevelBackground {
		t.Fatalf("Level = %v, want clamped to BACKGROUND", got.Level)
	}
	if got.Video != NotStreamable {
		t.Fatalf("Video = %v, want NOT_STREAMABLE", got.Video)
	}
}

func TestComposeVideoStreamingUnaffectsNaviApps(t *testing.T) {
	regular := New(StateRegular, LevelFull, NotAudible, Streamable, ContextMain)
	active := map[StateID]struct{}{StateNaviStreaming: {}}
	got := Compose(regular, active, Capabilities{Navi: true}, Options{})

	if got.Level != LevelFull || got.Video != Streamable {
		t.Fatalf("navi app streaming = %v/%v, want unchanged FULL/STREAMABLE", got.Level, got.Video)
	}
}

func TestComposeCanonicalOrderIsDeterministic(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StateTTSSession: {}, StatePhoneCall: {}}
	caps := Capabilities{Media: true}

	got1 := Compose(regular, active, caps, Options{AttenuatedSupported: true})
	got2 := Compose(regular, active, caps, Options{AttenuatedSupported: true})
	if got1 != got2 {
		t.Fatalf("Compose is not deterministic for the same active set: %v vs %v", got1, got2)
	}
	// PHONE_CALL folds before TTS_SESSION: a media app is already
	// BACKGROUND/NOT_AUDIBLE by the time TTS considers attenuation, so
	// attenuation never applies here.
	if got1.Level != LevelBackground || got1.Audio != NotAudible {
		t.Fatalf("got %v/%v, want BACKGROUND/NOT_AUDIBLE", got1.Level, got1.Audio)
	}
}

func TestComposeDeactivateHMIForcesNone(t *testing.T) {
	regular := regularFull(Audible)
	active := map[StateID]struct{}{StateDeactivateHMI: {}}
	got := Compose(regular, active, Capabilities{Media: true}, Options{})

	if got.Level != LevelNone || got.Audio != NotAudible || got.Video != NotStreamable {
		t.Fatalf("got %+v, want all-NONE deactivation", got)
	}
}
