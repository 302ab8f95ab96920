package hmistate

// Projection is a pure function that derives a layer's effective State
// from the state of the layer beneath it (parent) plus the application's
// capabilities. Every Temporary StateID is expressed as exactly one
// Projection; composing Current is a left fold of these over Regular —
// a closed map of pure functions rather than a hierarchy of state
// subclasses with parent pointers.
type Projection func(parent State, caps Capabilities, opts Options) State

// Options carries the platform flags a projection needs but that must
// never become hidden globals: whether TTS attenuation is supported by
// the platform right now.
type Options struct {
	AttenuatedSupported bool
}

// CanonicalOrder is the fixed fold order composition always uses,
// regardless of the order events arrived in, so that composition is
// associative and deterministic.
var CanonicalOrder = []StateID{
	StatePhoneCall,
	StateSafetyMode,
	StateVRSession,
	StateTTSSession,
	StateAudioSource,
	StateEmbeddedNavi,
	StateNaviStreaming,
	StateVideoStreaming,
	StateDeactivateHMI,
}

func projectVRSession(parent State, caps Capabilities, _ Options) State {
	s := parent
	s.ID = StateVRSession
	s.Audio = NotAudible
	s.Context = ContextVRSession
	return s
}

func projectTTSSession(parent State, caps Capabilities, opts Options) State {
	s := parent
	s.ID = StateTTSSession
	if !opts.AttenuatedSupported {
		s.Audio = NotAudible
		return s
	}
	if caps.IsAudio() && (s.Level == LevelFull || s.Level == LevelLimited) {
		s.Audio = Attenuated
	} else {
		s.Audio = NotAudible
	}
	return s
}

func projectAudioSource(parent State, caps Capabilities, _ Options) State {
	// Identical semantics to TTS_SESSION with attenuation unsupported.
	s := parent
	s.ID = StateAudioSource
	s.Audio = NotAudible
	return s
}

func projectSafetyMode(parent State, _ Capabilities, _ Options) State {
	s := parent
	s.ID = StateSafetyMode
	s.Audio = NotAudible
	return s
}

func projectPhoneCall(parent State, caps Capabilities, _ Options) State {
	s := parent
	s.ID = StatePhoneCall
	switch {
	case caps.Media:
		s.Level = LevelBackground
		s.Audio = NotAudible
	case caps.Navi:
		s.Level = LevelLimited
		s.Audio = NotAudible
	default:
		// Neither media nor navi: unchanged.
	}
	return s
}

func projectStreaming(id StateID) Projection {
	return func(parent State, caps Capabilities, _ Options) State {
		s := parent
		s.ID = id
		if caps.Navi {
			return s
		}
		if s.Level == LevelFull || s.Level == LevelLimited {
			s.Level = LevelBackground
		}
		s.Audio = NotAudible
		s.Video = NotStreamable
		return s
	}
}

func projectEmbeddedNavi(parent State, _ Capabilities, _ Options) State {
	s := parent
	s.ID = StateEmbeddedNavi
	return s
}

func projectDeactivateHMI(parent State, _ Capabilities, _ Options) State {
	s := parent
	s.ID = StateDeactivateHMI
	s.Level = LevelNone
	s.Audio = NotAudible
	s.Video = NotStreamable
	return s
}

// projections maps every Temporary StateID to its pure projection
// function.
var projections = map[StateID]Projection{
	StateVRSession:      projectVRSession,
	StateTTSSession:      projectTTSSession,
	StateAudioSource:     projectAudioSource,
	StateSafetyMode:      projectSafetyMode,
	StatePhoneCall:       projectPhoneCall,
	StateVideoStreaming:  projectStreaming(StateVideoStreaming),
	StateNaviStreaming:   projectStreaming(StateNaviStreaming),
	StateEmbeddedNavi:    projectEmbeddedNavi,
	StateDeactivateHMI:   projectDeactivateHMI,
}

// ProjectionFor returns the projection function for a Temporary StateID,
// or nil if id is not a Temporary kind.
func ProjectionFor(id StateID) Projection {
	return projections[id]
}

// Compose folds Regular plus every active Temporary layer (already
// filtered down to the active set, in any order) into a single Current
// state, applying the canonical fixed order from CanonicalOrder and then
// clamping the result to the application's capabilities.
func Compose(regular State, active map[StateID]struct{}, caps Capabilities, opts Options) State {
	current := regular
	current.ID = StateCurrent
	for _, id := range CanonicalOrder {
		if _, ok := active[id]; !ok {
			continue
		}
		proj := projections[id]
		if proj == nil {
			continue
		}
		current = proj(current, caps, opts)
	}
	current.ID = StateCurrent
	return ClampToCapabilities(current, caps)
}
