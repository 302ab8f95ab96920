// Package hmistate defines the HmiState value and the StateID-keyed
// projections that compose a layered stack of states into a single
// Current state.
package hmistate

// HmiLevel is the application's foreground/visibility level.
type HmiLevel int

const (
	LevelInvalid HmiLevel = iota
	LevelFull
	LevelLimited
	LevelBackground
	LevelNone
)

func (l HmiLevel) String() string {
	switch l {
	case LevelFull:
		return "FULL"
	case LevelLimited:
		return "LIMITED"
	case LevelBackground:
		return "BACKGROUND"
	case LevelNone:
		return "NONE"
	default:
		return "INVALID"
	}
}

// AudioStreamingState describes whether, and how, an application's audio
// is audible.
type AudioStreamingState int

const (
	AudioInvalid AudioStreamingState = iota
	Audible
	Attenuated
	NotAudible
)

func (a AudioStreamingState) String() string {
	switch a {
	case Audible:
		return "AUDIBLE"
	case Attenuated:
		return "ATTENUATED"
	case NotAudible:
		return "NOT_AUDIBLE"
	default:
		return "INVALID"
	}
}

// VideoStreamingState describes whether an application's video may be
// displayed.
type VideoStreamingState int

const (
	VideoInvalid VideoStreamingState = iota
	Streamable
	NotStreamable
)

func (v VideoStreamingState) String() string {
	switch v {
	case Streamable:
		return "STREAMABLE"
	case NotStreamable:
		return "NOT_STREAMABLE"
	default:
		return "INVALID"
	}
}

// SystemContext describes what kind of screen/session currently owns the
// display.
type SystemContext int

const (
	ContextInvalid SystemContext = iota
	ContextMain
	ContextVRSession
	ContextMenu
	ContextHMIObscured
	ContextAlert
)

func (c SystemContext) String() string {
	switch c {
	case ContextMain:
		return "MAIN"
	case ContextVRSession:
		return "VRSESSION"
	case ContextMenu:
		return "MENU"
	case ContextHMIObscured:
		return "HMI_OBSCURED"
	case ContextAlert:
		return "ALERT"
	default:
		return "INVALID"
	}
}

// StateID identifies which layer of an application's stack a state
// belongs to.
type StateID int

const (
	StateRegular StateID = iota
	StateCurrent
	StatePostponed
	StateVRSession
	StateTTSSession
	StatePhoneCall
	StateSafetyMode
	StateVideoStreaming
	StateNaviStreaming
	StateAudioSource
	StateEmbeddedNavi
	StateDeactivateHMI
)

func (s StateID) String() string {
	switch s {
	case StateRegular:
		return "REGULAR"
	case StateCurrent:
		return "CURRENT"
	case StatePostponed:
		return "POSTPONED"
	case StateVRSession:
		return "VR_SESSION"
	case StateTTSSession:
		return "TTS_SESSION"
	case StatePhoneCall:
		return "PHONE_CALL"
	case StateSafetyMode:
		return "SAFETY_MODE"
	case StateVideoStreaming:
		return "VIDEO_STREAMING"
	case StateNaviStreaming:
		return "NAVI_STREAMING"
	case StateAudioSource:
		return "AUDIO_SOURCE"
	case StateEmbeddedNavi:
		return "EMBEDDED_NAVI"
	case StateDeactivateHMI:
		return "DEACTIVATE_HMI"
	default:
		return "UNKNOWN"
	}
}

// IsTemporary reports whether a StateID is one of the layers that can be
// pushed/popped on top of Regular (i.e. not Regular/Current/Postponed).
func (s StateID) IsTemporary() bool {
	switch s {
	case StateRegular, StateCurrent, StatePostponed:
		return false
	default:
		return true
	}
}

// State is an immutable 4-tuple plus the StateID tag of the layer it
// represents. Equality is defined over the four fields only (see Equal).
type State struct {
	Level   HmiLevel
	Audio   AudioStreamingState
	Video   VideoStreamingState
	Context SystemContext
	ID      StateID
}

// New builds a State tagged with the given StateID.
func New(id StateID, level HmiLevel, audio AudioStreamingState, video VideoStreamingState, ctx SystemContext) State {
	return State{Level: level, Audio: audio, Video: video, Context: ctx, ID: id}
}

// Equal compares the four composed fields only; the StateID tag is not
// part of equality.
func (s State) Equal(o State) bool {
	return s.Level == o.Level && s.Audio == o.Audio && s.Video == o.Video && s.Context == o.Context
}

// Valid reports whether no field is the INVALID sentinel.
func (s State) Valid() bool {
	return s.Level != LevelInvalid && s.Audio != AudioInvalid && s.Video != VideoInvalid && s.Context != ContextInvalid
}

// Capabilities describes the capability flags that drive projections and
// validity checks (§3: is_media, is_navi, is_projection, is_voice_comm).
type Capabilities struct {
	Media       bool
	Navi        bool
	Projection  bool
	VoiceComm   bool
}

// IsAudio is the derived capability used throughout §3/§4: media, navi or
// voice-comm apps may hold audible audio.
func (c Capabilities) IsAudio() bool {
	return c.Media || c.Navi || c.VoiceComm
}

// IsVideo is the derived capability used throughout §3/§4: navi or
// projection apps may stream video.
func (c Capabilities) IsVideo() bool {
	return c.Navi || c.Projection
}

// ClampToCapabilities enforces the §3 validity invariants that depend on
// an application's capabilities: non-Audio apps are always NOT_AUDIBLE,
// non-Video apps are always NOT_STREAMABLE, and AUDIBLE/ATTENUATED are
// only admissible at FULL or LIMITED.
func ClampToCapabilities(s State, caps Capabilities) State {
	if !caps.IsAudio() {
		s.Audio = NotAudible
	}
	if !caps.IsVideo() {
		s.Video = NotStreamable
	}
	if s.Level != LevelFull && s.Level != LevelLimited {
		if s.Audio == Audible || s.Audio == Attenuated {
			s.Audio = NotAudible
		}
	}
	return s
}
