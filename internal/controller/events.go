package controller

import "github.com/librescoot/hmi-state-controller/internal/appregistry"

// EventKind identifies which row of the OnEvent dispatch table an Event
// belongs to.
type EventKind int

const (
	EventVRStarted EventKind = iota
	EventVRStopped
	EventTTSStarted
	EventTTSStopped
	EventPhoneCallChanged
	EventEmergencyChanged
	EventAudioSourceChanged
	EventEmbeddedNaviChanged
	EventDeactivateHMIChanged
	EventVideoStreamingStarted
	EventVideoStreamingStopped
	EventActivateAppResponse
	EventAppActivated
	EventAppDeactivated
)

// ActivationResult is the outcome the head unit reports for an
// ActivateAppRequest.
type ActivationResult int

const (
	ActivationSuccess ActivationResult = iota
	ActivationRejected
	ActivationFailed
)

// Event is the single envelope OnEvent accepts. Only the fields relevant
// to Kind are read; the zero value of the rest is ignored.
type Event struct {
	Kind          EventKind
	Active        bool                        // EventChanged(x, active) rows
	App           *appregistry.Application    // per-app rows: video streaming start/stop
	HMIAppID      uint32                      // OnAppActivated / OnAppDeactivated
	CorrelationID uint64                      // ActivateAppResponse
	Result        ActivationResult            // ActivateAppResponse
}
