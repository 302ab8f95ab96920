package controller

import (
	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

// Notifier is everything the core calls on outbound collaborators. The
// controller never imports a transport package directly; it only ever
// talks to this interface.
type Notifier interface {
	// SendHMIStatusNotification reports the composed state the core
	// itself just computed. Collaborators must publish current as given
	// rather than recomputing it: only the core knows the real platform
	// Options (e.g. AttenuatedSupported) that went into it.
	SendHMIStatusNotification(app *appregistry.Application, current hmistate.State)
	OnHMILevelChanged(appID uint32, oldLevel, newLevel hmistate.HmiLevel)
	ActivateAppRequest(appID, hmiAppID uint32, targetLevel hmistate.HmiLevel, correlationID uint64)
	SendOnResumeAudioSourceToHMI(appID uint32, correlationID uint64)
	ResetDataInNone(app *appregistry.Application)
}

// Platform is platform-provided facts the core consults but never
// derives itself.
type Platform interface {
	DefaultHMILevel() hmistate.HmiLevel
	IsAttenuatedSupported() bool

	// ActiveApplication identifies the application currently holding the
	// foreground (FULL) slot, if any. The controller consults it when
	// deciding whether an activation request actually needs a head-unit
	// round trip: an app that is already the active application needs no
	// ActivateAppRequest to become FULL.
	ActiveApplication() (*appregistry.Application, bool)
}
