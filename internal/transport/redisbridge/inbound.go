package redisbridge

import (
	"strconv"
	"strings"

	"github.com/librescoot/hmi-state-controller/internal/controller"
)

// Well-known Redis keys the head unit / mobile-side gateway pushes
// commands onto. Values are deliberately terse (on/off, id:field pairs);
// a richer wire codec is out of scope for this bridge.
const (
	keyVR                  = "hmi:event:vr"
	keyTTS                 = "hmi:event:tts"
	keyPhoneCall           = "hmi:event:phone-call"
	keyEmergency           = "hmi:event:emergency"
	keyAudioSource         = "hmi:event:audio-source"
	keyEmbeddedNavi        = "hmi:event:embedded-navi"
	keyDeactivateHMI       = "hmi:event:deactivate-hmi"
	keyVideoStreaming      = "hmi:event:video-streaming" // "<app_id>:start" | "<app_id>:stop"
	keyActivateAppResponse = "hmi:event:activate-app-response" // "<correlation_id>:<result>"
	keyAppActivated        = "hmi:event:app-activated"   // "<hmi_app_id>"
	keyAppDeactivated      = "hmi:event:app-deactivated" // "<hmi_app_id>"
)

func (b *Bridge) handleVR(value string) {
	if value == "on" {
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventVRStarted})
	} else {
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventVRStopped})
	}
}

func (b *Bridge) handleTTS(value string) {
	if value == "on" {
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventTTSStarted})
	} else {
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventTTSStopped})
	}
}

func (b *Bridge) handlePhoneCall(value string) {
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventPhoneCallChanged, Active: value == "on"})
}

func (b *Bridge) handleEmergency(value string) {
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventEmergencyChanged, Active: value == "on"})
}

func (b *Bridge) handleAudioSource(value string) {
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventAudioSourceChanged, Active: value == "on"})
}

func (b *Bridge) handleEmbeddedNavi(value string) {
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventEmbeddedNaviChanged, Active: value == "on"})
}

func (b *Bridge) handleDeactivateHMI(value string) {
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventDeactivateHMIChanged, Active: value == "on"})
}

func (b *Bridge) handleVideoStreaming(value string) {
	appIDStr, action, ok := strings.Cut(value, ":")
	if !ok {
		b.log.Warnf("malformed video-streaming command: %q", value)
		return
	}
	appID, err := strconv.ParseUint(appIDStr, 10, 32)
	if err != nil {
		b.log.Warnf("malformed video-streaming app id: %q", appIDStr)
		return
	}
	app, ok := b.ctrl.Registry().Lookup(uint32(appID))
	if !ok {
		return
	}
	switch action {
	case "start":
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventVideoStreamingStarted, App: app})
	case "stop":
		b.ctrl.OnEvent(controller.Event{Kind: controller.EventVideoStreamingStopped, App: app})
	}
}

func (b *Bridge) handleActivateAppResponse(value string) {
	corrIDStr, resultStr, ok := strings.Cut(value, ":")
	if !ok {
		b.log.Warnf("malformed activate-app-response: %q", value)
		return
	}
	corrID, err := strconv.ParseUint(corrIDStr, 10, 64)
	if err != nil {
		b.log.Warnf("malformed correlation id: %q", corrIDStr)
		return
	}
	var result controller.ActivationResult
	switch resultStr {
	case "SUCCESS":
		result = controller.ActivationSuccess
	case "REJECTED":
		result = controller.ActivationRejected
	default:
		result = controller.ActivationFailed
	}
	b.ctrl.OnEvent(controller.Event{
		Kind:          controller.EventActivateAppResponse,
		CorrelationID: corrID,
		Result:        result,
	})
}

func (b *Bridge) handleAppActivated(value string) {
	hmiAppID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		b.log.Warnf("malformed hmi_app_id: %q", value)
		return
	}
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventAppActivated, HMIAppID: uint32(hmiAppID)})
}

func (b *Bridge) handleAppDeactivated(value string) {
	hmiAppID, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		b.log.Warnf("malformed hmi_app_id: %q", value)
		return
	}
	b.ctrl.OnEvent(controller.Event{Kind: controller.EventAppDeactivated, HMIAppID: uint32(hmiAppID)})
}
