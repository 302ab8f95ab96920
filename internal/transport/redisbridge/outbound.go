package redisbridge

import (
	"fmt"

	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

// Outbound pub/sub channels, following the same "domain:event" naming
// style used across this project's other Redis channels.
const (
	channelHMIStatus       = "hmi:status"
	channelHMILevelChanged = "hmi:level-changed"
	channelResumeAudio     = "hmi:resume-audio-source"
	channelResetDataInNone = "hmi:reset-data-in-none"
)

// Bridge satisfies controller.Notifier by publishing to Redis pub/sub
// channels; ActivateAppRequest is the exception and is LPUSHed onto the
// hmi:activate-app list instead. The payload format is intentionally simple text; a richer
// mobile message codec would belong to a collaborator outside this
// core.

func (b *Bridge) SendHMIStatusNotification(app *appregistry.Application, current hmistate.State) {
	payload := fmt.Sprintf("%d:%s:%s:%s:%s", app.AppID, current.Level, current.Audio, current.Video, current.Context)
	if err := b.client.Publish(b.ctx, channelHMIStatus, payload).Err(); err != nil {
		b.log.Warnf("publish hmi status for app %d: %v", app.AppID, err)
	}
}

func (b *Bridge) OnHMILevelChanged(appID uint32, oldLevel, newLevel hmistate.HmiLevel) {
	payload := fmt.Sprintf("%d:%s:%s", appID, oldLevel, newLevel)
	if err := b.client.Publish(b.ctx, channelHMILevelChanged, payload).Err(); err != nil {
		b.log.Warnf("publish level change for app %d: %v", appID, err)
	}
}

func (b *Bridge) ActivateAppRequest(appID, hmiAppID uint32, targetLevel hmistate.HmiLevel, correlationID uint64) {
	payload := fmt.Sprintf("%d:%d:%s:%d", appID, hmiAppID, targetLevel, correlationID)
	if err := b.client.LPush(b.ctx, "hmi:activate-app", payload).Err(); err != nil {
		b.log.Warnf("dispatch activate-app for app %d: %v", appID, err)
	}
}

func (b *Bridge) SendOnResumeAudioSourceToHMI(appID uint32, correlationID uint64) {
	payload := fmt.Sprintf("%d:%d", appID, correlationID)
	if err := b.client.Publish(b.ctx, channelResumeAudio, payload).Err(); err != nil {
		b.log.Warnf("publish resume-audio-source for app %d: %v", appID, err)
	}
}

func (b *Bridge) ResetDataInNone(app *appregistry.Application) {
	if err := b.client.Publish(b.ctx, channelResetDataInNone, fmt.Sprintf("%d", app.AppID)).Err(); err != nil {
		b.log.Warnf("publish reset-data-in-none for app %d: %v", app.AppID, err)
	}
}
