// Package metrics wraps a controller.Notifier with Prometheus counters,
// the same promauto package-level-vars pattern the retrieval pack's
// xg2g repo uses for its own bus/streaming metrics. The core never
// imports this package; only cmd/hmi-state-controller wires it in front
// of the real collaborator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/controller"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

var (
	levelTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hmi_state_controller_level_transitions_total",
		Help: "HMI level transitions observed, by the level transitioned into.",
	}, []string{"level"})

	statusNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hmi_state_controller_status_notifications_total",
		Help: "HMI status notifications sent to the mobile endpoint.",
	})

	activationRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hmi_state_controller_activation_requests_total",
		Help: "ActivateApp requests dispatched to the head unit.",
	})

	resumeAudioNotifications = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hmi_state_controller_resume_audio_notifications_total",
		Help: "SendOnResumeAudioSourceToHMI notifications sent.",
	})

	resetDataInNoneTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hmi_state_controller_reset_data_in_none_total",
		Help: "ResetDataInNone side effects fired on transition into NONE.",
	})
)

// Observer decorates a controller.Notifier, recording a metric for every
// collaborator call before delegating to it unchanged. Demotions and
// postponements aren't separately counted here: the Resolver's demotions
// surface through the same OnHMILevelChanged calls as any other level
// change, and postponements never cross the Notifier boundary at all —
// there is no collaborator call left to hook for either.
type Observer struct {
	next controller.Notifier
}

// Wrap returns a Notifier that records metrics for every call before
// forwarding it to next.
func Wrap(next controller.Notifier) *Observer {
	return &Observer{next: next}
}

func (o *Observer) SendHMIStatusNotification(app *appregistry.Application, current hmistate.State) {
	statusNotifications.Inc()
	o.next.SendHMIStatusNotification(app, current)
}

func (o *Observer) OnHMILevelChanged(appID uint32, oldLevel, newLevel hmistate.HmiLevel) {
	levelTransitions.WithLabelValues(newLevel.String()).Inc()
	o.next.OnHMILevelChanged(appID, oldLevel, newLevel)
}

func (o *Observer) ActivateAppRequest(appID, hmiAppID uint32, targetLevel hmistate.HmiLevel, correlationID uint64) {
	activationRequests.Inc()
	o.next.ActivateAppRequest(appID, hmiAppID, targetLevel, correlationID)
}

func (o *Observer) SendOnResumeAudioSourceToHMI(appID uint32, correlationID uint64) {
	resumeAudioNotifications.Inc()
	o.next.SendOnResumeAudioSourceToHMI(appID, correlationID)
}

func (o *Observer) ResetDataInNone(app *appregistry.Application) {
	resetDataInNoneTotal.Inc()
	o.next.ResetDataInNone(app)
}
