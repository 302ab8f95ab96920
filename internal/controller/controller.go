// Package controller implements the State Controller: the public façade
// and event sink that owns the Application Registry and every
// application's state stack, orchestrates the Conflict Resolver, and
// emits change notifications to external collaborators. Every entry
// point serializes on a single mutex, matching a single-threaded
// cooperative serialization discipline rather than routing everything
// through an explicit worker goroutine.
package controller

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/applifecycle"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
	"github.com/librescoot/hmi-state-controller/internal/logger"
	"github.com/librescoot/hmi-state-controller/internal/resolver"
	"github.com/librescoot/hmi-state-controller/internal/stack"
)

type pendingActivation struct {
	App        *appregistry.Application
	NewRegular hmistate.State
}

// Controller is the State Controller. It owns the Registry and every
// application's Stack exclusively: nothing outside this package ever
// mutates either.
type Controller struct {
	mu sync.Mutex

	registry *appregistry.Registry
	notifier Notifier
	platform Platform
	log      *logger.Logger

	lifecycles map[uint32]*applifecycle.Lifecycle

	activeSystemTemporaries map[hmistate.StateID]struct{}

	pending            map[uint64]pendingActivation
	nextCorrelationID  atomic.Uint64
	postponedActivate  map[uint32]bool // appID -> request_activation flag captured at postponement time
}

// New builds an empty Controller. notifier and platform must be non-nil.
func New(notifier Notifier, platform Platform, log *logger.Logger) *Controller {
	return &Controller{
		registry:                appregistry.New(),
		notifier:                notifier,
		platform:                platform,
		log:                     log,
		lifecycles:              make(map[uint32]*applifecycle.Lifecycle),
		activeSystemTemporaries: make(map[hmistate.StateID]struct{}),
		pending:                 make(map[uint64]pendingActivation),
		postponedActivate:       make(map[uint32]bool),
	}
}

func (c *Controller) opts() hmistate.Options {
	return hmistate.Options{AttenuatedSupported: c.platform.IsAttenuatedSupported()}
}

// isAlreadyActive reports whether app is the platform's currently
// foregrounded application: an activation request that would only
// confirm what the head unit already knows needs no round trip.
func (c *Controller) isAlreadyActive(app *appregistry.Application) bool {
	active, ok := c.platform.ActiveApplication()
	return ok && active.AppID == app.AppID
}

// Registry exposes read access to the registered applications for
// collaborators implementing the inbound side of the Platform interface
// (application_by_id, application_by_hmi_app, applications).
func (c *Controller) Registry() *appregistry.Registry {
	return c.registry
}

// ClassHolders exposes a read-only snapshot of which application
// currently holds AUDIBLE audio for each exclusivity class, for
// diagnostics and metrics. It is not consulted by any decision this
// controller makes; Resolve computes its own snapshot per call.
func (c *Controller) ClassHolders() resolver.ClassHolders {
	c.mu.Lock()
	defer c.mu.Unlock()
	return resolver.Snapshot(c.registry.Iter())
}

// OnApplicationRegistered installs a Regular layer at defaultLevel and
// layers on every currently active system Temporary, so a newly
// registered app immediately observes any ongoing interruption. A
// lifecycle is started for the app in the applifecycle package; if the
// app registers into an already-interrupted world it starts in the
// Resuming phase so a subsequent SetRegularState during that same
// interruption gets postponed rather than applied immediately.
func (c *Controller) OnApplicationRegistered(appID, hmiAppID uint32, deviceHandle string, caps hmistate.Capabilities) *appregistry.Application {
	c.mu.Lock()
	defer c.mu.Unlock()

	defaultLevel := c.platform.DefaultHMILevel()
	regular := hmistate.ClampToCapabilities(
		hmistate.New(hmistate.StateRegular, defaultLevel, hmistate.NotAudible, hmistate.NotStreamable, hmistate.ContextMain),
		caps,
	)
	st := stack.New(regular)
	app := &appregistry.Application{
		AppID:        appID,
		DeviceHandle: deviceHandle,
		HMIAppID:     hmiAppID,
		Caps:         caps,
		Stack:        st,
	}

	before := st.Current(caps, c.opts())
	for id := range c.activeSystemTemporaries {
		st.AddTemporary(hmistate.State{ID: id})
	}
	after := st.Current(caps, c.opts())

	c.registry.Insert(app)

	lc, err := applifecycle.New(context.Background(), nil)
	if err != nil {
		c.log.Errorf("applifecycle for app %d: %v", appID, err)
	} else {
		c.lifecycles[appID] = lc
		if st.HasAnyTemporary() {
			c.beginResumeIfNeeded(app)
		}
	}

	c.onStateChanged(app, before, after)
	return app
}

// OnAppUnregistered removes app's stack, drops any Postponed state,
// cancels any pending activation for that app, and removes it from the
// Registry.
func (c *Controller) OnAppUnregistered(appID uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	app, ok := c.registry.Lookup(appID)
	if !ok {
		return
	}
	for corrID, p := range c.pending {
		if p.App.AppID == appID {
			delete(c.pending, corrID)
		}
	}
	app.Stack.RemovePostponed()
	delete(c.postponedActivate, appID)
	delete(c.lifecycles, appID)
	c.registry.Remove(appID)
}

// SetRegularState is the primary entry point for changing an
// application's requested Regular state.
func (c *Controller) SetRegularState(app *appregistry.Application, newRegular hmistate.State, requestActivation bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRegularState(app, newRegular, requestActivation)
}

// SetRegularStateLevel is the level-only convenience overload: it
// composes a full state from (level, prior Current's audio/video/context)
// before applying the same rules.
func (c *Controller) SetRegularStateLevel(app *appregistry.Application, level hmistate.HmiLevel, requestActivation bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if app == nil {
		return
	}
	cur := app.Stack.Current(app.Caps, c.opts())
	candidate := hmistate.New(hmistate.StateRegular, level, cur.Audio, cur.Video, cur.Context)
	c.setRegularState(app, candidate, requestActivation)
}

func (c *Controller) setRegularState(app *appregistry.Application, newRegular hmistate.State, requestActivation bool) {
	if app == nil {
		return
	}
	if _, ok := c.registry.Lookup(app.AppID); !ok {
		return // unknown application: silent no-op
	}
	if !newRegular.Valid() {
		c.log.Debugf("dropping SetRegularState for app %d: invalid state", app.AppID)
		return // invalid state: silent no-op
	}
	newRegular = hmistate.ClampToCapabilities(newRegular, app.Caps)
	newRegular.ID = hmistate.StateRegular

	if app.Stack.HasAnyTemporary() {
		if lc, ok := c.lifecycles[app.AppID]; ok && lc.IsResuming() {
			app.Stack.SetPostponed(newRegular)
			c.postponedActivate[app.AppID] = requestActivation
			return
		}
	}

	if requestActivation && newRegular.Level == hmistate.LevelFull && !c.isAlreadyActive(app) {
		corrID := c.nextCorrelationID.Add(1)
		c.pending[corrID] = pendingActivation{App: app, NewRegular: newRegular}
		c.notifier.ActivateAppRequest(app.AppID, app.HMIAppID, newRegular.Level, corrID)
		return
	}

	c.applyRegularChange(app, newRegular)
}

// applyRegularChange runs the Conflict Resolver, applies the target's own
// change plus every demotion, and notifies in a fixed order: resolver-
// induced demotions in Registry insertion order, the target's own
// notification last.
func (c *Controller) applyRegularChange(app *appregistry.Application, newRegular hmistate.State) {
	demotions := resolver.Resolve(app, newRegular, c.registry.Iter())

	before := app.Stack.Current(app.Caps, c.opts())
	app.Stack.SetRegular(newRegular)

	for _, d := range demotions {
		oldCur := d.App.Stack.Current(d.App.Caps, c.opts())
		d.App.Stack.SetRegular(d.NewRegular)
		newCur := d.App.Stack.Current(d.App.Caps, c.opts())
		c.onStateChanged(d.App, oldCur, newCur)
	}

	after := app.Stack.Current(app.Caps, c.opts())
	c.onStateChanged(app, before, after)
}

// onStateChanged notifies iff the composed Current actually differs, and
// fires ResetDataInNone exactly once on the transition into NONE.
func (c *Controller) onStateChanged(app *appregistry.Application, oldCurrent, newCurrent hmistate.State) {
	if oldCurrent.Equal(newCurrent) {
		return
	}
	c.notifier.OnHMILevelChanged(app.AppID, oldCurrent.Level, newCurrent.Level)
	c.notifier.SendHMIStatusNotification(app, newCurrent)
	if newCurrent.Level == hmistate.LevelNone && oldCurrent.Level != hmistate.LevelNone {
		c.notifier.ResetDataInNone(app)
	}
}

// IsStateActive is true iff state_id ∈ {REGULAR, CURRENT} (always), a
// system-wide Temporary of that id is active, or any application's stack
// currently carries a layer of that id (covers the per-app video/navi
// streaming ids, which are never tracked system-wide).
func (c *Controller) IsStateActive(id hmistate.StateID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch id {
	case hmistate.StateRegular, hmistate.StateCurrent:
		return true
	}
	if _, ok := c.activeSystemTemporaries[id]; ok {
		return true
	}
	for _, app := range c.registry.Iter() {
		if app.Stack.HasTemporary(id) {
			return true
		}
	}
	return false
}

// pushSystemTemporary pushes a Temporary layer of id onto every
// registered application, in Registry order, notifying per app as it
// goes: the push always precedes any state notification it causes.
func (c *Controller) pushSystemTemporary(id hmistate.StateID) {
	c.activeSystemTemporaries[id] = struct{}{}
	for _, app := range c.registry.Iter() {
		before := app.Stack.Current(app.Caps, c.opts())
		hadNone := !app.Stack.HasAnyTemporary()
		app.Stack.AddTemporary(hmistate.State{ID: id})
		if hadNone {
			c.beginResumeIfNeeded(app)
		}
		after := app.Stack.Current(app.Caps, c.opts())
		c.onStateChanged(app, before, after)
	}
}

// popSystemTemporary pops a Temporary layer of id from every registered
// application, notifies, then replays any Postponed state left behind:
// the pop always precedes any Postponed replay it enables.
func (c *Controller) popSystemTemporary(id hmistate.StateID) {
	delete(c.activeSystemTemporaries, id)
	var toReplay []*appregistry.Application
	for _, app := range c.registry.Iter() {
		before := app.Stack.Current(app.Caps, c.opts())
		removed := app.Stack.RemoveTemporary(id)
		after := app.Stack.Current(app.Caps, c.opts())
		c.onStateChanged(app, before, after)
		if removed {
			c.completeResumeIfDone(app)
			toReplay = append(toReplay, app)
		}
	}
	for _, app := range toReplay {
		c.consumePostponed(app)
	}
}

func (c *Controller) toggleSystemTemporary(id hmistate.StateID, active bool) {
	if active {
		c.pushSystemTemporary(id)
	} else {
		c.popSystemTemporary(id)
	}
}

// beginResumeIfNeeded flags app as entering a resuming phase the moment
// an interruption starts affecting it: an application with no active
// Temporary layers that suddenly acquires one is, by definition, about
// to have its next SetRegularState postponed until the interruption
// clears.
func (c *Controller) beginResumeIfNeeded(app *appregistry.Application) {
	lc, ok := c.lifecycles[app.AppID]
	if !ok || lc.IsResuming() {
		return
	}
	if err := lc.BeginResume(); err != nil {
		c.log.Warnf("app %d begin-resume: %v", app.AppID, err)
	}
}

func (c *Controller) completeResumeIfDone(app *appregistry.Application) {
	lc, ok := c.lifecycles[app.AppID]
	if !ok || !lc.IsResuming() || app.Stack.HasAnyTemporary() {
		return
	}
	if err := lc.CompleteResume(); err != nil {
		c.log.Warnf("app %d complete-resume: %v", app.AppID, err)
	}
}

// consumePostponed replays a staged Postponed layer as a SetRegularState
// call using the request_activation flag captured when it was
// postponed, then discards it.
func (c *Controller) consumePostponed(app *appregistry.Application) {
	st, ok := app.Stack.Postponed()
	if !ok {
		return
	}
	app.Stack.RemovePostponed()
	requestActivation := c.postponedActivate[app.AppID]
	delete(c.postponedActivate, app.AppID)
	c.setRegularState(app, st, requestActivation)
}

func videoStreamingStateID(app *appregistry.Application) hmistate.StateID {
	if app.Caps.Navi {
		return hmistate.StateNaviStreaming
	}
	return hmistate.StateVideoStreaming
}

func (c *Controller) onVideoStreamingStarted(app *appregistry.Application) {
	if app == nil {
		return
	}
	id := videoStreamingStateID(app)
	before := app.Stack.Current(app.Caps, c.opts())
	hadNone := !app.Stack.HasAnyTemporary()
	app.Stack.AddTemporary(hmistate.State{ID: id})
	if hadNone {
		c.beginResumeIfNeeded(app)
	}
	after := app.Stack.Current(app.Caps, c.opts())
	c.onStateChanged(app, before, after)
}

func (c *Controller) onVideoStreamingStopped(app *appregistry.Application) {
	if app == nil {
		return
	}
	id := videoStreamingStateID(app)
	before := app.Stack.Current(app.Caps, c.opts())
	removed := app.Stack.RemoveTemporary(id)
	after := app.Stack.Current(app.Caps, c.opts())
	c.onStateChanged(app, before, after)
	if removed {
		c.completeResumeIfDone(app)
		c.consumePostponed(app)
	}
}

func (c *Controller) onActivateAppResponse(corrID uint64, result ActivationResult) {
	p, ok := c.pending[corrID]
	if !ok {
		return // stale correlation id: drop silently
	}
	delete(c.pending, corrID)
	if result != ActivationSuccess {
		return // activation denied: discard, no notification
	}
	c.applyRegularChange(p.App, p.NewRegular)
	if p.App.IsAudio() && (p.NewRegular.Level == hmistate.LevelFull || p.NewRegular.Level == hmistate.LevelLimited) {
		c.notifier.SendOnResumeAudioSourceToHMI(p.App.AppID, corrID)
	}
}

func (c *Controller) onAppActivated(hmiAppID uint32) {
	app, ok := c.registry.ByHMIApp(hmiAppID)
	if !ok {
		return
	}
	if !app.IsAudio() {
		return
	}
	r := app.Stack.Regular()
	if r.Level == hmistate.LevelFull {
		return
	}
	r.Level = hmistate.LevelFull
	r.Audio = hmistate.Audible
	c.applyRegularChange(app, hmistate.ClampToCapabilities(r, app.Caps))
}

func (c *Controller) onAppDeactivated(hmiAppID uint32) {
	app, ok := c.registry.ByHMIApp(hmiAppID)
	if !ok {
		return
	}
	r := app.Stack.Regular()
	if r.Level != hmistate.LevelFull && r.Level != hmistate.LevelLimited {
		return
	}
	r.Level = hmistate.LevelBackground
	// BACKGROUND is always NOT_AUDIBLE, regardless of what class
	// exclusivity would otherwise have permitted.
	r.Audio = hmistate.NotAudible
	c.applyRegularChange(app, hmistate.ClampToCapabilities(r, app.Caps))
}

// OnEvent is the single event sink for every asynchronous notification
// this core reacts to.
func (c *Controller) OnEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Kind {
	case EventVRStarted:
		c.pushSystemTemporary(hmistate.StateVRSession)
	case EventVRStopped:
		c.popSystemTemporary(hmistate.StateVRSession)
	case EventTTSStarted:
		c.pushSystemTemporary(hmistate.StateTTSSession)
	case EventTTSStopped:
		c.popSystemTemporary(hmistate.StateTTSSession)
	case EventPhoneCallChanged:
		c.toggleSystemTemporary(hmistate.StatePhoneCall, e.Active)
	case EventEmergencyChanged:
		c.toggleSystemTemporary(hmistate.StateSafetyMode, e.Active)
	case EventAudioSourceChanged:
		c.toggleSystemTemporary(hmistate.StateAudioSource, e.Active)
	case EventEmbeddedNaviChanged:
		c.toggleSystemTemporary(hmistate.StateEmbeddedNavi, e.Active)
	case EventDeactivateHMIChanged:
		c.toggleSystemTemporary(hmistate.StateDeactivateHMI, e.Active)
	case EventVideoStreamingStarted:
		c.onVideoStreamingStarted(e.App)
	case EventVideoStreamingStopped:
		c.onVideoStreamingStopped(e.App)
	case EventActivateAppResponse:
		c.onActivateAppResponse(e.CorrelationID, e.Result)
	case EventAppActivated:
		c.onAppActivated(e.HMIAppID)
	case EventAppDeactivated:
		c.onAppDeactivated(e.HMIAppID)
	}
}
