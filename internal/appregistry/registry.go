// Package appregistry is the single owner of the set of registered
// applications, looked up by app id or hmi_app_id, enumerated in
// registration order.
package appregistry

import (
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
	"github.com/librescoot/hmi-state-controller/internal/stack"
)

// Application is a plain record: capability flags, identifiers, and a
// handle to the application's layer stack. The controller is the only
// writer of Stack's contents.
type Application struct {
	AppID        uint32
	DeviceHandle string
	HMIAppID     uint32
	Caps         hmistate.Capabilities
	Stack        *stack.Stack
}

// IsAudio and IsVideo are the derived capability flags.
func (a *Application) IsAudio() bool { return a.Caps.IsAudio() }
func (a *Application) IsVideo() bool { return a.Caps.IsVideo() }

// Registry owns the set of registered applications exclusively; all
// mutation goes through insert/remove.
type Registry struct {
	byAppID uint32ToApp
	byHMI   uint32ToApp
	order   []uint32
}

type uint32ToApp map[uint32]*Application

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byAppID: make(uint32ToApp),
		byHMI:   make(uint32ToApp),
	}
}

// Insert adds app to the registry. It is idempotent by AppID: inserting
// an app id that already exists replaces the descriptor but does not
// duplicate its place in registration order.
func (r *Registry) Insert(app *Application) {
	if _, exists := r.byAppID[app.AppID]; !exists {
		r.order = append(r.order, app.AppID)
	}
	r.byAppID[app.AppID] = app
	r.byHMI[app.HMIAppID] = app
}

// Remove drops app from the registry entirely (used by OnAppUnregistered).
func (r *Registry) Remove(appID uint32) {
	app, ok := r.byAppID[appID]
	if !ok {
		return
	}
	delete(r.byAppID, appID)
	delete(r.byHMI, app.HMIAppID)
	for i, id := range r.order {
		if id == appID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup finds an application by app id.
func (r *Registry) Lookup(appID uint32) (*Application, bool) {
	app, ok := r.byAppID[appID]
	return app, ok
}

// ByHMIApp finds an application by its hmi_app_id.
func (r *Registry) ByHMIApp(hmiAppID uint32) (*Application, bool) {
	app, ok := r.byHMI[hmiAppID]
	return app, ok
}

// Iter enumerates applications in registration order.
func (r *Registry) Iter() []*Application {
	apps := make([]*Application, 0, len(r.order))
	for _, id := range r.order {
		if app, ok := r.byAppID[id]; ok {
			apps = append(apps, app)
		}
	}
	return apps
}

// Len reports the number of registered applications.
func (r *Registry) Len() int {
	return len(r.order)
}
