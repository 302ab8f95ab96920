package applifecycle

import (
	"context"

	"github.com/librescoot/librefsm"
)

// Lifecycle wraps one application's resumption-lifecycle machine. The
// controller owns one Lifecycle per registered application and consults
// IsResuming to decide whether the application is in a "resuming
// phase".
type Lifecycle struct {
	machine *librefsm.Machine
}

// noopActions satisfies Actions when the caller doesn't need entry/exit
// side effects beyond what the controller already does explicitly.
type noopActions struct{}

func (noopActions) EnterResuming(c *librefsm.Context) error { return nil }
func (noopActions) EnterResumed(c *librefsm.Context) error  { return nil }
func (noopActions) ExitResuming(c *librefsm.Context) error  { return nil }

// New builds and starts a Lifecycle machine in StateDisconnected, then
// immediately registers it (an application only exists in this package
// once the controller has it in the registry).
func New(ctx context.Context, actions Actions) (*Lifecycle, error) {
	if actions == nil {
		actions = noopActions{}
	}
	machine, err := NewDefinition(actions).Build()
	if err != nil {
		return nil, err
	}
	if err := machine.Start(ctx); err != nil {
		return nil, err
	}
	l := &Lifecycle{machine: machine}
	if err := l.machine.SendSync(librefsm.Event{ID: EvRegister}); err != nil {
		return nil, err
	}
	return l, nil
}

// BeginResume transitions the application into the Resuming state —
// called when the controller sees an application go from no active
// Temporary layers to at least one (including registering while an
// interruption is already active).
func (l *Lifecycle) BeginResume() error {
	return l.machine.SendSync(librefsm.Event{ID: EvBeginResume})
}

// CompleteResume transitions out of Resuming once the interruption that
// triggered it has cleared.
func (l *Lifecycle) CompleteResume() error {
	return l.machine.SendSync(librefsm.Event{ID: EvResumeComplete})
}

// Disconnect moves the lifecycle back to Disconnected from any
// registered state. The controller's OnAppUnregistered does not call it;
// it discards the application's Lifecycle instead.
func (l *Lifecycle) Disconnect() error {
	return l.machine.SendSync(librefsm.Event{ID: EvDisconnect})
}

// IsResuming reports whether the application is currently in the
// Resuming state — the signal used to decide whether a SetRegularState
// call should be postponed instead of applied.
func (l *Lifecycle) IsResuming() bool {
	return l.machine.IsInState(StateResuming)
}
