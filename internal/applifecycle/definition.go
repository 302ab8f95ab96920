package applifecycle

import "github.com/librescoot/librefsm"

// Actions defines the hooks a Lifecycle machine invokes on state
// entry/exit, mirroring the shape of vehicle-service's fsm.Actions: a
// plain interface implemented by whatever owns the machine, never a
// polymorphic per-state object.
type Actions interface {
	EnterResuming(c *librefsm.Context) error
	EnterResumed(c *librefsm.Context) error
	ExitResuming(c *librefsm.Context) error
}

// NewDefinition builds the shared Lifecycle FSM definition. One
// *librefsm.Machine per application is built from this single
// definition, exactly the way vehicle-service's fsm.NewDefinition is
// built once and shared (there, across one machine; here, instantiated
// per application).
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateDisconnected).
		State(StateRegistered).
		State(StateResuming,
			librefsm.WithOnEnter(actions.EnterResuming),
			librefsm.WithOnExit(actions.ExitResuming),
		).
		State(StateResumed,
			librefsm.WithOnEnter(actions.EnterResumed),
		).
		Transition(StateDisconnected, EvRegister, StateRegistered).
		Transition(StateRegistered, EvBeginResume, StateResuming).
		Transition(StateResuming, EvResumeComplete, StateResumed).
		Transition(StateResumed, EvBeginResume, StateResuming).
		Transition(StateRegistered, EvDisconnect, StateDisconnected).
		Transition(StateResuming, EvDisconnect, StateDisconnected).
		Transition(StateResumed, EvDisconnect, StateDisconnected).
		Initial(StateDisconnected)
}
