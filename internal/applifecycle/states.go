// Package applifecycle tracks each application's connection/resumption
// lifecycle: an application that just reconnected after an ignition
// cycle should not have its requested Regular state announced until
// whatever interruption is already in progress clears. It follows the
// same single-machine FSM pattern used elsewhere in this codebase, one
// machine per application instead of one machine for the whole process.
package applifecycle

import "github.com/librescoot/librefsm"

// Lifecycle states.
const (
	StateDisconnected librefsm.StateID = "disconnected"
	StateRegistered   librefsm.StateID = "registered"
	StateResuming     librefsm.StateID = "resuming"
	StateResumed      librefsm.StateID = "resumed"
)

// Lifecycle events.
const (
	EvRegister       librefsm.EventID = "register"
	EvBeginResume     librefsm.EventID = "begin-resume"
	EvResumeComplete  librefsm.EventID = "resume-complete"
	EvDisconnect      librefsm.EventID = "disconnect"
)
