package applifecycle

import (
	"context"
	"testing"

	"github.com/librescoot/librefsm"
)

type recordingActions struct {
	entries []string
}

func (r *recordingActions) EnterResuming(c *librefsm.Context) error {
	r.entries = append(r.entries, "enter-resuming")
	return nil
}

func (r *recordingActions) EnterResumed(c *librefsm.Context) error {
	r.entries = append(r.entries, "enter-resumed")
	return nil
}

func (r *recordingActions) ExitResuming(c *librefsm.Context) error {
	r.entries = append(r.entries, "exit-resuming")
	return nil
}

func TestNewStartsRegisteredAndNotResuming(t *testing.T) {
	l, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.IsResuming() {
		t.Fatalf("a freshly registered lifecycle should not be resuming")
	}
}

func TestBeginResumeEntersResuming(t *testing.T) {
	actions := &recordingActions{}
	l, err := New(context.Background(), actions)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := l.BeginResume(); err != nil {
		t.Fatalf("BeginResume() error = %v", err)
	}
	if !l.IsResuming() {
		t.Fatalf("expected IsResuming() after BeginResume")
	}
	if len(actions.entries) != 1 || actions.entries[0] != "enter-resuming" {
		t.Fatalf("actions.entries = %v, want [enter-resuming]", actions.entries)
	}
}

func TestCompleteResumeLeavesResuming(t *testing.T) {
	actions := &recordingActions{}
	l, err := New(context.Background(), actions)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := l.BeginResume(); err != nil {
		t.Fatalf("BeginResume() error = %v", err)
	}
	if err := l.CompleteResume(); err != nil {
		t.Fatalf("CompleteResume() error = %v", err)
	}
	if l.IsResuming() {
		t.Fatalf("expected IsResuming() false after CompleteResume")
	}
	want := []string{"enter-resuming", "exit-resuming", "enter-resumed"}
	if len(actions.entries) != len(want) {
		t.Fatalf("actions.entries = %v, want %v", actions.entries, want)
	}
	for i, e := range want {
		if actions.entries[i] != e {
			t.Fatalf("actions.entries[%d] = %q, want %q", i, actions.entries[i], e)
		}
	}
}

func TestResumedCanReenterResuming(t *testing.T) {
	l, err := New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := l.BeginResume(); err != nil {
		t.Fatalf("BeginResume() error = %v", err)
	}
	if err := l.CompleteResume(); err != nil {
		t.Fatalf("CompleteResume() error = %v", err)
	}
	if err := l.BeginResume(); err != nil {
		t.Fatalf("second BeginResume() error = %v", err)
	}
	if !l.IsResuming() {
		t.Fatalf("expected a Resumed lifecycle to be able to re-enter Resuming")
	}
}

func TestDisconnectFromEveryReachableState(t *testing.T) {
	cases := []func(*Lifecycle) error{
		func(l *Lifecycle) error { return l.Disconnect() },
		func(l *Lifecycle) error {
			if err := l.BeginResume(); err != nil {
				return err
			}
			return l.Disconnect()
		},
		func(l *Lifecycle) error {
			if err := l.BeginResume(); err != nil {
				return err
			}
			if err := l.CompleteResume(); err != nil {
				return err
			}
			return l.Disconnect()
		},
	}

	for i, transition := range cases {
		l, err := New(context.Background(), nil)
		if err != nil {
			t.Fatalf("case %d: New() error = %v", i, err)
		}
		if err := transition(l); err != nil {
			t.Fatalf("case %d: transition error = %v", i, err)
		}
		if l.IsResuming() {
			t.Fatalf("case %d: expected Disconnect to leave Resuming", i)
		}
	}
}
