package appregistry

import (
	"testing"

	"github.com/librescoot/hmi-state-controller/internal/hmistate"
	"github.com/librescoot/hmi-state-controller/internal/stack"
)

func newApp(id uint32, hmiAppID uint32) *Application {
	regular := hmistate.New(hmistate.StateRegular, hmistate.LevelNone, hmistate.NotAudible, hmistate.NotStreamable, hmistate.ContextMain)
	return &Application{
		AppID:    id,
		HMIAppID: hmiAppID,
		Stack:    stack.New(regular),
	}
}

func TestInsertIsIdempotentByAppID(t *testing.T) {
	r := New()
	r.Insert(newApp(1, 101))
	r.Insert(newApp(1, 102))

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after re-inserting the same app id", r.Len())
	}
	app, ok := r.Lookup(1)
	if !ok || app.HMIAppID != 102 {
		t.Fatalf("expected the second insert's descriptor to win, got %+v", app)
	}
}

func TestIterPreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Insert(newApp(3, 300))
	r.Insert(newApp(1, 100))
	r.Insert(newApp(2, 200))

	got := r.Iter()
	want := []uint32{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("Iter() length = %d, want %d", len(got), len(want))
	}
	for i, app := range got {
		if app.AppID != want[i] {
			t.Fatalf("Iter()[%d] = %d, want %d", i, app.AppID, want[i])
		}
	}
}

func TestByHMIApp(t *testing.T) {
	r := New()
	r.Insert(newApp(1, 101))
	app, ok := r.ByHMIApp(101)
	if !ok || app.AppID != 1 {
		t.Fatalf("ByHMIApp(101) = %+v, %v, want app 1", app, ok)
	}
	if _, ok := r.ByHMIApp(999); ok {
		t.Fatalf("expected ByHMIApp to miss for an unknown hmi_app_id")
	}
}

func TestRemove(t *testing.T) {
	r := New()
	r.Insert(newApp(1, 101))
	r.Insert(newApp(2, 102))
	r.Remove(1)

	if _, ok := r.Lookup(1); ok {
		t.Fatalf("expected app 1 to be gone after Remove")
	}
	if _, ok := r.ByHMIApp(101); ok {
		t.Fatalf("expected hmi_app_id 101 to be gone after Remove")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after removing one of two apps", r.Len())
	}
	got := r.Iter()
	if len(got) != 1 || got[0].AppID != 2 {
		t.Fatalf("Iter() = %+v, want only app 2 to remain", got)
	}
}

func TestIsAudioIsVideo(t *testing.T) {
	app := newApp(1, 101)
	app.Caps = hmistate.Capabilities{Navi: true}
	if !app.IsAudio() || !app.IsVideo() {
		t.Fatalf("a Navi app should be both Audio and Video")
	}
	app.Caps = hmistate.Capabilities{}
	if app.IsAudio() || app.IsVideo() {
		t.Fatalf("a capability-less app should be neither Audio nor Video")
	}
}
