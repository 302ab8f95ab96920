// Package resolver implements the Conflict Resolver: a pure function
// that, given a target application's candidate Regular state, computes
// the demotions required of every other application to preserve the
// foreground/audio exclusivity invariants.
package resolver

import (
	"github.com/librescoot/hmi-state-controller/internal/appregistry"
	"github.com/librescoot/hmi-state-controller/internal/hmistate"
)

// Class is one of the three audio exclusivity classes.
type Class int

const (
	ClassMedia Class = iota
	ClassNavi
	ClassVoiceComm
)

// classesOf returns every exclusivity class an application belongs to.
// An application belongs to a class for every capability it has that
// maps to one.
func classesOf(caps hmistate.Capabilities) map[Class]struct{} {
	out := make(map[Class]struct{}, 3)
	if caps.Media {
		out[ClassMedia] = struct{}{}
	}
	if caps.Navi {
		out[ClassNavi] = struct{}{}
	}
	if caps.VoiceComm {
		out[ClassVoiceComm] = struct{}{}
	}
	return out
}

func intersect(a, b map[Class]struct{}) map[Class]struct{} {
	out := make(map[Class]struct{})
	for c := range a {
		if _, ok := b[c]; ok {
			out[c] = struct{}{}
		}
	}
	return out
}

func setEqual(a, b map[Class]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for c := range a {
		if _, ok := b[c]; !ok {
			return false
		}
	}
	return true
}

// Demotion is one delta the Resolver asks the caller to apply: app's
// Regular layer should become NewRegular.
type Demotion struct {
	App        *appregistry.Application
	NewRegular hmistate.State
}

// ClassHolders is a snapshot of which application currently holds
// AUDIBLE audio at FULL/LIMITED for each exclusivity class. Resolve
// builds one internally to look up existing class holders in O(1)
// rather than rescanning the registry per candidate peer; callers can
// also take their own Snapshot for diagnostics or metrics.
type ClassHolders map[Class]*appregistry.Application

func audibleForeground(app *appregistry.Application) bool {
	r := app.Stack.Regular()
	return r.Audio == hmistate.Audible && (r.Level == hmistate.LevelFull || r.Level == hmistate.LevelLimited)
}

// Snapshot builds the current ClassHolders view of the registry.
func Snapshot(apps []*appregistry.Application) ClassHolders {
	holders := make(ClassHolders)
	for _, app := range apps {
		if !audibleForeground(app) {
			continue
		}
		for c := range classesOf(app.Caps) {
			holders[c] = app
		}
	}
	return holders
}

// Resolve computes the demotions required so that target may adopt
// candidate as its new Regular state, preserving the single-FULL and
// one-audible-app-per-class invariants. It is pure: it reads the
// registry's current Regular states but returns deltas rather than
// mutating anything.
func Resolve(target *appregistry.Application, candidate hmistate.State, apps []*appregistry.Application) []Demotion {
	var demotions []Demotion
	targetClasses := classesOf(target.Caps)
	holders := Snapshot(apps)

	switch candidate.Level {
	case hmistate.LevelFull:
		for _, o := range apps {
			if o.AppID == target.AppID {
				continue
			}
			r := o.Stack.Regular()
			switch {
			case r.Level == hmistate.LevelFull:
				demotions = append(demotions, resolveFullPeer(o, r, targetClasses, holders, target)...)
			case r.Level == hmistate.LevelLimited && r.Audio == hmistate.Audible:
				if d, ok := resolveLimitedAudiblePeer(o, r, targetClasses); ok {
					demotions = append(demotions, d)
				}
			}
		}
	case hmistate.LevelLimited:
		for _, o := range apps {
			if o.AppID == target.AppID {
				continue
			}
			r := o.Stack.Regular()
			if r.Audio != hmistate.Audible {
				continue
			}
			if r.Level != hmistate.LevelFull && r.Level != hmistate.LevelLimited {
				continue
			}
			shared := intersect(classesOf(o.Caps), targetClasses)
			if len(shared) == 0 {
				continue
			}
			demotions = append(demotions, Demotion{
				App:        o,
				NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelBackground, hmistate.NotAudible, r.Video, r.Context),
			})
		}
	default:
		// BACKGROUND or NONE: giving up a slot never requires demoting
		// others.
	}

	return demotions
}

func resolveFullPeer(o *appregistry.Application, r hmistate.State, targetClasses map[Class]struct{}, holders ClassHolders, target *appregistry.Application) []Demotion {
	if !o.IsAudio() {
		return []Demotion{{
			App:        o,
			NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelBackground, hmistate.NotAudible, r.Video, r.Context),
		}}
	}

	oClasses := classesOf(o.Caps)
	shared := intersect(oClasses, targetClasses)

	switch {
	case len(shared) > 0 && setEqual(shared, oClasses) && setEqual(oClasses, targetClasses):
		// Shares all classes with the target: BACKGROUND + NOT_AUDIBLE.
		return []Demotion{{
			App:        o,
			NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelBackground, hmistate.NotAudible, r.Video, r.Context),
		}}
	case len(shared) > 0:
		// Shares some but not all classes: FULL -> LIMITED, AUDIBLE retained.
		return []Demotion{{
			App:        o,
			NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelLimited, hmistate.Audible, r.Video, r.Context),
		}}
	default:
		// Disjoint classes: the general I1 rule applies. o may take
		// LIMITED+AUDIBLE unless another app already holds LIMITED for
		// one of o's classes.
		if limitedHolderExists(oClasses, holders, o, target) {
			return []Demotion{{
				App:        o,
				NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelBackground, hmistate.NotAudible, r.Video, r.Context),
			}}
		}
		return []Demotion{{
			App:        o,
			NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelLimited, hmistate.Audible, r.Video, r.Context),
		}}
	}
}

func resolveLimitedAudiblePeer(o *appregistry.Application, r hmistate.State, targetClasses map[Class]struct{}) (Demotion, bool) {
	oClasses := classesOf(o.Caps)
	shared := intersect(oClasses, targetClasses)
	if len(shared) == 0 {
		return Demotion{}, false
	}
	if setEqual(shared, oClasses) && setEqual(oClasses, targetClasses) {
		return Demotion{
			App:        o,
			NewRegular: hmistate.New(hmistate.StateRegular, hmistate.LevelBackground, hmistate.NotAudible, r.Video, r.Context),
		}, true
	}
	// Shares some but not all classes, target going FULL: the peer stays
	// LIMITED, unchanged.
	return Demotion{}, false
}

// limitedHolderExists reports whether, among the given classes'
// audible-foreground holders (from a Snapshot), any holds LIMITED —
// excluding apps in exclude, which are mid-resolution and not yet
// settled into their new state.
func limitedHolderExists(classes map[Class]struct{}, holders ClassHolders, exclude ...*appregistry.Application) bool {
	isExcluded := func(app *appregistry.Application) bool {
		for _, e := range exclude {
			if e != nil && e.AppID == app.AppID {
				return true
			}
		}
		return false
	}
	for c := range classes {
		holder, ok := holders[c]
		if !ok || isExcluded(holder) {
			continue
		}
		r := holder.Stack.Regular()
		if r.Level == hmistate.LevelLimited && r.Audio == hmistate.Audible {
			return true
		}
	}
	return false
}
