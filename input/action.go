package input

import "strings"

// Action is a semantic control bound to a key
type Action uint8

const (
	ActionNone Action = iota

	// Held controls
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
	ActionBrake

	// Edge-triggered
	ActionReset
	ActionCamera
	ActionMute
	ActionQuit
)

// held reports whether the action stays active while its key repeats
func (a Action) held() bool {
	return a >= ActionForward && a <= ActionBrake
}

// actionRegistry maps canonical action names used in key binding config
var actionRegistry = map[string]Action{
	"none":     ActionNone,
	"forward":  ActionForward,
	"backward": ActionBackward,
	"left":     ActionLeft,
	"right":    ActionRight,
	"brake":    ActionBrake,
	"reset":    ActionReset,
	"camera":   ActionCamera,
	"mute":     ActionMute,
	"quit":     ActionQuit,
}

// ActionByName resolves a config action string, case-insensitive
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

func (a Action) String() string {
	for name, v := range actionRegistry {
		if v == a {
			return name
		}
	}
	return "unknown"
}
