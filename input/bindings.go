package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be bare single-char config keys
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// keysByName is the lowercase reverse of tcell.KeyNames
var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// Bindings maps terminal keys to actions
type Bindings struct {
	// Special keys (arrows, Esc, Ctrl+*)
	Keys map[tcell.Key]Action
	// Printable runes, matched case-insensitively
	Runes map[rune]Action
}

// DefaultBindings mirrors the browser demo: WASD and arrows, space brakes, r resets
func DefaultBindings() *Bindings {
	return &Bindings{
		Keys: map[tcell.Key]Action{
			tcell.KeyUp:     ActionForward,
			tcell.KeyDown:   ActionBackward,
			tcell.KeyLeft:   ActionLeft,
			tcell.KeyRight:  ActionRight,
			tcell.KeyEscape: ActionQuit,
			tcell.KeyCtrlC:  ActionQuit,
		},
		Runes: map[rune]Action{
			'w': ActionForward,
			's': ActionBackward,
			'a': ActionLeft,
			'd': ActionRight,
			' ': ActionBrake,
			'r': ActionReset,
			'c': ActionCamera,
			'm': ActionMute,
			'q': ActionQuit,
		},
	}
}

// Clone returns a deep copy
func (b *Bindings) Clone() *Bindings {
	out := &Bindings{
		Keys:  make(map[tcell.Key]Action, len(b.Keys)),
		Runes: make(map[rune]Action, len(b.Runes)),
	}
	for k, v := range b.Keys {
		out.Keys[k] = v
	}
	for r, v := range b.Runes {
		out.Runes[r] = v
	}
	return out
}

// Lookup resolves a key event to its bound action
func (b *Bindings) Lookup(ev *tcell.EventKey) Action {
	if ev.Key() != tcell.KeyRune {
		return b.Keys[ev.Key()]
	}
	if a, ok := b.Runes[ev.Rune()]; ok {
		return a
	}
	return b.Runes[unicode.ToLower(ev.Rune())]
}

// ParseBindings applies key name → action name overrides on top of base
// The "none" action unbinds a key
// Returns error on unknown action names or invalid key names
func ParseBindings(base *Bindings, overrides map[string]string) (*Bindings, error) {
	if base == nil {
		base = DefaultBindings()
	}
	result := base.Clone()

	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, keyStr := range names {
		action, ok := ActionByName(overrides[keyStr])
		if !ok {
			return nil, fmt.Errorf("key %q: unknown action: %q", keyStr, overrides[keyStr])
		}

		if r, ok := resolveRune(keyStr); ok {
			r = unicode.ToLower(r)
			if action == ActionNone {
				delete(result.Runes, r)
			} else {
				result.Runes[r] = action
			}
			continue
		}

		k, ok := keysByName[strings.ToLower(keyStr)]
		if !ok {
			return nil, fmt.Errorf("unknown key name: %q", keyStr)
		}
		if action == ActionNone {
			delete(result.Keys, k)
		} else {
			result.Keys[k] = action
		}
	}

	return result, nil
}

// resolveRune accepts single characters and named aliases
func resolveRune(s string) (rune, bool) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, true
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], true
	}
	return 0, false
}
