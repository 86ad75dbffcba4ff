package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// Action is a showroom command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionToggleRain
	ActionToggleParticles
	ActionFront
	ActionTop
	ActionRear
	ActionNextCar
	ActionRandomPaint
	ActionScreenshot
	ActionFullscreen
	ActionBounds
)

var actionNames = [...]string{
	ActionNone:            "none",
	ActionQuit:            "quit",
	ActionToggleRain:      "toggle_rain",
	ActionToggleParticles: "toggle_particles",
	ActionFront:           "front",
	ActionTop:             "top",
	ActionRear:            "rear",
	ActionNextCar:         "next_car",
	ActionRandomPaint:     "random_paint",
	ActionScreenshot:      "screenshot",
	ActionFullscreen:      "fullscreen",
	ActionBounds:          "bounds",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	for i, name := range actionNames {
		if strings.EqualFold(name, s) {
			return Action(i), nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

// Bindings maps keys to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings returns the showroom keyboard layout.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_R:      ActionToggleRain,
		sdl.SCANCODE_P:      ActionToggleParticles,
		sdl.SCANCODE_1:      ActionFront,
		sdl.SCANCODE_2:      ActionTop,
		sdl.SCANCODE_3:      ActionRear,
		sdl.SCANCODE_C:      ActionNextCar,
		sdl.SCANCODE_K:      ActionRandomPaint,
		sdl.SCANCODE_F12:    ActionScreenshot,
		sdl.SCANCODE_F11:    ActionFullscreen,
		sdl.SCANCODE_B:      ActionBounds,
	}
}

// Lookup returns the action bound to key, or ActionNone.
func (b Bindings) Lookup(key sdl.Scancode) Action {
	return b[key]
}

// Bind binds key to a, replacing any previous binding of a.
func (b Bindings) Bind(key sdl.Scancode, a Action) {
	for k, existing := range b {
		if existing == a {
			delete(b, k)
		}
	}
	b[key] = a
}

// Key returns the key bound to a.
func (b Bindings) Key(a Action) (sdl.Scancode, bool) {
	for k, existing := range b {
		if existing == a {
			return k, true
		}
	}
	return sdl.SCANCODE_UNKNOWN, false
}
