package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()

	tests := []struct {
		key  sdl.Scancode
		want Action
	}{
		{sdl.SCANCODE_R, ActionToggleRain},
		{sdl.SCANCODE_P, ActionToggleParticles},
		{sdl.SCANCODE_1, ActionFront},
		{sdl.SCANCODE_2, ActionTop},
		{sdl.SCANCODE_3, ActionRear},
		{sdl.SCANCODE_F12, ActionScreenshot},
		{sdl.SCANCODE_Z, ActionNone},
	}
	for _, tt := range tests {
		if got := b.Lookup(tt.key); got != tt.want {
			t.Errorf("Lookup(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestBindReplacesPreviousKey(t *testing.T) {
	b := DefaultBindings()
	b.Bind(sdl.SCANCODE_T, ActionToggleRain)

	if got := b.Lookup(sdl.SCANCODE_R); got != ActionNone {
		t.Errorf("old key still bound to %v", got)
	}
	key, ok := b.Key(ActionToggleRain)
	if !ok || key != sdl.SCANCODE_T {
		t.Errorf("Key(ToggleRain) = %d, %v, want T", key, ok)
	}
}

func TestParseAction(t *testing.T) {
	for i := range actionNames {
		a := Action(i)
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("jump"); err == nil {
		t.Error("ParseAction(jump) should fail")
	}
}

func TestActionsFiltersKeyDowns(t *testing.T) {
	in := New(nil)
	in.events = []Event{
		{Type: EventMouseMove},
		{Type: EventKeyDown, Action: ActionTop},
		{Type: EventKeyDown, Action: ActionNone},
		{Type: EventKeyDown, Action: ActionNextCar},
	}

	got := in.Actions()
	if len(got) != 2 || got[0] != ActionTop || got[1] != ActionNextCar {
		t.Errorf("Actions() = %v", got)
	}
}
