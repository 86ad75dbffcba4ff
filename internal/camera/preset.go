package camera

import "fmt"

// Preset is a named viewpoint.
type Preset int

const (
	Front Preset = iota
	Top
	Rear
)

var presetNames = [...]string{
	Front: "front",
	Top:   "top",
	Rear:  "rear",
}

func (p Preset) String() string {
	if p.Valid() {
		return presetNames[p]
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	return p >= Front && p <= Rear
}

// Presets lists every preset.
func Presets() []Preset {
	return []Preset{Front, Top, Rear}
}

// ParsePreset converts a preset name.
func ParsePreset(s string) (Preset, error) {
	for i, name := range presetNames {
		if name == s {
			return Preset(i), nil
		}
	}
	return 0, fmt.Errorf("unknown camera preset %q", s)
}

// MustParsePreset is ParsePreset that panics on an unknown name.
func MustParsePreset(s string) Preset {
	p, err := ParsePreset(s)
	if err != nil {
		panic(err)
	}
	return p
}
