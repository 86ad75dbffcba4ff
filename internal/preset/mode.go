// Package preset holds the per-mode lighting presets the showroom switches
// between. Presets are immutable after construction.
package preset

import "fmt"

// Mode is an environment lighting mode.
type Mode int

const (
	Sunny Mode = iota
	Rainy
)

var modeNames = [...]string{
	Sunny: "sunny",
	Rainy: "rainy",
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m >= Sunny && m <= Rainy
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Rainy {
		return Sunny
	}
	return Rainy
}

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{Sunny, Rainy}
}

// ParseMode converts a mode name.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MustParseMode is ParseMode that panics on an unknown name.
func MustParseMode(s string) Mode {
	m, err := ParseMode(s)
	if err != nil {
		panic(err)
	}
	return m
}
