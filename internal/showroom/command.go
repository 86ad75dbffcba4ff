package showroom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Faultbox/showroom/internal/camera"
	"github.com/Faultbox/showroom/internal/preset"
	"github.com/Faultbox/showroom/internal/scene"
)

// Command is a scripted UI action, read from a JSON command file so the
// showroom can be driven without input devices.
type Command struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
}

// Result reports what a command did. Screenshot asks the driver to capture
// the next frame, which only it can do.
type Result struct {
	Message    string
	Screenshot bool
}

// Execute runs cmd on the frame thread.
func (a *App) Execute(cmd Command) (Result, error) {
	switch cmd.Action {
	case "set_mode":
		m, err := preset.ParseMode(cmd.Value)
		if err != nil {
			return Result{}, err
		}
		a.SetMode(m)
		return Result{Message: "Mode: " + m.String()}, nil

	case "toggle_rain":
		return Result{Message: fmt.Sprintf("Raining: %v", a.ToggleRain())}, nil

	case "toggle_particles":
		return Result{Message: fmt.Sprintf("Rain particles: %v", a.ToggleRainParticles())}, nil

	case "preset":
		p, err := camera.ParsePreset(cmd.Value)
		if err != nil {
			return Result{}, err
		}
		a.MovePreset(p)
		return Result{Message: "Camera: " + p.String()}, nil

	case "switch_car":
		if !a.hasCar(cmd.Value) {
			return Result{}, fmt.Errorf("unknown car %q", cmd.Value)
		}
		a.SwitchCar(cmd.Value)
		return Result{Message: "Switching to " + cmd.Value}, nil

	case "paint":
		if cmd.Value == "" {
			c, ok := a.RandomizePaint()
			if !ok {
				return Result{}, errors.New("no car loaded")
			}
			return Result{Message: "Paint: " + scene.FormatHex(c)}, nil
		}
		c, err := scene.ParseHex(cmd.Value)
		if err != nil {
			return Result{}, err
		}
		if !a.ctx.Cars.SetPaintColor(c) {
			return Result{}, errors.New("no car loaded")
		}
		a.dirty = true
		return Result{Message: "Paint: " + scene.FormatHex(c)}, nil

	case "screenshot":
		return Result{Screenshot: true}, nil

	default:
		return Result{}, fmt.Errorf("unknown command %q", cmd.Action)
	}
}

func (a *App) hasCar(name string) bool {
	for _, c := range a.ctx.Cars.Cars() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ReadCommand reads and deletes a single-shot command file. ok is false
// when no file exists.
func ReadCommand(path string) (cmd Command, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Command{}, false, nil
	}
	if err != nil {
		return Command{}, false, err
	}

	// Delete first so a bad command is not retried every frame.
	if err := os.Remove(path); err != nil {
		return Command{}, false, fmt.Errorf("remove command file: %w", err)
	}
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, false, fmt.Errorf("invalid command: %w", err)
	}
	return cmd, true, nil
}
