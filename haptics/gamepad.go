package haptics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// GamepadDevice rumbles an ebiten gamepad. Ebiten does not report whether a
// pad is still vibrating, so activity is tracked from the requested duration.
type GamepadDevice struct {
	ID    ebiten.GamepadID
	now   func() time.Time
	until time.Time
}

func NewGamepadDevice(id ebiten.GamepadID) *GamepadDevice {
	return &GamepadDevice{ID: id, now: time.Now}
}

func (g *GamepadDevice) Start(strong, weak float64, d time.Duration) error {
	if !g.SupportsHaptics() {
		return fmt.Errorf("gamepad %d: %w", g.ID, ErrNoHaptics)
	}
	ebiten.VibrateGamepad(g.ID, &ebiten.VibrateGamepadOptions{
		Duration:        d,
		StrongMagnitude: clampMagnitude(strong),
		WeakMagnitude:   clampMagnitude(weak),
	})
	g.until = g.now().Add(d)
	slog.Debug("rumble", "gamepad", g.ID, "strong", strong, "weak", weak, "duration", d)
	return nil
}

func (g *GamepadDevice) Stop() error {
	if !g.SupportsHaptics() {
		return fmt.Errorf("gamepad %d: %w", g.ID, ErrNoHaptics)
	}
	ebiten.VibrateGamepad(g.ID, &ebiten.VibrateGamepadOptions{})
	g.until = time.Time{}
	return nil
}

func (g *GamepadDevice) IsActive() bool {
	return g.now().Before(g.until)
}

// SupportsHaptics reports whether the pad uses the standard layout, the
// only layout ebiten vibrates.
func (g *GamepadDevice) SupportsHaptics() bool {
	return ebiten.IsStandardGamepadLayoutAvailable(g.ID)
}

// RegisterGamepads adds every connected gamepad to r and returns how many
// were added.
func RegisterGamepads(r *Registry) int {
	ids := ebiten.AppendGamepadIDs(nil)
	for _, id := range ids {
		idx := r.Register(NewGamepadDevice(id))
		slog.Info("gamepad registered", "index", idx, "name", ebiten.GamepadName(id))
	}
	return len(ids)
}
