package haptics

import (
	"errors"
	"time"
)

type Mode int

const (
	Play Mode = iota
	Stop
	Toggle
)

func (m Mode) String() string {
	switch m {
	case Play:
		return "play"
	case Stop:
		return "stop"
	case Toggle:
		return "toggle"
	}
	return "unknown"
}

// Actuator plays a rumble on a registered device when triggered and stops
// it once Duration has passed.
type Actuator struct {
	Mode          Mode
	JoyIndex      int
	StrengthLeft  float64
	StrengthRight float64
	Duration      time.Duration

	registry *Registry
	endTime  time.Time
	pending  bool
}

func NewActuator(r *Registry, mode Mode, joyIndex int) *Actuator {
	return &Actuator{
		Mode:          mode,
		JoyIndex:      joyIndex,
		StrengthLeft:  1,
		StrengthRight: 1,
		Duration:      200 * time.Millisecond,
		registry:      r,
	}
}

// Trigger queues the actuator mode for the next Update.
func (a *Actuator) Trigger() {
	a.pending = true
}

// Update runs a queued trigger, stops an expired rumble and reports whether
// the device is still vibrating. A missing device reports false without an
// error; devices without haptics return ErrNoHaptics.
func (a *Actuator) Update(now time.Time) (bool, error) {
	dev, err := a.registry.Device(a.JoyIndex)
	if err != nil {
		a.pending = false
		return false, nil
	}

	if a.pending {
		a.pending = false
		switch a.Mode {
		case Play:
			err = a.start(dev, now)
		case Stop:
			err = a.stop(dev)
		case Toggle:
			if dev.IsActive() {
				err = a.stop(dev)
			} else {
				err = a.start(dev, now)
			}
		}
		if err != nil {
			return false, err
		}
	}

	if !a.endTime.IsZero() && !now.Before(a.endTime) {
		if err := a.stop(dev); err != nil {
			return false, err
		}
	}
	return dev.IsActive(), nil
}

// StartVibration plays immediately, whatever the mode.
func (a *Actuator) StartVibration(now time.Time) error {
	dev, err := a.registry.Device(a.JoyIndex)
	if err != nil {
		return err
	}
	return a.start(dev, now)
}

func (a *Actuator) StopVibration() error {
	dev, err := a.registry.Device(a.JoyIndex)
	if err != nil {
		return err
	}
	return a.stop(dev)
}

// HasVibration reports whether the target device can rumble.
func (a *Actuator) HasVibration() bool {
	dev, err := a.registry.Device(a.JoyIndex)
	return err == nil && dev.SupportsHaptics()
}

func (a *Actuator) IsVibrating() bool {
	dev, err := a.registry.Device(a.JoyIndex)
	return err == nil && dev.IsActive()
}

func (a *Actuator) start(dev Device, now time.Time) error {
	if err := dev.Start(a.StrengthLeft, a.StrengthRight, a.Duration); err != nil {
		return err
	}
	a.endTime = now.Add(a.Duration)
	return nil
}

func (a *Actuator) stop(dev Device) error {
	a.endTime = time.Time{}
	if err := dev.Stop(); err != nil && !errors.Is(err, ErrNoHaptics) {
		return err
	}
	return nil
}
