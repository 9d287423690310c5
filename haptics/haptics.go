// Package haptics drives controller rumble.
package haptics

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoHaptics is returned by devices without a rumble motor.
	ErrNoHaptics = errors.New("device has no haptics")

	// ErrNoDevice is returned for indices the registry does not hold.
	ErrNoDevice = errors.New("no such haptic device")
)

// Device is a controller able to rumble. Strong drives the low-frequency
// motor and weak the high-frequency one, both in [0, 1].
type Device interface {
	Start(strong, weak float64, d time.Duration) error
	Stop() error
	IsActive() bool
	SupportsHaptics() bool
}

// Registry numbers devices in registration order.
type Registry struct {
	devices []Device
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds d and returns its index.
func (r *Registry) Register(d Device) int {
	r.devices = append(r.devices, d)
	return len(r.devices) - 1
}

func (r *Registry) Device(i int) (Device, error) {
	if i < 0 || i >= len(r.devices) {
		return nil, fmt.Errorf("device %d of %d: %w", i, len(r.devices), ErrNoDevice)
	}
	return r.devices[i], nil
}

func (r *Registry) Len() int {
	return len(r.devices)
}

func clampMagnitude(m float64) float64 {
	return min(max(m, 0), 1)
}
