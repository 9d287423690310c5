package gobatch3d

import (
	"fmt"
	"math"

	"github.com/smasonuk/gobatch3d/versioning"
)

// sceneLadder upgrades config files written by older versions.
var sceneLadder = mustLadder(
	versioning.Step{
		Version: versioning.Version{Major: 0, Minor: 1},
		Name:    "object-batched",
		Field:   "object.batched",
		Apply:   batchObjects,
	},
	versioning.Step{
		Version: versioning.Version{Major: 0, Minor: 2},
		Name:    "light-direction",
		Field:   "light.direction",
		Apply:   lightAngleToDirection,
	},
	versioning.Step{
		Version: versioning.Version{Major: 0, Minor: 3},
		Name:    "object-scale",
		Field:   "object.scale",
		Apply:   objectSizeToScale,
	},
)

func mustLadder(steps ...versioning.Step) *versioning.Ladder {
	l, err := versioning.NewLadder(steps...)
	if err != nil {
		panic(err)
	}
	return l
}

// Before 0.1 every object was merged.
func batchObjects(doc versioning.Document) error {
	for _, obj := range versioning.Tables(doc, "object") {
		if _, ok := obj["batched"]; !ok {
			obj["batched"] = true
		}
	}
	return nil
}

// light.angle was [yaw, pitch] in degrees.
func lightAngleToDirection(doc versioning.Document) error {
	light, ok := doc["light"].(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := light["angle"]
	if !ok {
		return nil
	}
	angle, ok := raw.([]any)
	if !ok || len(angle) != 2 {
		return fmt.Errorf("light.angle %v: %w", raw, ErrInvalidConfig)
	}
	yaw, ok1 := docFloat(angle[0])
	pitch, ok2 := docFloat(angle[1])
	if !ok1 || !ok2 {
		return fmt.Errorf("light.angle %v: %w", raw, ErrInvalidConfig)
	}
	yaw, pitch = yaw*math.Pi/180, pitch*math.Pi/180
	light["direction"] = []any{
		math.Cos(pitch) * math.Sin(yaw),
		-math.Sin(pitch),
		-math.Cos(pitch) * math.Cos(yaw),
	}
	delete(light, "angle")
	return nil
}

// size was a uniform scale factor.
func objectSizeToScale(doc versioning.Document) error {
	for _, obj := range versioning.Tables(doc, "object") {
		raw, ok := obj["size"]
		if !ok {
			continue
		}
		s, ok := docFloat(raw)
		if !ok {
			return fmt.Errorf("object size %v: %w", raw, ErrInvalidConfig)
		}
		obj["scale"] = []any{s, s, s}
		delete(obj, "size")
	}
	return nil
}

func docFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
