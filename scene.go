package gobatch3d

import (
	"fmt"
	"log/slog"
)

const (
	sphereSlices = 16
	sphereStacks = 12
)

// NewShape builds the unit mesh an object config names. Size, placement and
// rotation come from the object transform.
func NewShape(o ObjectConfig) (*Array, error) {
	col := o.RGBA()
	switch o.Shape {
	case "box":
		return NewBox(1, 1, 1, col), nil
	case "sphere":
		return NewUVSphere(1, sphereSlices, sphereStacks, col), nil
	case "quad":
		return NewQuad(1, 1, col), nil
	case "ply":
		return LoadArrayFromPLYFile(o.Path, FACE_NORMAL)
	}
	return nil, fmt.Errorf("shape %q: %w", o.Shape, ErrInvalidConfig)
}

// BuildWorld places every configured object. Identical shapes share one
// source array.
func BuildWorld(cfg *Config) (*World, error) {
	w := NewWorld()
	shared := make(map[string]*Array)
	for _, o := range cfg.Objects {
		key := fmt.Sprintf("%s|%s|%v", o.Shape, o.Path, o.Color)
		src, ok := shared[key]
		if !ok {
			var err error
			src, err = NewShape(o)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", o.Name, err)
			}
			shared[key] = src
		}
		if _, err := w.AddObject(o.Name, src, o.Transform(), o.Batched); err != nil {
			return nil, err
		}
	}
	slog.Info("scene built", "objects", len(cfg.Objects), "batches", len(w.Batches()))
	return w, nil
}
