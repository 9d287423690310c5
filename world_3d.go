package gobatch3d

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Object is a mesh placed in the world, either merged into a shared batch or
// owning its own replica.
type Object struct {
	Name      string
	Batched   bool
	transform mgl32.Mat4
	source    DisplayArray

	batch    *BatchArray
	handle   Handle
	instance *Array
}

func (o *Object) Transform() mgl32.Mat4 {
	return o.transform
}

// Part returns the batch range of a batched object.
func (o *Object) Part() (Part, error) {
	if !o.Batched {
		return Part{}, fmt.Errorf("%s is not batched: %w", o.Name, ErrUnknownObject)
	}
	return o.batch.Part(o.handle)
}

// Array returns what the object is drawn from: its batch or its instance.
func (o *Object) Array() DisplayArray {
	if o.Batched {
		return o.batch
	}
	return o.instance
}

// World owns the batches and instances of a scene. It is not safe for
// concurrent use; all edits happen on the goroutine running the game loop.
type World struct {
	batches []*BatchArray
	objects []*Object
	byName  map[string]*Object
}

func NewWorld() *World {
	return &World{byName: make(map[string]*Object)}
}

// AddObject places src in the world under name. Batched objects are merged
// into the batch matching their vertex format; the others get a private
// replica of src.
func (w *World) AddObject(name string, src DisplayArray, mat mgl32.Mat4, batched bool) (*Object, error) {
	if _, ok := w.byName[name]; ok {
		return nil, fmt.Errorf("%s: %w", name, ErrDuplicateObject)
	}
	obj := &Object{Name: name, Batched: batched, transform: mat, source: src}
	if err := w.place(obj); err != nil {
		return nil, fmt.Errorf("add %s: %w", name, err)
	}
	w.objects = append(w.objects, obj)
	w.byName[name] = obj
	slog.Debug("add object", "name", name, "batched", batched, "vertices", src.VertexCount())
	return obj, nil
}

func (w *World) place(obj *Object) error {
	if obj.Batched {
		batch, found := w.batchFor(obj.source)
		h, err := batch.Merge(obj.source, obj.transform)
		if err != nil {
			return err
		}
		if !found {
			w.batches = append(w.batches, batch)
		}
		obj.batch, obj.handle = batch, h
		return nil
	}
	if !IsInvertible(obj.transform) {
		return ErrSingularTransform
	}
	inst, err := Replicate(obj.source)
	if err != nil {
		return err
	}
	inst.TransformInPlace(obj.transform)
	obj.instance = inst
	return nil
}

// batchFor returns the batch src merges into. A new batch is only added to
// the world by the caller once something was merged into it.
func (w *World) batchFor(src Source) (*BatchArray, bool) {
	for _, b := range w.batches {
		if Compatible(b.Primitive(), b.Format(), src) {
			return b, true
		}
	}
	return NewBatchArray(src.Primitive(), src.Format()), false
}

// RemoveObject takes the named object out of the world, splitting it out of
// its batch when batched.
func (w *World) RemoveObject(name string) error {
	obj, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownObject)
	}
	if err := w.unplace(obj); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	w.forget(obj)
	return nil
}

func (w *World) forget(obj *Object) {
	w.objects = slices.DeleteFunc(w.objects, func(o *Object) bool { return o == obj })
	delete(w.byName, obj.Name)
	slog.Debug("remove object", "name", obj.Name)
}

func (w *World) unplace(obj *Object) error {
	if !obj.Batched {
		obj.instance = nil
		return nil
	}
	if err := obj.batch.Split(obj.handle); err != nil {
		return err
	}
	if obj.batch.PartCount() == 0 {
		w.batches = slices.DeleteFunc(w.batches, func(b *BatchArray) bool { return b == obj.batch })
	}
	obj.batch, obj.handle = nil, Handle{}
	return nil
}

// SetTransform moves the named object. A batched object is split out and
// merged again, which puts it last in its batch draw order. If the object
// cannot be placed again under either transform it is removed from the
// world.
func (w *World) SetTransform(name string, mat mgl32.Mat4) error {
	obj, ok := w.byName[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownObject)
	}
	if !IsInvertible(mat) {
		return fmt.Errorf("move %s: %w", name, ErrSingularTransform)
	}
	if err := w.unplace(obj); err != nil {
		return fmt.Errorf("move %s: %w", name, err)
	}
	old := obj.transform
	obj.transform = mat
	if err := w.place(obj); err != nil {
		obj.transform = old
		if rerr := w.place(obj); rerr != nil {
			w.forget(obj)
			slog.Warn("object dropped", "name", name, "error", rerr)
			return fmt.Errorf("move %s, object removed: %w", name, err)
		}
		return fmt.Errorf("move %s: %w", name, err)
	}
	return nil
}

func (w *World) Object(name string) (*Object, bool) {
	obj, ok := w.byName[name]
	return obj, ok
}

// Objects returns the objects in insertion order.
func (w *World) Objects() []*Object {
	return slices.Clone(w.objects)
}

func (w *World) Batches() []*BatchArray {
	return slices.Clone(w.batches)
}

// DisplayArrays lists everything to draw: the batches, then every
// unbatched instance.
func (w *World) DisplayArrays() []DisplayArray {
	out := make([]DisplayArray, 0, len(w.batches)+len(w.objects))
	for _, b := range w.batches {
		out = append(out, b)
	}
	for _, o := range w.objects {
		if !o.Batched {
			out = append(out, o.instance)
		}
	}
	return out
}
