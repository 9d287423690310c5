package gobatch3d

import "fmt"

// Part is the sub-range of a batch holding one merged array.
type Part struct {
	StartVertex     int
	VertexCount     int
	StartIndex      int
	IndexCount      int
	IndexByteOffset int
}

func (p Part) EndVertex() int {
	return p.StartVertex + p.VertexCount
}

func (p Part) EndIndex() int {
	return p.StartIndex + p.IndexCount
}

func (p Part) String() string {
	return fmt.Sprintf("{start_v:%d n_v:%d start_i:%d n_i:%d}", p.StartVertex, p.VertexCount, p.StartIndex, p.IndexCount)
}

// Handle names a part of a batch. It stays valid until that part is split;
// splitting other parts never changes what it refers to.
type Handle struct {
	slot       uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle, which never names a part.
func (h Handle) IsZero() bool {
	return h.generation == 0
}

func (h Handle) String() string {
	return fmt.Sprintf("part#%d.%d", h.slot, h.generation)
}

type partSlot struct {
	generation uint32
	pos        int // -1 when free
}

type partEntry struct {
	Part
	slot uint32
}

// PartTable keeps the parts of a batch in draw order.
type PartTable struct {
	parts []partEntry
	slots []partSlot
	free  []uint32
}

func NewPartTable() *PartTable {
	return &PartTable{}
}

func (pt *PartTable) Len() int {
	return len(pt.parts)
}

// Add appends p in last draw position and returns its handle.
func (pt *PartTable) Add(p Part) Handle {
	p.IndexByteOffset = p.StartIndex * IndexSize

	var slot uint32
	if n := len(pt.free); n > 0 {
		slot = pt.free[n-1]
		pt.free = pt.free[:n-1]
	} else {
		slot = uint32(len(pt.slots))
		pt.slots = append(pt.slots, partSlot{})
	}
	s := &pt.slots[slot]
	s.generation++
	s.pos = len(pt.parts)
	pt.parts = append(pt.parts, partEntry{Part: p, slot: slot})
	return Handle{slot: slot, generation: s.generation}
}

// Lookup returns the draw position of the part named by h.
func (pt *PartTable) Lookup(h Handle) (int, error) {
	if h.IsZero() || int(h.slot) >= len(pt.slots) {
		return -1, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}
	s := pt.slots[h.slot]
	if s.pos < 0 || s.generation != h.generation {
		return -1, fmt.Errorf("%v: %w", h, ErrStaleHandle)
	}
	return s.pos, nil
}

// At returns the part at draw position pos.
func (pt *PartTable) At(pos int) Part {
	return pt.parts[pos].Part
}

// HandleAt returns the handle of the part at draw position pos.
func (pt *PartTable) HandleAt(pos int) Handle {
	slot := pt.parts[pos].slot
	return Handle{slot: slot, generation: pt.slots[slot].generation}
}

// Remove deletes the part at pos and moves every later part down by the
// removed ranges. The removed handle becomes stale.
func (pt *PartTable) Remove(pos int) Part {
	removed := pt.parts[pos]

	for i := pos + 1; i < len(pt.parts); i++ {
		next := &pt.parts[i]
		next.StartVertex -= removed.VertexCount
		next.StartIndex -= removed.IndexCount
		next.IndexByteOffset = next.StartIndex * IndexSize
		pt.slots[next.slot].pos = i - 1
	}
	pt.parts = append(pt.parts[:pos], pt.parts[pos+1:]...)

	s := &pt.slots[removed.slot]
	s.pos = -1
	// bump now so a handle to the removed part never matches the recycled slot
	s.generation++
	pt.free = append(pt.free, removed.slot)

	return removed.Part
}

// Parts returns a copy of the parts in draw order.
func (pt *PartTable) Parts() []Part {
	out := make([]Part, len(pt.parts))
	for i, e := range pt.parts {
		out[i] = e.Part
	}
	return out
}

// Handles returns the handles of the parts in draw order.
func (pt *PartTable) Handles() []Handle {
	out := make([]Handle, len(pt.parts))
	for i := range pt.parts {
		out[i] = pt.HandleAt(i)
	}
	return out
}
