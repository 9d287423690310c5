package gobatch3d

import "errors"

var (
	// ErrIncompatibleFormat is returned when merging an array whose vertex
	// format or primitive type differs from the batch.
	ErrIncompatibleFormat = errors.New("incompatible vertex format")

	// ErrSingularTransform is returned when a merge transform has no inverse.
	ErrSingularTransform = errors.New("transform is not invertible")

	// ErrStaleHandle is returned for a handle whose part was split or that
	// never belonged to the table.
	ErrStaleHandle = errors.New("stale or unknown part handle")

	// ErrNotReplicable is returned when duplicating an array that must not
	// be duplicated, such as a batch.
	ErrNotReplicable = errors.New("array cannot be replicated")

	// ErrIndexOverflow is returned when a merge would address more vertices
	// than an index can hold.
	ErrIndexOverflow = errors.New("vertex count exceeds index range")

	// ErrIndexOutOfRange is returned when a merged array holds an index
	// past its own vertices.
	ErrIndexOutOfRange = errors.New("index out of vertex range")
)

var (
	// ErrDuplicateObject is returned when adding an object under a name
	// already used in the world.
	ErrDuplicateObject = errors.New("object name already in use")

	// ErrUnknownObject is returned for names the world does not hold.
	ErrUnknownObject = errors.New("unknown object")

	ErrInvalidConfig = errors.New("invalid config")
)
