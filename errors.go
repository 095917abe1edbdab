package rigid

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyVertices    = errors.New("vertex ring is empty")
	ErrInvalidVertex    = errors.New("vertex is not finite")
	ErrAlreadyOwned     = errors.New("object already belongs to a composite")
	ErrSelfReference    = errors.New("composite cannot contain itself")
	ErrInvalidStiffness = errors.New("stiffness must be in (0, 1]")
	ErrInvalidDamping   = errors.New("damping must be in [0, 1]")
)
