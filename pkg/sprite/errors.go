package sprite

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrImageLoad         = errors.New("image load failed")
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrCountMismatch     = errors.New("tile count mismatch")
)

// LoadError is returned when a source image is missing, unreadable or corrupt
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load image: %v", e.Err)
	}
	return fmt.Sprintf("load image %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrImageLoad }

// DimensionError is returned for non-positive or inconsistent size requests
type DimensionError struct {
	What string
	Size Size
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("invalid %s dimensions %s", e.What, e.Size)
}

func (e *DimensionError) Is(target error) bool { return target == ErrInvalidDimensions }

// CountMismatchError is returned when the assembler gets the wrong number of tiles
type CountMismatchError struct {
	Expected, Actual int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d tiles, got %d", e.Expected, e.Actual)
}

func (e *CountMismatchError) Is(target error) bool { return target == ErrCountMismatch }
