package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange is returned by GoTo and Registry.Get for an index
	// outside [0, Len).
	ErrIndexOutOfRange = errors.New("slide index out of range")
	// ErrSlideLoad marks a loader that failed to produce a module.
	ErrSlideLoad = errors.New("slide load failed")
	// ErrEmptyDeck is returned when a registry is built with no slides.
	ErrEmptyDeck = errors.New("deck has no slides")
)

// IndexError carries the offending index.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("slide %d: %v (deck has %d slides)", e.Index, ErrIndexOutOfRange, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// LoadError wraps the loader failure for one slide.
type LoadError struct {
	Index int
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("slide %d: %v: %v", e.Index, ErrSlideLoad, e.Err)
}

func (e *LoadError) Is(target error) bool { return target == ErrSlideLoad }

func (e *LoadError) Unwrap() error { return e.Err }

// ErrRouterAttached is returned when an input router is attached twice.
var ErrRouterAttached = errors.New("input router already attached")
