package model

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad is matched by every ImageLoadError.
	ErrImageLoad = errors.New("image could not be decoded")

	// ErrInvalidGeometry is matched by every InvalidGeometryError.
	ErrInvalidGeometry = errors.New("image has zero area")

	// ErrDetectorUnavailable reports a missing or uninitialised model. It is
	// absorbed by the engine, never returned from Detect.
	ErrDetectorUnavailable = errors.New("detector unavailable")
)

// ImageLoadError is returned when an input cannot be read or decoded.
type ImageLoadError struct {
	Source string
	Err    error
}

func (e *ImageLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to load image: %v", e.Err)
	}
	return fmt.Sprintf("failed to load image %s: %v", e.Source, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrImageLoad) match any ImageLoadError.
func (e *ImageLoadError) Is(target error) bool { return target == ErrImageLoad }

// InvalidGeometryError is returned for degenerate images.
type InvalidGeometryError struct {
	Width  int
	Height int
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid image geometry %dx%d", e.Width, e.Height)
}

// Is lets errors.Is(err, ErrInvalidGeometry) match any InvalidGeometryError.
func (e *InvalidGeometryError) Is(target error) bool { return target == ErrInvalidGeometry }
