package texcache

import "errors"

var (
	// ErrInvalidConfig reports a bad value passed where an image, hit-box
	// algorithm or configuration field was expected.
	ErrInvalidConfig = errors.New("texcache: invalid configuration")

	// ErrOutOfBounds reports a crop rectangle that does not fit the image.
	ErrOutOfBounds = errors.New("texcache: rectangle out of bounds")

	// ErrPixelFormat reports a pixel buffer that is not tightly packed RGBA.
	ErrPixelFormat = errors.New("texcache: pixel buffer is not RGBA")

	// ErrCounterUnderflow reports a decrement of a reference count that is
	// already zero or was never incremented. It always indicates a
	// double release in the caller.
	ErrCounterUnderflow = errors.New("texcache: reference count underflow")

	// ErrDecode reports a file that could not be read or decoded.
	ErrDecode = errors.New("texcache: decode failed")
)
