package texcache

import (
	"fmt"
	"image"
	"maps"
	"slices"
)

// HitBoxAlgorithm turns an image's alpha channel into an ordered polygon in
// centered, y-up coordinates.
//
// Two algorithms are interchangeable for caching purposes when Name and
// ParamString match; the remaining fields of an implementation must not
// change its output.
type HitBoxAlgorithm interface {
	// Name is the registry name, e.g. "simple".
	Name() string
	// ParamString is the canonical "key=value" list, empty when the
	// algorithm takes no parameters.
	ParamString() string
	// Cacheable reports whether results are worth storing in the hit-box
	// cache.
	Cacheable() bool
	// Calculate computes the polygon. It returns an empty slice for an
	// image with no opaque pixels.
	Calculate(img *ImageRecord) []Point
}

// DefaultHitBoxAlgorithm is used when a caller passes a nil algorithm.
var DefaultHitBoxAlgorithm HitBoxAlgorithm = Simple{}

// HitBoxConstructor builds an algorithm from string parameters.
type HitBoxConstructor func(params map[string]string) (HitBoxAlgorithm, error)

var hitBoxRegistry = map[string]HitBoxConstructor{
	"bounding": func(map[string]string) (HitBoxAlgorithm, error) { return Bounding{}, nil },
	"simple":   func(map[string]string) (HitBoxAlgorithm, error) { return Simple{}, nil },
	"detailed": newDetailedFromParams,
}

// RegisterHitBoxAlgorithm adds a named algorithm to the registry. Names
// are unique; registering one twice is an error. Register during init.
func RegisterHitBoxAlgorithm(name string, ctor HitBoxConstructor) error {
	if name == "" || ctor == nil {
		return fmt.Errorf("%w: hit-box algorithm needs a name and constructor", ErrInvalidConfig)
	}
	if _, ok := hitBoxRegistry[name]; ok {
		return fmt.Errorf("%w: hit-box algorithm %q already registered", ErrInvalidConfig, name)
	}
	hitBoxRegistry[name] = ctor
	return nil
}

// NewHitBoxAlgorithm builds a registered algorithm by name.
func NewHitBoxAlgorithm(name string, params map[string]string) (HitBoxAlgorithm, error) {
	ctor, ok := hitBoxRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hit-box algorithm %q", ErrInvalidConfig, name)
	}
	return ctor(params)
}

// HitBoxAlgorithms lists registered algorithm names in sorted order.
func HitBoxAlgorithms() []string {
	return slices.Sorted(maps.Keys(hitBoxRegistry))
}

// CalculateHitBox runs algo on an arbitrary image. Only *image.NRGBA and
// *image.RGBA are accepted; other color models must be converted by the
// caller first.
func CalculateHitBox(algo HitBoxAlgorithm, img image.Image) ([]Point, error) {
	if algo == nil {
		return nil, fmt.Errorf("%w: nil hit-box algorithm", ErrInvalidConfig)
	}
	switch img.(type) {
	case *image.NRGBA, *image.RGBA:
	default:
		return nil, fmt.Errorf("%w: got %T", ErrPixelFormat, img)
	}
	rec, err := NewImageRecord(img)
	if err != nil {
		return nil, err
	}
	return algo.Calculate(rec), nil
}

// sameAlgorithm compares algorithms by identity, not by value.
func sameAlgorithm(a, b HitBoxAlgorithm) bool {
	return a.Name() == b.Name() && a.ParamString() == b.ParamString()
}

func orDefault(a HitBoxAlgorithm) HitBoxAlgorithm {
	if a == nil {
		return DefaultHitBoxAlgorithm
	}
	return a
}
