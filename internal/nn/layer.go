// Package nn implements tensor-transformation layers for the Texel library.
//
// The package is built around a small capability interface:
//   - Layer: anything that maps a tensor to a tensor with a predictable
//     output shape
//   - ZeroPadding3D: rank-4 zero-padding along the three spatial axes,
//     with a direct in-memory path and a WebGPU index-remap path
//
// Layers are configured once, then applied any number of times.
package nn

import (
	"fmt"

	"github.com/texel-ml/texel/internal/tensor"
)

// Layer is the capability interface for tensor transformations.
//
// A Layer is stateless with respect to its inputs: Apply may cache
// derived resources (index tables, device buffers) internally, but never
// mutates the tensor it is given.
type Layer interface {
	// Apply transforms the input tensor and returns the result.
	//
	// The input is borrowed read-only; the returned tensor is owned by
	// the layer's caching discipline (see the concrete type's docs).
	Apply(x *tensor.Tensor) *tensor.Tensor

	// OutputShape returns the shape Apply would produce for an input of
	// the given shape, without executing anything.
	OutputShape(in tensor.Shape) tensor.Shape
}

// DataFormat fixes where the channel axis sits in a rank-4 tensor's
// buffer order.
type DataFormat int

// Supported axis orders.
const (
	// ChannelsLast is [spatial0, spatial1, spatial2, channels].
	ChannelsLast DataFormat = iota
	// ChannelsFirst is [channels, spatial0, spatial1, spatial2].
	ChannelsFirst
)

// String returns the conventional format name.
func (f DataFormat) String() string {
	switch f {
	case ChannelsFirst:
		return "channels_first"
	default:
		return "channels_last"
	}
}

// PadSpec holds the canonical padding specification: one (before, after)
// pair per spatial axis, in canonical spatial order 0,1,2 regardless of
// data format. All amounts must be non-negative; the value is immutable
// once configured.
//
// The three shorthand forms normalize to this canonical form:
//
//	PadUniform(2)                    // 2 before and after on every axis
//	PadAxes(1, 2, 3)                 // per-axis symmetric amounts
//	PadSpec{{1, 0}, {0, 1}, {0, 0}}  // explicit pairs
type PadSpec [3][2]int

// DefaultPadding is one element of padding on every side of every
// spatial axis.
var DefaultPadding = PadUniform(1)

// PadUniform returns a PadSpec with n elements of padding before and
// after each spatial axis.
func PadUniform(n int) PadSpec {
	return PadSpec{{n, n}, {n, n}, {n, n}}
}

// PadAxes returns a PadSpec with symmetric padding per spatial axis:
// p0 before and after axis 0, and so on.
func PadAxes(p0, p1, p2 int) PadSpec {
	return PadSpec{{p0, p0}, {p1, p1}, {p2, p2}}
}

// Total returns the combined before+after padding for a spatial axis.
func (p PadSpec) Total(axis int) int {
	return p[axis][0] + p[axis][1]
}

// IsZero reports whether the spec adds no padding at all.
func (p PadSpec) IsZero() bool {
	return p == PadSpec{}
}

// String returns the spec as nested pairs, e.g. "[[1 0] [0 1] [0 0]]".
func (p PadSpec) String() string {
	return fmt.Sprintf("[%v %v %v]", p[0], p[1], p[2])
}
