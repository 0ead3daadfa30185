package cpu

import (
	"fmt"

	"github.com/texel-ml/texel/internal/tensor"
)

// PadShape returns the shape produced by zero-padding a channels-last
// rank-4 shape: pads[i] holds the (before, after) amounts for spatial
// axis i, the channel axis is untouched.
func PadShape(shape tensor.Shape, pads [3][2]int) tensor.Shape {
	return tensor.Shape{
		shape[0] + pads[0][0] + pads[0][1],
		shape[1] + pads[1][0] + pads[1][1],
		shape[2] + pads[2][0] + pads[2][1],
		shape[3],
	}
}

// Pad3D zero-pads a rank-4 channels-last tensor along its three spatial
// axes and returns a new tensor. The input is not modified.
func (cpu *Backend) Pad3D(x *tensor.Tensor, pads [3][2]int) *tensor.Tensor {
	if len(x.Shape()) != 4 {
		panic(fmt.Sprintf("pad3d: input must be rank 4, got %v", x.Shape()))
	}

	out, err := tensor.New(PadShape(x.Shape(), pads), x.DType())
	if err != nil {
		panic(fmt.Sprintf("pad3d: %v", err))
	}
	copyPadRegion(out, x, pads)
	return out
}

// Pad3DInto zero-pads x into the caller-owned dst, reusing its buffer.
// dst must have the padded shape and the input's dtype; its previous
// contents are cleared first.
func (cpu *Backend) Pad3DInto(dst, x *tensor.Tensor, pads [3][2]int) {
	if len(x.Shape()) != 4 {
		panic(fmt.Sprintf("pad3d: input must be rank 4, got %v", x.Shape()))
	}
	want := PadShape(x.Shape(), pads)
	if !dst.Shape().Equal(want) {
		panic(fmt.Sprintf("pad3d: output shape %v does not match %v", dst.Shape(), want))
	}
	if dst.DType() != x.DType() {
		panic(fmt.Sprintf("pad3d: output dtype %s does not match input %s", dst.DType(), x.DType()))
	}

	clear(dst.Data())
	copyPadRegion(dst, x, pads)
}

// copyPadRegion copies the input into the padded sub-region of dst as
// contiguous (axis2 x channel) planes: for fixed outer spatial indices
// the innermost two axes are one contiguous block in both buffers.
func copyPadRegion(dst, x *tensor.Tensor, pads [3][2]int) {
	shape := x.Shape()
	s0, s1, s2, c := shape[0], shape[1], shape[2], shape[3]
	elem := x.DType().Size()

	outStrides := dst.Shape().ComputeStrides()
	planeBytes := s2 * c * elem

	sb, db := x.Data(), dst.Data()
	for i0 := 0; i0 < s0; i0++ {
		for i1 := 0; i1 < s1; i1++ {
			srcOff := (i0*s1 + i1) * s2 * c * elem
			dstOff := ((i0+pads[0][0])*outStrides[0] +
				(i1+pads[1][0])*outStrides[1] +
				pads[2][0]*outStrides[2]) * elem
			copy(db[dstOff:dstOff+planeBytes], sb[srcOff:srcOff+planeBytes])
		}
	}
}
