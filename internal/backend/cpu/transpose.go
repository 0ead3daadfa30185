package cpu

import (
	"fmt"

	"github.com/texel-ml/texel/internal/tensor"
)

// Transpose permutes the tensor's dimensions and returns a new tensor.
// With no axes given, all dimensions are reversed. The input is not
// modified.
func (cpu *Backend) Transpose(t *tensor.Tensor, axes ...int) *tensor.Tensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.New(newShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	transposeBytes(result, t, axes)

	return result
}

// transposeBytes moves elements at byte granularity, so one loop serves
// every data type.
func transposeBytes(dst, src *tensor.Tensor, axes []int) {
	shape := src.Shape()
	ndim := len(shape)
	elem := src.DType().Size()
	srcStrides := shape.ComputeStrides()
	dstStrides := dst.Shape().ComputeStrides()

	sb, db := src.Data(), dst.Data()
	coords := make([]int, ndim)
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		// Multi-dimensional coordinates of source element i.
		idx := i
		for dim := 0; dim < ndim; dim++ {
			coords[dim] = idx / srcStrides[dim]
			idx %= srcStrides[dim]
		}

		// Flat destination index under the permutation.
		dstIdx := 0
		for dstDim, srcDim := range axes {
			dstIdx += coords[srcDim] * dstStrides[dstDim]
		}

		copy(db[dstIdx*elem:(dstIdx+1)*elem], sb[i*elem:(i+1)*elem])
	}
}
