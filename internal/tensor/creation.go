package tensor

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/x448/float16"
)

// sliceOf views the tensor's buffer as a typed slice. Callers must have
// matched T against the tensor's dtype already.
func sliceOf[T DType](t *Tensor) []T {
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// FromSlice creates a host tensor from a Go slice.
// The slice is copied into the tensor's memory.
//
// Example:
//
//	t, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	t, err := New(shape, dataTypeOf(dummy))
	if err != nil {
		return nil, err
	}
	copy(sliceOf[T](t), data)
	return t, nil
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t := tensor.Zeros[float32](tensor.Shape{3, 4})
func Zeros[T DType](shape Shape) *Tensor {
	var dummy T
	t, err := New(shape, dataTypeOf(dummy))
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	// Data is already zero-initialized by make()
	return t
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	t := tensor.Ones[float64](tensor.Shape{2, 3})
func Ones[T DType](shape Shape) *Tensor {
	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case float16.Float16:
		one = float16.Fromfloat32(1)
	case int32:
		one = int32(1)
	case int64:
		one = int64(1)
	case uint8:
		one = uint8(1)
	case bool:
		one = true
	}
	return Full(shape, one.(T))
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full(tensor.Shape{3, 3}, float32(3.14))
func Full[T DType](shape Shape, value T) *Tensor {
	t := Zeros[T](shape)
	data := sliceOf[T](t)
	for i := range data {
		data[i] = value
	}
	return t
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
// Only float types are supported.
// Note: uses math/rand (not crypto/rand), appropriate for test data.
//
// Example:
//
//	t := tensor.Rand[float32](tensor.Shape{2, 4, 4, 3})
func Rand[T DType](shape Shape) *Tensor {
	t := Zeros[T](shape)

	var dummy T
	switch any(dummy).(type) {
	case float32:
		data := sliceOf[float32](t)
		for i := range data {
			data[i] = rand.Float32() //nolint:gosec // G404: test/bench data, not crypto
		}
	case float64:
		data := sliceOf[float64](t)
		for i := range data {
			data[i] = rand.Float64() //nolint:gosec // G404: test/bench data, not crypto
		}
	case float16.Float16:
		data := sliceOf[float16.Float16](t)
		for i := range data {
			data[i] = float16.Fromfloat32(rand.Float32()) //nolint:gosec // G404: test/bench data, not crypto
		}
	default:
		panic("Rand only supports float32, float64 and float16 types")
	}
	return t
}
