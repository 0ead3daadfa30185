// Copyright 2025 The Texel Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for Texel's tensor container.
//
// The package defines the core types for dense rank-n tensors:
//   - Tensor: flat buffer + shape + data type, with typed accessors
//   - Shape, DataType, Device: core type definitions
//   - Texture: 2D encodings of tensor buffers for GPU storage, with
//     per-element offset tables
//   - DeviceTexture: a GPU-resident encoding with lazy host readback
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{2, 2, 2, 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tx, err := x.Encode2DSquare() // 3x3 grid, zero tail
package tensor

import (
	internaltensor "github.com/texel-ml/texel/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor data types.
// Supported types: float32, float64, float16.Float16, int32, int64, uint8, bool.
type DType = internaltensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = internaltensor.DataType

// Data type constants.
const (
	Float32 DataType = internaltensor.Float32
	Float64 DataType = internaltensor.Float64
	Float16 DataType = internaltensor.Float16
	Int32   DataType = internaltensor.Int32
	Int64   DataType = internaltensor.Int64
	Uint8   DataType = internaltensor.Uint8
	Bool    DataType = internaltensor.Bool
)

// Device represents the device where tensor data resides.
type Device = internaltensor.Device

// Device constants.
const (
	CPU    Device = internaltensor.CPU
	WebGPU Device = internaltensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = internaltensor.Shape

// Tensor is a dense n-dimensional array: a flat byte buffer plus shape,
// strides, and runtime type information, with typed zero-copy accessors
// (AsFloat32 and friends) and optional GPU residency.
type Tensor = internaltensor.Tensor

// TextureLayout selects how a tensor's buffer is linearized into a 2D
// texture grid.
type TextureLayout = internaltensor.TextureLayout

// Texture layout constants.
const (
	LayoutLinear TextureLayout = internaltensor.LayoutLinear
	LayoutSquare TextureLayout = internaltensor.LayoutSquare
)

// Texture is a 2D encoding of a tensor's buffer, ready for GPU upload.
type Texture = internaltensor.Texture

// DeviceTexture is a GPU-resident texture encoding: the device buffer
// handle plus the grid geometry and source shape needed to decode it.
type DeviceTexture = internaltensor.DeviceTexture

// DeviceReader reads device buffers back to host memory. The WebGPU
// engine implements it.
type DeviceReader = internaltensor.DeviceReader

// Creation functions

// New creates a zero-initialized host tensor with the given shape and type.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	return internaltensor.New(shape, dtype)
}

// NewDeferred creates a GPU-resident tensor whose host buffer is filled
// lazily from the device texture on first access.
func NewDeferred(shape Shape, dtype DataType, mirror *DeviceTexture) (*Tensor, error) {
	return internaltensor.NewDeferred(shape, dtype, mirror)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
//
// Example:
//
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
func FromSlice[T DType](data []T, shape Shape) (*Tensor, error) {
	return internaltensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	x := tensor.Zeros[float32](tensor.Shape{3, 4})
func Zeros[T DType](shape Shape) *Tensor {
	return internaltensor.Zeros[T](shape)
}

// Ones creates a tensor filled with ones.
//
// Example:
//
//	x := tensor.Ones[float64](tensor.Shape{2, 3})
func Ones[T DType](shape Shape) *Tensor {
	return internaltensor.Ones[T](shape)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	x := tensor.Full(tensor.Shape{3, 3}, float32(3.14))
func Full[T DType](shape Shape, value T) *Tensor {
	return internaltensor.Full(shape, value)
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
// Only float types are supported.
//
// Example:
//
//	x := tensor.Rand[float32](tensor.Shape{2, 4, 4, 3})
func Rand[T DType](shape Shape) *Tensor {
	return internaltensor.Rand[T](shape)
}

// Texture utilities

// TextureGeometry returns the 2D grid dimensions the given layout
// produces for a tensor of the given shape.
func TextureGeometry(shape Shape, layout TextureLayout) (rows, cols int) {
	return internaltensor.TextureGeometry(shape, layout)
}

// EncodeOffsets returns the offset table the encoder would produce for
// a tensor of the given shape under the layout: entry i is the linear
// texel position of source element i.
func EncodeOffsets(shape Shape, layout TextureLayout) []int32 {
	return internaltensor.EncodeOffsets(shape, layout)
}
