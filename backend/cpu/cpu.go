// Copyright 2025 The Texel Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/texel-ml/texel/internal/backend/cpu"
	"github.com/texel-ml/texel/tensor"
)

// Backend is the in-memory execution strategy: direct kernels over host
// buffers, no device involved.
type Backend = internalcpu.Backend

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/texel-ml/texel/backend/cpu"
//	    "github.com/texel-ml/texel/tensor"
//	)
//
//	func main() {
//	    host := cpu.New()
//	    x := tensor.Ones[float32](tensor.Shape{2, 2, 2, 1})
//	    y := host.Pad3D(x, [3][2]int{{1, 0}, {0, 1}, {0, 0}})
//	}
func New() *Backend {
	return internalcpu.New()
}

// PadShape returns the shape produced by zero-padding a channels-last
// rank-4 shape with the given (before, after) amounts per spatial axis.
func PadShape(shape tensor.Shape, pads [3][2]int) tensor.Shape {
	return internalcpu.PadShape(shape, pads)
}
