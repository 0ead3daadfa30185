// Copyright 2025 The Texel Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the in-memory execution strategy for Texel.
//
// # Overview
//
// This package implements direct host-buffer kernels:
//   - Rank-4 zero-padding as a rectangular-region copy (allocating and
//     buffer-reusing variants)
//   - Rank-n axis transposition
//
// The kernels work at byte granularity, so every tensor data type is
// supported without per-type code.
//
// # Basic Usage
//
//	import (
//	    "github.com/texel-ml/texel/backend/cpu"
//	    "github.com/texel-ml/texel/tensor"
//	)
//
//	func main() {
//	    host := cpu.New()
//
//	    x := tensor.Rand[float32](tensor.Shape{2, 3, 4, 3})
//	    padded := host.Pad3D(x, [3][2]int{{1, 1}, {1, 1}, {1, 1}})
//	    moved := host.Transpose(x, 3, 0, 1, 2) // channels to the front
//	}
//
// Most callers use these kernels through nn.ZeroPadding3D rather than
// directly.
package cpu
