// Copyright 2025 The Texel Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU execution engine for GPU-resident
// tensor transformations.
//
// The engine compiles WGSL compute programs (cached by name), uploads
// texture encodings into storage buffers, dispatches programs over an
// output texel grid, and reads results back through a staging buffer.
//
// Example:
//
//	import (
//	    "github.com/texel-ml/texel/backend/webgpu"
//	    "github.com/texel-ml/texel/nn"
//	)
//
//	func main() {
//	    if !webgpu.IsAvailable() {
//	        log.Fatal("no WebGPU adapter")
//	    }
//	    eng, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer eng.Release()
//
//	    pad, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
//	        Padding: nn.PadUniform(1),
//	        Engine:  eng,
//	    })
//	}
package webgpu

import (
	internalwebgpu "github.com/texel-ml/texel/internal/backend/webgpu"
	"github.com/texel-ml/texel/tensor"
)

// Engine is the WebGPU execution engine: device and queue handles plus a
// name-keyed cache of compiled compute programs.
type Engine = internalwebgpu.Engine

// Program is a compiled WGSL compute program.
type Program = internalwebgpu.Program

// TextureBinding names an input texture for a program run.
type TextureBinding = internalwebgpu.TextureBinding

// Uniform names a scalar parameter for a program run.
type Uniform = internalwebgpu.Uniform

// Compile-time check that the engine can serve tensor readbacks.
var _ tensor.DeviceReader = (*Engine)(nil)

// New creates a WebGPU engine on the highest-performance available
// adapter. Call Release when done to free the device resources.
//
// Returns an error when no compatible adapter or native library is
// present.
func New() (*Engine, error) {
	return internalwebgpu.New()
}

// IsAvailable reports whether a WebGPU adapter can be brought up on this
// system. Use it to decide the execution strategy once, at configuration
// time:
//
//	var eng *webgpu.Engine
//	if webgpu.IsAvailable() {
//	    eng, _ = webgpu.New()
//	}
//	pad, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
//	    Padding: nn.DefaultPadding,
//	    Engine:  eng, // nil falls back to the in-memory strategy
//	})
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
