// Copyright 2025 The Texel Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for Texel's tensor-transformation
// layers.
//
// The central type is ZeroPadding3D: zero-padding of a rank-4 tensor
// along its three spatial axes, with an in-memory execution strategy and
// a WebGPU index-remap strategy selected at construction.
//
// Example:
//
//	pad, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
//	    Padding: nn.PadUniform(1),
//	    Format:  nn.ChannelsLast,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x := tensor.Ones[float32](tensor.Shape{2, 2, 2, 1})
//	y := pad.Apply(x) // shape [4, 4, 4, 1]
package nn

import (
	internalnn "github.com/texel-ml/texel/internal/nn"
)

// Layer is the capability interface for tensor transformations: Apply
// plus shape prediction via OutputShape.
type Layer = internalnn.Layer

// DataFormat fixes where the channel axis sits in a rank-4 tensor's
// buffer order.
type DataFormat = internalnn.DataFormat

// Data format constants.
const (
	ChannelsLast  DataFormat = internalnn.ChannelsLast
	ChannelsFirst DataFormat = internalnn.ChannelsFirst
)

// PadSpec holds the canonical padding specification: one (before, after)
// pair per spatial axis.
type PadSpec = internalnn.PadSpec

// DefaultPadding is one element of padding on every side of every
// spatial axis.
var DefaultPadding = internalnn.DefaultPadding

// PadUniform returns a PadSpec with n elements of padding before and
// after each spatial axis.
func PadUniform(n int) PadSpec {
	return internalnn.PadUniform(n)
}

// PadAxes returns a PadSpec with symmetric padding per spatial axis.
func PadAxes(p0, p1, p2 int) PadSpec {
	return internalnn.PadAxes(p0, p1, p2)
}

// ZeroPadding3D zero-pads a rank-4 tensor along its three spatial axes.
// See the config for strategy selection and caching behavior.
type ZeroPadding3D = internalnn.ZeroPadding3D

// ZeroPadding3DConfig configures a ZeroPadding3D layer.
type ZeroPadding3DConfig = internalnn.ZeroPadding3DConfig

// NewZeroPadding3D creates a zero-padding layer from the config. With an
// engine configured, the WebGPU remap program is compiled here once.
func NewZeroPadding3D(cfg ZeroPadding3DConfig) (*ZeroPadding3D, error) {
	return internalnn.NewZeroPadding3D(cfg)
}
