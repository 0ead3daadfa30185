package nn

import (
	"fmt"

	"github.com/texel-ml/texel/internal/backend/cpu"
	"github.com/texel-ml/texel/internal/backend/webgpu"
	"github.com/texel-ml/texel/internal/tensor"
)

// ZeroPadding3D zero-pads a rank-4 tensor along its three spatial axes.
//
// Input shape:
//
//	[s0, s1, s2, channels]    (ChannelsLast)
//	[channels, s0, s1, s2]    (ChannelsFirst)
//
// Output shape: each spatial axis grows by its (before, after) padding
// amounts; the channel axis is unchanged. The input is never mutated.
//
// Two execution strategies, selected once at construction:
//
//   - In-memory (Engine nil): a rectangular-region copy into a
//     zero-filled buffer. Channels-first inputs are transposed to
//     channels-last around the copy; transposes allocate.
//   - WebGPU (Engine set): the input's 2D texture encoding is uploaded
//     (square tiling by default) and a remap program gathers each output
//     texel through a precomputed index map, emitting zero on the -1
//     sentinel.
//
// The layer caches its derived resources keyed on (input shape, padding,
// format, texture layout): the index map, the device output texture, and
// the host output buffer on the in-memory path. A repeat Apply with the
// same key reuses them, overwriting the previous output; a changed key
// rebuilds them and releases the stale device resources. Callers that
// need an output to survive the next Apply must Clone it.
//
// Example:
//
//	pad, err := nn.NewZeroPadding3D(nn.ZeroPadding3DConfig{
//	    Padding: nn.PadSpec{{1, 0}, {0, 1}, {0, 0}},
//	})
//	if err != nil { ... }
//	y := pad.Apply(x) // [2,2,2,1] -> [3,3,2,1]
type ZeroPadding3D struct {
	padding     PadSpec
	format      DataFormat
	engine      *webgpu.Engine
	materialize bool

	host  *cpu.Backend
	remap *webgpu.Program

	// Derived resources, valid while key matches the last Apply.
	key      planKey
	keyValid bool
	indexMap *tensor.DeviceTexture
	output   *tensor.DeviceTexture
	hostOut  *tensor.Tensor
}

// planKey identifies the cached resources of one input geometry.
type planKey struct {
	shape  [4]int
	pads   PadSpec
	format DataFormat
	layout tensor.TextureLayout
}

// ZeroPadding3DConfig configures a ZeroPadding3D layer.
type ZeroPadding3DConfig struct {
	// Padding holds the (before, after) amounts per spatial axis. The
	// zero value means no padding; use DefaultPadding for one element on
	// every side. Amounts must be non-negative.
	Padding PadSpec

	// Format fixes the channel axis position. Defaults to ChannelsLast.
	Format DataFormat

	// Engine selects the WebGPU strategy when non-nil; the layer
	// compiles its remap program on this engine at construction. Nil
	// selects the in-memory strategy. Callers probe webgpu.IsAvailable
	// to decide.
	Engine *webgpu.Engine

	// Materialize, on the WebGPU strategy, reads the result back to host
	// memory before Apply returns. When false the result stays on the
	// device and the host buffer fills lazily on first access.
	Materialize bool
}

var _ Layer = (*ZeroPadding3D)(nil)

// NewZeroPadding3D creates a zero-padding layer from the config.
// With an engine configured, the remap program is compiled here once;
// a compile failure is the only error path.
func NewZeroPadding3D(cfg ZeroPadding3DConfig) (*ZeroPadding3D, error) {
	z := &ZeroPadding3D{
		padding:     cfg.Padding,
		format:      cfg.Format,
		engine:      cfg.Engine,
		materialize: cfg.Materialize,
		host:        cpu.New(),
	}

	if cfg.Engine != nil {
		prog, err := cfg.Engine.Compile(remapProgramName, remapShader)
		if err != nil {
			return nil, fmt.Errorf("zeropad3d: %w", err)
		}
		z.remap = prog
	}
	return z, nil
}

// Apply pads the input and returns the result.
//
// The input must be rank 4 (panics otherwise). On the WebGPU strategy
// the input's dtype must be Float32 or Float16, and a tensor without a
// device mirror is encoded and uploaded here, attaching the mirror for
// reuse by later calls.
func (z *ZeroPadding3D) Apply(x *tensor.Tensor) *tensor.Tensor {
	if len(x.Shape()) != 4 {
		panic(fmt.Sprintf("zeropad3d: expected rank-4 input, got %v", x.Shape()))
	}
	if z.engine != nil {
		return z.applyGPU(x)
	}
	return z.applyCPU(x)
}

// OutputShape returns the padded shape for a rank-4 input shape.
func (z *ZeroPadding3D) OutputShape(in tensor.Shape) tensor.Shape {
	if len(in) != 4 {
		panic(fmt.Sprintf("zeropad3d: expected rank-4 shape, got %v", in))
	}
	return paddedShape(in, z.padding, z.format)
}

// Padding returns the canonical padding spec.
func (z *ZeroPadding3D) Padding() PadSpec {
	return z.padding
}

// Format returns the configured data format.
func (z *ZeroPadding3D) Format() DataFormat {
	return z.format
}

// String returns a string representation of the layer.
func (z *ZeroPadding3D) String() string {
	strategy := "memory"
	if z.engine != nil {
		strategy = "webgpu"
	}
	return fmt.Sprintf("ZeroPadding3D(padding=%s, format=%s, strategy=%s)",
		z.padding, z.format, strategy)
}

// Release frees the layer's device resources (index map and output
// texture) and drops the cached host buffer. Unmaterialized outputs of
// earlier Apply calls become unreadable. The remap program stays in the
// engine's cache.
func (z *ZeroPadding3D) Release() {
	z.dropPlan()
}

func (z *ZeroPadding3D) dropPlan() {
	if z.indexMap != nil {
		z.indexMap.Release()
		z.indexMap = nil
	}
	if z.output != nil {
		z.output.Release()
		z.output = nil
	}
	z.hostOut = nil
	z.keyValid = false
}

// applyCPU runs the in-memory strategy: transpose to channels-last if
// needed, rectangular copy into a zero-filled buffer, transpose back.
func (z *ZeroPadding3D) applyCPU(x *tensor.Tensor) *tensor.Tensor {
	src := x
	if z.format == ChannelsFirst {
		src = z.host.Transpose(x, 1, 2, 3, 0)
	}

	pads := [3][2]int(z.padding)
	out := z.hostOut
	if out != nil && out.Shape().Equal(cpu.PadShape(src.Shape(), pads)) && out.DType() == src.DType() {
		z.host.Pad3DInto(out, src, pads)
	} else {
		out = z.host.Pad3D(src, pads)
		z.hostOut = out
	}

	if z.format == ChannelsFirst {
		out = z.host.Transpose(out, 3, 0, 1, 2)
	}
	return out
}

// applyGPU runs the WebGPU strategy: resident input texture, cached
// index map, cached output texture, one remap dispatch.
func (z *ZeroPadding3D) applyGPU(x *tensor.Tensor) *tensor.Tensor {
	if dt := x.DType(); dt != tensor.Float32 && dt != tensor.Float16 {
		panic(fmt.Sprintf("zeropad3d: WebGPU strategy supports float32 and float16, got %s", dt))
	}

	src := x.Mirror()
	if src == nil {
		tx, err := x.EncodeTexture(tensor.LayoutSquare)
		if err != nil {
			panic(fmt.Sprintf("zeropad3d: encode input: %v", err))
		}
		src, err = z.engine.Upload(tx)
		if err != nil {
			panic(fmt.Sprintf("zeropad3d: upload input: %v", err))
		}
		x.AttachMirror(src)
	}

	shape := x.Shape()
	key := planKey{
		shape:  [4]int{shape[0], shape[1], shape[2], shape[3]},
		pads:   z.padding,
		format: z.format,
		layout: src.Layout,
	}
	if !z.keyValid || key != z.key {
		z.dropPlan()
		z.buildPlan(x, src.Layout)
		z.key = key
		z.keyValid = true
	}

	err := z.engine.Run(z.remap,
		[]webgpu.TextureBinding{
			{Name: "src", Texture: src},
			{Name: "index_map", Texture: z.indexMap},
		},
		z.output,
		[]webgpu.Uniform{
			{Name: "rows", Value: uint32(z.output.Rows)}, //nolint:gosec // G115: grid dims fit u32
			{Name: "cols", Value: uint32(z.output.Cols)}, //nolint:gosec // G115: grid dims fit u32
		})
	if err != nil {
		panic(fmt.Sprintf("zeropad3d: dispatch: %v", err))
	}

	out, err := tensor.NewDeferred(z.OutputShape(shape), x.DType(), z.output)
	if err != nil {
		panic(fmt.Sprintf("zeropad3d: %v", err))
	}
	if z.materialize {
		out.Data()
	}
	return out
}

// buildPlan constructs the index map and output texture for the current
// input geometry: the map is built from the input encoding's offset
// table, encoded with the input's layout, and uploaded next to a zeroed
// output texture of the padded shape. The offset table comes from
// tensor.EncodeOffsets, so a device-resident input is never read back
// just to plan.
func (z *ZeroPadding3D) buildPlan(x *tensor.Tensor, layout tensor.TextureLayout) {
	offsets := tensor.EncodeOffsets(x.Shape(), layout)

	im := buildIndexMap(x.Shape(), z.padding, z.format, offsets)
	imTx, err := im.EncodeTexture(layout)
	if err != nil {
		panic(fmt.Sprintf("zeropad3d: encode index map: %v", err))
	}
	z.indexMap, err = z.engine.Upload(imTx)
	if err != nil {
		panic(fmt.Sprintf("zeropad3d: upload index map: %v", err))
	}

	z.output, err = z.engine.Alloc(z.OutputShape(x.Shape()), x.DType(), layout)
	if err != nil {
		panic(fmt.Sprintf("zeropad3d: allocate output: %v", err))
	}
}
