package webgpu

import (
	"math"
	"strings"
	"testing"
	"unsafe"

	"github.com/x448/float16"

	"github.com/texel-ml/texel/internal/tensor"
)

// copyShader moves every texel from input to output, bounds-guarded by
// the output grid. Used to exercise the compile/run/readback loop.
const copyShader = `
struct Params {
    rows: u32,
    cols: u32,
}

@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;
    if (row >= params.rows || col >= params.cols) {
        return;
    }
    let idx = row * params.cols + col;
    result[idx] = input[idx];
}
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}
	eng, err := New()
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(eng.Release)
	return eng
}

func encodeFloat32(t *testing.T, vals []float32, shape tensor.Shape, layout tensor.TextureLayout) *tensor.Texture {
	t.Helper()
	x, err := tensor.FromSlice(vals, shape)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	tx, err := x.EncodeTexture(layout)
	if err != nil {
		t.Fatalf("EncodeTexture failed: %v", err)
	}
	return tx
}

func readFloat32(t *testing.T, dt *tensor.DeviceTexture) []float32 {
	t.Helper()
	raw, err := dt.ReadHost()
	if err != nil {
		t.Fatalf("ReadHost failed: %v", err)
	}
	out := make([]float32, len(raw)/4)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(raw)), raw)
	return out
}

func TestNewEngine(t *testing.T) {
	eng := newTestEngine(t)

	name := eng.Name()
	if !strings.HasPrefix(name, "WebGPU") {
		t.Errorf("Name() = %q, want WebGPU prefix", name)
	}
	if eng.Device() != tensor.WebGPU {
		t.Errorf("Device() = %v, want WebGPU", eng.Device())
	}
}

func TestCompileCachesByName(t *testing.T) {
	eng := newTestEngine(t)

	p1, err := eng.Compile("copy", copyShader)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	p2, err := eng.Compile("copy", copyShader)
	if err != nil {
		t.Fatalf("second Compile failed: %v", err)
	}
	if p1 != p2 {
		t.Error("expected cached program on second Compile with same name")
	}
	if p1.Name() != "copy" {
		t.Errorf("Name() = %q, want %q", p1.Name(), "copy")
	}
}

func TestUploadReadRoundTrip(t *testing.T) {
	eng := newTestEngine(t)

	vals := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	tx := encodeFloat32(t, vals, tensor.Shape{2, 2, 2, 1}, tensor.LayoutLinear)

	dt, err := eng.Upload(tx)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer dt.Release()

	got := readFloat32(t, dt)
	if len(got) != len(vals) {
		t.Fatalf("read %d texels, want %d", len(got), len(vals))
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Errorf("texel %d = %f, want %f", i, got[i], vals[i])
		}
	}
}

func TestUploadWidensFloat16(t *testing.T) {
	eng := newTestEngine(t)

	x, err := tensor.New(tensor.Shape{1, 1, 2, 2}, tensor.Float16)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	half := x.AsFloat16()
	want := []float32{0.5, 1.5, 2.5, -3}
	for i, v := range want {
		half[i] = float16.Fromfloat32(v)
	}
	tx, err := x.EncodeTexture(tensor.LayoutLinear)
	if err != nil {
		t.Fatalf("EncodeTexture failed: %v", err)
	}

	dt, err := eng.Upload(tx)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer dt.Release()

	if dt.DType != tensor.Float32 {
		t.Errorf("device dtype = %s, want float32", dt.DType)
	}
	got := readFloat32(t, dt)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("texel %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestAllocZeroed(t *testing.T) {
	eng := newTestEngine(t)

	dt, err := eng.Alloc(tensor.Shape{1, 3, 3, 1}, tensor.Float32, tensor.LayoutSquare)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer dt.Release()

	if dt.Rows != 3 || dt.Cols != 3 {
		t.Fatalf("geometry = %dx%d, want 3x3", dt.Rows, dt.Cols)
	}
	for i, v := range readFloat32(t, dt) {
		if v != 0 {
			t.Errorf("texel %d = %f, want 0", i, v)
		}
	}
}

func TestRunCopyShader(t *testing.T) {
	eng := newTestEngine(t)

	vals := []float32{1, 2, 3, 4, 5, 6}
	tx := encodeFloat32(t, vals, tensor.Shape{1, 1, 2, 3}, tensor.LayoutLinear)

	in, err := eng.Upload(tx)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	defer in.Release()

	out, err := eng.Alloc(tensor.Shape{1, 1, 2, 3}, tensor.Float32, tensor.LayoutLinear)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer out.Release()

	prog, err := eng.Compile("copy", copyShader)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	err = eng.Run(prog,
		[]TextureBinding{{Name: "input", Texture: in}},
		out,
		[]Uniform{
			{Name: "rows", Value: uint32(out.Rows)},
			{Name: "cols", Value: uint32(out.Cols)},
		})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got := readFloat32(t, out)
	for i := range vals {
		if math.Abs(float64(got[i]-vals[i])) > 1e-6 {
			t.Errorf("texel %d = %f, want %f", i, got[i], vals[i])
		}
	}
}

func TestRunValidation(t *testing.T) {
	eng := newTestEngine(t)

	out, err := eng.Alloc(tensor.Shape{1, 1, 1, 4}, tensor.Float32, tensor.LayoutLinear)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	defer out.Release()

	if err := eng.Run(nil, nil, out, nil); err == nil {
		t.Error("expected error running nil program")
	}

	prog, err := eng.Compile("copy", copyShader)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if err := eng.Run(prog, nil, nil, nil); err == nil {
		t.Error("expected error running without output texture")
	}
	if err := eng.Run(prog, []TextureBinding{{Name: "input"}}, out, nil); err == nil {
		t.Error("expected error for input binding without device buffer")
	}
}
