package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// Device represents the compute device a tensor lives on.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// Tensor is a dense n-dimensional array: a flat byte buffer plus shape,
// row-major strides, and runtime type information.
//
// A tensor may additionally carry a GPU-resident mirror of its 2D texture
// encoding (see Texture). Tensors produced on the GPU defer their host
// buffer: the first host access reads the device texture back and decodes
// it into the logical shape.
type Tensor struct {
	data    []byte
	shape   Shape
	stride  []int
	dtype   DataType
	device  Device
	mirror  *DeviceTexture // GPU-resident encoding, nil for host-only tensors
	pending bool           // host buffer not yet filled from the mirror
}

// New creates a host tensor with the given shape and type.
// The buffer is allocated and zero-initialized.
func New(shape Shape, dtype DataType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	return &Tensor{
		data:   make([]byte, shape.NumElements()*dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: CPU,
	}, nil
}

// NewDeferred creates a GPU-resident tensor whose host buffer is filled
// lazily from the device texture on first access.
func NewDeferred(shape Shape, dtype DataType, mirror *DeviceTexture) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if mirror == nil {
		return nil, fmt.Errorf("deferred tensor requires a device texture")
	}

	return &Tensor{
		data:    make([]byte, shape.NumElements()*dtype.Size()),
		shape:   shape.Clone(),
		stride:  shape.ComputeStrides(),
		dtype:   dtype,
		device:  WebGPU,
		mirror:  mirror,
		pending: true,
	}, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's memory strides.
func (t *Tensor) Strides() []int {
	return t.stride
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Device returns the tensor's compute device.
func (t *Tensor) Device() Device {
	return t.device
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the total host memory size in bytes.
func (t *Tensor) ByteSize() int {
	return t.NumElements() * t.dtype.Size()
}

// Mirror returns the GPU-resident texture encoding of this tensor, or nil
// if the tensor has never been uploaded.
func (t *Tensor) Mirror() *DeviceTexture {
	return t.mirror
}

// AttachMirror records a GPU-resident texture encoding for this tensor.
// Any previously attached mirror is released.
func (t *Tensor) AttachMirror(m *DeviceTexture) {
	if t.mirror != nil && t.mirror != m {
		t.mirror.Release()
	}
	t.mirror = m
}

// Data returns the raw byte slice, reading back from the GPU first if the
// host buffer is deferred. A readback failure is fatal (panics): a missing
// device buffer at this point is a contract violation, not a recoverable
// condition.
func (t *Tensor) Data() []byte {
	t.ensureHost()
	return t.data
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	if t.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (t *Tensor) AsFloat64() []float64 {
	if t.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsFloat16 interprets the data as []float16.Float16.
// Panics if the tensor's dtype is not Float16.
func (t *Tensor) AsFloat16() []float16.Float16 {
	if t.dtype != Float16 {
		panic(fmt.Sprintf("tensor dtype is %s, not float16", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*float16.Float16)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	if t.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (t *Tensor) AsInt64() []int64 {
	if t.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*int64)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// AsUint8 interprets the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (t *Tensor) AsUint8() []uint8 {
	if t.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", t.dtype))
	}
	t.ensureHost()
	return t.data
}

// AsBool interprets the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (t *Tensor) AsBool() []bool {
	if t.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", t.dtype))
	}
	t.ensureHost()
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds fixed by NumElements()
	return unsafe.Slice((*bool)(unsafe.Pointer(&t.data[0])), t.NumElements())
}

// Clone creates a deep copy of the tensor's host data. The GPU mirror, if
// any, stays with the original; the clone is a plain host tensor.
func (t *Tensor) Clone() *Tensor {
	t.ensureHost()
	data := make([]byte, len(t.data))
	copy(data, t.data)
	return &Tensor{
		data:   data,
		shape:  t.shape.Clone(),
		stride: append([]int(nil), t.stride...),
		dtype:  t.dtype,
		device: CPU,
	}
}

// Release frees the GPU mirror, if any. The host buffer is left to the GC.
func (t *Tensor) Release() {
	if t.mirror != nil {
		t.mirror.Release()
		t.mirror = nil
	}
	t.pending = false
}

// String returns a compact description like "Tensor[float32][2 2 2 1] on CPU".
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor[%s]%v on %s", t.dtype, []int(t.shape), t.device)
}

// ensureHost fills the host buffer from the device texture on first access.
// The texture holds the full 2D grid; decoding truncates the zero tail and
// narrows f32 texels back to f16 for half-precision tensors.
func (t *Tensor) ensureHost() {
	if !t.pending {
		return
	}

	raw, err := t.mirror.ReadHost()
	if err != nil {
		panic(fmt.Sprintf("tensor: GPU readback failed: %v", err))
	}

	if t.dtype == Float16 && t.mirror.DType == Float32 {
		//nolint:gosec // texel count bounded by the texture geometry
		wide := unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), len(raw)/4)
		narrow := unsafe.Slice((*float16.Float16)(unsafe.Pointer(&t.data[0])), t.NumElements())
		for i := range narrow {
			narrow[i] = float16.Fromfloat32(wide[i])
		}
	} else {
		copy(t.data, raw)
	}
	t.pending = false
}
