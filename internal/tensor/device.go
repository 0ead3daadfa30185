package tensor

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"
)

// DeviceReader is implemented by execution engines that can transfer
// buffers between GPU and host memory.
type DeviceReader interface {
	// ReadDeviceBuffer reads size bytes from the GPU buffer behind ptr.
	ReadDeviceBuffer(ptr unsafe.Pointer, size uint64) ([]byte, error)

	// ReleaseDeviceBuffer frees the GPU buffer behind ptr.
	ReleaseDeviceBuffer(ptr unsafe.Pointer)
}

// DeviceTexture describes a GPU-resident 2D texture encoding of a tensor:
// the engine's buffer handle plus the geometry needed to interpret it.
// The handle is opaque to this package; the engine that created the
// texture unwraps it again for dispatch and readback.
type DeviceTexture struct {
	Ptr    unsafe.Pointer // engine buffer handle (*wgpu.Buffer)
	Rows   int            // texture height in texels
	Cols   int            // texture width in texels
	Layout TextureLayout  // how the source tensor was linearized
	DType  DataType       // device-side element type (Float32 or Int32)
	Source Shape          // logical shape the encoding was derived from

	reader   DeviceReader
	mu       sync.Mutex
	released bool
}

// NewDeviceTexture wraps an engine buffer handle. The buffer is released
// when garbage collected, so dropping the last reference cannot leak GPU
// memory.
func NewDeviceTexture(ptr unsafe.Pointer, rows, cols int, layout TextureLayout, dtype DataType, source Shape, reader DeviceReader) *DeviceTexture {
	d := &DeviceTexture{
		Ptr:    ptr,
		Rows:   rows,
		Cols:   cols,
		Layout: layout,
		DType:  dtype,
		Source: source.Clone(),
		reader: reader,
	}

	runtime.SetFinalizer(d, func(dt *DeviceTexture) {
		dt.Release()
	})

	return d
}

// Texels returns the total texel count of the 2D grid.
func (d *DeviceTexture) Texels() int {
	return d.Rows * d.Cols
}

// ByteSize returns the device buffer size in bytes.
func (d *DeviceTexture) ByteSize() uint64 {
	return uint64(d.Texels() * d.DType.Size())
}

// ReadHost transfers the full texture back to host memory. The device
// buffer stays alive afterwards so the texture can keep feeding
// downstream GPU stages.
func (d *DeviceTexture) ReadHost() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released || d.Ptr == nil {
		return nil, fmt.Errorf("device texture already released")
	}
	return d.reader.ReadDeviceBuffer(d.Ptr, d.ByteSize())
}

// Release frees the device buffer. Safe to call more than once.
func (d *DeviceTexture) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released || d.Ptr == nil {
		return
	}
	d.reader.ReleaseDeviceBuffer(d.Ptr)
	d.Ptr = nil
	d.released = true
}
