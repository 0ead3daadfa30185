package webgpu

import (
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/texel-ml/texel/internal/tensor"
)

// deviceDType maps a host dtype to the element type the shaders consume:
// floats compute as f32, index maps as i32.
func deviceDType(dt tensor.DataType) (tensor.DataType, error) {
	switch dt {
	case tensor.Float32, tensor.Float16:
		return tensor.Float32, nil
	case tensor.Int32:
		return tensor.Int32, nil
	default:
		return 0, errors.Errorf("webgpu: unsupported texture dtype %s", dt)
	}
}

// Upload copies an encoded texture into a device storage buffer. Float16
// data is widened to f32 on the way up; the readback path narrows it
// again. The returned handle owns the buffer and frees it on Release.
func (e *Engine) Upload(tx *tensor.Texture) (*tensor.DeviceTexture, error) {
	dt, err := deviceDType(tx.Data.DType())
	if err != nil {
		return nil, err
	}

	data := tx.Data.Data()
	if tx.Data.DType() == tensor.Float16 {
		half := tx.Data.AsFloat16()
		wide := make([]float32, len(half))
		for i, h := range half {
			wide[i] = h.Float32()
		}
		data = unsafe.Slice((*byte)(unsafe.Pointer(&wide[0])), len(wide)*4)
	}

	buf := e.createBuffer(data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	klog.V(2).Infof("webgpu: uploaded %s texture %dx%d (%s)",
		tx.Layout, tx.Rows, tx.Cols, humanize.Bytes(uint64(len(data))))

	return tensor.NewDeviceTexture(unsafe.Pointer(buf), tx.Rows, tx.Cols, tx.Layout, dt, tx.Source, e), nil
}

// Alloc creates a zeroed output texture for the given logical shape, with
// the grid geometry the layout produces for that shape.
func (e *Engine) Alloc(source tensor.Shape, dtype tensor.DataType, layout tensor.TextureLayout) (*tensor.DeviceTexture, error) {
	dt, err := deviceDType(dtype)
	if err != nil {
		return nil, err
	}

	rows, cols := tensor.TextureGeometry(source, layout)
	size := uint64(rows*cols) * uint64(dt.Size())
	buf := e.createEmptyBuffer(size, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	klog.V(2).Infof("webgpu: allocated %s texture %dx%d (%s)",
		layout, rows, cols, humanize.Bytes(size))

	return tensor.NewDeviceTexture(unsafe.Pointer(buf), rows, cols, layout, dt, source, e), nil
}

// ReadDeviceBuffer implements tensor.DeviceReader: it copies a device
// buffer back to host memory through a staging buffer.
func (e *Engine) ReadDeviceBuffer(ptr unsafe.Pointer, size uint64) ([]byte, error) {
	if ptr == nil {
		return nil, errors.New("webgpu: read: nil device buffer")
	}
	return e.readBuffer((*wgpu.Buffer)(ptr), size)
}

// ReleaseDeviceBuffer implements tensor.DeviceReader.
func (e *Engine) ReleaseDeviceBuffer(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	(*wgpu.Buffer)(ptr).Release()
}
