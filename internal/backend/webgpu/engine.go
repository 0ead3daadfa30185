// Package webgpu implements the GPU execution engine for texture-encoded
// tensors. Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO
// WebGPU bindings.
package webgpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/texel-ml/texel/internal/tensor"
)

// Engine owns a WebGPU device and runs compiled compute programs against
// named input textures, an output texture, and scalar uniforms.
type Engine struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	// Compiled program cache, keyed by program name.
	programs map[string]*Program
	mu       sync.RWMutex

	adapterInfo *wgpu.AdapterInfoGo
}

// Compile-time check that Engine can serve deferred tensor readback.
var _ tensor.DeviceReader = (*Engine)(nil)

// New creates a new WebGPU execution engine.
// Returns an error if WebGPU is not available or initialization fails.
func New() (engine *Engine, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			engine = nil
			err = errors.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, instanceErr := wgpu.CreateInstance(nil)
	if instanceErr != nil {
		return nil, errors.Wrap(instanceErr, "webgpu: failed to create instance")
	}
	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, errors.Wrap(adapterErr, "webgpu: failed to request adapter")
	}

	adapterInfo, infoErr := adapter.GetInfo()

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, errors.Wrap(deviceErr, "webgpu: failed to request device")
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, errors.New("webgpu: failed to get queue")
	}

	if infoErr == nil {
		klog.V(1).Infof("webgpu: using adapter %s (%s)", adapterInfo.Device, adapterInfo.Vendor)
	}

	return &Engine{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		programs:    make(map[string]*Program),
		adapterInfo: adapterInfo,
	}, nil
}

// IsAvailable checks if WebGPU is available on this system.
func IsAvailable() (available bool) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()

	return true
}

// Name returns the engine name, including the adapter when known.
func (e *Engine) Name() string {
	if e.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", e.adapterInfo.Device, e.adapterInfo.Vendor)
	}
	return "WebGPU"
}

// Device returns the compute device.
func (e *Engine) Device() tensor.Device {
	return tensor.WebGPU
}

// AdapterInfo returns information about the GPU adapter.
func (e *Engine) AdapterInfo() *wgpu.AdapterInfoGo {
	return e.adapterInfo
}

// Release frees all engine resources: cached programs, the queue, device,
// adapter and instance. Device textures handed out by Upload and Alloc
// are owned by their holders and must be released separately.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, p := range e.programs {
		p.release()
	}
	e.programs = nil

	if e.queue != nil {
		e.queue.Release()
		e.queue = nil
	}
	if e.device != nil {
		e.device.Release()
		e.device = nil
	}
	if e.adapter != nil {
		e.adapter.Release()
		e.adapter = nil
	}
	if e.instance != nil {
		e.instance.Release()
		e.instance = nil
	}
}
