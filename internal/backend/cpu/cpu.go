// Package cpu implements the direct in-memory execution strategy:
// rank-4 zero-padding and axis transposition as plain buffer operations.
package cpu

import (
	"github.com/texel-ml/texel/internal/tensor"
)

// Backend executes tensor transforms on host memory.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (cpu *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *Backend) Device() tensor.Device {
	return cpu.device
}
