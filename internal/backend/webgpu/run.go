package webgpu

import (
	"encoding/binary"
	"math"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/texel-ml/texel/internal/tensor"
)

// Workgroup tile edge for 2D dispatch; must match @workgroup_size in the
// compiled shaders.
const tileDim = 16

// Program is a compiled compute shader plus its pipeline.
type Program struct {
	name     string
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
}

// Name returns the name the program was compiled under.
func (p *Program) Name() string {
	return p.name
}

func (p *Program) release() {
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.shader != nil {
		p.shader.Release()
		p.shader = nil
	}
}

// Compile builds a compute program from WGSL source. Programs are cached
// by name: compiling the same name again returns the cached program.
func (e *Engine) Compile(name, code string) (p *Program, err error) {
	e.mu.RLock()
	if prog, exists := e.programs[name]; exists {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	// The native library reports bad WGSL by panicking.
	defer func() {
		if r := recover(); r != nil {
			p = nil
			err = errors.Errorf("webgpu: compile %s: %v", name, r)
		}
	}()

	shader := e.device.CreateShaderModuleWGSL(code)
	pipeline := e.device.CreateComputePipelineSimple(nil, shader, "main")

	prog := &Program{name: name, shader: shader, pipeline: pipeline}

	e.mu.Lock()
	e.programs[name] = prog
	e.mu.Unlock()

	klog.V(2).Infof("webgpu: compiled program %q", name)
	return prog, nil
}

// TextureBinding names an input texture for a program run.
type TextureBinding struct {
	Name    string
	Texture *tensor.DeviceTexture
}

// Uniform names a scalar parameter for a program run. Values are packed
// into the uniform struct in the order given, which must match the
// program's Params declaration.
type Uniform struct {
	Name  string
	Value uint32
}

// Run dispatches the program over the output texture grid, one invocation
// per output texel. Inputs bind at 0..n-1, the output at n, the packed
// uniforms at n+1. The queue is synchronized by the next readback, so the
// call sequence behaves synchronously.
func (e *Engine) Run(p *Program, inputs []TextureBinding, out *tensor.DeviceTexture, uniforms []Uniform) error {
	if p == nil || p.pipeline == nil {
		return errors.New("webgpu: run: no compiled program")
	}
	if out == nil || out.Ptr == nil {
		return errors.New("webgpu: run: no output texture")
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		if in.Texture == nil || in.Texture.Ptr == nil {
			return errors.Errorf("webgpu: run: input %q has no device buffer", in.Name)
		}
		//nolint:gosec // G115: binding indices are tiny
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), (*wgpu.Buffer)(in.Texture.Ptr), 0, in.Texture.ByteSize()))
	}
	//nolint:gosec // G115: binding indices are tiny
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), (*wgpu.Buffer)(out.Ptr), 0, out.ByteSize()))

	var bufferParams *wgpu.Buffer
	if len(uniforms) > 0 {
		params := make([]byte, 4*len(uniforms))
		for i, u := range uniforms {
			binary.LittleEndian.PutUint32(params[i*4:i*4+4], u.Value)
		}
		bufferParams = e.createUniformBuffer(params)
		defer bufferParams.Release()

		alignedSize := (uint64(len(params)) + 15) &^ 15
		//nolint:gosec // G115: binding indices are tiny
		entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), bufferParams, 0, alignedSize))
	}

	bindGroupLayout := p.pipeline.GetBindGroupLayout(0)
	bindGroup := e.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	encoder := e.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	computePass.SetPipeline(p.pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)

	workgroupsX := uint32(math.Ceil(float64(out.Cols) / float64(tileDim)))
	workgroupsY := uint32(math.Ceil(float64(out.Rows) / float64(tileDim)))
	computePass.DispatchWorkgroups(workgroupsX, workgroupsY, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	e.queue.Submit(cmdBuffer)

	klog.V(2).Infof("webgpu: ran %q over %dx%d texels (%dx%d workgroups)",
		p.name, out.Rows, out.Cols, workgroupsY, workgroupsX)
	return nil
}
