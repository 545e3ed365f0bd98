package compute

import (
	"errors"
	"fmt"
	"log"
	"physics3d/internal/physics"

	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultThreshold is the bounded object count at which the GPU takes over from the CPU grid.
// Below it the upload and readback cost more than the grid.
const DefaultThreshold = 750

var (
	ErrNoDevice       = errors.New("compute: GPU not initialized")
	ErrTooManyObjects = errors.New("compute: more objects than the broad phase was sized for")
	ErrPairOverflow   = errors.New("compute: pair buffer overflow")
)

// Sphere is one bounding sphere as the shader sees it: xyz position, w radius
type Sphere struct {
	X, Y, Z float32
	Radius  float32
}

// gpuPair is one candidate pair written by the shader
type gpuPair struct {
	A, B uint32
}

const broadPhaseShader = `
// Each thread tests one sphere against every sphere with a higher index,
// so every unordered pair is visited once.

struct Sphere {
    pos: vec3<f32>,
    radius: f32,
}

struct Pair {
    a: u32,
    b: u32,
}

struct Params {
    count: u32,
    _pad0: u32,
    _pad1: u32,
    _pad2: u32,
}

@group(0) @binding(0) var<storage, read> spheres: array<Sphere>;
@group(0) @binding(1) var<storage, read_write> pairs: array<Pair>;
@group(0) @binding(2) var<storage, read_write> pairCount: atomic<u32>;
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let i = global_id.x;
    if (i >= params.count) {
        return;
    }

    let a = spheres[i];
    for (var j = i + 1u; j < params.count; j = j + 1u) {
        let b = spheres[j];
        let diff = a.pos - b.pos;
        let reach = a.radius + b.radius;

        // Touching counts; the narrow phase decides
        if (dot(diff, diff) <= reach * reach) {
            let idx = atomicAdd(&pairCount, 1u);
            if (idx < arrayLength(&pairs)) {
                pairs[idx] = Pair(i, j);
            }
        }
    }
}
`

// BroadPhase finds candidate pairs with a compute shader.
// Planes and other unbounded objects never go to the GPU; they pair with everything on the CPU.
// Below Threshold bounded objects the CPU grid answers instead.
type BroadPhase struct {
	system *System

	shader         *wgpu.ShaderModule
	layout         *wgpu.BindGroupLayout
	pipelineLayout *wgpu.PipelineLayout
	pipeline       *wgpu.ComputePipeline
	bindGroup      *wgpu.BindGroup

	sphereBuffer *Buffer // positions + radii
	pairBuffer   *Buffer // candidate pairs
	countBuffer  *Buffer // number of pairs written
	paramsBuffer *Buffer // object count

	maxObjects uint32
	maxPairs   uint32

	Threshold int
	cpu       physics.BroadPhase
	usingGPU  bool

	// Scratch reused across frames
	spheres []Sphere
	indices []int
}

var _ physics.BroadPhase = (*BroadPhase)(nil)

// NewBroadPhase builds the GPU pipeline and buffers.
// maxPairs should be generous; overflowing it makes Pairs fail so the scene falls back.
func NewBroadPhase(maxObjects, maxPairs uint32) (*BroadPhase, error) {
	sys := Get()
	if sys == nil {
		return nil, ErrNoDevice
	}

	bp := &BroadPhase{
		system:     sys,
		maxObjects: maxObjects,
		maxPairs:   maxPairs,
		Threshold:  DefaultThreshold,
		cpu:        physics.NewGrid(physics.DefaultCellSize),
	}
	if err := bp.createBuffers(); err != nil {
		bp.Release()
		return nil, err
	}
	if err := bp.createPipeline(); err != nil {
		bp.Release()
		return nil, err
	}
	return bp, nil
}

func (bp *BroadPhase) createBuffers() error {
	var err error
	bp.sphereBuffer, err = bp.system.CreateBuffer("spheres", uint64(bp.maxObjects)*16,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	bp.pairBuffer, err = bp.system.CreateBuffer("pairs", uint64(bp.maxPairs)*8,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	bp.countBuffer, err = bp.system.CreateBuffer("pairCount", 4,
		wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	bp.paramsBuffer, err = bp.system.CreateBuffer("params", 16,
		wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	return err
}

// createPipeline compiles the shader once with an explicit four-binding layout
func (bp *BroadPhase) createPipeline() error {
	device := bp.system.device

	var err error
	bp.layout, err = device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "broadphase_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 1, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}

	bp.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "broadphase_bindgroup",
		Layout: bp.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: bp.sphereBuffer.buffer, Size: bp.sphereBuffer.size},
			{Binding: 1, Buffer: bp.pairBuffer.buffer, Size: bp.pairBuffer.size},
			{Binding: 2, Buffer: bp.countBuffer.buffer, Size: bp.countBuffer.size},
			{Binding: 3, Buffer: bp.paramsBuffer.buffer, Size: bp.paramsBuffer.size},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}

	bp.pipelineLayout, err = device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "broadphase_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bp.layout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}

	bp.shader, err = device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "broadphase_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: broadPhaseShader},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}

	bp.pipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "broadphase_pipeline",
		Layout: bp.pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     bp.shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	return nil
}

// UsingGPU reports whether the last Pairs call ran on the GPU
func (bp *BroadPhase) UsingGPU() bool {
	return bp.usingGPU
}

func (bp *BroadPhase) Pairs(bounds []physics.Bounds) ([]physics.Pair, error) {
	var unbounded []int
	bp.spheres, bp.indices, unbounded = packSpheres(bounds, bp.spheres[:0], bp.indices[:0])

	wasUsingGPU := bp.usingGPU
	bp.usingGPU = len(bp.spheres) >= bp.Threshold
	if bp.usingGPU && !wasUsingGPU {
		log.Printf("Compute: GPU broad phase ON (%d objects)", len(bp.spheres))
	} else if !bp.usingGPU && wasUsingGPU {
		log.Printf("Compute: GPU broad phase OFF (%d objects)", len(bp.spheres))
	}

	if !bp.usingGPU {
		return bp.cpu.Pairs(bounds)
	}

	if uint32(len(bp.spheres)) > bp.maxObjects {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyObjects, len(bp.spheres), bp.maxObjects)
	}

	raw, err := bp.detect(bp.spheres)
	if err != nil {
		return nil, err
	}
	return mergePairs(raw, bp.indices, unbounded, len(bounds)), nil
}

// detect runs the shader over spheres and returns pairs of sphere indices
func (bp *BroadPhase) detect(spheres []Sphere) ([]gpuPair, error) {
	if len(spheres) < 2 {
		return nil, nil
	}

	count := uint32(len(spheres))
	bp.system.WriteBuffer(bp.sphereBuffer, 0, ToBytes(spheres))
	bp.system.WriteBuffer(bp.countBuffer, 0, ToBytes([]uint32{0}))
	bp.system.WriteBuffer(bp.paramsBuffer, 0, ToBytes([]uint32{count, 0, 0, 0}))

	if err := bp.dispatch(count); err != nil {
		return nil, err
	}

	countData, err := bp.system.ReadBuffer(bp.countBuffer, 4)
	if err != nil {
		return nil, fmt.Errorf("read pair count: %w", err)
	}
	pairCount := fromBytes[uint32](countData)[0]
	if pairCount == 0 {
		return nil, nil
	}
	if pairCount > bp.maxPairs {
		return nil, fmt.Errorf("%w: %d > %d", ErrPairOverflow, pairCount, bp.maxPairs)
	}

	pairData, err := bp.system.ReadBuffer(bp.pairBuffer, uint64(pairCount)*8)
	if err != nil {
		return nil, fmt.Errorf("read pairs: %w", err)
	}

	pairs := make([]gpuPair, pairCount)
	copy(pairs, fromBytes[gpuPair](pairData))
	return pairs, nil
}

func (bp *BroadPhase) dispatch(count uint32) error {
	encoder, err := bp.system.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(bp.pipeline)
	pass.SetBindGroup(0, bp.bindGroup, nil)
	pass.DispatchWorkgroups((count+255)/256, 1, 1)
	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer commands.Release()

	bp.system.queue.Submit(commands)
	return nil
}

// Release frees the pipeline and buffers. The shared System stays alive.
func (bp *BroadPhase) Release() {
	if bp.pipeline != nil {
		bp.pipeline.Release()
	}
	if bp.shader != nil {
		bp.shader.Release()
	}
	if bp.pipelineLayout != nil {
		bp.pipelineLayout.Release()
	}
	if bp.bindGroup != nil {
		bp.bindGroup.Release()
	}
	if bp.layout != nil {
		bp.layout.Release()
	}
	for _, buf := range []*Buffer{bp.sphereBuffer, bp.pairBuffer, bp.countBuffer, bp.paramsBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
}

// packSpheres splits bounds into GPU spheres (with their scene indices) and unbounded indices
func packSpheres(bounds []physics.Bounds, spheres []Sphere, indices []int) ([]Sphere, []int, []int) {
	var unbounded []int
	for i, b := range bounds {
		if b.Unbounded {
			unbounded = append(unbounded, i)
			continue
		}
		spheres = append(spheres, Sphere{X: b.Center.X, Y: b.Center.Y, Z: b.Center.Z, Radius: b.Radius})
		indices = append(indices, i)
	}
	return spheres, indices, unbounded
}

// mergePairs maps GPU sphere indices back to scene indices and adds every unbounded pair
func mergePairs(raw []gpuPair, indices, unbounded []int, total int) []physics.Pair {
	pairs := make([]physics.Pair, 0, len(raw)+len(unbounded)*total)
	for _, p := range raw {
		if int(p.A) >= len(indices) || int(p.B) >= len(indices) {
			continue
		}
		a, b := indices[p.A], indices[p.B]
		if a > b {
			a, b = b, a
		}
		pairs = append(pairs, physics.Pair{A: a, B: b})
	}

	isUnbounded := make(map[int]bool, len(unbounded))
	for _, u := range unbounded {
		isUnbounded[u] = true
	}
	for _, u := range unbounded {
		for i := 0; i < total; i++ {
			if i == u {
				continue
			}
			// Unbounded-unbounded pairs are added once, from the lower index
			if isUnbounded[i] && i < u {
				continue
			}
			if i < u {
				pairs = append(pairs, physics.Pair{A: i, B: u})
			} else {
				pairs = append(pairs, physics.Pair{A: u, B: i})
			}
		}
	}
	return pairs
}
