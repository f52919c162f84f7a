// Package sort implements the GPU sort-and-cull engine: the compute stage
// that projects splat means into clip space, rejects invisible or
// degenerate splats, and produces a back-to-front sorted index list the
// rasterizer consumes via an indirect draw call.
package sort

import (
	"fmt"

	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/bind_group_provider"
	"github.com/arrowforge/gsplat/engine/renderer/pipeline"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/mathx"
	"github.com/arrowforge/gsplat/splat"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys used to register and look up the five compute passes.
const (
	PipelineKeyReset       = "sort_reset"
	PipelineKeyProjectCull = "sort_project_cull"
	PipelineKeyUpsweep     = "sort_radix_upsweep"
	PipelineKeySpine       = "sort_radix_spine"
	PipelineKeyDownsweep   = "sort_radix_downsweep"
)

// EngineShaders bundles the five compute shaders the sort-and-cull engine
// dispatches each frame. Callers load these from their .wgsl asset paths
// (splat/sort/assets/*.wgsl) via shader.NewShader before constructing an
// Engine, following the same load-shaders-at-the-edge convention used for
// every other pipeline in this renderer.
type EngineShaders struct {
	Reset          shader.Shader
	ProjectCull    shader.Shader
	RadixUpsweep   shader.Shader
	RadixSpine     shader.Shader
	RadixDownsweep shader.Shader
}

// engine is the implementation of Engine.
type engine struct {
	r       renderer.Renderer
	shaders EngineShaders

	capacity int

	pingKeys, pingValues *wgpu.Buffer
	pongKeys, pongValues *wgpu.Buffer
	globalHistogram      *wgpu.Buffer
	partitionHistogram   *wgpu.Buffer
	indirectArgs         *wgpu.Buffer
	frameUniform         *wgpu.Buffer

	// sortUniformProviders[p] owns the small uniform buffer parameterizing
	// radix pass p (pass_shift = p*8, digit_base = p*256). Index 0 is also
	// reused by reset and project&cull, which only read splat_count.
	sortUniformProviders [RadixPasses]bind_group_provider.BindGroupProvider

	frameUniformProvider bind_group_provider.BindGroupProvider

	resetProvider bind_group_provider.BindGroupProvider
	cullProvider  bind_group_provider.BindGroupProvider
	upsweepFwd    bind_group_provider.BindGroupProvider
	upsweepBwd    bind_group_provider.BindGroupProvider
	spineProvider bind_group_provider.BindGroupProvider
	downsweepFwd  bind_group_provider.BindGroupProvider
	downsweepBwd  bind_group_provider.BindGroupProvider
}

// Engine is the GPU sort-and-cull stage: it reads a splat store's record
// buffer and a per-frame camera/model uniform, and produces a sorted index
// buffer plus an indirect draw argument buffer for the rasterizer.
type Engine interface {
	// RegisterPipelines creates the five compute pipelines backing this
	// engine's passes. Must be called once, after construction, before
	// the first Dispatch.
	RegisterPipelines() error

	// Allocate (re)creates the sort working-set buffers sized for up to
	// capacity splats, rebuilding all per-pass bind group providers. Must
	// be called before the first Dispatch and again whenever the bound
	// store's capacity grows beyond the previous allocation. BindStore
	// must be called again afterward.
	Allocate(capacity int) error

	// BindStore points the project&cull pass at a store's record buffer.
	// Must be called once after Allocate, and again after every
	// Store.Load/LoadCompact, since reloading replaces the store's
	// underlying GPU buffer.
	BindStore(store splat.Store) error

	// UpdateFrameUniform uploads the shared camera/model uniform consumed
	// by the project&cull pass (and, via the same buffer, the rasterizer).
	UpdateFrameUniform(u splat.GPUFrameUniform)

	// Dispatch records the full sort-and-cull pipeline for splatCount live
	// splats: reset, project&cull, then four passes of radix
	// upsweep/spine/downsweep. Must be called within a
	// BeginComputeFrame/EndComputeFrame block on the renderer (the caller
	// owns the frame's single compute submission, per
	// engine.Renderable.PrepareCompute). After the frame is submitted,
	// SortedIndices and IndirectArgsBuffer reflect the new frame's
	// visible set.
	Dispatch(splatCount int) error

	// SortedIndices returns the buffer holding the final back-to-front
	// splat index order, valid for instance indices [0, visible_count).
	// Only meaningful after Dispatch returns.
	SortedIndices() *wgpu.Buffer

	// IndirectArgsBuffer returns the DrawIndexedIndirect argument buffer
	// written by project&cull's atomic visible counter, consumed directly
	// by the rasterizer's DrawCallIndirect.
	IndirectArgsBuffer() *wgpu.Buffer

	// FrameUniformBuffer returns the shared camera/model uniform buffer,
	// so the rasterizer can bind the same physical buffer rather than
	// duplicate it.
	FrameUniformBuffer() *wgpu.Buffer

	// Capacity returns the current allocated splat capacity.
	Capacity() int

	// Release releases all GPU resources held by the engine.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates a sort-and-cull Engine bound to the given renderer and
// backed by the given compute shaders. No GPU resources are allocated
// until RegisterPipelines and Allocate are called.
func NewEngine(r renderer.Renderer, shaders EngineShaders) Engine {
	if r == nil {
		panic("sort: renderer must not be nil")
	}
	return &engine{r: r, shaders: shaders}
}

func (e *engine) RegisterPipelines() error {
	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(PipelineKeyReset, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(e.shaders.Reset)),
		pipeline.NewPipeline(PipelineKeyProjectCull, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(e.shaders.ProjectCull)),
		pipeline.NewPipeline(PipelineKeyUpsweep, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(e.shaders.RadixUpsweep)),
		pipeline.NewPipeline(PipelineKeySpine, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(e.shaders.RadixSpine)),
		pipeline.NewPipeline(PipelineKeyDownsweep, pipeline.PipelineTypeCompute, pipeline.WithComputeShader(e.shaders.RadixDownsweep)),
	}
	if err := e.r.RegisterPipelines(pipelines...); err != nil {
		return fmt.Errorf("sort: failed to register pipelines: %w", err)
	}
	return nil
}

func (e *engine) Allocate(capacity int) error {
	e.release()

	if capacity < 1 {
		capacity = 1
	}
	e.capacity = capacity

	numBlocks := (capacity + BlockSize - 1) / BlockSize
	if numBlocks < 1 {
		numBlocks = 1
	}

	if err := e.allocateSortUniforms(capacity); err != nil {
		return err
	}
	if err := e.allocateFrameUniform(); err != nil {
		return err
	}
	if err := e.allocateWorkingSet(capacity, numBlocks); err != nil {
		return err
	}
	if err := e.buildRadixProviders(); err != nil {
		return err
	}

	// cullProvider is built but not InitBindGroup'd here — binding 0 (the
	// store's record buffer) isn't known yet, so InitBindGroup is deferred
	// to BindStore.
	e.cullProvider = bind_group_provider.NewBindGroupProvider("sort_project_cull")
	e.cullProvider.SetBuffers(map[int]*wgpu.Buffer{
		1: e.frameUniform,
		2: e.sortUniformProviders[0].Buffer(0),
		3: e.pingKeys,
		4: e.pingValues,
		5: e.indirectArgs,
	})

	return nil
}

func (e *engine) allocateSortUniforms(capacity int) error {
	for p := 0; p < RadixPasses; p++ {
		u := GPUSortUniforms{
			SplatCount: uint32(capacity),
			PassShift:  uint32(p * RadixBits),
			DigitBase:  uint32(p * RadixBuckets),
		}
		prov := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("sort_uniforms_pass_%d", p))
		desc := wgpu.BindGroupLayoutDescriptor{
			Entries: []wgpu.BindGroupLayoutEntry{{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(u.Size()),
				},
			}},
		}
		if err := e.r.InitBindGroup(prov, desc, nil, nil); err != nil {
			return fmt.Errorf("sort: failed to allocate pass-%d uniforms: %w", p, err)
		}
		e.r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: prov, Binding: 0, Offset: 0, Data: u.Marshal()}})
		e.sortUniformProviders[p] = prov
	}
	return nil
}

func (e *engine) allocateFrameUniform() error {
	frame := splat.GPUFrameUniform{}
	mathx.Identity(frame.View[:])
	mathx.Identity(frame.Proj[:])
	mathx.Identity(frame.Model[:])

	prov := bind_group_provider.NewBindGroupProvider("sort_frame_uniform")
	desc := wgpu.BindGroupLayoutDescriptor{
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageCompute | wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(frame.Size()),
			},
		}},
	}
	if err := e.r.InitBindGroup(prov, desc, nil, nil); err != nil {
		return fmt.Errorf("sort: failed to allocate frame uniform: %w", err)
	}
	e.r.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: prov, Binding: 0, Offset: 0, Data: frame.Marshal()}})
	e.frameUniformProvider = prov
	e.frameUniform = prov.Buffer(0)
	return nil
}

// allocateWorkingSet allocates the shared sort buffers through a single
// reset-pass bind group (reset touches every working buffer), then reads
// the resulting physical buffers back out so other passes' providers can
// reuse them via SetBuffer.
func (e *engine) allocateWorkingSet(capacity, numBlocks int) error {
	e.resetProvider = bind_group_provider.NewBindGroupProvider("sort_reset")
	e.resetProvider.SetBuffer(0, e.sortUniformProviders[0].Buffer(0))

	desc := e.shaders.Reset.BindGroupLayoutDescriptor(0)
	sizeOverrides := map[int]uint64{
		1: uint64(capacity * 4),
		2: uint64(capacity * 4),
		3: uint64(capacity * 4),
		4: uint64(capacity * 4),
		5: uint64(RadixPasses * RadixBuckets * 4),
		6: uint64(numBlocks * RadixBuckets * 4),
		7: uint64((&GPUIndirectArgs{}).Size()),
	}
	usageOverrides := map[int]wgpu.BufferUsage{
		7: wgpu.BufferUsageIndirect,
	}
	if err := e.r.InitBindGroup(e.resetProvider, desc, usageOverrides, sizeOverrides); err != nil {
		return fmt.Errorf("sort: failed to allocate sort working set: %w", err)
	}

	e.pingKeys = e.resetProvider.Buffer(1)
	e.pingValues = e.resetProvider.Buffer(2)
	e.pongKeys = e.resetProvider.Buffer(3)
	e.pongValues = e.resetProvider.Buffer(4)
	e.globalHistogram = e.resetProvider.Buffer(5)
	e.partitionHistogram = e.resetProvider.Buffer(6)
	e.indirectArgs = e.resetProvider.Buffer(7)
	return nil
}

func (e *engine) buildRadixProviders() error {
	upsweepDesc := e.shaders.RadixUpsweep.BindGroupLayoutDescriptor(0)
	spineDesc := e.shaders.RadixSpine.BindGroupLayoutDescriptor(0)
	downsweepDesc := e.shaders.RadixDownsweep.BindGroupLayoutDescriptor(0)

	newProvider := func(label string, buffers map[int]*wgpu.Buffer, desc wgpu.BindGroupLayoutDescriptor) (bind_group_provider.BindGroupProvider, error) {
		p := bind_group_provider.NewBindGroupProvider(label)
		p.SetBuffers(buffers)
		if err := e.r.InitBindGroup(p, desc, nil, nil); err != nil {
			return nil, fmt.Errorf("sort: failed to init %s bind group: %w", label, err)
		}
		return p, nil
	}

	var err error
	e.upsweepFwd, err = newProvider("sort_upsweep_fwd", map[int]*wgpu.Buffer{
		0: e.sortUniformProviders[0].Buffer(0), 1: e.pingKeys, 2: e.globalHistogram, 3: e.partitionHistogram,
	}, upsweepDesc)
	if err != nil {
		return err
	}
	e.upsweepBwd, err = newProvider("sort_upsweep_bwd", map[int]*wgpu.Buffer{
		0: e.sortUniformProviders[0].Buffer(0), 1: e.pongKeys, 2: e.globalHistogram, 3: e.partitionHistogram,
	}, upsweepDesc)
	if err != nil {
		return err
	}
	e.spineProvider, err = newProvider("sort_spine", map[int]*wgpu.Buffer{
		0: e.sortUniformProviders[0].Buffer(0), 1: e.globalHistogram, 2: e.partitionHistogram,
	}, spineDesc)
	if err != nil {
		return err
	}
	e.downsweepFwd, err = newProvider("sort_downsweep_fwd", map[int]*wgpu.Buffer{
		0: e.sortUniformProviders[0].Buffer(0), 1: e.pingKeys, 2: e.pingValues,
		3: e.pongKeys, 4: e.pongValues, 5: e.globalHistogram, 6: e.partitionHistogram,
	}, downsweepDesc)
	if err != nil {
		return err
	}
	e.downsweepBwd, err = newProvider("sort_downsweep_bwd", map[int]*wgpu.Buffer{
		0: e.sortUniformProviders[0].Buffer(0), 1: e.pongKeys, 2: e.pongValues,
		3: e.pingKeys, 4: e.pingValues, 5: e.globalHistogram, 6: e.partitionHistogram,
	}, downsweepDesc)
	if err != nil {
		return err
	}
	return nil
}

func (e *engine) BindStore(store splat.Store) error {
	recordBuf := store.RecordBuffer()
	if recordBuf == nil {
		return fmt.Errorf("sort: store has no record buffer; call Store.Load first")
	}
	e.cullProvider.SetBuffer(0, recordBuf)
	desc := e.shaders.ProjectCull.BindGroupLayoutDescriptor(0)
	if err := e.r.InitBindGroup(e.cullProvider, desc, nil, nil); err != nil {
		return fmt.Errorf("sort: failed to init project&cull bind group: %w", err)
	}
	return nil
}

func (e *engine) UpdateFrameUniform(u splat.GPUFrameUniform) {
	e.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: e.frameUniformProvider, Binding: 0, Offset: 0, Data: u.Marshal()},
	})
}

func (e *engine) Dispatch(splatCount int) error {
	if splatCount > e.capacity {
		if err := e.Allocate(splatCount); err != nil {
			return err
		}
	}

	writes := make([]bind_group_provider.BufferWrite, 0, RadixPasses)
	for p := 0; p < RadixPasses; p++ {
		n := uint32(splatCount)
		data := []byte{byte(n), byte(n >> 8), byte(n >> 16), byte(n >> 24)}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: e.sortUniformProviders[p], Binding: 0, Offset: 0, Data: data})
	}
	e.r.WriteBuffers(writes)

	wgCount := func(n int) [3]uint32 {
		groups := (n + WorkgroupSize - 1) / WorkgroupSize
		if groups < 1 {
			groups = 1
		}
		return [3]uint32{uint32(groups), 1, 1}
	}

	resetN := max(splatCount, RadixPasses*RadixBuckets)
	e.r.DispatchCompute(PipelineKeyReset, e.resetProvider, wgCount(resetN))
	e.r.DispatchCompute(PipelineKeyProjectCull, e.cullProvider, wgCount(splatCount))

	numBlocks := (splatCount + BlockSize - 1) / BlockSize
	if numBlocks < 1 {
		numBlocks = 1
	}

	for p := 0; p < RadixPasses; p++ {
		forward := p%2 == 0
		upsweep, downsweep := e.upsweepFwd, e.downsweepFwd
		if !forward {
			upsweep, downsweep = e.upsweepBwd, e.downsweepBwd
		}

		e.r.DispatchCompute(PipelineKeyUpsweep, upsweep, [3]uint32{uint32(numBlocks), 1, 1})
		e.r.DispatchCompute(PipelineKeySpine, e.spineProvider, [3]uint32{RadixBuckets, 1, 1})
		e.r.DispatchCompute(PipelineKeyDownsweep, downsweep, [3]uint32{uint32(numBlocks), 1, 1})
	}

	return nil
}

// SortedIndices returns the buffer holding the final sorted splat index
// order. RadixPasses is always even, so after a full Dispatch the result
// resides back in the ping-side values buffer.
func (e *engine) SortedIndices() *wgpu.Buffer {
	return e.pingValues
}

func (e *engine) IndirectArgsBuffer() *wgpu.Buffer {
	return e.indirectArgs
}

func (e *engine) FrameUniformBuffer() *wgpu.Buffer {
	return e.frameUniform
}

func (e *engine) Capacity() int {
	return e.capacity
}

func (e *engine) Release() {
	e.release()
}

func (e *engine) release() {
	providers := []bind_group_provider.BindGroupProvider{
		e.resetProvider, e.cullProvider, e.upsweepFwd, e.upsweepBwd,
		e.spineProvider, e.downsweepFwd, e.downsweepBwd, e.frameUniformProvider,
	}
	for _, p := range e.sortUniformProviders {
		providers = append(providers, p)
	}
	for _, p := range providers {
		if p != nil {
			p.Release()
		}
	}

	e.resetProvider, e.cullProvider = nil, nil
	e.upsweepFwd, e.upsweepBwd = nil, nil
	e.spineProvider = nil
	e.downsweepFwd, e.downsweepBwd = nil, nil
	e.frameUniformProvider = nil
	e.sortUniformProviders = [RadixPasses]bind_group_provider.BindGroupProvider{}
}
