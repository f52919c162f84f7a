// Package raster implements the splat rasterizer: the render pass that
// draws the sort-and-cull engine's visible set as screen-aligned billboards
// approximating each splat's projected 2D Gaussian.
package raster

import (
	"fmt"
	"math"

	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/bind_group_provider"
	"github.com/arrowforge/gsplat/engine/renderer/pipeline"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/splat"
	"github.com/arrowforge/gsplat/splat/sort"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineKey identifies the rasterizer's render pipeline.
const PipelineKey = "splat_rasterizer"

// quadVertices describes the 4-corner triangle-strip billboard every
// instance draws. Corners are in [-1, 1] local space; the vertex shader
// scales and rotates them per-instance along the projected covariance's
// eigenvectors.
var quadVertices = []float32{
	-1, -1,
	1, -1,
	-1, 1,
	1, 1,
}

var quadIndices = []uint16{0, 1, 2, 3}

// rasterizer is the implementation of Rasterizer.
type rasterizer struct {
	r renderer.Renderer

	vertexShader   shader.Shader
	fragmentShader shader.Shader

	meshProvider bind_group_provider.BindGroupProvider
	drawProvider bind_group_provider.BindGroupProvider
}

// Rasterizer draws a splat store's sort-and-cull output as alpha-blended
// billboards (depth test always, depth write off) via a single indirect
// draw call.
type Rasterizer interface {
	// RegisterPipeline creates the splat render pipeline: triangle-strip
	// topology, depth test always / depth write disabled, and a
	// premultiplied-alpha blend state matching the rasterizer's
	// premultiplied fragment output.
	RegisterPipeline() error

	// Allocate creates the shared billboard mesh (once; independent of
	// splat capacity).
	Allocate() error

	// Bind wires the rasterizer's draw-time bind group to a store and
	// sort engine: the splat record buffer, the shared frame uniform, and
	// the sorted index buffer. Must be called once after both are
	// allocated, and again after any store reload or sort engine
	// reallocation.
	Bind(store splat.Store, eng sort.Engine) error

	// Draw records the indirect draw call into the current render pass
	// using the sort engine's indirect argument buffer as the visible
	// instance count.
	Draw(eng sort.Engine) error

	// Release releases all GPU resources held by the rasterizer.
	Release()
}

var _ Rasterizer = &rasterizer{}

// NewRasterizer creates a Rasterizer bound to the given renderer and
// backed by the given vertex/fragment shaders.
func NewRasterizer(r renderer.Renderer, vertexShader, fragmentShader shader.Shader) Rasterizer {
	if r == nil {
		panic("raster: renderer must not be nil")
	}
	return &rasterizer{r: r, vertexShader: vertexShader, fragmentShader: fragmentShader}
}

func (rz *rasterizer) RegisterPipeline() error {
	p := pipeline.NewPipeline(PipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(rz.vertexShader),
		pipeline.WithFragmentShader(rz.fragmentShader),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithBlendEnabled(true),
		// Splat fragment output is already premultiplied by alpha, so the
		// blend must add the destination scaled by (1 - src alpha)
		// without re-multiplying the source by its own alpha again.
		pipeline.WithBlendState(&wgpu.BlendState{
			Color: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
			Alpha: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
		}),
	)
	if err := rz.r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("raster: failed to register pipeline: %w", err)
	}
	return nil
}

func (rz *rasterizer) Allocate() error {
	rz.meshProvider = bind_group_provider.NewBindGroupProvider("splat_quad_mesh")

	vertexBytes := make([]byte, len(quadVertices)*4)
	for i, v := range quadVertices {
		bits := math.Float32bits(v)
		vertexBytes[i*4+0] = byte(bits)
		vertexBytes[i*4+1] = byte(bits >> 8)
		vertexBytes[i*4+2] = byte(bits >> 16)
		vertexBytes[i*4+3] = byte(bits >> 24)
	}

	indexBytes := make([]byte, len(quadIndices)*2)
	for i, idx := range quadIndices {
		indexBytes[i*2+0] = byte(idx)
		indexBytes[i*2+1] = byte(idx >> 8)
	}

	if err := rz.r.InitMeshBuffers(rz.meshProvider, vertexBytes, indexBytes, len(quadIndices)); err != nil {
		return fmt.Errorf("raster: failed to init billboard mesh: %w", err)
	}
	return nil
}

func (rz *rasterizer) Bind(store splat.Store, eng sort.Engine) error {
	recordBuf := store.RecordBuffer()
	if recordBuf == nil {
		return fmt.Errorf("raster: store has no record buffer; call Store.Load first")
	}

	rz.drawProvider = bind_group_provider.NewBindGroupProvider("splat_rasterizer_draw")
	rz.drawProvider.SetBuffers(map[int]*wgpu.Buffer{
		0: recordBuf,
		1: eng.FrameUniformBuffer(),
		2: eng.SortedIndices(),
	})

	desc := rz.vertexShader.BindGroupLayoutDescriptor(0)
	if err := rz.r.InitBindGroup(rz.drawProvider, desc, nil, nil); err != nil {
		return fmt.Errorf("raster: failed to init draw bind group: %w", err)
	}
	return nil
}

func (rz *rasterizer) Draw(eng sort.Engine) error {
	if err := rz.r.DrawCallIndirect(PipelineKey, rz.meshProvider, eng.IndirectArgsBuffer(), []bind_group_provider.BindGroupProvider{rz.drawProvider}); err != nil {
		return fmt.Errorf("raster: indirect draw failed: %w", err)
	}
	return nil
}

func (rz *rasterizer) Release() {
	if rz.meshProvider != nil {
		rz.meshProvider.Release()
		rz.meshProvider = nil
	}
	if rz.drawProvider != nil {
		rz.drawProvider.Release()
		rz.drawProvider = nil
	}
}
