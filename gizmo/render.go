package gizmo

import (
	"fmt"

	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/bind_group_provider"
	"github.com/arrowforge/gsplat/engine/renderer/pipeline"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/mathx"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineKey identifies the gizmo's render pipeline.
const PipelineKey = "gizmo"

// renderState holds the GPU-facing half of a Gizmo: pipeline registration
// and the per-frame tessellate/upload/draw cycle, adapted from the
// CPU-tessellation pattern of a line-list gizmo render pass to this
// module's triangle-mesh shapes (see shapes.go).
type renderState struct {
	r              renderer.Renderer
	vertexShader   shader.Shader
	fragmentShader shader.Shader

	meshProvider bind_group_provider.BindGroupProvider
	uniformProvider bind_group_provider.BindGroupProvider

	vertexCount int
}

func newRenderState(r renderer.Renderer, vertexShader, fragmentShader shader.Shader) *renderState {
	return &renderState{r: r, vertexShader: vertexShader, fragmentShader: fragmentShader}
}

func (rs *renderState) registerPipeline() error {
	p := pipeline.NewPipeline(PipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(rs.vertexShader),
		pipeline.WithFragmentShader(rs.fragmentShader),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleList),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithBlendEnabled(true),
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
	if err := rs.r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("gizmo: failed to register pipeline: %w", err)
	}
	return nil
}

func (rs *renderState) allocate() error {
	rs.uniformProvider = bind_group_provider.NewBindGroupProvider("gizmo_uniform")
	desc := rs.vertexShader.BindGroupLayoutDescriptor(0)
	if err := rs.r.InitBindGroup(rs.uniformProvider, desc, nil, nil); err != nil {
		return fmt.Errorf("gizmo: failed to init uniform bind group: %w", err)
	}
	rs.meshProvider = bind_group_provider.NewBindGroupProvider("gizmo_mesh")
	return nil
}

// writeFrameUniform uploads the shared view/projection pair. model is
// always identity: gizmo shape vertices are tessellated directly into
// world space each frame.
func (rs *renderState) writeFrameUniform(view, proj [16]float32) {
	var model [16]float32
	mathx.Identity(model[:])

	u := GPUUniform{View: view, Proj: proj, Model: model}
	rs.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: rs.uniformProvider, Binding: 0, Data: u.Marshal()},
	})
}

// tessellateAndUpload walks shapes, transforms each visible one into world
// space by parent · shape.LocalMatrix(scale), and uploads the resulting
// triangle list as this frame's mesh.
func (rs *renderState) tessellateAndUpload(shapes []*Shape, parent [16]float32, scale float32) error {
	var vertices []GPUVertex

	for _, s := range shapes {
		if !s.Visible {
			continue
		}
		local := s.LocalMatrix(scale)
		var world [16]float32
		mathx.Mul4(world[:], parent[:], local[:])

		col := s.currentColor()
		for i := 0; i+2 < len(s.Triangles); i += 3 {
			v0 := mathx.TransformPoint(world[:], s.Triangles[i])
			v1 := mathx.TransformPoint(world[:], s.Triangles[i+1])
			v2 := mathx.TransformPoint(world[:], s.Triangles[i+2])
			n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()

			vertices = append(vertices,
				GPUVertex{Position: [3]float32{v0.X, v0.Y, v0.Z}, Normal: [3]float32{n.X, n.Y, n.Z}, Color: col},
				GPUVertex{Position: [3]float32{v1.X, v1.Y, v1.Z}, Normal: [3]float32{n.X, n.Y, n.Z}, Color: col},
				GPUVertex{Position: [3]float32{v2.X, v2.Y, v2.Z}, Normal: [3]float32{n.X, n.Y, n.Z}, Color: col},
			)
		}
	}

	rs.vertexCount = len(vertices)
	if rs.vertexCount == 0 {
		return nil
	}

	vertexBytes := mathx.SliceToBytes(vertices)
	indexBytes := make([]byte, rs.vertexCount*4)
	for i := 0; i < rs.vertexCount; i++ {
		off := i * 4
		indexBytes[off+0] = byte(i)
		indexBytes[off+1] = byte(i >> 8)
		indexBytes[off+2] = byte(i >> 16)
		indexBytes[off+3] = byte(i >> 24)
	}

	if err := rs.r.InitMeshBuffers(rs.meshProvider, vertexBytes, indexBytes, rs.vertexCount); err != nil {
		return fmt.Errorf("gizmo: failed to upload mesh: %w", err)
	}
	return nil
}

func (rs *renderState) draw() error {
	if rs.vertexCount == 0 {
		return nil
	}
	if err := rs.r.DrawCall(PipelineKey, rs.meshProvider, 1, []bind_group_provider.BindGroupProvider{rs.uniformProvider}); err != nil {
		return fmt.Errorf("gizmo: draw call failed: %w", err)
	}
	return nil
}

func (rs *renderState) release() {
	if rs.meshProvider != nil {
		rs.meshProvider.Release()
		rs.meshProvider = nil
	}
	if rs.uniformProvider != nil {
		rs.uniformProvider.Release()
		rs.uniformProvider = nil
	}
}
