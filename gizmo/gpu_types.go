package gizmo

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the GizmoVertex struct
// used by the gizmo's tessellated shape meshes.
//
//go:embed assets/gizmo_vertex.wgsl
var GPUVertexSource string

// GPUVertex is a single tessellated gizmo mesh vertex: position and normal
// in the gizmo's local space, plus a per-vertex RGBA color used for
// axis/plane tinting and hover/drag highlight.
type GPUVertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [4]float32
}

// Size returns the size of GPUVertex in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes a single GPUVertex for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := 0
	putF := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for i := range 3 {
		putF(g.Position[i])
	}
	for i := range 3 {
		putF(g.Normal[i])
	}
	for i := range 4 {
		putF(g.Color[i])
	}
	return buf
}

// GPUUniformSource is the canonical WGSL definition of the GizmoUniform
// struct: the shared view/projection pair plus a model matrix, which the
// gizmo always sets to identity because its vertices are tessellated
// directly into world space.
//
//go:embed assets/gizmo_uniform.wgsl
var GPUUniformSource string

// GPUUniform is the per-frame uniform the gizmo's render pass binds
// alongside its vertex buffer.
type GPUUniform struct {
	View  [16]float32
	Proj  [16]float32
	Model [16]float32
}

// Size returns the size of GPUUniform in bytes.
func (g *GPUUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
func (g *GPUUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	off := 0
	putF := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for i := range 16 {
		putF(g.View[i])
	}
	for i := range 16 {
		putF(g.Proj[i])
	}
	for i := range 16 {
		putF(g.Model[i])
	}
	return buf
}
