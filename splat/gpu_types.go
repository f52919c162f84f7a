package splat

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPURecordSource is the canonical WGSL definition of the Splat struct used
// by the sort-and-cull engine and the rasterizer, injected into shader source
// wherever a `//@oxy:include splat` annotation appears. Matches GPURecord
// layout exactly (256 bytes, std430 aligned).
//
//go:embed assets/splat_record.wgsl
var GPURecordSource string

// GPURecord is the GPU-aligned representation of a single splat: a mean,
// a scale + unit quaternion encoding the covariance, a DC color term, an
// opacity, and up to three bands of spherical harmonics. Size: 256 bytes
// (64 float32s), matching the WGSL Splat struct (see GPURecordSource).
type GPURecord struct {
	Mean     [3]float32 // offset   0: world-space center
	_pad0    float32    // offset  12: pad to 16
	Scale    [3]float32 // offset  16: positive per-axis std devs (already exp-decoded)
	_pad1    float32    // offset  28: pad to 16
	Rotation [4]float32 // offset  32: unit quaternion, w,x,y,z order
	ColorDC  [3]float32 // offset  48: base color, 0.5 + C0*c
	Opacity  float32    // offset  60: sigmoid-decoded, [0,1]
	SH1      [9]float32 // offset  64: band 1, channel-interleaved R0,G0,B0,...
	_pad2    [3]float32 // offset 100: pad to 16-float alignment
	SH2      [15]float32
	_pad3    [1]float32
	SH3      [21]float32
	_pad4    [3]float32
}

// Size returns the size of GPURecord in bytes (256).
func (g *GPURecord) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes a single GPURecord for GPU upload. Bulk uploads of
// many records should use mathx.SliceToBytes instead — this is kept for
// parity with the per-instance uniform idiom and for tests.
func (g *GPURecord) Marshal() []byte {
	buf := make([]byte, g.Size())
	put3 := func(off int, v [3]float32) {
		for i := range 3 {
			binary.LittleEndian.PutUint32(buf[off+i*4:], math.Float32bits(v[i]))
		}
	}
	put3(0, g.Mean)
	put3(16, g.Scale)
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.Rotation[i]))
	}
	put3(48, g.ColorDC)
	binary.LittleEndian.PutUint32(buf[60:], math.Float32bits(g.Opacity))
	for i := range 9 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.SH1[i]))
	}
	for i := range 15 {
		binary.LittleEndian.PutUint32(buf[112+i*4:], math.Float32bits(g.SH2[i]))
	}
	for i := range 21 {
		binary.LittleEndian.PutUint32(buf[176+i*4:], math.Float32bits(g.SH3[i]))
	}
	return buf
}

// GPUCompactRecordSource is the canonical WGSL definition of the memory-
// constrained CompactSplat struct (no SH bands).
//
//go:embed assets/splat_compact_record.wgsl
var GPUCompactRecordSource string

// GPUCompactRecord is the 64-byte compact variant of GPURecord: mean,
// scale, rotation, color_dc and opacity only. The rasterizer must be set
// to SHBands 0 (L0) when rendering a store loaded from compact records.
type GPUCompactRecord struct {
	Mean     [3]float32 // offset  0
	_pad0    float32    // offset 12
	Scale    [3]float32 // offset 16
	_pad1    float32    // offset 28
	Rotation [4]float32 // offset 32
	ColorDC  [3]float32 // offset 48
	Opacity  float32    // offset 60
}

// Size returns the size of GPUCompactRecord in bytes (64).
func (g *GPUCompactRecord) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes a single GPUCompactRecord for GPU upload.
func (g *GPUCompactRecord) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Mean[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(g.Scale[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.Rotation[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[48+i*4:], math.Float32bits(g.ColorDC[i]))
	}
	binary.LittleEndian.PutUint32(buf[60:], math.Float32bits(g.Opacity))
	return buf
}

// ToFull expands a compact record into a full GPURecord with zero-filled
// SH bands. The store does not call it; the rasterizer's SH evaluation is
// selected by the frame uniform's SHBands instead.
func (g *GPUCompactRecord) ToFull() GPURecord {
	return GPURecord{
		Mean:     g.Mean,
		Scale:    g.Scale,
		Rotation: g.Rotation,
		ColorDC:  g.ColorDC,
		Opacity:  g.Opacity,
	}
}

// GPUFrameUniformSource is the canonical WGSL definition of the FrameUniform
// struct shared by the sort-and-cull compute passes and the rasterizer's
// render pass.
//
//go:embed assets/frame_uniform.wgsl
var GPUFrameUniformSource string

// GPUFrameUniform is the camera + model uniform shared between the compute
// and render passes: view matrix, projection matrix, the splat store's
// model matrix, camera world position, screen size, and the rasterizer's
// spherical-harmonics band selection. Size: 224 bytes.
type GPUFrameUniform struct {
	View            [16]float32
	Proj            [16]float32
	Model           [16]float32
	CameraPosition  [3]float32
	FrustumDilation float32
	ScreenSize      [2]float32
	OpacityCutoff   float32
	// SHBands selects how many spherical-harmonics bands the rasterizer
	// evaluates: 0 (L0, DC term only) through 3 (L3, all bands). Unused by
	// the sort-and-cull compute passes, which share this uniform's layout.
	SHBands float32
}

// Size returns the size of GPUFrameUniform in bytes.
func (g *GPUFrameUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the frame uniform for GPU upload.
func (g *GPUFrameUniform) Marshal() []byte {
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
	for i := range 3 {
		putF(g.CameraPosition[i])
	}
	putF(g.FrustumDilation)
	putF(g.ScreenSize[0])
	putF(g.ScreenSize[1])
	putF(g.OpacityCutoff)
	putF(g.SHBands)
	return buf
}

// BoundingBox is an axis-aligned bounding box over a store's splat means.
type BoundingBox struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Radius returns the bounding-sphere radius implied by the box, measured
// from its center to its farthest corner.
func (b BoundingBox) Radius() float32 {
	c := b.Center()
	dx := b.Max[0] - c[0]
	dy := b.Max[1] - c[1]
	dz := b.Max[2] - c[2]
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}
