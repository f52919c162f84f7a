package sort

import (
	_ "embed"
	"encoding/binary"
	"unsafe"
)

// WorkgroupSize is the number of invocations per workgroup used by every
// compute pass in the sort-and-cull engine (reset, project&cull, radix
// upsweep/spine/downsweep).
const WorkgroupSize = 256

// BlockSize is the number of elements each workgroup's radix sort partition
// processes per pass. Four times the workgroup size, so each thread handles
// four elements per partition.
const BlockSize = 1024

// RadixBits is the number of bits sorted per radix pass.
const RadixBits = 8

// RadixBuckets is the number of digit buckets per radix pass (2^RadixBits).
const RadixBuckets = 1 << RadixBits

// RadixPasses is the number of passes needed to fully sort a 32-bit key.
const RadixPasses = 32 / RadixBits

// GPUSortUniformsSource is the canonical WGSL definition of the SortUniforms
// struct used by every pass of the radix sort.
//
//go:embed assets/sort_uniforms.wgsl
var GPUSortUniformsSource string

// GPUSortUniforms parameterizes a single radix sort pass: how many splats
// are in play, which 8-bit digit of the depth key is being sorted this pass,
// and the bucket base the histogram should start counting into.
type GPUSortUniforms struct {
	SplatCount uint32
	PassShift  uint32
	DigitBase  uint32
	_pad       uint32
}

// Size returns the size of GPUSortUniforms in bytes.
func (g *GPUSortUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniforms for GPU upload.
func (g *GPUSortUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], g.SplatCount)
	binary.LittleEndian.PutUint32(buf[4:], g.PassShift)
	binary.LittleEndian.PutUint32(buf[8:], g.DigitBase)
	return buf
}

// GPUIndirectArgsSource is the canonical WGSL definition of the IndirectArgs
// struct, laid out to match wgpu's DrawIndexedIndirect argument buffer
// exactly so the project&cull pass's atomic visible-splat counter can be
// consumed directly by a DrawCallIndirect without a CPU round-trip.
//
//go:embed assets/indirect_args.wgsl
var GPUIndirectArgsSource string

// GPUIndirectArgs mirrors WebGPU's DrawIndexedIndirect argument layout: a
// constant index count (the rasterizer's quad mesh is a 4-index triangle
// strip shared by every instance) and an instance count written by the
// project&cull pass's atomic visible-splat counter.
type GPUIndirectArgs struct {
	IndexCount    uint32
	InstanceCount uint32
	FirstIndex    uint32
	BaseVertex    uint32
	FirstInstance uint32
}

// Size returns the size of GPUIndirectArgs in bytes.
func (g *GPUIndirectArgs) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the indirect draw args for GPU upload.
func (g *GPUIndirectArgs) Marshal() []byte {
	buf := make([]byte, g.Size())
	binary.LittleEndian.PutUint32(buf[0:], g.IndexCount)
	binary.LittleEndian.PutUint32(buf[4:], g.InstanceCount)
	binary.LittleEndian.PutUint32(buf[8:], g.FirstIndex)
	binary.LittleEndian.PutUint32(buf[12:], g.BaseVertex)
	binary.LittleEndian.PutUint32(buf[16:], g.FirstInstance)
	return buf
}
