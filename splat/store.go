package splat

import (
	"fmt"
	"sync"

	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/bind_group_provider"
	"github.com/arrowforge/gsplat/mathx"
	"github.com/cogentcore/webgpu/wgpu"
)

// RecordBinding and ShadowBinding are the binding indices the splat store
// uses within its own bind group layout. Sort-and-cull and rasterizer
// pipelines reference the underlying buffers at these same indices when
// wiring their own per-pass bind groups (see splat/sort and splat/raster).
const (
	RecordBinding = 0
	ShadowBinding = 1
)

// store is the implementation of the Store interface.
type store struct {
	mu *sync.Mutex

	r renderer.Renderer

	provider bind_group_provider.BindGroupProvider

	count   int
	compact bool

	boundingBox BoundingBox
	modelMatrix [16]float32
}

// Store is the GPU-resident buffer of splat records plus a position-only
// shadow buffer used by the sort-and-cull engine's culling pass.
// It mirrors model.Model's interface-plus-private-struct-plus-builder
// shape, but for a flat array of splat records instead of a mesh.
type Store interface {
	// Load uploads a full (256-byte) splat record set, replacing any
	// previously loaded data. Computes the bounding box from the means.
	Load(records []GPURecord) error

	// LoadCompact uploads a 64-byte compact splat record set (no SH
	// bands). The rasterizer must be configured for SHBands 0 (L0) when
	// drawing a store loaded this way.
	LoadCompact(records []GPUCompactRecord) error

	// SetModelMatrix recomposes the store's model matrix from the given
	// position, Euler rotation, non-uniform scale and rotation/scale
	// pivot, as T * T_pivot * R * S * T_pivot^-1.
	SetModelMatrix(posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ, pivotX, pivotY, pivotZ float32)

	// ModelMatrix returns the current column-major 4x4 model matrix.
	ModelMatrix() [16]float32

	// BoundingBox returns the bounding box computed at the last Load, in
	// the store's local (pre-model-matrix) space.
	BoundingBox() BoundingBox

	// Count returns the number of splats currently resident.
	Count() int

	// Compact reports whether the store was loaded via LoadCompact.
	Compact() bool

	// RecordBuffer returns the GPU buffer holding the splat records.
	// Returns nil before the first Load.
	RecordBuffer() *wgpu.Buffer

	// ShadowBuffer returns the GPU buffer holding the position-only
	// shadow copy. Returns nil before the first Load.
	ShadowBuffer() *wgpu.Buffer

	// RecordStride returns the byte size of a single record (256 for a
	// full store, 64 for a compact one).
	RecordStride() int

	// Release releases all GPU resources held by the store.
	Release()
}

var _ Store = &store{}

// NewStore creates an empty Store bound to the given renderer. No GPU
// resources are allocated until Load or LoadCompact is called.
func NewStore(r renderer.Renderer) Store {
	if r == nil {
		panic("splat: renderer must not be nil")
	}
	s := &store{
		mu: &sync.Mutex{},
		r:  r,
	}
	mathx.Identity(s.modelMatrix[:])
	return s
}

func (s *store) Load(records []GPURecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(records) == 0 {
		s.release()
		s.count = 0
		return nil
	}

	means := make([][3]float32, len(records))
	shadow := make([]float32, len(records)*3)
	for i, rec := range records {
		means[i] = rec.Mean
		shadow[i*3+0] = rec.Mean[0]
		shadow[i*3+1] = rec.Mean[1]
		shadow[i*3+2] = rec.Mean[2]
	}

	if err := s.allocate(len(records), 256, mathx.SliceToBytes(records), mathx.SliceToBytes(shadow)); err != nil {
		return err
	}

	s.count = len(records)
	s.compact = false
	s.boundingBox = computeBoundingBox(means)
	return nil
}

func (s *store) LoadCompact(records []GPUCompactRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(records) == 0 {
		s.release()
		s.count = 0
		return nil
	}

	means := make([][3]float32, len(records))
	shadow := make([]float32, len(records)*3)
	for i, rec := range records {
		means[i] = rec.Mean
		shadow[i*3+0] = rec.Mean[0]
		shadow[i*3+1] = rec.Mean[1]
		shadow[i*3+2] = rec.Mean[2]
	}

	if err := s.allocate(len(records), 64, mathx.SliceToBytes(records), mathx.SliceToBytes(shadow)); err != nil {
		return err
	}

	s.count = len(records)
	s.compact = true
	s.boundingBox = computeBoundingBox(means)
	return nil
}

// allocate (re)creates the record and shadow buffers sized to n elements
// of recordStride bytes each, and uploads the provided bytes.
func (s *store) allocate(n, recordStride int, recordBytes, shadowBytes []byte) error {
	s.release()

	s.provider = bind_group_provider.NewBindGroupProvider("splat_store")

	descriptor := wgpu.BindGroupLayoutDescriptor{
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    RecordBinding,
				Visibility: wgpu.ShaderStageCompute | wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: uint64(n * recordStride),
				},
			},
			{
				Binding:    ShadowBinding,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeReadOnlyStorage,
					MinBindingSize: uint64(n * 12),
				},
			},
		},
	}

	sizeOverrides := map[int]uint64{
		RecordBinding: uint64(n * recordStride),
		ShadowBinding: uint64(n * 12),
	}

	if err := s.r.InitBindGroup(s.provider, descriptor, nil, sizeOverrides); err != nil {
		return fmt.Errorf("splat: failed to allocate store buffers: %w", err)
	}

	s.r.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: s.provider, Binding: RecordBinding, Offset: 0, Data: recordBytes},
		{Provider: s.provider, Binding: ShadowBinding, Offset: 0, Data: shadowBytes},
	})

	return nil
}

func (s *store) SetModelMatrix(posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ, pivotX, pivotY, pivotZ float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mathx.BuildModelMatrix(s.modelMatrix[:], posX, posY, posZ, rotX, rotY, rotZ, scaleX, scaleY, scaleZ, pivotX, pivotY, pivotZ)
}

func (s *store) ModelMatrix() [16]float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelMatrix
}

func (s *store) BoundingBox() BoundingBox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundingBox
}

func (s *store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *store) Compact() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compact
}

func (s *store) RecordBuffer() *wgpu.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider == nil {
		return nil
	}
	return s.provider.Buffer(RecordBinding)
}

func (s *store) ShadowBuffer() *wgpu.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provider == nil {
		return nil
	}
	return s.provider.Buffer(ShadowBinding)
}

func (s *store) RecordStride() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.compact {
		return 64
	}
	return 256
}

func (s *store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

// release tears down GPU resources. Caller must hold s.mu.
func (s *store) release() {
	if s.provider != nil {
		s.provider.Release()
		s.provider = nil
	}
}

func computeBoundingBox(means [][3]float32) BoundingBox {
	if len(means) == 0 {
		return BoundingBox{}
	}
	box := BoundingBox{Min: means[0], Max: means[0]}
	for _, m := range means[1:] {
		for axis := 0; axis < 3; axis++ {
			if m[axis] < box.Min[axis] {
				box.Min[axis] = m[axis]
			}
			if m[axis] > box.Max[axis] {
				box.Max[axis] = m[axis]
			}
		}
	}
	return box
}
