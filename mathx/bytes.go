// Package mathx provides the column-major matrix, vector, and quaternion
// math used across the splat store, sort-and-cull engine, rasterizer and
// gizmo. Bulk GPU buffers are marshaled with zero-copy unsafe reinterpretation;
// small per-frame uniforms use explicit little-endian encoding.
package mathx

import "unsafe"

// SliceToBytes reinterprets a slice of fixed-size values as a byte slice
// without copying. The caller must not mutate the source slice while the
// returned bytes are in use by the GPU, and must keep the source slice
// alive for as long as the bytes are referenced.
func SliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*size)
}

// StructToBytes reinterprets a single struct value as a byte slice without
// copying. Intended for fixed-layout GPU structs whose Go field order
// matches their WGSL counterpart exactly.
func StructToBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}
