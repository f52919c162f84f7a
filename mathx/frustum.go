package mathx

import "math"

// Plane represents a plane in 3D space: ax + by + cz + d = 0, where
// (a, b, c) is the normal and d is the distance from the origin.
type Plane struct {
	Normal   Vec3
	Distance float32
}

// Frustum holds the six planes of a view frustum, oriented so the positive
// half-space is inside the frustum. No code in this module calls
// ExtractFrustumFromMatrix; the sort-and-cull engine's per-splat cull test
// uses a direct clip-space dilation check instead (see splat/sort).
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustumFromMatrix extracts frustum planes from a combined
// view-projection matrix (column-major) using the Gribb/Hartmann method.
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	var f Frustum

	f.Planes[FrustumLeft].Normal = Vec3{viewProj[3] + viewProj[0], viewProj[7] + viewProj[4], viewProj[11] + viewProj[8]}
	f.Planes[FrustumLeft].Distance = viewProj[15] + viewProj[12]

	f.Planes[FrustumRight].Normal = Vec3{viewProj[3] - viewProj[0], viewProj[7] - viewProj[4], viewProj[11] - viewProj[8]}
	f.Planes[FrustumRight].Distance = viewProj[15] - viewProj[12]

	f.Planes[FrustumBottom].Normal = Vec3{viewProj[3] + viewProj[1], viewProj[7] + viewProj[5], viewProj[11] + viewProj[9]}
	f.Planes[FrustumBottom].Distance = viewProj[15] + viewProj[13]

	f.Planes[FrustumTop].Normal = Vec3{viewProj[3] - viewProj[1], viewProj[7] - viewProj[5], viewProj[11] - viewProj[9]}
	f.Planes[FrustumTop].Distance = viewProj[15] - viewProj[13]

	f.Planes[FrustumNear].Normal = Vec3{viewProj[3] + viewProj[2], viewProj[7] + viewProj[6], viewProj[11] + viewProj[10]}
	f.Planes[FrustumNear].Distance = viewProj[15] + viewProj[14]

	f.Planes[FrustumFar].Normal = Vec3{viewProj[3] - viewProj[2], viewProj[7] - viewProj[6], viewProj[11] - viewProj[10]}
	f.Planes[FrustumFar].Distance = viewProj[15] - viewProj[14]

	for i := range f.Planes {
		f.normalizePlane(i)
	}
	return f
}

func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(p.Normal.Dot(p.Normal))))
	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Scale(invLen)
		p.Distance *= invLen
	}
}
