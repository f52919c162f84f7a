package mathx

// Ray is a world-space ray used for gizmo handle picking.
type Ray struct {
	Origin    Vec3
	Direction Vec3 // expected normalized
}

// RayTriangleEpsilon is the parallel-test tolerance used by IntersectTriangle.
const RayTriangleEpsilon = 1e-7

// IntersectTriangle implements the Möller–Trumbore ray/triangle intersection
// test. Returns the hit distance t along r.Direction and ok=true if the ray
// hits the triangle (v0, v1, v2) at a non-negative distance.
func (r Ray) IntersectTriangle(v0, v1, v2 Vec3) (t float32, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)

	if det > -RayTriangleEpsilon && det < RayTriangleEpsilon {
		return 0, false // ray is parallel to the triangle's plane
	}
	invDet := 1.0 / det

	tvec := r.Origin.Sub(v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = edge2.Dot(qvec) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}

// PointAt returns the point at distance t along the ray.
func (r Ray) PointAt(t float32) Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlane intersects the ray with a plane defined by a point on the
// plane and its normal. Returns ok=false if the ray is parallel to the plane
// or the intersection is behind the ray origin.
func (r Ray) IntersectPlane(planePoint, planeNormal Vec3) (t float32, ok bool) {
	denom := planeNormal.Dot(r.Direction)
	if denom > -RayTriangleEpsilon && denom < RayTriangleEpsilon {
		return 0, false
	}
	t = planePoint.Sub(r.Origin).Dot(planeNormal) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
