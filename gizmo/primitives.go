package gizmo

import (
	"math"

	"github.com/arrowforge/gsplat/mathx"
)

// Primitive tessellation helpers. Every helper appends to a triangle list
// (three consecutive mathx.Vec3 per triangle, CCW when viewed from outside)
// in a canonical local space: cylindrical/conical/ring primitives run along
// local +Z from 0 to their height; planar primitives lie in the local XY
// plane (normal +Z). Shape construction in shapes.go then rotates this
// canonical local space onto the world axis or plane the shape represents.

const defaultSegments = 16

func appendTri(tris []mathx.Vec3, a, b, c mathx.Vec3) []mathx.Vec3 {
	return append(tris, a, b, c)
}

// appendCylinder appends a cylinder's side wall, running from z=0 (radius r)
// to z=height (radius r), CCW when viewed from outside.
func appendCylinder(tris []mathx.Vec3, radius, height float32, segments int) []mathx.Vec3 {
	if segments < 3 {
		segments = 3
	}
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		a0 := float64(i) * step
		a1 := float64(i+1) * step
		x0, y0 := float32(math.Cos(a0))*radius, float32(math.Sin(a0))*radius
		x1, y1 := float32(math.Cos(a1))*radius, float32(math.Sin(a1))*radius

		p00 := mathx.Vec3{X: x0, Y: y0, Z: 0}
		p10 := mathx.Vec3{X: x1, Y: y1, Z: 0}
		p01 := mathx.Vec3{X: x0, Y: y0, Z: height}
		p11 := mathx.Vec3{X: x1, Y: y1, Z: height}

		tris = appendTri(tris, p00, p10, p11)
		tris = appendTri(tris, p00, p11, p01)
	}
	return tris
}

// appendCone appends a cone with its base at z=0 (radius) and apex at
// z=height.
func appendCone(tris []mathx.Vec3, radius, height float32, segments int) []mathx.Vec3 {
	if segments < 3 {
		segments = 3
	}
	apex := mathx.Vec3{X: 0, Y: 0, Z: height}
	step := 2 * math.Pi / float64(segments)
	for i := 0; i < segments; i++ {
		a0 := float64(i) * step
		a1 := float64(i+1) * step
		p0 := mathx.Vec3{X: float32(math.Cos(a0)) * radius, Y: float32(math.Sin(a0)) * radius, Z: 0}
		p1 := mathx.Vec3{X: float32(math.Cos(a1)) * radius, Y: float32(math.Sin(a1)) * radius, Z: 0}
		tris = appendTri(tris, p0, p1, apex)
		// base cap
		tris = appendTri(tris, mathx.Vec3{}, p1, p0)
	}
	return tris
}

// appendBox appends an axis-aligned box centered at center with the given
// half-extents.
func appendBox(tris []mathx.Vec3, center mathx.Vec3, half mathx.Vec3) []mathx.Vec3 {
	c := [8]mathx.Vec3{
		{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		{X: center.X + half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z - half.Z},
		{X: center.X - half.X, Y: center.Y + half.Y, Z: center.Z - half.Z},
		{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z + half.Z},
		{X: center.X + half.X, Y: center.Y - half.Y, Z: center.Z + half.Z},
		{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
		{X: center.X - half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
	}
	quad := func(a, b, cc, d int) {
		tris = appendTri(tris, c[a], c[b], c[cc])
		tris = appendTri(tris, c[a], c[cc], c[d])
	}
	quad(0, 1, 2, 3) // bottom
	quad(4, 7, 6, 5) // top
	quad(0, 4, 5, 1) // -Y
	quad(2, 6, 7, 3) // +Y
	quad(0, 3, 7, 4) // -X
	quad(1, 5, 6, 2) // +X
	return tris
}

// appendPlaneQuad appends a quad in the local XY plane (normal +Z), spanning
// [0, size] on both axes — a corner-anchored plane handle, matching
// spec.md's flip_planes corner-facing behavior.
func appendPlaneQuad(tris []mathx.Vec3, size float32) []mathx.Vec3 {
	a := mathx.Vec3{X: 0, Y: 0, Z: 0}
	b := mathx.Vec3{X: size, Y: 0, Z: 0}
	c := mathx.Vec3{X: size, Y: size, Z: 0}
	d := mathx.Vec3{X: 0, Y: size, Z: 0}
	tris = appendTri(tris, a, b, c)
	tris = appendTri(tris, a, c, d)
	return tris
}

// appendSphere appends a UV sphere of the given radius centered at origin.
func appendSphere(tris []mathx.Vec3, radius float32, stacks, slices int) []mathx.Vec3 {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	pt := func(stack, slice int) mathx.Vec3 {
		phi := math.Pi * float64(stack) / float64(stacks)
		theta := 2 * math.Pi * float64(slice) / float64(slices)
		return mathx.Vec3{
			X: radius * float32(math.Sin(phi)*math.Cos(theta)),
			Y: radius * float32(math.Sin(phi)*math.Sin(theta)),
			Z: radius * float32(math.Cos(phi)),
		}
	}
	for stack := 0; stack < stacks; stack++ {
		for slice := 0; slice < slices; slice++ {
			p00 := pt(stack, slice)
			p01 := pt(stack, slice+1)
			p10 := pt(stack+1, slice)
			p11 := pt(stack+1, slice+1)
			tris = appendTri(tris, p00, p10, p11)
			tris = appendTri(tris, p00, p11, p01)
		}
	}
	return tris
}

// appendAnnulusArc appends a flat ring band (annulus sector) in the local
// XY plane, from startAngle to endAngle, between innerRadius and
// outerRadius — the rotate gizmo's arc handle geometry.
func appendAnnulusArc(tris []mathx.Vec3, innerRadius, outerRadius, startAngle, endAngle float32, segments int) []mathx.Vec3 {
	if segments < 1 {
		segments = 1
	}
	step := (endAngle - startAngle) / float32(segments)
	for i := 0; i < segments; i++ {
		a0 := startAngle + step*float32(i)
		a1 := startAngle + step*float32(i+1)
		ci0, si0 := float32(math.Cos(float64(a0))), float32(math.Sin(float64(a0)))
		ci1, si1 := float32(math.Cos(float64(a1))), float32(math.Sin(float64(a1)))

		pIn0 := mathx.Vec3{X: ci0 * innerRadius, Y: si0 * innerRadius}
		pOut0 := mathx.Vec3{X: ci0 * outerRadius, Y: si0 * outerRadius}
		pIn1 := mathx.Vec3{X: ci1 * innerRadius, Y: si1 * innerRadius}
		pOut1 := mathx.Vec3{X: ci1 * outerRadius, Y: si1 * outerRadius}

		tris = appendTri(tris, pIn0, pOut0, pOut1)
		tris = appendTri(tris, pIn0, pOut1, pIn1)
	}
	return tris
}
