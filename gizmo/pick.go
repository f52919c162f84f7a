package gizmo

import "github.com/arrowforge/gsplat/mathx"

// Hit describes the result of a successful pick.
type Hit struct {
	Shape    *Shape
	Point    mathx.Vec3
	Distance float32
}

// BuildPickRay unprojects a pointer position (already scaled to canvas
// pixels, origin top-left) through the inverse view-projection matrix to
// build a world-space ray. viewProjInverse is column-major 4x4.
func BuildPickRay(pointerX, pointerY, canvasWidth, canvasHeight float32, viewProjInverse []float32, cameraPosition mathx.Vec3) mathx.Ray {
	ndcX := (pointerX/canvasWidth)*2 - 1
	ndcY := 1 - (pointerY/canvasHeight)*2

	nearH := unprojectHomogeneous(viewProjInverse, ndcX, ndcY, -1)
	farH := unprojectHomogeneous(viewProjInverse, ndcX, ndcY, 1)

	dir := farH.Sub(nearH).Normalize()
	return mathx.Ray{Origin: cameraPosition, Direction: dir}
}

func unprojectHomogeneous(m []float32, x, y, z float32) mathx.Vec3 {
	w := m[3]*x + m[7]*y + m[11]*z + m[15]
	if w == 0 {
		w = 1
	}
	return mathx.Vec3{
		X: (m[0]*x + m[4]*y + m[8]*z + m[12]) / w,
		Y: (m[1]*x + m[5]*y + m[9]*z + m[13]) / w,
		Z: (m[2]*x + m[6]*y + m[10]*z + m[14]) / w,
	}
}

// Pick walks every interactable, non-disabled, visible shape in shapes
// (transformed by parent · shape.LocalMatrix(scale)) and returns the
// highest-priority hit, breaking ties by smallest distance. Returns ok=false
// if the ray hits nothing.
func Pick(ray mathx.Ray, shapes []*Shape, parent [16]float32, scale float32) (Hit, bool) {
	var best Hit
	found := false

	for _, s := range shapes {
		if !s.Visible || !s.Interactable || s.Disabled {
			continue
		}
		local := s.LocalMatrix(scale)
		var world [16]float32
		mathx.Mul4(world[:], parent[:], local[:])

		for i := 0; i+2 < len(s.Triangles); i += 3 {
			v0 := mathx.TransformPoint(world[:], s.Triangles[i])
			v1 := mathx.TransformPoint(world[:], s.Triangles[i+1])
			v2 := mathx.TransformPoint(world[:], s.Triangles[i+2])

			t, ok := ray.IntersectTriangle(v0, v1, v2)
			if !ok {
				continue
			}
			if !found || s.Priority > best.Shape.Priority ||
				(s.Priority == best.Shape.Priority && t < best.Distance) {
				best = Hit{Shape: s, Point: ray.PointAt(t), Distance: t}
				found = true
			}
		}
	}

	return best, found
}

// setHover clears hover on every shape then marks hit (and, for compound
// plane axes, its component axes) as hovered.
func setHover(shapes []*Shape, hit *Shape) {
	for _, s := range shapes {
		s.hovered = false
	}
	if hit == nil {
		return
	}
	hit.hovered = true
	switch hit.Axis {
	case AxisXY:
		hoverAxis(shapes, AxisX)
		hoverAxis(shapes, AxisY)
	case AxisYZ:
		hoverAxis(shapes, AxisY)
		hoverAxis(shapes, AxisZ)
	case AxisXZ:
		hoverAxis(shapes, AxisX)
		hoverAxis(shapes, AxisZ)
	}
}

func hoverAxis(shapes []*Shape, axis Axis) {
	for _, s := range shapes {
		if s.Axis == axis {
			s.hovered = true
		}
	}
}
