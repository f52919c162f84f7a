package gizmo

import (
	"math"

	"github.com/arrowforge/gsplat/mathx"
)

// CoordSpace selects whether translate deltas and plane-translate drag
// planes are interpreted in world space or the target's local space.
type CoordSpace int

const (
	CoordSpaceWorld CoordSpace = iota
	CoordSpaceLocal
)

// dragState captures everything needed to compute a transform update from
// the current pointer ray without re-deriving the drag plane every move.
type dragState struct {
	active      bool
	shape       *Shape
	plane       mathx.Vec3 // point on the drag plane
	planeNormal mathx.Vec3

	startPoint mathx.Vec3 // ray/plane intersection at pointer-down

	snapPosition mathx.Vec3
	snapRotation mathx.Vec3
	snapScale    mathx.Vec3
}

// beginDrag snapshots the target's transform and selects the drag plane for
// hit, per spec.md's per-axis/per-mode drag-plane table, then records the
// down ray's intersection with that plane as the drag's start point. origin
// is the gizmo's world-space origin; viewDir points from origin to the
// camera.
func beginDrag(hit Hit, mode Mode, origin, viewDir mathx.Vec3, downRay mathx.Ray, target Target) *dragState {
	ds := &dragState{
		active:       true,
		shape:        hit.Shape,
		snapPosition: target.Position(),
		snapRotation: target.Rotation(),
		snapScale:    target.Scale(),
	}
	hit.Shape.dragging = true

	axis := hit.Shape.Axis

	switch {
	case mode == ModeRotate && hit.Shape.Name == "rotate_face":
		ds.planeNormal = viewDir
	case mode == ModeRotate && hit.Shape.Name == "rotate_center":
		ds.planeNormal = viewDir
	case mode == ModeRotate:
		ds.planeNormal = axis.Vec3()
	case axis.IsPlane():
		ds.planeNormal = axis.Vec3()
	case axis == AxisXYZ:
		ds.planeNormal = viewDir
	default: // single-axis translate/scale
		a := axis.Vec3()
		n := a.Cross(a.Cross(viewDir))
		if n.LengthSq() < 1e-10 {
			// Degenerate: view direction parallel to axis. Fall back to a
			// perpendicular axis as the plane normal.
			fallback := mathx.Vec3{X: 1}
			if absf(a.Dot(fallback)) > 0.9 {
				fallback = mathx.Vec3{Y: 1}
			}
			n = a.Cross(fallback)
		}
		ds.planeNormal = n.Normalize()
	}
	ds.plane = origin

	if t, ok := downRay.IntersectPlane(ds.plane, ds.planeNormal); ok {
		ds.startPoint = downRay.PointAt(t)
	}
	return ds
}

// updateDrag intersects ray with the drag plane and applies the resulting
// transform update to target, per spec.md's per-mode math. snapIncrement is
// the snap step (world units for translate/scale, degrees for rotate); pass
// 0 to disable snapping.
func updateDrag(ds *dragState, ray mathx.Ray, mode Mode, origin mathx.Vec3, target Target, space CoordSpace, snapIncrement float32) {
	t, ok := ray.IntersectPlane(ds.plane, ds.planeNormal)
	if !ok {
		return
	}
	point := ray.PointAt(t)

	axis := ds.shape.Axis

	switch mode {
	case ModeTranslate:
		applyTranslate(ds, point, axis, target, space, snapIncrement)
	case ModeRotate:
		applyRotate(ds, point, origin, axis, ds.shape.Name, target, snapIncrement)
	case ModeScale:
		applyScale(ds, point, axis, target)
	}
}

func applyTranslate(ds *dragState, point mathx.Vec3, axis Axis, target Target, space CoordSpace, snap float32) {
	delta := point.Sub(ds.startPoint)

	if !axis.IsPlane() && axis != AxisXYZ {
		a := axis.Vec3()
		delta = a.Scale(delta.Dot(a))
	}

	if space == CoordSpaceLocal {
		rot := mathx.QuatFromEuler(ds.snapRotation.X, ds.snapRotation.Y, ds.snapRotation.Z)
		delta = rot.RotateVec3(delta)
	}

	if snap > 0 {
		delta = mathx.Vec3{X: snapf(delta.X, snap), Y: snapf(delta.Y, snap), Z: snapf(delta.Z, snap)}
	}

	target.SetPosition(ds.snapPosition.Add(delta))
}

func applyRotate(ds *dragState, point, origin mathx.Vec3, axis Axis, shapeName string, target Target, snapDegrees float32) {
	axisDir := axis.Vec3()
	if shapeName == "rotate_face" || shapeName == "rotate_center" {
		axisDir = ds.planeNormal
	}

	vStart := projectOntoPlane(ds.startPoint.Sub(origin), axisDir).Normalize()
	vNow := projectOntoPlane(point.Sub(origin), axisDir).Normalize()
	if vStart.LengthSq() < 1e-10 || vNow.LengthSq() < 1e-10 {
		return
	}

	cross := vStart.Cross(vNow)
	angle := float32(math.Atan2(float64(cross.Dot(axisDir)), float64(vStart.Dot(vNow))))

	if snapDegrees > 0 {
		snapRad := snapDegrees * math.Pi / 180
		angle = snapf(angle, snapRad)
	}

	delta := mathx.AxisAngle(axisDir, angle)
	start := mathx.QuatFromEuler(ds.snapRotation.X, ds.snapRotation.Y, ds.snapRotation.Z)
	// start.Mul(delta) rotates by start first, then by delta: the drag's
	// incremental rotation composes on top of (to the left of) the
	// snapshot rotation, in world space.
	result := start.Mul(delta)
	rx, ry, rz := result.Euler()
	target.SetRotation(mathx.Vec3{X: rx, Y: ry, Z: rz})
}

func applyScale(ds *dragState, point mathx.Vec3, axis Axis, target Target) {
	delta := point.Sub(ds.startPoint)
	var signed float32
	if axis != AxisXYZ {
		a := axis.Vec3()
		signed = delta.Dot(a)
	} else {
		signed = delta.Length()
		if delta.Dot(mathx.Vec3{X: 1, Y: 1, Z: 1}) < 0 {
			signed = -signed
		}
	}

	factor := 1 + signed
	if factor < 0.001 {
		factor = 0.001
	}

	s := ds.snapScale
	switch axis {
	case AxisX:
		s.X *= factor
	case AxisY:
		s.Y *= factor
	case AxisZ:
		s.Z *= factor
	default:
		s = mathx.Vec3{X: s.X * factor, Y: s.Y * factor, Z: s.Z * factor}
	}
	target.SetScale(s)
}

func projectOntoPlane(v, normal mathx.Vec3) mathx.Vec3 {
	n := normal.Normalize()
	return v.Sub(n.Scale(v.Dot(n)))
}

func snapf(v, increment float32) float32 {
	if increment <= 0 {
		return v
	}
	return float32(math.Round(float64(v/increment))) * increment
}

// endDrag clears the shape's dragging flag and marks ds inactive.
func endDrag(ds *dragState) {
	if ds == nil || ds.shape == nil {
		return
	}
	ds.shape.dragging = false
	ds.active = false
}
