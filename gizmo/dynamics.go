package gizmo

import (
	"math"

	"github.com/arrowforge/gsplat/mathx"
)

// edgeOnEpsilon is the |dot(view, axis)| threshold above which an axis is
// considered edge-on to the camera and hidden.
const edgeOnEpsilon = 0.01

// DragVisibilityPolicy controls how non-selected shapes behave while one
// shape is being dragged.
type DragVisibilityPolicy int

const (
	DragVisibilityShow DragVisibilityPolicy = iota
	DragVisibilityHide
	DragVisibilitySelectedOnly
)

// applyShapeDynamics adjusts visibility and dynamic orientation of shapes
// for the current camera view direction, run once per frame before
// picking/rendering. viewDir points from the gizmo origin toward the
// camera (world space, normalized).
func applyShapeDynamics(shapes []*Shape, viewDir mathx.Vec3, dragging bool, draggedName string, policy DragVisibilityPolicy, flipPlanes bool) {
	for _, s := range shapes {
		s.Visible = true
		s.Disabled = false

		switch {
		case s.Name == "translate_x" || s.Name == "translate_y" || s.Name == "translate_z":
			if absf(s.Axis.Vec3().Dot(viewDir)) > 1-edgeOnEpsilon {
				s.Visible = false
			}
		case s.Axis.IsPlane():
			if absf(s.Axis.Vec3().Dot(viewDir)) < edgeOnEpsilon {
				s.Visible = false
			} else if flipPlanes {
				u, v := planeWorldBasis(s.baseEuler)
				sign := mathx.Vec3{X: 1, Y: 1, Z: 1}
				if u.Dot(viewDir) < 0 {
					sign.X = -1
				}
				if v.Dot(viewDir) < 0 {
					sign.Y = -1
				}
				s.cornerSign = sign
			}
		}

		if s.Name == "rotate_x" || s.Name == "rotate_y" || s.Name == "rotate_z" {
			// Rotate the arc about its own axis so its open end faces the
			// camera; a near-parallel ring (viewer looking down the axis)
			// widens from a half-arc to a full ring so it stays pickable.
			axis := s.Axis.Vec3()
			alignment := absf(axis.Dot(viewDir))
			if alignment > 1-edgeOnEpsilon {
				s.dynamicSpin = 0
				s.Triangles = appendAnnulusArc(nil, arcInnerRadius, arcOuterRadius, 0, 2*math.Pi, 48)
			} else {
				s.dynamicSpin = arcFacingAngle(axis, viewDir)
				s.Triangles = appendAnnulusArc(nil, arcInnerRadius, arcOuterRadius, 0, math.Pi, 32)
			}
		}

		if dragging {
			switch policy {
			case DragVisibilityHide:
				if s.Name != draggedName {
					s.Visible = false
				}
			case DragVisibilitySelectedOnly:
				if s.Name != draggedName {
					s.Disabled = true
				}
			}
		}
	}
}

// planeWorldBasis returns the world-space directions local +X and +Y map
// onto after a plane shape's fixed baseEuler rotation (no offset/scale).
func planeWorldBasis(euler mathx.Vec3) (u, v mathx.Vec3) {
	var m [16]float32
	mathx.BuildModelMatrix(m[:], 0, 0, 0, euler.X, euler.Y, euler.Z, 1, 1, 1, 0, 0, 0)
	u = mathx.TransformDirection(m[:], mathx.Vec3{X: 1})
	v = mathx.TransformDirection(m[:], mathx.Vec3{Y: 1})
	return u, v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// arcFacingAngle computes the rotation about axis that points the arc's
// opening toward the camera, expressed as a spin applied on top of the
// arc's baseEuler-fixed local-Z orientation.
func arcFacingAngle(axis, viewDir mathx.Vec3) float32 {
	// Project viewDir onto the plane perpendicular to axis, then measure its
	// angle in that plane against the arc's local reference direction
	// (local +X after baseEuler, i.e. the plane's own x-basis).
	proj := viewDir.Sub(axis.Scale(axis.Dot(viewDir)))
	if proj.LengthSq() < 1e-10 {
		return 0
	}
	proj = proj.Normalize()
	// The arc's local +X and +Y after its axis's baseEuler span the plane.
	euler := axisEuler(AxisZ)
	if absf(axis.X) > 0.5 {
		euler = axisEuler(AxisX)
	} else if absf(axis.Y) > 0.5 {
		euler = axisEuler(AxisY)
	}
	u, v := planeWorldBasis(euler)
	x := proj.Dot(u)
	y := proj.Dot(v)
	return float32(math.Atan2(float64(y), float64(x)))
}
