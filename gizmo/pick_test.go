package gizmo

import (
	"math"
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

func almostEqualVec3(a, b mathx.Vec3, eps float32) bool {
	return math.Abs(float64(a.X-b.X)) <= float64(eps) &&
		math.Abs(float64(a.Y-b.Y)) <= float64(eps) &&
		math.Abs(float64(a.Z-b.Z)) <= float64(eps)
}

// identityViewProjInverse returns the inverse of an identity view-projection
// matrix (itself identity), so BuildPickRay's unprojection reduces to NDC.
func identityViewProjInverse() []float32 {
	var m [16]float32
	mathx.Identity(m[:])
	return m[:]
}

func TestBuildPickRayCentersOnCamera(t *testing.T) {
	cam := mathx.Vec3{X: 0, Y: 0, Z: 5}
	ray := BuildPickRay(400, 300, 800, 600, identityViewProjInverse(), cam)
	if ray.Origin != cam {
		t.Fatalf("ray.Origin = %v, want camera position %v", ray.Origin, cam)
	}
	// Screen center maps to NDC (0,0); with an identity view-projection the
	// unprojected near/far points both sit on the Z axis, so the resulting
	// ray direction should be purely along Z.
	if math.Abs(float64(ray.Direction.X)) > 1e-4 || math.Abs(float64(ray.Direction.Y)) > 1e-4 {
		t.Errorf("ray.Direction = %v, want a ray pointing straight along Z", ray.Direction)
	}
}

func TestPickHitsShapeOnZAxisThroughOrigin(t *testing.T) {
	shapes := BuildTranslateShapes()
	var identity [16]float32
	mathx.Identity(identity[:])

	// A ray straight down -Z through the origin crosses the translate_z
	// arrow's cone base and the center sphere; Pick must report a hit.
	ray := mathx.Ray{Origin: mathx.Vec3{X: 0, Y: 0, Z: 5}, Direction: mathx.Vec3{Z: -1}}
	hit, ok := Pick(ray, shapes, identity, 1)
	if !ok {
		t.Fatal("expected Pick to hit something along the Z axis through the origin")
	}
	if hit.Shape == nil {
		t.Fatal("Hit.Shape is nil")
	}
}

func TestPickMisses(t *testing.T) {
	shapes := BuildTranslateShapes()
	var identity [16]float32
	mathx.Identity(identity[:])

	// A ray far off to the side of every shape should miss.
	ray := mathx.Ray{Origin: mathx.Vec3{X: 1000, Y: 1000, Z: 1000}, Direction: mathx.Vec3{X: 1}}
	_, ok := Pick(ray, shapes, identity, 1)
	if ok {
		t.Fatal("expected Pick to miss a ray aimed away from every shape")
	}
}

func TestPickSkipsInvisibleShapes(t *testing.T) {
	shapes := BuildTranslateShapes()
	for _, s := range shapes {
		s.Visible = false
	}
	var identity [16]float32
	mathx.Identity(identity[:])

	ray := mathx.Ray{Origin: mathx.Vec3{X: 0, Y: 0, Z: 5}, Direction: mathx.Vec3{Z: -1}}
	_, ok := Pick(ray, shapes, identity, 1)
	if ok {
		t.Fatal("expected Pick to skip every invisible shape")
	}
}

func TestSetHoverMarksCompoundPlaneAxes(t *testing.T) {
	shapes := BuildTranslateShapes()
	var xyPlane *Shape
	for _, s := range shapes {
		if s.Axis == AxisXY {
			xyPlane = s
		}
	}
	if xyPlane == nil {
		t.Fatal("expected an AxisXY plane shape in the translate set")
	}

	setHover(shapes, xyPlane)
	if !xyPlane.hovered {
		t.Error("expected the hit shape itself to be marked hovered")
	}
	for _, s := range shapes {
		if s.Axis == AxisX && !s.hovered {
			t.Error("expected the X arrow to be hovered alongside the XY plane")
		}
		if s.Axis == AxisY && !s.hovered {
			t.Error("expected the Y arrow to be hovered alongside the XY plane")
		}
		if s.Axis == AxisZ && s.hovered {
			t.Error("Z arrow should not be hovered by an XY plane hit")
		}
	}
}
