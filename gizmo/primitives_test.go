package gizmo

import (
	"math"
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

func triCount(tris []mathx.Vec3) int { return len(tris) / 3 }

func TestAppendCylinderProducesTwoTrianglesPerSegment(t *testing.T) {
	segments := 8
	tris := appendCylinder(nil, 1, 2, segments)
	if got, want := triCount(tris), segments*2; got != want {
		t.Errorf("triCount = %d, want %d", got, want)
	}
	// every vertex sits on the cylinder wall: radius 1, z in {0, 2}.
	for i, v := range tris {
		r := math.Hypot(float64(v.X), float64(v.Y))
		if math.Abs(r-1) > 1e-4 {
			t.Errorf("vertex %d radius = %v, want 1", i, r)
		}
		if v.Z != 0 && v.Z != 2 {
			t.Errorf("vertex %d Z = %v, want 0 or 2", i, v.Z)
		}
	}
}

func TestAppendCylinderMinSegments(t *testing.T) {
	tris := appendCylinder(nil, 1, 1, 1)
	if got, want := triCount(tris), 3*2; got != want {
		t.Errorf("triCount with segments<3 = %d, want %d (floored to 3)", got, want)
	}
}

func TestAppendConeApexAtHeight(t *testing.T) {
	tris := appendCone(nil, 1, 3, 6)
	apex := mathx.Vec3{X: 0, Y: 0, Z: 3}
	found := false
	for _, v := range tris {
		if v == apex {
			found = true
			break
		}
	}
	if !found {
		t.Error("appendCone did not include the apex vertex at z=height")
	}
}

func TestAppendBoxHasTwelveTriangles(t *testing.T) {
	tris := appendBox(nil, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	if got, want := triCount(tris), 12; got != want {
		t.Errorf("triCount = %d, want %d (6 faces * 2 tris)", got, want)
	}
	for _, v := range tris {
		if math.Abs(float64(v.X)) > 1+1e-5 || math.Abs(float64(v.Y)) > 1+1e-5 || math.Abs(float64(v.Z)) > 1+1e-5 {
			t.Errorf("vertex %v exceeds the box half-extent of 1", v)
		}
	}
}

func TestAppendBoxOffsetByCenter(t *testing.T) {
	center := mathx.Vec3{X: 5, Y: 0, Z: 0}
	tris := appendBox(nil, center, mathx.Vec3{X: 1, Y: 1, Z: 1})
	for _, v := range tris {
		if v.X < 3.9 || v.X > 6.1 {
			t.Errorf("vertex %v not translated around center %v", v, center)
		}
	}
}

func TestAppendPlaneQuadSpansSizeInXYPlane(t *testing.T) {
	tris := appendPlaneQuad(nil, 2)
	if got, want := triCount(tris), 2; got != want {
		t.Errorf("triCount = %d, want %d", got, want)
	}
	for _, v := range tris {
		if v.Z != 0 {
			t.Errorf("plane quad vertex %v has nonzero Z", v)
		}
		if v.X < 0 || v.X > 2 || v.Y < 0 || v.Y > 2 {
			t.Errorf("plane quad vertex %v out of [0,2] range", v)
		}
	}
}

func TestAppendSphereVerticesOnRadius(t *testing.T) {
	tris := appendSphere(nil, 2, 4, 6)
	for i, v := range tris {
		r := math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z))
		if math.Abs(r-2) > 1e-4 {
			t.Errorf("vertex %d radius = %v, want 2", i, r)
		}
	}
}

func TestAppendSphereMinStacksSlices(t *testing.T) {
	tris := appendSphere(nil, 1, 0, 1)
	if len(tris) == 0 {
		t.Fatal("appendSphere with degenerate stacks/slices produced no geometry")
	}
}

func TestAppendAnnulusArcStaysWithinRadiiAndAngleRange(t *testing.T) {
	tris := appendAnnulusArc(nil, 1, 2, 0, float32(math.Pi/2), 4)
	if got, want := triCount(tris), 4*2; got != want {
		t.Errorf("triCount = %d, want %d", got, want)
	}
	for _, v := range tris {
		r := math.Hypot(float64(v.X), float64(v.Y))
		if r < 1-1e-4 || r > 2+1e-4 {
			t.Errorf("vertex %v radius %v outside [1,2]", v, r)
		}
		angle := math.Atan2(float64(v.Y), float64(v.X))
		if angle < -1e-4 || angle > math.Pi/2+1e-4 {
			t.Errorf("vertex %v angle %v outside [0, pi/2]", v, angle)
		}
	}
}
