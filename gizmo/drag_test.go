package gizmo

import (
	"math"
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

func arrowHit(axis Axis) Hit {
	shapes := BuildTranslateShapes()
	for _, s := range shapes {
		if s.Axis == axis && s.Name == "translate_"+axisName(axis) {
			return Hit{Shape: s}
		}
	}
	panic("no arrow shape for axis")
}

func TestBeginAndApplyTranslateSingleAxis(t *testing.T) {
	hit := arrowHit(AxisX)
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})

	origin := mathx.Vec3{}
	viewDir := mathx.Vec3{Z: 1}
	downRay := mathx.Ray{Origin: mathx.Vec3{X: 0, Y: 0, Z: 5}, Direction: mathx.Vec3{Z: -1}}

	ds := beginDrag(hit, ModeTranslate, origin, viewDir, downRay, target)
	if !ds.active {
		t.Fatal("beginDrag should mark the drag state active")
	}
	if !hit.Shape.dragging {
		t.Error("beginDrag should set the hit shape's dragging flag")
	}

	// Move the ray 2 units along +X at the same plane depth.
	moveRay := mathx.Ray{Origin: mathx.Vec3{X: 2, Y: 0, Z: 5}, Direction: mathx.Vec3{Z: -1}}
	updateDrag(ds, moveRay, ModeTranslate, origin, target, CoordSpaceWorld, 0)

	pos := target.Position()
	if math.Abs(float64(pos.X-2)) > 1e-3 {
		t.Errorf("target.Position().X = %v, want ~2 after a +2 X-axis drag", pos.X)
	}
	if math.Abs(float64(pos.Y)) > 1e-3 || math.Abs(float64(pos.Z)) > 1e-3 {
		t.Errorf("single-axis translate leaked into Y/Z: %v", pos)
	}
}

func TestApplyTranslateSnapsToIncrement(t *testing.T) {
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	ds := &dragState{startPoint: mathx.Vec3{}, snapPosition: mathx.Vec3{}}
	axis := Axis(AxisX)

	applyTranslate(ds, mathx.Vec3{X: 1.2}, axis, target, CoordSpaceWorld, 0.5)

	pos := target.Position()
	if math.Abs(float64(pos.X-1.0)) > 1e-4 {
		t.Errorf("snapped X = %v, want 1.0 (nearest 0.5 increment below 1.2)", pos.X)
	}
}

func TestApplyRotateComposesDeltaAfterSnapshot(t *testing.T) {
	// Rotating 90 degrees about Z, starting from a 90-degree rotation about
	// X, must compose as start-then-delta: start.Mul(delta), i.e. delta
	// applied in world space on top of the snapshot, not the reverse.
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{X: float32(math.Pi / 2)}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	ds := &dragState{
		snapRotation: mathx.Vec3{X: float32(math.Pi / 2)},
		planeNormal:  mathx.Vec3{Z: 1},
	}

	origin := mathx.Vec3{}
	startPoint := mathx.Vec3{X: 1}
	ds.startPoint = startPoint
	movedPoint := mathx.Vec3{Y: 1}

	applyRotate(ds, movedPoint, origin, AxisZ, "rotate_z", target, 0)

	start := mathx.QuatFromEuler(float32(math.Pi/2), 0, 0)
	delta := mathx.AxisAngle(mathx.Vec3{Z: 1}, float32(math.Pi/2))
	want := start.Mul(delta)
	wantX, wantY, wantZ := want.Euler()

	got := target.Rotation()
	if math.Abs(float64(got.X-wantX)) > 1e-3 || math.Abs(float64(got.Y-wantY)) > 1e-3 || math.Abs(float64(got.Z-wantZ)) > 1e-3 {
		t.Errorf("applyRotate produced %v, want the start-then-delta composition %v", got, mathx.Vec3{X: wantX, Y: wantY, Z: wantZ})
	}
}

func TestApplyScaleSingleAxisClampsPositive(t *testing.T) {
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	ds := &dragState{startPoint: mathx.Vec3{}, snapScale: mathx.Vec3{X: 1, Y: 1, Z: 1}}

	// A large negative drag along X should clamp the scale factor floor
	// rather than go negative.
	applyScale(ds, mathx.Vec3{X: -10}, AxisX, target)
	s := target.Scale()
	if s.X <= 0 {
		t.Errorf("applyScale allowed a non-positive X scale: %v", s.X)
	}
	if s.Y != 1 || s.Z != 1 {
		t.Errorf("single-axis scale leaked into Y/Z: %v", s)
	}
}

func TestEndDragClearsState(t *testing.T) {
	hit := arrowHit(AxisY)
	hit.Shape.dragging = true
	ds := &dragState{active: true, shape: hit.Shape}

	endDrag(ds)
	if ds.active {
		t.Error("endDrag should clear active")
	}
	if hit.Shape.dragging {
		t.Error("endDrag should clear the shape's dragging flag")
	}
}

func TestSnapf(t *testing.T) {
	cases := []struct{ v, inc, want float32 }{
		{1.2, 0.5, 1.0},
		{1.3, 0.5, 1.5},
		{-1.2, 0.5, -1.0},
		{5, 0, 5}, // increment <= 0 disables snapping
	}
	for _, c := range cases {
		got := snapf(c.v, c.inc)
		if math.Abs(float64(got-c.want)) > 1e-5 {
			t.Errorf("snapf(%v, %v) = %v, want %v", c.v, c.inc, got, c.want)
		}
	}
}
