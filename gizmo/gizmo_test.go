package gizmo

import (
	"math"
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

// newTestGizmo builds a Gizmo with no renderer/shaders bound, exercising only
// the CPU-side mode/target/pick/drag logic — RegisterPipeline, Allocate,
// Draw and Release all require a live renderer.Renderer and are left
// untested, matching this module's GPU-boundary test scope.
func newTestGizmo() *gizmo {
	g := NewGizmo(nil, nil, nil, Config{CoordSpace: CoordSpaceWorld})
	return g.(*gizmo)
}

func TestNewGizmoStartsInTranslateModeWithNoTarget(t *testing.T) {
	g := newTestGizmo()
	if g.Mode() != ModeTranslate {
		t.Errorf("Mode() = %v, want ModeTranslate", g.Mode())
	}
	if g.Target() != nil {
		t.Error("Target() should start nil")
	}
	if g.Dragging() {
		t.Error("Dragging() should start false")
	}
}

// centerSphereRay aims straight down -Z through the gizmo origin, matching
// pick_test.go's TestPickHitsShapeOnZAxisThroughOrigin: the ray threads the
// center of the translate_center sphere and the translate_z arrow, so some
// shape is hit regardless of the (scale-dependent) sizes.
func centerSphereRay() mathx.Ray {
	return mathx.Ray{Origin: mathx.Vec3{X: 0, Y: 0, Z: 5}, Direction: mathx.Vec3{Z: -1}}
}

func TestSetModeSwapsShapesAndEndsAnyDrag(t *testing.T) {
	g := newTestGizmo()
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	g.SetTarget(target)

	if !g.PointerDown(centerSphereRay()) {
		t.Fatal("PointerDown should hit a shape on the ray through the origin")
	}
	if !g.Dragging() {
		t.Fatal("PointerDown should start a drag")
	}

	g.SetMode(ModeRotate)
	if g.Dragging() {
		t.Error("SetMode should end any in-progress drag")
	}
	if g.Mode() != ModeRotate {
		t.Errorf("Mode() = %v, want ModeRotate", g.Mode())
	}
	for _, s := range g.shapes {
		if s.Name == "translate_x" {
			t.Error("shapes should be replaced by SetMode, not reused from the prior mode")
		}
	}
}

func TestSetTargetRecentersOrigin(t *testing.T) {
	g := newTestGizmo()
	target := NewMeshTarget(mathx.Vec3{X: 3, Y: 4, Z: 5}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	g.SetTarget(target)
	if g.origin != (mathx.Vec3{X: 3, Y: 4, Z: 5}) {
		t.Errorf("origin = %v, want the target's position", g.origin)
	}
}

func TestUpdateScalesWithDistanceAndFloorsAtMinimum(t *testing.T) {
	g := newTestGizmo()
	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	g.SetTarget(target)

	g.Update(mathx.Vec3{Z: 100}, float32(math.Pi/2))
	farScale := g.scale

	g.Update(mathx.Vec3{Z: 0.0001}, float32(math.Pi/2))
	nearScale := g.scale

	if farScale <= nearScale {
		t.Errorf("farScale (%v) should exceed nearScale (%v)", farScale, nearScale)
	}
	if nearScale < minScreenScale {
		t.Errorf("scale %v fell below the floor %v", nearScale, minScreenScale)
	}
}

func TestPointerDownRequiresATarget(t *testing.T) {
	g := newTestGizmo()
	if g.PointerDown(centerSphereRay()) {
		t.Error("PointerDown should report no hit when no target is bound")
	}
}

func TestPointerUpEndsDragAndIsSafeWithoutOne(t *testing.T) {
	g := newTestGizmo()
	g.PointerUp() // no active drag: must not panic

	target := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	g.SetTarget(target)
	g.PointerDown(centerSphereRay())
	if !g.Dragging() {
		t.Fatal("expected an active drag before PointerUp")
	}
	g.PointerUp()
	if g.Dragging() {
		t.Error("PointerUp should clear the active drag")
	}
}

func TestSnapForModeRespectsSnapEnabled(t *testing.T) {
	g := NewGizmo(nil, nil, nil, Config{SnapEnabled: false, SnapIncrement: 0.5}).(*gizmo)
	if got := g.snapForMode(); got != 0 {
		t.Errorf("snapForMode() = %v, want 0 when SnapEnabled is false", got)
	}

	g2 := NewGizmo(nil, nil, nil, Config{SnapEnabled: true, SnapIncrement: 0.5}).(*gizmo)
	if got := g2.snapForMode(); got != 0.5 {
		t.Errorf("snapForMode() = %v, want 0.5 when SnapEnabled is true", got)
	}
}

func TestNewGizmoClampsNegativeSnapIncrement(t *testing.T) {
	g := NewGizmo(nil, nil, nil, Config{SnapEnabled: true, SnapIncrement: -1}).(*gizmo)
	if g.cfg.SnapIncrement != 0 {
		t.Errorf("SnapIncrement = %v, want clamped to 0", g.cfg.SnapIncrement)
	}
}
