package gizmo

import (
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

func TestApplyShapeDynamicsHidesEdgeOnArrow(t *testing.T) {
	shapes := BuildTranslateShapes()
	// Looking straight down the X axis, the X arrow is edge-on and should
	// hide; Y and Z stay visible.
	applyShapeDynamics(shapes, mathx.Vec3{X: 1}, false, "", DragVisibilityShow, false)

	for _, s := range shapes {
		switch s.Name {
		case "translate_x":
			if s.Visible {
				t.Error("translate_x should be hidden when view direction is parallel to its axis")
			}
		case "translate_y", "translate_z":
			if !s.Visible {
				t.Errorf("%s should remain visible when view direction is along X", s.Name)
			}
		}
	}
}

func TestApplyShapeDynamicsDragVisibilityHide(t *testing.T) {
	shapes := BuildTranslateShapes()
	applyShapeDynamics(shapes, mathx.Vec3{Z: 1}, true, "translate_x", DragVisibilityHide, false)

	for _, s := range shapes {
		if s.Name == "translate_x" {
			if !s.Visible {
				t.Error("the dragged shape itself should stay visible")
			}
			continue
		}
		if s.Visible {
			t.Errorf("%s should be hidden while another shape is being dragged under DragVisibilityHide", s.Name)
		}
	}
}

func TestApplyShapeDynamicsDragVisibilitySelectedOnly(t *testing.T) {
	shapes := BuildTranslateShapes()
	applyShapeDynamics(shapes, mathx.Vec3{Z: 1}, true, "translate_x", DragVisibilitySelectedOnly, false)

	for _, s := range shapes {
		if s.Name == "translate_x" {
			if s.Disabled {
				t.Error("the dragged shape itself should not be disabled")
			}
			continue
		}
		if !s.Disabled {
			t.Errorf("%s should be disabled while another shape is being dragged under DragVisibilitySelectedOnly", s.Name)
		}
	}
}

func TestApplyShapeDynamicsShowKeepsEverythingEnabled(t *testing.T) {
	shapes := BuildTranslateShapes()
	applyShapeDynamics(shapes, mathx.Vec3{Z: 1}, true, "translate_x", DragVisibilityShow, false)

	for _, s := range shapes {
		if s.Disabled {
			t.Errorf("%s should not be disabled under DragVisibilityShow", s.Name)
		}
	}
}

func TestPlaneWorldBasisIdentity(t *testing.T) {
	u, v := planeWorldBasis(mathx.Vec3{})
	wantU := mathx.Vec3{X: 1}
	wantV := mathx.Vec3{Y: 1}
	if !almostEqualVec3(u, wantU, 1e-5) {
		t.Errorf("u = %v, want %v", u, wantU)
	}
	if !almostEqualVec3(v, wantV, 1e-5) {
		t.Errorf("v = %v, want %v", v, wantV)
	}
}

func TestArcFacingAngleZeroWhenAlignedWithReference(t *testing.T) {
	axis := mathx.Vec3{Z: 1}
	viewDir := mathx.Vec3{X: 1}
	angle := arcFacingAngle(axis, viewDir)
	if angle < -1e-4 || angle > 1e-4 {
		t.Errorf("arcFacingAngle = %v, want ~0 when viewDir matches the derived reference axis", angle)
	}
}
