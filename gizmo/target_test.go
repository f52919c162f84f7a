package gizmo

import (
	"testing"

	"github.com/arrowforge/gsplat/mathx"
)

func TestMeshTargetSetters(t *testing.T) {
	target := NewMeshTarget(mathx.Vec3{X: 1}, mathx.Vec3{Y: 2}, mathx.Vec3{Z: 3})
	if target.Position() != (mathx.Vec3{X: 1}) {
		t.Fatalf("Position() = %v, want {1 0 0}", target.Position())
	}
	target.SetPosition(mathx.Vec3{X: 5, Y: 6, Z: 7})
	if target.Position() != (mathx.Vec3{X: 5, Y: 6, Z: 7}) {
		t.Errorf("SetPosition did not take effect: %v", target.Position())
	}
	target.SetRotation(mathx.Vec3{X: 0.1})
	if target.Rotation() != (mathx.Vec3{X: 0.1}) {
		t.Errorf("SetRotation did not take effect: %v", target.Rotation())
	}
	target.SetScale(mathx.Vec3{X: 2, Y: 2, Z: 2})
	if target.Scale() != (mathx.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("SetScale did not take effect: %v", target.Scale())
	}
}

func TestCompositeTargetDistributesPositionByOffset(t *testing.T) {
	a := NewMeshTarget(mathx.Vec3{X: 0}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	b := NewMeshTarget(mathx.Vec3{X: 10}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})

	composite := NewCompositeTarget([]Target{a, b})
	if composite.Position() != (mathx.Vec3{X: 0}) {
		t.Fatalf("composite pivot = %v, want member a's initial position", composite.Position())
	}

	composite.SetPosition(mathx.Vec3{X: 5})
	if a.Position() != (mathx.Vec3{X: 5}) {
		t.Errorf("member a = %v, want {5 0 0} (offset 0 from pivot)", a.Position())
	}
	if b.Position() != (mathx.Vec3{X: 15}) {
		t.Errorf("member b = %v, want {15 0 0} (offset 10 from pivot)", b.Position())
	}
}

func TestCompositeTargetBroadcastsRotationAndScale(t *testing.T) {
	a := NewMeshTarget(mathx.Vec3{}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	b := NewMeshTarget(mathx.Vec3{X: 1}, mathx.Vec3{}, mathx.Vec3{X: 1, Y: 1, Z: 1})
	composite := NewCompositeTarget([]Target{a, b})

	composite.SetRotation(mathx.Vec3{Y: 1.5})
	if a.Rotation() != (mathx.Vec3{Y: 1.5}) || b.Rotation() != (mathx.Vec3{Y: 1.5}) {
		t.Errorf("rotation not broadcast to all members: a=%v b=%v", a.Rotation(), b.Rotation())
	}

	composite.SetScale(mathx.Vec3{X: 2, Y: 2, Z: 2})
	if a.Scale() != (mathx.Vec3{X: 2, Y: 2, Z: 2}) || b.Scale() != (mathx.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("scale not broadcast to all members: a=%v b=%v", a.Scale(), b.Scale())
	}
}

func TestCompositeTargetEmpty(t *testing.T) {
	composite := NewCompositeTarget(nil)
	if composite.Position() != (mathx.Vec3{}) {
		t.Errorf("empty composite Position() = %v, want zero value", composite.Position())
	}
}
