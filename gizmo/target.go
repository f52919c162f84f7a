package gizmo

import (
	"github.com/arrowforge/gsplat/mathx"
	"github.com/arrowforge/gsplat/splat"
)

// Target is the capability the gizmo manipulates: a position, rotation
// (Euler radians) and scale, each independently settable. Anything that can
// expose these nine numbers can be driven by the gizmo without it knowing
// the concrete type underneath.
type Target interface {
	Position() mathx.Vec3
	Rotation() mathx.Vec3
	Scale() mathx.Vec3

	SetPosition(p mathx.Vec3)
	SetRotation(r mathx.Vec3)
	SetScale(s mathx.Vec3)
}

// meshTarget is a Target over plain position/rotation/scale fields, the
// direct-fields case spec.md calls a "mesh instance".
type meshTarget struct {
	position mathx.Vec3
	rotation mathx.Vec3
	scale    mathx.Vec3
}

// NewMeshTarget creates a Target backed by independent position/rotation/
// scale fields, suitable for driving a single mesh instance's transform.
func NewMeshTarget(position, rotation, scale mathx.Vec3) Target {
	return &meshTarget{position: position, rotation: rotation, scale: scale}
}

func (t *meshTarget) Position() mathx.Vec3 { return t.position }
func (t *meshTarget) Rotation() mathx.Vec3 { return t.rotation }
func (t *meshTarget) Scale() mathx.Vec3    { return t.scale }

func (t *meshTarget) SetPosition(p mathx.Vec3) { t.position = p }
func (t *meshTarget) SetRotation(r mathx.Vec3) { t.rotation = r }
func (t *meshTarget) SetScale(s mathx.Vec3)    { t.scale = s }

// splatProxyTarget is a Target that recomposes a splat.Store's model matrix
// on every setter call, letting the gizmo manipulate an entire splat cloud
// as if it were a single rigid body.
type splatProxyTarget struct {
	store    splat.Store
	position mathx.Vec3
	rotation mathx.Vec3
	scale    mathx.Vec3
	pivot    mathx.Vec3
}

// NewSplatProxyTarget creates a Target that drives store's model matrix.
// pivot is the point (in the store's local space) rotation and scale are
// applied about.
func NewSplatProxyTarget(store splat.Store, pivot mathx.Vec3) Target {
	t := &splatProxyTarget{
		store: store,
		scale: mathx.Vec3{X: 1, Y: 1, Z: 1},
		pivot: pivot,
	}
	t.apply()
	return t
}

func (t *splatProxyTarget) Position() mathx.Vec3 { return t.position }
func (t *splatProxyTarget) Rotation() mathx.Vec3 { return t.rotation }
func (t *splatProxyTarget) Scale() mathx.Vec3    { return t.scale }

func (t *splatProxyTarget) SetPosition(p mathx.Vec3) {
	t.position = p
	t.apply()
}

func (t *splatProxyTarget) SetRotation(r mathx.Vec3) {
	t.rotation = r
	t.apply()
}

func (t *splatProxyTarget) SetScale(s mathx.Vec3) {
	t.scale = s
	t.apply()
}

func (t *splatProxyTarget) apply() {
	t.store.SetModelMatrix(
		t.position.X, t.position.Y, t.position.Z,
		t.rotation.X, t.rotation.Y, t.rotation.Z,
		t.scale.X, t.scale.Y, t.scale.Z,
		t.pivot.X, t.pivot.Y, t.pivot.Z,
	)
}

// compositeTarget groups several Targets under one pivot: every setter call
// broadcasts to all members. Positions keep each member's offset from the
// pivot at formation time; rotation and scale are set to the same value on
// every member.
type compositeTarget struct {
	members  []Target
	offsets  []mathx.Vec3 // each member's initial offset from the pivot
	position mathx.Vec3
	rotation mathx.Vec3
	scale    mathx.Vec3
}

// NewCompositeTarget groups members under a common pivot, the aggregate's
// initial position. Rotation and scale apply uniformly to every member;
// position changes are distributed by each member's fixed offset from the
// pivot at formation time.
func NewCompositeTarget(members []Target) Target {
	if len(members) == 0 {
		return &compositeTarget{}
	}
	pivot := members[0].Position()
	offsets := make([]mathx.Vec3, len(members))
	for i, m := range members {
		offsets[i] = m.Position().Sub(pivot)
	}
	return &compositeTarget{
		members:  members,
		offsets:  offsets,
		position: pivot,
		scale:    mathx.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func (t *compositeTarget) Position() mathx.Vec3 { return t.position }
func (t *compositeTarget) Rotation() mathx.Vec3 { return t.rotation }
func (t *compositeTarget) Scale() mathx.Vec3    { return t.scale }

func (t *compositeTarget) SetPosition(p mathx.Vec3) {
	t.position = p
	for i, m := range t.members {
		m.SetPosition(p.Add(t.offsets[i]))
	}
}

func (t *compositeTarget) SetRotation(r mathx.Vec3) {
	t.rotation = r
	for _, m := range t.members {
		m.SetRotation(r)
	}
}

func (t *compositeTarget) SetScale(s mathx.Vec3) {
	t.scale = s
	for _, m := range t.members {
		m.SetScale(s)
	}
}

// BoundingBox returns the aggregate axis-aligned box over every member's
// position, used to frame the gizmo's origin sensibly for a multi-object
// selection. It does not account for each member's own extent.
func (t *compositeTarget) BoundingBox() splat.BoundingBox {
	if len(t.members) == 0 {
		return splat.BoundingBox{}
	}
	first := t.members[0].Position()
	box := splat.BoundingBox{Min: [3]float32{first.X, first.Y, first.Z}, Max: [3]float32{first.X, first.Y, first.Z}}
	for _, m := range t.members[1:] {
		p := m.Position()
		if p.X < box.Min[0] {
			box.Min[0] = p.X
		}
		if p.Y < box.Min[1] {
			box.Min[1] = p.Y
		}
		if p.Z < box.Min[2] {
			box.Min[2] = p.Z
		}
		if p.X > box.Max[0] {
			box.Max[0] = p.X
		}
		if p.Y > box.Max[1] {
			box.Max[1] = p.Y
		}
		if p.Z > box.Max[2] {
			box.Max[2] = p.Z
		}
	}
	return box
}
