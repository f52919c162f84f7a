package gizmo

import (
	"math"

	"github.com/arrowforge/gsplat/mathx"
)

// Mode selects the active shape set: translate, rotate or scale.
type Mode int

const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

// Axis names a single world axis or axis pair the shape manipulates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisXY
	AxisYZ
	AxisXZ
	AxisXYZ
)

// IsPlane reports whether axis names a two-axis plane handle.
func (a Axis) IsPlane() bool {
	return a == AxisXY || a == AxisYZ || a == AxisXZ
}

// Vec3 returns the unit direction(s) axis represents, used by drag-plane and
// transform math. For a single axis this is the corresponding basis vector;
// for a plane it is the plane's normal; for AxisXYZ it is the zero vector
// (no single meaningful direction).
func (a Axis) Vec3() mathx.Vec3 {
	switch a {
	case AxisX:
		return mathx.Vec3{X: 1}
	case AxisY:
		return mathx.Vec3{Y: 1}
	case AxisZ:
		return mathx.Vec3{Z: 1}
	case AxisXY:
		return mathx.Vec3{Z: 1} // normal of the XY plane
	case AxisYZ:
		return mathx.Vec3{X: 1} // normal of the YZ plane
	case AxisXZ:
		return mathx.Vec3{Y: 1} // normal of the XZ plane
	default:
		return mathx.Vec3{}
	}
}

// Shape is a single gizmo handle: geometry for both rendering and picking,
// colors/alphas for its visual states, and the dynamic fields shape
// dynamics and the drag pipeline mutate each frame.
type Shape struct {
	Name         string
	Axis         Axis
	Priority     int // higher wins during picking; distance decides between equals
	ColorDefault [3]float32
	ColorHover   [3]float32
	ColorDisable [3]float32
	AlphaDefault float32
	AlphaHover   float32

	Visible      bool
	Interactable bool
	Disabled     bool

	// Triangles is the canonical-local-space triangle list (three Vec3 per
	// triangle), built once at shape-set construction.
	Triangles []mathx.Vec3

	// baseEuler is the fixed rotation (radians, Y*X*Z order) mapping the
	// primitive's canonical local +Z axis (or XY-plane normal) onto the
	// shape's world axis.
	baseEuler mathx.Vec3

	// offset is a fixed local-space translation applied before baseEuler,
	// used by corner-anchored plane handles.
	offset mathx.Vec3

	// cornerSign multiplies offset componentwise, flipped per frame by
	// shape dynamics when flip_planes is enabled so a plane handle's
	// corner always faces the camera.
	cornerSign mathx.Vec3

	// dynamicSpin is an additional rotation about the shape's own axis,
	// updated every frame by shape dynamics (rotate-ring camera-facing
	// orientation).
	dynamicSpin float32

	// hovered/dragging are pointer-pipeline state, set by Pick/drag.
	hovered  bool
	dragging bool
}

// Hovered reports whether the pointer is currently over this shape.
func (s *Shape) Hovered() bool { return s.hovered }

// Dragging reports whether this shape is the one currently being dragged.
func (s *Shape) Dragging() bool { return s.dragging }

// currentColor resolves the shape's RGBA color for its current state.
func (s *Shape) currentColor() [4]float32 {
	rgb := s.ColorDefault
	alpha := s.AlphaDefault
	if s.Disabled {
		rgb = s.ColorDisable
	} else if s.hovered || s.dragging {
		rgb = s.ColorHover
		alpha = s.AlphaHover
	}
	return [4]float32{rgb[0], rgb[1], rgb[2], alpha}
}

// LocalMatrix builds this shape's local transform for the given uniform
// gizmo scale: baseEuler rotation (plus dynamicSpin about the shape's axis)
// and a uniform scale, translated by offset*cornerSign turned by baseEuler
// and multiplied by scale.
func (s *Shape) LocalMatrix(scale float32) [16]float32 {
	var m [16]float32
	rz := s.baseEuler.Z + s.dynamicSpin
	sign := s.cornerSign
	if sign == (mathx.Vec3{}) {
		sign = mathx.Vec3{X: 1, Y: 1, Z: 1}
	}
	var rot [16]float32
	mathx.BuildModelMatrix(rot[:], 0, 0, 0, s.baseEuler.X, s.baseEuler.Y, s.baseEuler.Z, 1, 1, 1, 0, 0, 0)
	off := mathx.TransformDirection(rot[:], mathx.Vec3{X: s.offset.X * sign.X, Y: s.offset.Y * sign.Y, Z: s.offset.Z * sign.Z})
	mathx.BuildModelMatrix(m[:],
		off.X*scale, off.Y*scale, off.Z*scale,
		s.baseEuler.X, s.baseEuler.Y, rz,
		scale, scale, scale,
		0, 0, 0,
	)
	return m
}

// axisEuler returns the fixed rotation mapping canonical local +Z (or the
// XY-plane's +Z normal) onto the given axis/plane-normal direction.
func axisEuler(axis Axis) mathx.Vec3 {
	switch axis {
	case AxisX, AxisYZ:
		return mathx.Vec3{Y: math.Pi / 2}
	case AxisY, AxisXZ:
		return mathx.Vec3{X: -math.Pi / 2}
	default: // AxisZ, AxisXY, AxisXYZ
		return mathx.Vec3{}
	}
}

var (
	colorX        = [3]float32{0.85, 0.2, 0.2}
	colorY        = [3]float32{0.2, 0.75, 0.2}
	colorZ        = [3]float32{0.2, 0.35, 0.9}
	colorNeutral  = [3]float32{0.85, 0.85, 0.85}
	colorHover    = [3]float32{0.95, 0.85, 0.1}
	colorDisabled = [3]float32{0.45, 0.45, 0.45}
)

func axisColor(axis Axis) [3]float32 {
	switch axis {
	case AxisX, AxisYZ:
		return colorX
	case AxisY, AxisXZ:
		return colorY
	case AxisZ, AxisXY:
		return colorZ
	default:
		return colorNeutral
	}
}

const (
	arrowShaftRadius = 0.015
	arrowShaftLen    = 0.65
	arrowHeadRadius  = 0.05
	arrowHeadLen     = 0.2
	planeSize        = 0.2
	planeOffset      = 0.3
	centerSphereRad  = 0.08
	arcInnerRadius   = 0.92
	arcOuterRadius   = 1.0
	scaleLineLen     = 0.65
	scaleCapHalf     = 0.045
)

func newArrowShape(axis Axis) *Shape {
	return &Shape{
		Name:         "translate_" + axisName(axis),
		Axis:         axis,
		Priority:     1,
		ColorDefault: axisColor(axis),
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 1,
		AlphaHover:   1,
		Visible:      true,
		Interactable: true,
		Triangles:    translateArrowTriangles(),
		baseEuler:    axisEuler(axis),
	}
}

// translateArrowTriangles builds an arrow as a cylinder shaft capped with a
// cone head; appendCone bases its cone at the local origin, so the head's
// vertices are shifted to sit atop the shaft's tip.
func translateArrowTriangles() []mathx.Vec3 {
	tris := appendCylinder(nil, arrowShaftRadius, arrowShaftLen, defaultSegments)
	coneTris := appendCone(nil, arrowHeadRadius, arrowHeadLen, defaultSegments)
	for _, p := range coneTris {
		p.Z += arrowShaftLen
		tris = append(tris, p)
	}
	return tris
}

func axisName(axis Axis) string {
	switch axis {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisXY:
		return "xy"
	case AxisYZ:
		return "yz"
	case AxisXZ:
		return "xz"
	default:
		return "xyz"
	}
}

func newPlaneShape(axis Axis) *Shape {
	tris := appendPlaneQuad(nil, planeSize)
	return &Shape{
		Name:         "translate_plane_" + axisName(axis),
		Axis:         axis,
		Priority:     2, // planes pick-biased above arrows per spec.md
		ColorDefault: axisColor(axis),
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 0.35,
		AlphaHover:   0.6,
		Visible:      true,
		Interactable: true,
		Triangles:    tris,
		baseEuler:    axisEuler(axis),
		offset:       mathx.Vec3{X: planeOffset, Y: planeOffset},
		cornerSign:   mathx.Vec3{X: 1, Y: 1, Z: 1},
	}
}

func newCenterSphereShape(name string, visible bool) *Shape {
	return &Shape{
		Name:         name,
		Axis:         AxisXYZ,
		Priority:     0,
		ColorDefault: colorNeutral,
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 0.9,
		AlphaHover:   1,
		Visible:      visible,
		Interactable: true,
		Triangles:    appendSphere(nil, centerSphereRad, 8, 12),
	}
}

// BuildTranslateShapes returns the translate-mode shape set: 3 arrows, 3
// planes, 1 center sphere.
func BuildTranslateShapes() []*Shape {
	return []*Shape{
		newArrowShape(AxisX),
		newArrowShape(AxisY),
		newArrowShape(AxisZ),
		newPlaneShape(AxisXY),
		newPlaneShape(AxisYZ),
		newPlaneShape(AxisXZ),
		newCenterSphereShape("translate_center", true),
	}
}

func newRotateArcShape(axis Axis) *Shape {
	tris := appendAnnulusArc(nil, arcInnerRadius, arcOuterRadius, 0, math.Pi, 32)
	return &Shape{
		Name:         "rotate_" + axisName(axis),
		Axis:         axis,
		Priority:     1,
		ColorDefault: axisColor(axis),
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 1,
		AlphaHover:   1,
		Visible:      true,
		Interactable: true,
		Triangles:    tris,
		baseEuler:    axisEuler(axis),
	}
}

func newRotateFaceArcShape() *Shape {
	tris := appendAnnulusArc(nil, arcInnerRadius, arcOuterRadius, 0, 2*math.Pi, 48)
	return &Shape{
		Name:         "rotate_face",
		Axis:         AxisXYZ,
		Priority:     1,
		ColorDefault: colorNeutral,
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 0.8,
		AlphaHover:   1,
		Visible:      true,
		Interactable: true,
		Triangles:    tris,
	}
}

// BuildRotateShapes returns the rotate-mode shape set: 3 half-arcs, 1
// full face-arc, 1 transparent free-rotate center sphere.
func BuildRotateShapes() []*Shape {
	center := newCenterSphereShape("rotate_center", false)
	center.AlphaDefault = 0
	center.AlphaHover = 0.3
	return []*Shape{
		newRotateArcShape(AxisX),
		newRotateArcShape(AxisY),
		newRotateArcShape(AxisZ),
		newRotateFaceArcShape(),
		center,
	}
}

func newScaleLineShape(axis Axis) *Shape {
	var tris []mathx.Vec3
	tris = appendCylinder(tris, arrowShaftRadius, scaleLineLen, defaultSegments)
	cap := appendBox(nil, mathx.Vec3{Z: scaleLineLen}, mathx.Vec3{X: scaleCapHalf, Y: scaleCapHalf, Z: scaleCapHalf})
	tris = append(tris, cap...)
	return &Shape{
		Name:         "scale_" + axisName(axis),
		Axis:         axis,
		Priority:     1,
		ColorDefault: axisColor(axis),
		ColorHover:   colorHover,
		ColorDisable: colorDisabled,
		AlphaDefault: 1,
		AlphaHover:   1,
		Visible:      true,
		Interactable: true,
		Triangles:    tris,
		baseEuler:    axisEuler(axis),
	}
}

// BuildScaleShapes returns the scale-mode shape set: 3 box-capped lines, 1
// center sphere for uniform scale.
func BuildScaleShapes() []*Shape {
	return []*Shape{
		newScaleLineShape(AxisX),
		newScaleLineShape(AxisY),
		newScaleLineShape(AxisZ),
		newCenterSphereShape("scale_center", true),
	}
}

// ShapesForMode returns the shape set for the given mode.
func ShapesForMode(mode Mode) []*Shape {
	switch mode {
	case ModeTranslate:
		return BuildTranslateShapes()
	case ModeRotate:
		return BuildRotateShapes()
	case ModeScale:
		return BuildScaleShapes()
	default:
		return nil
	}
}
