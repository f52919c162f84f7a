// Package gizmo implements the 3D transform handle: a mode-switchable set
// of pickable shapes (translate/rotate/scale) that drag a Target's
// position, rotation or scale, scaled to a constant fraction of the
// viewport regardless of camera distance.
package gizmo

import (
	"math"

	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/mathx"
)

// screenScaleFactor is the fraction of the viewport (via tan(fov/2) ·
// distance) the gizmo occupies.
const screenScaleFactor = 0.3

// minScreenScale floors the screen-space scale so the gizmo never shrinks
// to nothing as the camera approaches the origin.
const minScreenScale = 0.01

// Config groups the construction-time choices a Gizmo needs that don't
// change per frame.
type Config struct {
	CoordSpace     CoordSpace
	SnapEnabled    bool
	SnapIncrement  float32 // world units for translate/scale, degrees for rotate
	FlipPlanes     bool
	DragVisibility DragVisibilityPolicy
}

// Gizmo is a mode-switchable 3D manipulation handle driving a Target.
type Gizmo interface {
	// SetMode switches the active shape set.
	SetMode(mode Mode)
	Mode() Mode

	// SetTarget binds the gizmo to a new target, recentering its origin at
	// the target's current position.
	SetTarget(target Target)
	Target() Target

	// Update recomputes the screen-space scale and shape dynamics for the
	// current camera state. Must be called once per frame before picking
	// or rendering.
	Update(cameraPosition mathx.Vec3, fovYRadians float32)

	// PointerMove runs the hover pick (when not dragging) or updates the
	// active drag (when dragging).
	PointerMove(ray mathx.Ray)

	// PointerDown attempts to begin a drag at the given ray. Returns true
	// if a shape was hit and a drag started.
	PointerDown(ray mathx.Ray) bool

	// PointerUp ends any active drag.
	PointerUp()

	// Dragging reports whether a drag is currently in progress.
	Dragging() bool

	// RegisterPipeline creates the gizmo's render pipeline.
	RegisterPipeline() error

	// Allocate creates the gizmo's GPU-side bind group and mesh provider.
	Allocate() error

	// Draw uploads this frame's tessellated shapes and records the draw
	// call using the given view/projection pair.
	Draw(view, proj [16]float32) error

	// Release releases all GPU resources held by the gizmo.
	Release()
}

type gizmo struct {
	cfg Config

	mode   Mode
	shapes []*Shape
	target Target

	origin mathx.Vec3
	scale  float32

	dragging *dragState

	render *renderState
}

var _ Gizmo = &gizmo{}

// NewGizmo creates a Gizmo in translate mode with no target bound.
func NewGizmo(r renderer.Renderer, vertexShader, fragmentShader shader.Shader, cfg Config) Gizmo {
	if cfg.SnapIncrement < 0 {
		cfg.SnapIncrement = 0
	}
	g := &gizmo{
		cfg:    cfg,
		mode:   ModeTranslate,
		shapes: BuildTranslateShapes(),
		scale:  minScreenScale,
		render: newRenderState(r, vertexShader, fragmentShader),
	}
	return g
}

func (g *gizmo) SetMode(mode Mode) {
	if g.dragging != nil {
		endDrag(g.dragging)
		g.dragging = nil
	}
	g.mode = mode
	g.shapes = ShapesForMode(mode)
}

func (g *gizmo) Mode() Mode { return g.mode }

func (g *gizmo) SetTarget(target Target) {
	g.target = target
	if target != nil {
		g.origin = target.Position()
	}
}

func (g *gizmo) Target() Target { return g.target }

func (g *gizmo) Update(cameraPosition mathx.Vec3, fovYRadians float32) {
	if g.target != nil {
		g.origin = g.target.Position()
	}

	dist := cameraPosition.Sub(g.origin).Length()
	scale := float32(math.Tan(float64(fovYRadians/2))) * dist * screenScaleFactor
	if scale < minScreenScale {
		scale = minScreenScale
	}
	g.scale = scale

	viewDir := cameraPosition.Sub(g.origin).Normalize()
	draggedName := ""
	dragging := g.dragging != nil
	if dragging {
		draggedName = g.dragging.shape.Name
	}
	applyShapeDynamics(g.shapes, viewDir, dragging, draggedName, g.cfg.DragVisibility, g.cfg.FlipPlanes)
}

func (g *gizmo) parentMatrix() [16]float32 {
	var m [16]float32
	mathx.Identity(m[:])
	m[12], m[13], m[14] = g.origin.X, g.origin.Y, g.origin.Z
	return m
}

func (g *gizmo) PointerMove(ray mathx.Ray) {
	if g.dragging != nil {
		updateDrag(g.dragging, ray, g.mode, g.origin, g.target, g.cfg.CoordSpace, g.snapForMode())
		return
	}
	hit, ok := Pick(ray, g.shapes, g.parentMatrix(), g.scale)
	if ok {
		setHover(g.shapes, hit.Shape)
	} else {
		setHover(g.shapes, nil)
	}
}

func (g *gizmo) PointerDown(ray mathx.Ray) bool {
	if g.target == nil {
		return false
	}
	hit, ok := Pick(ray, g.shapes, g.parentMatrix(), g.scale)
	if !ok {
		return false
	}
	cameraViewDir := ray.Direction.Scale(-1)
	g.dragging = beginDrag(hit, g.mode, g.origin, cameraViewDir, ray, g.target)
	return true
}

func (g *gizmo) PointerUp() {
	if g.dragging == nil {
		return
	}
	endDrag(g.dragging)
	g.dragging = nil
}

func (g *gizmo) Dragging() bool {
	return g.dragging != nil
}

func (g *gizmo) snapForMode() float32 {
	if !g.cfg.SnapEnabled {
		return 0
	}
	return g.cfg.SnapIncrement
}

func (g *gizmo) RegisterPipeline() error {
	return g.render.registerPipeline()
}

func (g *gizmo) Allocate() error {
	return g.render.allocate()
}

func (g *gizmo) Draw(view, proj [16]float32) error {
	g.render.writeFrameUniform(view, proj)
	if err := g.render.tessellateAndUpload(g.shapes, g.parentMatrix(), g.scale); err != nil {
		return err
	}
	return g.render.draw()
}

func (g *gizmo) Release() {
	g.render.release()
}
