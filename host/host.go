// Package host wires the splat store, the sort-and-cull engine, the
// rasterizer and the gizmo into a single engine.Renderable, owning the
// per-frame sequencing spec.md requires: compute (sort-and-cull) before
// render (splats, then gizmo).
package host

import (
	"fmt"

	"github.com/arrowforge/gsplat/engine/camera"
	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/gizmo"
	"github.com/arrowforge/gsplat/mathx"
	"github.com/arrowforge/gsplat/splat"
	"github.com/arrowforge/gsplat/splat/raster"
	"github.com/arrowforge/gsplat/splat/sort"
)

// Host is the Renderable that drives one splat cloud and its transform
// gizmo through the engine's frame loop. One Host corresponds to spec.md's
// notion of a single loaded scene; multiple Hosts can be registered as
// separate engine.Renderable scenes for multi-cloud setups, each owning
// its own renderer frame lifecycle only if they don't share one.
type Host interface {
	// Active reports whether the host has splats loaded and should be
	// driven this frame.
	Active() bool

	// Renderer returns the renderer this host was constructed with.
	Renderer() renderer.Renderer

	// PrepareCompute updates the camera, uploads the frame uniform, and
	// dispatches the sort-and-cull pass for the current splat count.
	PrepareCompute(deltaTime float32)

	// DrawCalls issues the splat rasterizer's indirect draw call followed
	// by the gizmo's draw call, in that order, with no depth-buffer
	// resolve between them (both depth-test-always, depth-write-off).
	DrawCalls() error

	// RegisterPipelines creates the sort-and-cull, rasterizer and gizmo
	// render/compute pipelines. Must be called once before Allocate.
	RegisterPipelines() error

	// Allocate sizes the sort-and-cull working set for capacity splats
	// and creates the rasterizer's and gizmo's GPU resources. Must be
	// called once before the first Load; a later Load that exceeds the
	// capacity grows the sort engine itself.
	Allocate(capacity int) error

	// Load uploads a full splat record set and rebinds the rasterizer
	// and sort engine to the store's new buffers. If count exceeds the
	// last Allocate call's capacity, the sort engine is grown
	// automatically.
	Load(records []splat.GPURecord) error

	// LoadCompact uploads a compact (L0-only) splat record set. See
	// Load.
	LoadCompact(records []splat.GPUCompactRecord) error

	// Store returns the splat store this host drives.
	Store() splat.Store

	// Gizmo returns the transform gizmo manipulating the loaded splat
	// cloud as a single rigid body. Rotation and scale pivot about the
	// store's bounding-box center; the gizmo itself is drawn at the
	// target's position, which starts at the world origin, not at the
	// bounding-box center.
	Gizmo() gizmo.Gizmo

	// Camera returns the camera this host renders from.
	Camera() camera.Camera

	// Resize updates the camera's aspect ratio and the host's cached
	// viewport size, used to build pointer-pick rays. Call from the
	// window's resize callback.
	Resize(width, height int)

	// SetMode switches the gizmo's active shape set.
	SetMode(mode gizmo.Mode)

	// PointerMove forwards a pointer move to the gizmo, in pixel
	// coordinates with origin top-left.
	PointerMove(x, y float32)

	// PointerDown forwards a pointer press to the gizmo. Returns true if
	// it hit a shape and began a drag.
	PointerDown(x, y float32) bool

	// PointerUp ends any active gizmo drag.
	PointerUp()

	// Release releases every GPU resource owned by the host: the store,
	// the sort engine, the rasterizer and the gizmo.
	Release()
}

// host is the implementation of Host.
type host struct {
	r   renderer.Renderer
	cam camera.Camera

	store     splat.Store
	sortEng   sort.Engine
	rasterizr raster.Rasterizer
	gz        gizmo.Gizmo

	opacityCutoff float32
	shBands       float32

	viewportWidth, viewportHeight int

	bound bool // true once Load/LoadCompact has run at least once
}

var _ Host = &host{}

// newHost constructs a host with all five GPU-facing components wired up
// but not yet allocated. Only reachable via NewHost and its builder
// options, following this module's constructor-with-functional-options
// convention.
func newHost(r renderer.Renderer, cam camera.Camera, sortShaders sort.EngineShaders, rasterVertex, rasterFragment shader.Shader, gizmoVertex, gizmoFragment shader.Shader, gizmoCfg gizmo.Config) *host {
	return &host{
		r:             r,
		cam:           cam,
		store:         splat.NewStore(r),
		sortEng:       sort.NewEngine(r, sortShaders),
		rasterizr:     raster.NewRasterizer(r, rasterVertex, rasterFragment),
		gz:            gizmo.NewGizmo(r, gizmoVertex, gizmoFragment, gizmoCfg),
		opacityCutoff: 1.0 / 255.0,
		shBands:       3,
	}
}

func (h *host) Active() bool {
	return h.bound && h.store.Count() > 0
}

func (h *host) Renderer() renderer.Renderer {
	return h.r
}

func (h *host) RegisterPipelines() error {
	if err := h.sortEng.RegisterPipelines(); err != nil {
		return err
	}
	if err := h.rasterizr.RegisterPipeline(); err != nil {
		return err
	}
	if err := h.gz.RegisterPipeline(); err != nil {
		return err
	}
	return nil
}

func (h *host) Allocate(capacity int) error {
	if err := h.sortEng.Allocate(capacity); err != nil {
		return fmt.Errorf("host: failed to allocate sort engine: %w", err)
	}
	if err := h.rasterizr.Allocate(); err != nil {
		return fmt.Errorf("host: failed to allocate rasterizer: %w", err)
	}
	if err := h.gz.Allocate(); err != nil {
		return fmt.Errorf("host: failed to allocate gizmo: %w", err)
	}
	return nil
}

func (h *host) Load(records []splat.GPURecord) error {
	if err := h.store.Load(records); err != nil {
		return fmt.Errorf("host: load failed: %w", err)
	}
	return h.bindAfterLoad(len(records))
}

func (h *host) LoadCompact(records []splat.GPUCompactRecord) error {
	if err := h.store.LoadCompact(records); err != nil {
		return fmt.Errorf("host: compact load failed: %w", err)
	}
	return h.bindAfterLoad(len(records))
}

// bindAfterLoad rebinds the sort engine and rasterizer to the store's
// (possibly replaced) GPU buffers, growing the sort engine's working set
// first if the new count exceeds its allocated capacity, then gives the
// gizmo a new splat target whose pivot is the store's bounding-box center
// and whose position starts at the origin.
func (h *host) bindAfterLoad(count int) error {
	if count > h.sortEng.Capacity() {
		if err := h.sortEng.Allocate(count); err != nil {
			return fmt.Errorf("host: failed to grow sort engine: %w", err)
		}
	}
	if err := h.sortEng.BindStore(h.store); err != nil {
		return fmt.Errorf("host: failed to bind store to sort engine: %w", err)
	}
	if err := h.rasterizr.Bind(h.store, h.sortEng); err != nil {
		return fmt.Errorf("host: failed to bind store to rasterizer: %w", err)
	}

	box := h.store.BoundingBox()
	center := box.Center()
	pivot := mathx.Vec3{X: center[0], Y: center[1], Z: center[2]}
	h.gz.SetTarget(gizmo.NewSplatProxyTarget(h.store, pivot))

	h.bound = true
	return nil
}

func (h *host) Store() splat.Store    { return h.store }
func (h *host) Gizmo() gizmo.Gizmo    { return h.gz }
func (h *host) Camera() camera.Camera { return h.cam }

func (h *host) Resize(width, height int) {
	h.viewportWidth, h.viewportHeight = width, height
	if height > 0 {
		h.cam.SetAspect(float32(width) / float32(height))
	}
}

func (h *host) SetMode(mode gizmo.Mode) {
	h.gz.SetMode(mode)
}

func (h *host) cameraPosition() mathx.Vec3 {
	px, py, pz := h.cam.Controller().Position()
	return mathx.Vec3{X: px, Y: py, Z: pz}
}

func (h *host) pickRay(x, y float32) mathx.Ray {
	viewProj := h.cam.ViewProjectionMatrix()
	var inv [16]float32
	mathx.Invert4(inv[:], viewProj[:])
	return gizmo.BuildPickRay(x, y, float32(h.viewportWidth), float32(h.viewportHeight), inv[:], h.cameraPosition())
}

func (h *host) PointerMove(x, y float32) {
	if h.cam.Controller() == nil {
		return
	}
	h.gz.PointerMove(h.pickRay(x, y))
}

func (h *host) PointerDown(x, y float32) bool {
	if h.cam.Controller() == nil {
		return false
	}
	return h.gz.PointerDown(h.pickRay(x, y))
}

func (h *host) PointerUp() {
	h.gz.PointerUp()
}

func (h *host) PrepareCompute(deltaTime float32) {
	if !h.Active() {
		return
	}

	h.cam.Update()
	if h.cam.Controller() == nil {
		return
	}

	camPos := h.cameraPosition()
	u := splat.GPUFrameUniform{
		View:            h.cam.ViewMatrix(),
		Proj:            h.cam.ProjectionMatrix(),
		Model:           h.store.ModelMatrix(),
		CameraPosition:  [3]float32{camPos.X, camPos.Y, camPos.Z},
		FrustumDilation: 0.2,
		ScreenSize:      [2]float32{float32(h.viewportWidth), float32(h.viewportHeight)},
		OpacityCutoff:   h.opacityCutoff,
		SHBands:         h.shBands,
	}
	h.sortEng.UpdateFrameUniform(u)

	if err := h.sortEng.Dispatch(h.store.Count()); err != nil {
		return
	}

	h.gz.Update(camPos, h.cam.Fov())
}

func (h *host) DrawCalls() error {
	if !h.Active() {
		return nil
	}

	if err := h.rasterizr.Draw(h.sortEng); err != nil {
		return err
	}

	view := h.cam.ViewMatrix()
	proj := h.cam.ProjectionMatrix()
	if err := h.gz.Draw(view, proj); err != nil {
		return err
	}
	return nil
}

func (h *host) Release() {
	h.store.Release()
	h.sortEng.Release()
	h.rasterizr.Release()
	h.gz.Release()
}
