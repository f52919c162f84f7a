package host

import (
	"github.com/arrowforge/gsplat/engine/camera"
	"github.com/arrowforge/gsplat/engine/renderer"
	"github.com/arrowforge/gsplat/engine/renderer/shader"
	"github.com/arrowforge/gsplat/gizmo"
	"github.com/arrowforge/gsplat/splat/sort"
)

// HostBuilderOption is a functional option for configuring a Host.
type HostBuilderOption func(*host)

// WithOpacityCutoff sets the minimum splat opacity the sort-and-cull
// pass's project&cull step keeps. Splats below this are culled before
// reaching the rasterizer. Default 1/255.
func WithOpacityCutoff(cutoff float32) HostBuilderOption {
	return func(h *host) {
		h.opacityCutoff = cutoff
	}
}

// WithSHBands sets how many spherical-harmonics bands the rasterizer
// evaluates (0-3). Default 3 (full quality). Lower values trade
// view-dependent color detail for fragment shader cost; stores loaded via
// LoadCompact only carry the DC term, so pair compact stores with
// WithSHBands(0).
func WithSHBands(bands float32) HostBuilderOption {
	return func(h *host) {
		h.shBands = bands
	}
}

// NewHost creates a Host wiring a splat store, sort-and-cull engine,
// rasterizer and gizmo to the given renderer and camera. Shaders are
// loaded by the caller (via shader.NewShader against the relevant
// assets/*.wgsl files) and passed in here, following this module's
// load-shaders-at-the-edge convention. No GPU resources are allocated
// until RegisterPipelines and Allocate are called.
func NewHost(r renderer.Renderer, cam camera.Camera, sortShaders sort.EngineShaders, rasterVertex, rasterFragment shader.Shader, gizmoVertex, gizmoFragment shader.Shader, gizmoCfg gizmo.Config, options ...HostBuilderOption) Host {
	h := newHost(r, cam, sortShaders, rasterVertex, rasterFragment, gizmoVertex, gizmoFragment, gizmoCfg)
	for _, opt := range options {
		opt(h)
	}
	return h
}
