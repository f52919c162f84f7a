package common

import "errors"

// Sentinel errors shared across the splat store, sort-and-cull engine,
// rasterizer and gizmo. Compared with errors.Is, never wrapped with
// additional context beyond fmt.Errorf("%w", ...) at the call site.
var (
	// ErrUnsupportedInput covers malformed or unrecognized input that
	// cannot be partially loaded: missing GPU device, ASCII PLY, an
	// unknown scalar type, or a missing "ply"/"end_header" marker.
	ErrUnsupportedInput = errors.New("unsupported input")

	// ErrDegenerateSplat marks a per-splat condition (zero-length
	// quaternion, non-positive scale, NaN mean) that is silently
	// rejected rather than surfaced as a hard failure.
	ErrDegenerateSplat = errors.New("degenerate splat")

	// ErrEmptySet covers zero-splat stores or a frame where every
	// splat was culled; callers treat this as a no-op draw, not a
	// failure.
	ErrEmptySet = errors.New("empty splat set")

	// ErrResourcePressure indicates a store exceeds device limits and
	// had to be downsampled at load time.
	ErrResourcePressure = errors.New("resource pressure")

	// ErrTransientPointerState covers a dropped pointer capture or a
	// target change mid-drag; callers discard drag state without
	// rolling back or applying the partial transform.
	ErrTransientPointerState = errors.New("transient pointer state")
)
