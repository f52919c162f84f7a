package mathx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quat wraps mgl32.Quat so callers outside this package never need to import
// mathgl directly. Composition, normalization and double-cover handling are
// delegated to mathgl rather than re-implemented.
type Quat struct {
	mgl32.Quat
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return Quat{mgl32.QuatIdent()}
}

// QuatFromEuler builds a quaternion from Euler angles (radians), composed in
// the same Y*X*Z order BuildModelMatrix uses.
func QuatFromEuler(rx, ry, rz float32) Quat {
	qy := mgl32.QuatRotate(ry, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(rx, mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(rz, mgl32.Vec3{0, 0, 1})
	return Quat{qy.Mul(qx).Mul(qz)}
}

// Euler extracts Y*X*Z Euler angles (radians) from q, matching
// QuatFromEuler's composition order.
func (q Quat) Euler() (rx, ry, rz float32) {
	m := q.Normalize().Mat4()
	// m is column-major; indices follow the same layout BuildModelMatrix
	// produces for a pure-rotation matrix (no scale).
	sx := -m[9] // -R[2][1]
	sx = clamp(sx, -1, 1)
	rx = float32(math.Asin(float64(sx)))

	if math.Abs(float64(sx)) < 0.999999 {
		ry = float32(math.Atan2(float64(m[8]), float64(m[10])))
		rz = float32(math.Atan2(float64(m[1]), float64(m[5])))
	} else {
		// Gimbal lock: pitch is +-90deg, collapse yaw/roll into a single DOF.
		ry = float32(math.Atan2(float64(-m[2]), float64(m[0])))
		rz = 0
	}
	return rx, ry, rz
}

// Normalize returns a unit-length copy of q.
func (q Quat) Normalize() Quat {
	return Quat{q.Quat.Normalize()}
}

// Mul composes q then o: result rotates by q first, then by o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{o.Quat.Mul(q.Quat)}
}

// Mat4 returns the column-major 4x4 rotation matrix equivalent of q.
func (q Quat) Mat4() []float32 {
	m := q.Normalize().Quat.Mat4()
	out := make([]float32, 16)
	copy(out, m[:])
	return out
}

// RotateVec3 rotates v by q.
func (q Quat) RotateVec3(v Vec3) Vec3 {
	r := q.Quat.Rotate(mgl32.Vec3{v.X, v.Y, v.Z})
	return Vec3{r[0], r[1], r[2]}
}

// AxisAngle builds a quaternion representing a rotation of angle radians
// around axis (which need not be normalized).
func AxisAngle(axis Vec3, angle float32) Quat {
	a := axis.Normalize()
	return Quat{mgl32.QuatRotate(angle, mgl32.Vec3{a.X, a.Y, a.Z})}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
