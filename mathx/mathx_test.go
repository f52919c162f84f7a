package mathx

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestInvert4RoundTrip(t *testing.T) {
	cases := [][3]float32{
		{0.3, -0.7, 1.2},
		{0, 0, 0},
		{10, 10, 10},
	}
	for _, c := range cases {
		var m, inv, product [16]float32
		BuildModelMatrix(m[:], c[0], c[1], c[2], 0.4, 0.9, -0.2, 2, 1.5, 0.5, 0, 0, 0)
		if ok := Invert4(inv[:], m[:]); !ok {
			t.Fatalf("matrix unexpectedly singular for case %v", c)
		}
		Mul4(product[:], m[:], inv[:])
		var identity [16]float32
		Identity(identity[:])
		for i := range product {
			if !almostEqual(product[i], identity[i], 1e-4) {
				t.Fatalf("M * M^-1 != I at index %d: got %v want %v", i, product[i], identity[i])
			}
		}
	}
}

func TestInvert4Singular(t *testing.T) {
	var zero, out [16]float32
	if Invert4(out[:], zero[:]) {
		t.Fatal("expected singular matrix to report false")
	}
}

func TestEulerQuatRoundTrip(t *testing.T) {
	angles := [][3]float32{
		{0, 0, 0},
		{0.2, 0.5, -0.3},
		{1.0, -1.1, 0.4},
		{0.01, 0.01, 0.01},
	}
	for _, a := range angles {
		q := QuatFromEuler(a[0], a[1], a[2])
		rx, ry, rz := q.Euler()
		q2 := QuatFromEuler(rx, ry, rz)

		m1 := q.Mat4()
		m2 := q2.Mat4()
		for i := range m1 {
			if !almostEqual(m1[i], m2[i], 1e-4) {
				t.Fatalf("Euler round-trip mismatch for angles %v at index %d: %v vs %v", a, i, m1[i], m2[i])
			}
		}
	}
}

func TestRayIntersectTriangleCenterHit(t *testing.T) {
	r := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, 1}}
	v0 := Vec3{-1, -1, 0}
	v1 := Vec3{1, -1, 0}
	v2 := Vec3{0, 1, 0}

	tHit, ok := r.IntersectTriangle(v0, v1, v2)
	if !ok {
		t.Fatal("expected a hit")
	}
	if !almostEqual(tHit, 5, 1e-5) {
		t.Fatalf("expected t=5, got %v", tHit)
	}
}

func TestRayIntersectTriangleMiss(t *testing.T) {
	r := Ray{Origin: Vec3{10, 10, -5}, Direction: Vec3{0, 0, 1}}
	v0 := Vec3{-1, -1, 0}
	v1 := Vec3{1, -1, 0}
	v2 := Vec3{0, 1, 0}

	if _, ok := r.IntersectTriangle(v0, v1, v2); ok {
		t.Fatal("expected a miss")
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}.Normalize()
	if !almostEqual(v.Length(), 1, 1e-5) {
		t.Fatalf("expected unit length, got %v", v.Length())
	}
	zero := Vec3{}.Normalize()
	if zero.Length() != 0 {
		t.Fatalf("expected zero vector to normalize to zero, got %v", zero)
	}
}

func TestPerspectiveClipRange(t *testing.T) {
	var p [16]float32
	Perspective(p[:], float32(math.Pi)/3, 16.0/9.0, 0.1, 100)
	if p[11] != -1 {
		t.Fatalf("expected WebGPU perspective convention p[11] == -1, got %v", p[11])
	}
}
