package sort

import "testing"

// TestEncodeDepthKeyOrderingMatchesFloatOrdering checks property #4 (depth
// key monotonicity): for any two view-space depths, the unsigned ordering of
// their encoded keys must match the float ordering of the depths themselves,
// across negative, zero and positive values and across magnitude.
func TestEncodeDepthKeyOrderingMatchesFloatOrdering(t *testing.T) {
	values := []float32{-1000, -50.5, -10, -1, -0.001, 0, 0.001, 1, 10, 50.5, 1000}

	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			a, b := values[i], values[j]
			ka, kb := EncodeDepthKey(a), EncodeDepthKey(b)
			if !(ka < kb) {
				t.Errorf("EncodeDepthKey(%v)=%d should be < EncodeDepthKey(%v)=%d", a, ka, b, kb)
			}
		}
	}
}

func TestEncodeDepthKeyTableOrdering(t *testing.T) {
	cases := []struct {
		name string
		z    float32
	}{
		{"far negative", -500},
		{"near negative", -0.5},
		{"zero", 0},
		{"positive", 2},
	}

	var prevKey uint32
	for i, c := range cases {
		key := EncodeDepthKey(c.z)
		if i > 0 && key <= prevKey {
			t.Errorf("%s: key %d should be strictly greater than the previous case's key %d", c.name, key, prevKey)
		}
		prevKey = key
	}
}

func TestEncodeDepthKeyIsDeterministic(t *testing.T) {
	for _, z := range []float32{-3.14, 0, 7.5} {
		if EncodeDepthKey(z) != EncodeDepthKey(z) {
			t.Errorf("EncodeDepthKey(%v) is not deterministic", z)
		}
	}
}
