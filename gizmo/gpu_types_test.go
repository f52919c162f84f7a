package gizmo

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPUVertexMarshal(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		Normal:   [3]float32{0, 1, 0},
		Color:    [4]float32{0.5, 0.25, 0.1, 1},
	}
	buf := v.Marshal()
	if len(buf) != v.Size() {
		t.Fatalf("Marshal produced %d bytes, want Size() %d", len(buf), v.Size())
	}
	// Color starts at byte offset 24 (3 + 3 floats in).
	gotR := math.Float32frombits(binary.LittleEndian.Uint32(buf[24:]))
	if gotR != v.Color[0] {
		t.Errorf("Color[0] at offset 24 = %v, want %v", gotR, v.Color[0])
	}
}

func TestGPUUniformMarshal(t *testing.T) {
	var u GPUUniform
	u.Model[0] = 1.5
	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("Marshal produced %d bytes, want Size() %d", len(buf), u.Size())
	}
	// Model starts at byte offset 128 (16 + 16 floats in).
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf[128:]))
	if got != 1.5 {
		t.Errorf("Model[0] at offset 128 = %v, want 1.5", got)
	}
}
