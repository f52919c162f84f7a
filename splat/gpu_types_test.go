package splat

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestGPURecordMarshalRoundTrip(t *testing.T) {
	rec := GPURecord{
		Mean:     [3]float32{1, 2, 3},
		Scale:    [3]float32{0.1, 0.2, 0.3},
		Rotation: [4]float32{1, 0, 0, 0},
		ColorDC:  [3]float32{0.4, 0.5, 0.6},
		Opacity:  0.75,
	}
	rec.SH1[0] = 1.5
	rec.SH2[0] = 2.5
	rec.SH3[0] = 3.5

	buf := rec.Marshal()
	if len(buf) != rec.Size() {
		t.Fatalf("Marshal produced %d bytes, want Size() %d", len(buf), rec.Size())
	}
	if len(buf) != 256 {
		t.Fatalf("GPURecord.Size() = %d, want 256", len(buf))
	}

	// Mean occupies the first 12 bytes.
	for i, want := range rec.Mean {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != want {
			t.Errorf("Mean[%d] = %v, want %v", i, got, want)
		}
	}
	// Opacity sits at byte offset 60.
	gotOpacity := math.Float32frombits(binary.LittleEndian.Uint32(buf[60:]))
	if gotOpacity != rec.Opacity {
		t.Errorf("Opacity at offset 60 = %v, want %v", gotOpacity, rec.Opacity)
	}
	// SH1[0] sits at byte offset 64.
	gotSH1 := math.Float32frombits(binary.LittleEndian.Uint32(buf[64:]))
	if gotSH1 != rec.SH1[0] {
		t.Errorf("SH1[0] at offset 64 = %v, want %v", gotSH1, rec.SH1[0])
	}
}

func TestGPUCompactRecordToFull(t *testing.T) {
	compact := GPUCompactRecord{
		Mean:     [3]float32{1, 2, 3},
		Scale:    [3]float32{0.1, 0.2, 0.3},
		Rotation: [4]float32{1, 0, 0, 0},
		ColorDC:  [3]float32{0.4, 0.5, 0.6},
		Opacity:  0.9,
	}
	full := compact.ToFull()
	if full.Mean != compact.Mean || full.Scale != compact.Scale ||
		full.Rotation != compact.Rotation || full.ColorDC != compact.ColorDC ||
		full.Opacity != compact.Opacity {
		t.Fatalf("ToFull did not preserve shared fields: %+v vs %+v", full, compact)
	}
	for _, v := range full.SH1 {
		if v != 0 {
			t.Fatalf("ToFull left a nonzero SH1 term: %+v", full.SH1)
		}
	}
}

func TestBoundingBoxCenterAndRadius(t *testing.T) {
	box := BoundingBox{Min: [3]float32{-1, -2, -3}, Max: [3]float32{1, 2, 3}}
	center := box.Center()
	if center != [3]float32{0, 0, 0} {
		t.Errorf("Center() = %v, want origin", center)
	}
	want := float32(math.Sqrt(1*1 + 2*2 + 3*3))
	if math.Abs(float64(box.Radius()-want)) > 1e-4 {
		t.Errorf("Radius() = %v, want %v", box.Radius(), want)
	}
}

func TestGPUFrameUniformMarshalSize(t *testing.T) {
	u := GPUFrameUniform{SHBands: 3, OpacityCutoff: 1.0 / 255.0}
	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("Marshal produced %d bytes, want Size() %d", len(buf), u.Size())
	}
	// SHBands is the last field.
	gotSHBands := math.Float32frombits(binary.LittleEndian.Uint32(buf[len(buf)-4:]))
	if gotSHBands != 3 {
		t.Errorf("trailing SHBands = %v, want 3", gotSHBands)
	}
}
