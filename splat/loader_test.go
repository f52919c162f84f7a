package splat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/arrowforge/gsplat/common"
)

func float32Bytes(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

// buildMinimalPLY writes a binary_little_endian PLY with one vertex and no
// spherical harmonics: position, scale (log-encoded), rotation (quaternion),
// DC color and opacity.
func buildMinimalPLY(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format binary_little_endian 1.0\n")
	buf.WriteString("element vertex 1\n")
	buf.WriteString("property float x\n")
	buf.WriteString("property float y\n")
	buf.WriteString("property float z\n")
	buf.WriteString("property float scale_0\n")
	buf.WriteString("property float scale_1\n")
	buf.WriteString("property float scale_2\n")
	buf.WriteString("property float rot_0\n")
	buf.WriteString("property float rot_1\n")
	buf.WriteString("property float rot_2\n")
	buf.WriteString("property float rot_3\n")
	buf.WriteString("property float f_dc_0\n")
	buf.WriteString("property float f_dc_1\n")
	buf.WriteString("property float f_dc_2\n")
	buf.WriteString("property float opacity\n")
	buf.WriteString("end_header\n")

	vals := []float32{
		1, 2, 3, // x, y, z
		0, 0, 0, // scale_0..2 (log space, exp(0) = 1)
		1, 0, 0, 0, // rot_0..3 (already unit)
		0, 0, 0, // f_dc_0..2
		0, // opacity (sigmoid(0) = 0.5)
	}
	for _, v := range vals {
		buf.Write(float32Bytes(v))
	}
	return buf.Bytes()
}

func TestLoadPLYMinimal(t *testing.T) {
	data := buildMinimalPLY(t)
	records, err := LoadPLY(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadPLY: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Mean != [3]float32{1, 2, 3} {
		t.Errorf("Mean = %v, want [1 2 3]", rec.Mean)
	}
	for i, s := range rec.Scale {
		if math.Abs(float64(s-1)) > 1e-5 {
			t.Errorf("Scale[%d] = %v, want 1 (exp(0))", i, s)
		}
	}
	if math.Abs(float64(rec.Opacity-0.5)) > 1e-5 {
		t.Errorf("Opacity = %v, want 0.5 (sigmoid(0))", rec.Opacity)
	}
	if rec.Rotation != [4]float32{1, 0, 0, 0} {
		t.Errorf("Rotation = %v, want identity quaternion", rec.Rotation)
	}
}

func TestLoadPLYMissingMagic(t *testing.T) {
	_, err := LoadPLY(bytes.NewReader([]byte("not a ply\n")))
	if err == nil {
		t.Fatal("expected an error for a missing ply magic")
	}
}

func TestLoadPLYAsciiUnsupported(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("ply\n")
	buf.WriteString("format ascii 1.0\n")
	buf.WriteString("end_header\n")
	_, err := LoadPLY(bytes.NewReader(buf.Bytes()))
	if err == nil {
		t.Fatal("expected an error for an ascii-format ply")
	}
}

// buildSplatFile writes one 32-byte .splat record: position, linear scale,
// rgba color bytes, and a byte-quantized quaternion.
func buildSplatFile() []byte {
	raw := make([]byte, 32)
	binary.LittleEndian.PutUint32(raw[0:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(raw[4:], math.Float32bits(2))
	binary.LittleEndian.PutUint32(raw[8:], math.Float32bits(3))
	binary.LittleEndian.PutUint32(raw[12:], math.Float32bits(0.1))
	binary.LittleEndian.PutUint32(raw[16:], math.Float32bits(0.2))
	binary.LittleEndian.PutUint32(raw[20:], math.Float32bits(0.3))
	raw[24], raw[25], raw[26] = 255, 128, 0
	raw[27] = 200 // opacity byte
	raw[28], raw[29], raw[30], raw[31] = 255, 128, 128, 128
	return raw
}

func TestLoadSplat(t *testing.T) {
	records, err := LoadSplat(bytes.NewReader(buildSplatFile()))
	if err != nil {
		t.Fatalf("LoadSplat: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Mean != [3]float32{1, 2, 3} {
		t.Errorf("Mean = %v, want [1 2 3]", rec.Mean)
	}
	wantOpacity := float32(200) / 255
	if math.Abs(float64(rec.Opacity-wantOpacity)) > 1e-5 {
		t.Errorf("Opacity = %v, want %v", rec.Opacity, wantOpacity)
	}
	// The quantized quaternion must come out unit-length regardless of the
	// byte values it was decoded from.
	norm := quatNorm(rec.Rotation)
	if math.Abs(float64(norm-1)) > 1e-4 {
		t.Errorf("decoded quaternion not normalized: norm=%v", norm)
	}
}

func TestLoadSplatBadLength(t *testing.T) {
	_, err := LoadSplat(bytes.NewReader(make([]byte, 31)))
	if err == nil {
		t.Fatal("expected an error for a length not a multiple of 32")
	}
	if !errors.Is(err, common.ErrUnsupportedInput) {
		t.Errorf("expected wrapped common.ErrUnsupportedInput, got %v", err)
	}
}
