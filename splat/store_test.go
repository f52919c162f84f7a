package splat

import "testing"

func TestComputeBoundingBoxEmpty(t *testing.T) {
	box := computeBoundingBox(nil)
	if box != (BoundingBox{}) {
		t.Errorf("computeBoundingBox(nil) = %v, want zero value", box)
	}
}

func TestComputeBoundingBoxSinglePoint(t *testing.T) {
	box := computeBoundingBox([][3]float32{{1, 2, 3}})
	want := BoundingBox{Min: [3]float32{1, 2, 3}, Max: [3]float32{1, 2, 3}}
	if box != want {
		t.Errorf("computeBoundingBox(single) = %v, want %v", box, want)
	}
}

func TestComputeBoundingBoxSpansAllPoints(t *testing.T) {
	means := [][3]float32{
		{0, 5, -2},
		{-3, 1, 4},
		{2, -1, 0},
	}
	box := computeBoundingBox(means)
	want := BoundingBox{Min: [3]float32{-3, -1, -2}, Max: [3]float32{2, 5, 4}}
	if box != want {
		t.Errorf("computeBoundingBox(means) = %v, want %v", box, want)
	}
}
