package splat

import "testing"

func makeRecords(n int) []GPURecord {
	records := make([]GPURecord, n)
	for i := range records {
		records[i].Scale = [3]float32{0.1, 0.1, 0.1}
		records[i].Opacity = 1
	}
	return records
}

func TestDownsampleNoopWhenUnderBudget(t *testing.T) {
	records := makeRecords(4)
	out, ok, err := Downsample(records, 10, 1234)
	if ok || err != nil {
		t.Fatalf("Downsample under budget: ok=%v err=%v, want ok=false err=nil", ok, err)
	}
	if len(out) != len(records) {
		t.Errorf("len(out) = %d, want %d (unmodified)", len(out), len(records))
	}
}

func TestDownsampleReducesToMaxSplats(t *testing.T) {
	records := makeRecords(200)
	out, ok, err := Downsample(records, 50, 99)
	if !ok {
		t.Fatal("Downsample over budget should report ok=true")
	}
	if err == nil {
		t.Error("Downsample that resamples should return common.ErrResourcePressure, got nil")
	}
	if len(out) != 50 {
		t.Errorf("len(out) = %d, want 50", len(out))
	}
}

func TestDownsampleIsDeterministicForSameFileSize(t *testing.T) {
	records := makeRecords(500)
	out1, _, _ := Downsample(records, 30, 42)
	out2, _, _ := Downsample(records, 30, 42)
	if len(out1) != len(out2) {
		t.Fatalf("len mismatch between repeated runs: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Fatalf("record %d differs between runs with identical fileSize seed", i)
		}
	}
}

func TestDownsampleZeroWeightRecordsSortLast(t *testing.T) {
	records := makeRecords(20)
	// Zero out opacity on half the records; they carry weight 0 and get an
	// infinite key, so they should never be preferred over positive-weight
	// records when the reservoir is smaller than the input.
	for i := 0; i < 10; i++ {
		records[i].Opacity = 0
	}
	out, _, _ := Downsample(records, 10, 7)
	// Exactly 10 records carry positive weight and the budget is 10, so the
	// infinite-key zero-weight records must never be selected over them.
	for _, r := range out {
		if r.Opacity == 0 {
			t.Error("a zero-weight (infinite-key) record was selected ahead of a positive-weight one")
		}
	}
}
