package timeline

import "testing"

func TestSegmentShotsSimilarityMode(t *testing.T) {
	samples := []FrameSample{
		{Time: 1, Similarity: 0.98},
		{Time: 2, Similarity: 0.97},
		{Time: 3, Similarity: 0.40},
		{Time: 4, Similarity: 0.95},
		{Time: 5, Similarity: 0.60},
		{Time: 6, Similarity: 0.99},
	}

	got := SegmentShots(samples, 0.85, 8.0)

	want := []Interval{
		{Index: 0, Start: 0, End: 3},
		{Index: 1, Start: 3, End: 5},
		{Index: 2, Start: 5, End: 8},
	}
	if len(got) != len(want) {
		t.Fatalf("SegmentShots() returned %d intervals, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if err := CheckCoverage(got, 8.0); err != nil {
		t.Errorf("coverage check failed: %v", err)
	}
}

func TestSegmentShotsNoCuts(t *testing.T) {
	samples := []FrameSample{
		{Time: 1, Similarity: 0.99},
		{Time: 2, Similarity: 0.99},
	}

	got := SegmentShots(samples, 0.85, 3.0)

	if len(got) != 1 {
		t.Fatalf("SegmentShots() returned %d intervals, want 1: %v", len(got), got)
	}
	if got[0].Start != 0 || got[0].End != 3.0 {
		t.Errorf("interval = %s, want [0.000, 3.000)", got[0])
	}
}

func TestSegmentShotsNoSamples(t *testing.T) {
	got := SegmentShots(nil, 0.85, 12.0)
	if err := CheckCoverage(got, 12.0); err != nil {
		t.Errorf("coverage check failed: %v", err)
	}
}

func TestSegmentShotsIgnoresDegenerateCuts(t *testing.T) {
	// A cut at t=0 or past the media duration would produce an empty or
	// out-of-range scene; the segmenter must skip both.
	samples := []FrameSample{
		{Time: 0, Similarity: 0.1},
		{Time: 2, Similarity: 0.1},
		{Time: 10, Similarity: 0.1},
	}

	got := SegmentShots(samples, 0.85, 10.0)

	want := []Interval{
		{Index: 0, Start: 0, End: 2},
		{Index: 1, Start: 2, End: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("SegmentShots() returned %d intervals, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWrapBoundaries(t *testing.T) {
	spans := []BoundarySpan{
		{Start: 0, End: 4.5},
		{Start: 4.5, End: 9.2},
		{Start: 9.2, End: 19.96},
	}

	got, err := WrapBoundaries(spans, 20.0)
	if err != nil {
		t.Fatalf("WrapBoundaries() error: %v", err)
	}
	if err := CheckCoverage(got, 20.0); err != nil {
		t.Errorf("coverage check failed: %v", err)
	}
	if got[2].End != 20.0 {
		t.Errorf("final end = %v, want extended to 20.0", got[2].End)
	}
}

func TestWrapBoundariesEmpty(t *testing.T) {
	got, err := WrapBoundaries(nil, 7.0)
	if err != nil {
		t.Fatalf("WrapBoundaries(nil) error: %v", err)
	}
	if len(got) != 1 || got[0].Start != 0 || got[0].End != 7.0 {
		t.Errorf("WrapBoundaries(nil) = %v, want single full-length interval", got)
	}
}

func TestWrapBoundariesRejectsGaps(t *testing.T) {
	spans := []BoundarySpan{
		{Start: 0, End: 3},
		{Start: 5, End: 10},
	}

	if _, err := WrapBoundaries(spans, 10.0); err == nil {
		t.Fatal("WrapBoundaries() accepted discontiguous spans, want error")
	}
}
