package transportcost

import "testing"

func TestMatrixDistanceDuration(t *testing.T) {
	ids := []string{"a", "b", "c"}
	distances := [][]float64{
		{0, 10, 20},
		{10, 0, 15},
		{20, 15, 0},
	}
	durations := [][]int64{
		{0, 100, 200},
		{100, 0, 150},
		{200, 150, 0},
	}
	m, err := NewMatrix(ids, distances, durations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d, err := m.Distance("a", "c")
	if err != nil || d != 20 {
		t.Fatalf("expected distance 20, got %f, err %v", d, err)
	}
	dur, err := m.Duration("b", "c")
	if err != nil || dur != 150 {
		t.Fatalf("expected duration 150, got %d, err %v", dur, err)
	}
	if _, err := m.Distance("a", "z"); err == nil {
		t.Fatal("expected error for unknown location")
	}
}

func TestMatrixRejectsMismatchedDimensions(t *testing.T) {
	_, err := NewMatrix([]string{"a", "b"}, [][]float64{{0, 1}}, [][]int64{{0, 1}, {1, 0}})
	if err == nil {
		t.Fatal("expected error for mismatched row count")
	}
}

func TestEuclideanDistanceDuration(t *testing.T) {
	coords := map[string][2]float64{
		"a": {0, 0},
		"b": {3, 4},
	}
	e, err := NewEuclidean(coords, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := e.Distance("a", "b")
	if err != nil || d != 5 {
		t.Fatalf("expected distance 5, got %f, err %v", d, err)
	}
	dur, err := e.Duration("a", "b")
	if err != nil || dur != 5 {
		t.Fatalf("expected duration 5, got %d, err %v", dur, err)
	}
}

func TestEuclideanRejectsZeroSpeed(t *testing.T) {
	if _, err := NewEuclidean(nil, 0); err == nil {
		t.Fatal("expected error for zero speed")
	}
}
