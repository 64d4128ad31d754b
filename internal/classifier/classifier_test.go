package classifier

import (
	"math"
	"reflect"
	"testing"
)

func mustFit(t *testing.T, samples [][]float32, labels []string) *Classifier {
	t.Helper()
	c, err := Fit(samples, labels)
	if err != nil {
		t.Fatalf("Fit() failed: %v", err)
	}
	return c
}

func TestFit_NeighborCount(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		expectedK int
	}{
		{"single sample", 1, 1},
		{"three samples", 3, 3},
		{"five samples", 5, 5},
		{"capped at five", 12, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := make([][]float32, tt.count)
			labels := make([]string, tt.count)
			for i := 0; i < tt.count; i++ {
				samples[i] = []float32{float32(i), 0}
				labels[i] = "person"
			}

			c := mustFit(t, samples, labels)
			if c.K() != tt.expectedK {
				t.Errorf("K() = %d, want %d", c.K(), tt.expectedK)
			}
			if c.Len() != tt.count {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.count)
			}
		})
	}
}

func TestFit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		samples [][]float32
		labels  []string
	}{
		{"empty dataset", nil, nil},
		{"count mismatch", [][]float32{{1, 2}}, []string{"a", "b"}},
		{"ragged dimensions", [][]float32{{1, 2}, {1, 2, 3}}, []string{"a", "b"}},
		{"zero dimension", [][]float32{{}}, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Fit(tt.samples, tt.labels); err == nil {
				t.Error("Fit() succeeded, want error")
			}
		})
	}
}

func TestNearestDistance(t *testing.T) {
	c := mustFit(t, [][]float32{
		{3, 4},
		{10, 0},
	}, []string{"close", "far"})

	tests := []struct {
		name     string
		query    []float32
		expected float64
	}{
		{"pythagorean triple", []float32{0, 0}, 5.0},
		{"exact match", []float32{3, 4}, 0.0},
		{"nearest wins", []float32{9, 0}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.NearestDistance(tt.query)
			if math.Abs(d-tt.expected) > 0.0001 {
				t.Errorf("NearestDistance(%v) = %v, want %v", tt.query, d, tt.expected)
			}
		})
	}
}

func TestPredict_MajorityVote(t *testing.T) {
	// Five samples, so k = 5 and every sample votes. Alice holds the
	// majority no matter where the query lands.
	c := mustFit(t, [][]float32{
		{1.0, 0.1},
		{1.1, 0.0},
		{0.9, 0.0},
		{5.0, 5.0},
		{5.1, 5.0},
	}, []string{"alice", "alice", "alice", "bob", "bob"})

	tests := []struct {
		name     string
		query    []float32
		expected string
	}{
		{"near alice cluster", []float32{1.0, 0.0}, "alice"},
		{"near bob cluster", []float32{5.0, 5.1}, "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Predict(tt.query); got != tt.expected {
				t.Errorf("Predict(%v) = %q, want %q", tt.query, got, tt.expected)
			}
		})
	}
}

func TestPredict_NearestNeighborsOnly(t *testing.T) {
	// Six samples, k = 5. The farthest bob sample is excluded from the
	// vote, leaving alice 3, bob 2.
	c := mustFit(t, [][]float32{
		{0.0, 0.0},
		{0.1, 0.0},
		{0.0, 0.1},
		{1.0, 1.0},
		{1.1, 1.0},
		{100, 100},
	}, []string{"alice", "alice", "alice", "bob", "bob", "bob"})

	if got := c.Predict([]float32{0, 0}); got != "alice" {
		t.Errorf("Predict() = %q, want %q", got, "alice")
	}
}

func TestPredict_TieBreaksLexicographic(t *testing.T) {
	// Symmetric two-vs-two vote from the origin.
	c := mustFit(t, [][]float32{
		{1, 0},
		{2, 0},
		{0, 1},
		{0, 2},
	}, []string{"zoe", "zoe", "adam", "adam"})

	if got := c.Predict([]float32{0, 0}); got != "adam" {
		t.Errorf("Predict() = %q, want %q on tied vote", got, "adam")
	}
}

func TestPredict_SingleSample(t *testing.T) {
	c := mustFit(t, [][]float32{{1, 2, 3}}, []string{"solo"})
	if got := c.Predict([]float32{100, 100, 100}); got != "solo" {
		t.Errorf("Predict() = %q, want %q", got, "solo")
	}
}

func TestLabels_SortedUnique(t *testing.T) {
	c := mustFit(t, [][]float32{
		{1, 0}, {2, 0}, {3, 0}, {4, 0},
	}, []string{"carol", "alice", "carol", "bob"})

	expected := []string{"alice", "bob", "carol"}
	if got := c.Labels(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Labels() = %v, want %v", got, expected)
	}
}

func TestLabelCounts(t *testing.T) {
	c := mustFit(t, [][]float32{
		{1, 0}, {2, 0}, {3, 0},
	}, []string{"alice", "bob", "alice"})

	counts := c.LabelCounts()
	if counts["alice"] != 2 || counts["bob"] != 1 {
		t.Errorf("LabelCounts() = %v, want alice=2 bob=1", counts)
	}
}

func TestDim(t *testing.T) {
	c := mustFit(t, [][]float32{{1, 2, 3, 4}}, []string{"a"})
	if c.Dim() != 4 {
		t.Errorf("Dim() = %d, want 4", c.Dim())
	}
}
