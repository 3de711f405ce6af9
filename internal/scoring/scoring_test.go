package scoring_test

import (
	"testing"

	"github.com/nawedy/automatiq/internal/scoring"
)

func TestAggregateEmpty(t *testing.T) {
	if got := scoring.Aggregate(nil); got != 0 {
		t.Fatalf("aggregate of no scores = %d, want 0", got)
	}
	if got := scoring.Aggregate([]scoring.WeightedScore{}); got != 0 {
		t.Fatalf("aggregate of empty slice = %d, want 0", got)
	}
}

func TestAggregateSinglePair(t *testing.T) {
	cases := []struct {
		score  float64
		weight float64
		want   int
	}{
		{100, 1.5, 100},
		{0, 0.5, 0},
		{73, 2.0, 73},
		{66.6, 1.0, 67},
		{50, 0.1, 50},
	}
	for _, tc := range cases {
		got := scoring.Aggregate([]scoring.WeightedScore{{Score: tc.score, Weight: tc.weight}})
		if got != tc.want {
			t.Errorf("aggregate(%v/%v) = %d, want %d", tc.score, tc.weight, got, tc.want)
		}
	}
}

func TestAggregateWeighting(t *testing.T) {
	pairs := []scoring.WeightedScore{
		{Score: 100, Weight: 3},
		{Score: 0, Weight: 1},
	}
	if got := scoring.Aggregate(pairs); got != 75 {
		t.Fatalf("aggregate = %d, want 75", got)
	}
}

func TestAggregateZeroWeight(t *testing.T) {
	pairs := []scoring.WeightedScore{{Score: 80, Weight: 0}}
	if got := scoring.Aggregate(pairs); got != 0 {
		t.Fatalf("aggregate with zero total weight = %d, want 0", got)
	}
}

func TestAggregateMap(t *testing.T) {
	weights := map[string]float64{"seo": 1.5, "performance": 1.5, "chatbot": 0.5}

	// Modules absent from the weight table contribute nothing.
	scores := map[string]int{"seo": 80, "performance": 60, "unknown": 0}
	want := scoring.Aggregate([]scoring.WeightedScore{
		{Score: 80, Weight: 1.5},
		{Score: 60, Weight: 1.5},
	})
	if got := scoring.AggregateMap(scores, weights); got != want {
		t.Fatalf("AggregateMap = %d, want %d", got, want)
	}

	if got := scoring.AggregateMap(nil, weights); got != 0 {
		t.Fatalf("AggregateMap(nil) = %d, want 0", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ in, want int }{
		{-5, 0}, {0, 0}, {55, 55}, {100, 100}, {140, 100},
	}
	for _, tc := range cases {
		if got := scoring.Clamp(tc.in); got != tc.want {
			t.Errorf("clamp(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
