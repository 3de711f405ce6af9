package scoring

import "math"

// WeightedScore pairs a 0-100 score with its relative weight.
type WeightedScore struct {
	Score  float64
	Weight float64
}

// Aggregate combines weighted scores into a single rounded score.
// An empty input aggregates to 0; it never divides by zero.
//
// This is the one weighted-average used everywhere: the pipeline's overall
// score, the content module's composite, and the structure analyzer's
// sub-score combination all go through it.
func Aggregate(pairs []WeightedScore) int {
	var sum, weight float64
	for _, p := range pairs {
		sum += p.Score * p.Weight
		weight += p.Weight
	}
	if weight == 0 {
		return 0
	}
	return int(math.Round(sum / weight))
}

// AggregateMap combines a module-score map using a weight table. Modules
// missing from the table contribute nothing to numerator or denominator.
func AggregateMap(scores map[string]int, weights map[string]float64) int {
	var pairs []WeightedScore
	for name, score := range scores {
		w, ok := weights[name]
		if !ok {
			continue
		}
		pairs = append(pairs, WeightedScore{Score: float64(score), Weight: w})
	}
	return Aggregate(pairs)
}

// Clamp bounds a score to the 0-100 range.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
