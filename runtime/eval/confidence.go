package eval

import (
	"math"
)

// scorePrecision is how finely combined scores are kept, so that
// 0.9 * 0.8 reads 0.72 rather than 0.7200000000000001
const scorePrecision = 1e12

func roundScore(score float64) float64 {
	return math.Round(score*scorePrecision) / scorePrecision
}

func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// NewConfident annotates v with score. Scores are clamped to [0, 1], and
// annotating a value which is already confident multiplies both scores.
func NewConfident(v Value, score float64) Confident {
	score = clampScore(score)
	if c, ok := v.(Confident); ok {
		return Confident{Inner: c.Inner, Score: roundScore(c.Score * score)}
	}
	return Confident{Inner: v, Score: roundScore(score)}
}

// ConfidenceOf is the score of v, plain values are certain
func ConfidenceOf(v Value) float64 {
	if c, ok := v.(Confident); ok {
		return c.Score
	}
	return 1
}

func IsConfident(v Value) bool {
	_, ok := v.(Confident)
	return ok
}

// Strip drops the confidence annotation of v, if any
func Strip(v Value) Value {
	if c, ok := v.(Confident); ok {
		return c.Inner
	}
	return v
}

// propagate annotates result with the product of the scores of operands,
// and leaves it plain when none of them is confident
func propagate(result Value, operands ...Value) Value {
	score, confident := 1.0, false
	for _, op := range operands {
		if c, ok := op.(Confident); ok {
			score *= c.Score
			confident = true
		}
	}
	if !confident {
		return result
	}
	return NewConfident(result, score)
}
