package geometry

import (
	"errors"
	"math"
)

// ErrEmptyTrace is returned by helpers that need at least one point.
var ErrEmptyTrace = errors.New("empty trace")

// Pair holds two points that witness a distance.
type Pair [2]Point

// DistanceSet holds the extreme pairwise distances of a trace.
//
// Max and MaxPair identify the two most separated points (the diameter
// witnesses). Min and MinPair identify the closest pair of non-identical
// points. When the trace has fewer than two distinct points both distances
// are zero and the pairs are zero values.
type DistanceSet struct {
	Min     int  `json:"min"`
	Max     int  `json:"max"`
	MinPair Pair `json:"min_pair"`
	MaxPair Pair `json:"max_pair"`
}

// AllPairsExtremes computes the minimum and maximum distance over every
// unordered pair of distinct points in the trace.
//
// Pairs are visited in index order (i < j); ties keep the first pair found.
// Complexity is O(n²).
func AllPairsExtremes(trace []Point) DistanceSet {
	var ds DistanceSet
	minDistance := math.MaxInt

	for i := 0; i < len(trace); i++ {
		for j := i + 1; j < len(trace); j++ {
			if trace[i] == trace[j] {
				continue
			}
			d := trace[i].Distance(trace[j])
			if d > ds.Max {
				ds.Max = d
				ds.MaxPair = Pair{trace[i], trace[j]}
			}
			if d < minDistance {
				minDistance = d
				ds.MinPair = Pair{trace[i], trace[j]}
			}
		}
	}

	if minDistance != math.MaxInt {
		ds.Min = minDistance
	}
	return ds
}

// ReferenceDistanceStats describes the distances from one reference point to
// every point of a trace.
type ReferenceDistanceStats struct {
	// Min and Max are the extreme distances; 0 when no point differs from
	// the reference.
	Min int `json:"min"`
	Max int `json:"max"`

	// Avg is the sum of distances divided by the full trace length,
	// including a point coincident with the reference.
	Avg int `json:"avg"`

	// Band is the absolute tolerance, Avg × relative tolerance truncated.
	Band int `json:"band"`

	// Above counts distances with distance - Band > Avg.
	Above int `json:"above"`

	// Below counts distances with distance + Band < Avg.
	Below int `json:"below"`

	// Values is the trace length.
	Values int `json:"values"`

	// PassesPercent is 100 × (Values - Above - Below) / Values.
	PassesPercent int `json:"passes_percent"`

	// MinPair and MaxPair are (reference, point) witnesses of Min and Max.
	MinPair Pair `json:"min_pair"`
	MaxPair Pair `json:"max_pair"`
}

// ReferenceStats measures the distance from ref to every trace point that is
// not coincident with ref and tallies them against a tolerance band of
// relTolerance × average around the average.
//
// An empty trace yields zero statistics.
func ReferenceStats(trace []Point, ref Point, relTolerance float64) ReferenceDistanceStats {
	stats := ReferenceDistanceStats{Values: len(trace)}
	if len(trace) == 0 {
		return stats
	}

	distances := make([]int, 0, len(trace))
	minDistance := math.MaxInt
	sum := 0

	for _, p := range trace {
		if p == ref {
			continue
		}
		d := ref.Distance(p)
		sum += d
		distances = append(distances, d)
		if d > stats.Max {
			stats.Max = d
			stats.MaxPair = Pair{ref, p}
		}
		if d < minDistance {
			minDistance = d
			stats.MinPair = Pair{ref, p}
		}
	}
	if minDistance != math.MaxInt {
		stats.Min = minDistance
	}

	stats.Avg = sum / len(trace)
	stats.Band = int(float64(stats.Avg) * relTolerance)

	for _, d := range distances {
		if d-stats.Band > stats.Avg {
			stats.Above++
		}
		if d+stats.Band < stats.Avg {
			stats.Below++
		}
	}

	passed := stats.Values - stats.Above - stats.Below
	stats.PassesPercent = 100 * passed / stats.Values
	return stats
}

// Centroid returns the mean position of the trace, truncated per axis.
func Centroid(trace []Point) (Point, error) {
	if len(trace) == 0 {
		return Point{}, ErrEmptyTrace
	}
	var sum Point
	for _, p := range trace {
		sum = sum.Add(p)
	}
	return sum.Div(len(trace))
}

// Nearest returns the trace point closest to q and its distance.
// Ties keep the earliest point. The boolean is false for an empty trace.
func Nearest(trace []Point, q Point) (Point, int, bool) {
	if len(trace) == 0 {
		return Point{}, 0, false
	}
	best := trace[0]
	bestDistance := q.Distance(best)
	for _, p := range trace[1:] {
		if d := q.Distance(p); d < bestDistance {
			best = p
			bestDistance = d
		}
	}
	return best, bestDistance, true
}

// DistinctCount returns the number of distinct points in the trace, capped
// at limit when limit > 0.
func DistinctCount(trace []Point, limit int) int {
	seen := make(map[Point]struct{}, len(trace))
	for _, p := range trace {
		seen[p] = struct{}{}
		if limit > 0 && len(seen) >= limit {
			return limit
		}
	}
	return len(seen)
}
