// Package stats holds the arithmetic used by reports. Every helper returns 0
// instead of NaN or an error when its denominator is empty.
package stats

import "math"

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Percent returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(whole) * 100)
}

// Mean returns the arithmetic mean of values rounded to two decimals, or 0 for no values.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return Round2(float64(sum) / float64(len(values)))
}

// Histogram counts values into fixed buckets lo..hi. Every bucket is present,
// values outside the range are dropped.
func Histogram(values []int, lo, hi int) map[int]int {
	out := make(map[int]int, hi-lo+1)
	for b := lo; b <= hi; b++ {
		out[b] = 0
	}
	for _, v := range values {
		if v >= lo && v <= hi {
			out[v]++
		}
	}
	return out
}

// CountWhere returns how many values satisfy keep.
func CountWhere(values []int, keep func(int) bool) int {
	n := 0
	for _, v := range values {
		if keep(v) {
			n++
		}
	}
	return n
}
