package charts

import (
	"fmt"
	"math"
)

// Bin is one equal-width histogram bucket [Lo, Hi); the last bin includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Label formats the bucket bounds for an axis tick.
func (b Bin) Label() string {
	return fmt.Sprintf("%.4g–%.4g", b.Lo, b.Hi)
}

// SturgesBins is the default bin count for n values.
func SturgesBins(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Histogram buckets finite values into n equal-width bins over [min, max].
// n <= 0 picks SturgesBins. A constant series yields a single bin.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(values)}}
	}
	if n <= 0 {
		n = SturgesBins(len(values))
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
