package chart

import "math"

// segment is a run of consecutive finite samples, x being the sample index.
type segment struct {
	xs []float64
	ys []float64
}

// finiteSegments splits values at NaN/Inf so gaps are not bridged.
func finiteSegments(values []float64) []segment {
	var segs []segment
	var cur segment
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur.xs) > 0 {
				segs = append(segs, cur)
				cur = segment{}
			}
			continue
		}
		cur.xs = append(cur.xs, float64(i))
		cur.ys = append(cur.ys, v)
	}
	if len(cur.xs) > 0 {
		segs = append(segs, cur)
	}
	return segs
}

// splitAtZero inserts an interpolated (x, 0) sample between every pair of
// neighbours with opposite signs, so sign-based fills meet exactly at zero.
func splitAtZero(xs, ys []float64) ([]float64, []float64) {
	outX := make([]float64, 0, len(xs)*2)
	outY := make([]float64, 0, len(ys)*2)
	for i := range xs {
		if i > 0 {
			y0, y1 := ys[i-1], ys[i]
			if (y0 < 0 && y1 > 0) || (y0 > 0 && y1 < 0) {
				x0, x1 := xs[i-1], xs[i]
				outX = append(outX, x0+(x1-x0)*(y0/(y0-y1)))
				outY = append(outY, 0)
			}
		}
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}

// clamp maps every y through f.
func clamp(ys []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = f(y)
	}
	return out
}

func positivePart(y float64) float64 { return math.Max(y, 0) }
func negativePart(y float64) float64 { return math.Min(y, 0) }

// valueRange returns padded y bounds over finite values. includeZero keeps
// the zero line on the canvas.
func valueRange(values []float64, includeZero bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	if includeZero {
		lo, hi = 0, 0
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo == 0 {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	if includeZero && lo == 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}

func countFinite(values []float64) int {
	n := 0
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			n++
		}
	}
	return n
}
