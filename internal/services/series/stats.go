package series

import (
	"math"

	"github.com/bobmcallan/folio/internal/models"
)

// Stats summarises the selected view. NaN values are ignored; Current is the
// last finite cumulative value.
func Stats(s models.PortfolioSeries, view models.SeriesView) models.SeriesStats {
	stats := models.SeriesStats{View: view, Months: s.Len()}
	values := s.Values(view)

	if view == models.SeriesViewCumulative {
		if s.Len() > 0 {
			stats.FirstMonth = s.Points[0].Month
			stats.LastMonth = s.Points[s.Len()-1].Month
		}
		for i := len(values) - 1; i >= 0; i-- {
			if !math.IsNaN(values[i]) {
				stats.Current = values[i]
				break
			}
		}
		return stats
	}

	best, worst, sum, n := math.Inf(-1), math.Inf(1), 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		best = math.Max(best, v)
		worst = math.Min(worst, v)
		sum += v
		n++
	}
	if n > 0 {
		stats.Best = best
		stats.Worst = worst
		stats.Average = sum / float64(n)
	}
	return stats
}
