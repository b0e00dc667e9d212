package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/folio/internal/models"
)

func TestStats_Cumulative(t *testing.T) {
	stats := Stats(FallbackSeries(), models.SeriesViewCumulative)

	assert.Equal(t, 2.3, stats.Current)
	assert.Equal(t, "Oct 2024", stats.FirstMonth)
	assert.Equal(t, "Dec 2024", stats.LastMonth)
	assert.Equal(t, 3, stats.Months)
}

func TestStats_Period(t *testing.T) {
	stats := Stats(FallbackSeries(), models.SeriesViewPeriod)

	assert.Equal(t, 1.5, stats.Best)
	assert.Equal(t, 0.0, stats.Worst)
	assert.InDelta(t, 2.3/3, stats.Average, 1e-12)
}

func TestStats_SkipsNaN(t *testing.T) {
	s := models.PortfolioSeries{Points: []models.SeriesPoint{
		{Month: "A", Cumulative: 1, Period: -2},
		{Month: "B", Cumulative: 3, Period: math.NaN()},
		{Month: "C", Cumulative: math.NaN(), Period: 4},
	}}

	cum := Stats(s, models.SeriesViewCumulative)
	assert.Equal(t, 3.0, cum.Current)

	period := Stats(s, models.SeriesViewPeriod)
	assert.Equal(t, 4.0, period.Best)
	assert.Equal(t, -2.0, period.Worst)
	assert.Equal(t, 1.0, period.Average)
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(models.PortfolioSeries{}, models.SeriesViewPeriod)
	assert.Equal(t, 0, stats.Months)
	assert.Zero(t, stats.Best)
}
