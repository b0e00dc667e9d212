package series

import "github.com/bobmcallan/folio/internal/models"

// FallbackSeries is shown whenever the CSV cannot be fetched or parsed, so
// the chart is never blank.
func FallbackSeries() models.PortfolioSeries {
	return models.PortfolioSeries{
		Points: []models.SeriesPoint{
			{Month: "Oct 2024", Cumulative: 0.0, Period: 0.0},
			{Month: "Nov 2024", Cumulative: 0.8, Period: 0.8},
			{Month: "Dec 2024", Cumulative: 2.3, Period: 1.5},
		},
		Fallback: true,
	}
}
