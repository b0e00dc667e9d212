package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/twr"
)

// CalculatorService runs the interactive TWR calculator.
type CalculatorService interface {
	Calculate(ctx context.Context, in twr.CalculatorInput) (*twr.Report, error)
	Export(ctx context.Context, in twr.CalculatorInput, w io.Writer) error
}

// SeriesService serves the portfolio performance series.
type SeriesService interface {
	// Load never fails: on any error it returns the fallback series.
	Load(ctx context.Context) models.PortfolioSeries

	// Refresh re-fetches the source, bypassing the cache.
	Refresh(ctx context.Context) error
}

// NicheService lists the niche projects catalog.
type NicheService interface {
	Page(ctx context.Context, all bool) (*models.NichePage, error)
}
