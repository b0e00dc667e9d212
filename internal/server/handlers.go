package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/chart"
	"github.com/bobmcallan/folio/internal/services/series"
	"github.com/bobmcallan/folio/internal/services/twr"
)

// Error codes returned alongside 4xx/5xx responses.
const (
	codeInvalidInput       = "invalid_input"
	codePeriodUndefined    = "period_undefined"
	codeNotEnoughPoints    = "not_enough_points"
	codeCatalogUnavailable = "catalog_unavailable"
	codeNonFiniteResult    = "non_finite_result"
)

// SeriesResponse is the body of GET /api/series.
type SeriesResponse struct {
	View   models.SeriesView      `json:"view"`
	Label  string                 `json:"label"`
	Series models.PortfolioSeries `json:"series"`
	Stats  models.SeriesStats     `json:"stats"`
}

// handleTWR handles POST /api/twr.
func (s *Server) handleTWR(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in twr.CalculatorInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	report, err := s.app.CalculatorService.Calculate(r.Context(), in)
	if err != nil {
		s.writeCalculatorError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// handleTWRExport handles POST /api/twr/export.
func (s *Server) handleTWRExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in twr.CalculatorInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	// Buffered so a validation failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := s.app.CalculatorService.Export(r.Context(), in, &buf); err != nil {
		s.writeCalculatorError(w, err)
		return
	}

	WriteBytes(w, "text/csv; charset=utf-8", twr.ExportFilename, buf.Bytes())
}

// handleTWRChart handles POST /api/twr/chart.
func (s *Server) handleTWRChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in twr.CalculatorInput
	if !DecodeJSON(w, r, &in) {
		return
	}

	report, err := s.app.CalculatorService.Calculate(r.Context(), in)
	if err != nil {
		s.writeCalculatorError(w, err)
		return
	}

	png, err := chart.RenderBalanceChart(report.Points)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	WriteBytes(w, "image/png", "", png)
}

// handleSeries handles GET /api/series?view=cumulative|period.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	view, err := models.ParseSeriesView(r.URL.Query().Get("view"))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidInput)
		return
	}

	data := s.app.SeriesService.Load(r.Context())
	WriteJSON(w, http.StatusOK, SeriesResponse{
		View:   view,
		Label:  view.Label(),
		Series: data,
		Stats:  series.Stats(data, view),
	})
}

// handleSeriesChart handles GET /api/series/chart?view=cumulative|period.
func (s *Server) handleSeriesChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	view, err := models.ParseSeriesView(r.URL.Query().Get("view"))
	if err != nil {
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), codeInvalidInput)
		return
	}

	png, err := chart.RenderSeriesChart(s.app.SeriesService.Load(r.Context()), view)
	if err != nil {
		s.writeChartError(w, err)
		return
	}
	WriteBytes(w, "image/png", "", png)
}

// handleNiche handles GET /api/niche?all=true|false.
func (s *Server) handleNiche(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	page, err := s.app.NicheService.Page(r.Context(), QueryBool(r, "all", false))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load niche projects")
		WriteErrorWithCode(w, http.StatusInternalServerError, "Failed to load projects. Please try again later.", codeCatalogUnavailable)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}

// writeCalculatorError maps calculator errors to status codes.
func (s *Server) writeCalculatorError(w http.ResponseWriter, err error) {
	var validation *twr.ValidationError
	switch {
	case errors.As(err, &validation):
		WriteErrorWithCode(w, http.StatusBadRequest, validation.Message, codeInvalidInput)
	case errors.Is(err, twr.ErrPeriodUndefined):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), codePeriodUndefined)
	case errors.Is(err, twr.ErrNonFiniteResult):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), codeNonFiniteResult)
	case errors.Is(err, twr.ErrInvalidStartBalance):
		WriteErrorWithCode(w, http.StatusBadRequest, "Please enter a valid starting balance", codeInvalidInput)
	default:
		s.logger.Error().Err(err).Msg("TWR calculation failed")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) writeChartError(w http.ResponseWriter, err error) {
	if errors.Is(err, chart.ErrNotEnoughPoints) {
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), codeNotEnoughPoints)
		return
	}
	s.logger.Error().Err(err).Msg("Chart render failed")
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
