package twr

import (
	"context"
	"errors"
	"io"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// Report is a computed result with its display strings and chart data.
type Report struct {
	Result  *models.TWRResult     `json:"result"`
	Display Display               `json:"display"`
	Points  []models.BalancePoint `json:"points"`
	Skipped []SkippedFlow         `json:"skipped,omitempty"`
}

// Display holds the result fields formatted to two decimal places.
type Display struct {
	TWR          string `json:"twr"`
	SimpleReturn string `json:"simple_return"`
	TotalGain    string `json:"total_gain"`
	EndBalance   string `json:"end_balance"`
}

// NewDisplay formats a result for presentation.
func NewDisplay(r *models.TWRResult) Display {
	return Display{
		TWR:          common.FormatPercent(r.TWR),
		SimpleReturn: common.FormatPercent(r.SimpleReturn),
		TotalGain:    common.FormatMoney(r.TotalGain),
		EndBalance:   common.FormatMoney(r.EndBalance),
	}
}

// Service runs calculator requests. It holds no per-request state.
type Service struct {
	logger *common.Logger
}

// NewService creates a calculator service.
func NewService(logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{logger: logger}
}

// Calculate validates the raw input and computes the report.
func (s *Service) Calculate(ctx context.Context, in CalculatorInput) (*Report, error) {
	calc, err := ParseInput(in)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Calculator input rejected")
		return nil, err
	}
	return s.Run(ctx, calc)
}

// Run computes the report for an already validated calculation.
func (s *Service) Run(ctx context.Context, calc *Calculation) (*Report, error) {
	result, err := Compute(calc.StartBalance, calc.StartDate, calc.Flows)
	if err != nil {
		var undefined *PeriodUndefinedError
		if errors.As(err, &undefined) {
			s.logger.Warn().
				Int("period", undefined.Index+1).
				Float64("start_balance", undefined.StartBalance).
				Msg("TWR period undefined")
		}
		return nil, err
	}

	s.logger.Debug().
		Int("flows", len(calc.Flows)).
		Int("skipped", len(calc.Skipped)).
		Float64("twr", result.TWR).
		Msg("TWR calculated")

	return &Report{
		Result:  result,
		Display: NewDisplay(result),
		Points:  BalancePoints(calc.StartBalance, calc.StartDate, calc.Flows),
		Skipped: calc.Skipped,
	}, nil
}

// Export writes the CSV export for a raw calculator input.
func (s *Service) Export(ctx context.Context, in CalculatorInput, w io.Writer) error {
	calc, err := ParseInput(in)
	if err != nil {
		return err
	}
	return ExportCSV(w, calc.StartDate, calc.StartBalance, calc.Flows)
}
