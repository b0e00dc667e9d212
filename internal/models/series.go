package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// SeriesView selects which column of a PortfolioSeries is displayed.
type SeriesView string

const (
	SeriesViewCumulative SeriesView = "cumulative"
	SeriesViewPeriod     SeriesView = "period"
)

// ParseSeriesView maps a query value to a view. Empty means cumulative.
func ParseSeriesView(s string) (SeriesView, error) {
	switch SeriesView(s) {
	case "", SeriesViewCumulative:
		return SeriesViewCumulative, nil
	case SeriesViewPeriod:
		return SeriesViewPeriod, nil
	default:
		return "", fmt.Errorf("unknown series view %q", s)
	}
}

// Label is the chart legend for the view.
func (v SeriesView) Label() string {
	if v == SeriesViewPeriod {
		return "Period Return (%)"
	}
	return "Cumulative TWR (%)"
}

// SeriesPoint is one month of the portfolio returns CSV.
// Values that failed to parse are NaN.
type SeriesPoint struct {
	Month      string  `json:"month"`
	Cumulative float64 `json:"cumulative"`
	Period     float64 `json:"period"`
}

// PortfolioSeries is the ordered monthly returns dataset.
type PortfolioSeries struct {
	Points   []SeriesPoint `json:"points"`
	Fallback bool          `json:"fallback"`
	Source   string        `json:"source,omitempty"`
}

// Len returns the number of months.
func (s PortfolioSeries) Len() int {
	return len(s.Points)
}

// Months returns the month labels in order.
func (s PortfolioSeries) Months() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Month
	}
	return out
}

// Cumulative returns the cumulative return percentages in order.
func (s PortfolioSeries) Cumulative() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Cumulative
	}
	return out
}

// PeriodReturns returns the per-period return percentages in order.
func (s PortfolioSeries) PeriodReturns() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Period
	}
	return out
}

// Values returns the column selected by view.
func (s PortfolioSeries) Values(view SeriesView) []float64 {
	if view == SeriesViewPeriod {
		return s.PeriodReturns()
	}
	return s.Cumulative()
}

// SeriesStats summarises a series for display. Cumulative views fill the
// Current/First/Last/Months fields, period views fill Best/Worst/Average.
type SeriesStats struct {
	View       SeriesView `json:"view"`
	Current    float64    `json:"current"`
	FirstMonth string     `json:"first_month,omitempty"`
	LastMonth  string     `json:"last_month,omitempty"`
	Months     int        `json:"months"`
	Best       float64    `json:"best"`
	Worst      float64    `json:"worst"`
	Average    float64    `json:"average"`
}

// MarshalJSON writes unparsable (NaN) values as null.
func (p SeriesPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Month      string   `json:"month"`
		Cumulative *float64 `json:"cumulative"`
		Period     *float64 `json:"period"`
	}{p.Month, finitePtr(p.Cumulative), finitePtr(p.Period)})
}

// UnmarshalJSON reads null values back as NaN.
func (p *SeriesPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Month      string   `json:"month"`
		Cumulative *float64 `json:"cumulative"`
		Period     *float64 `json:"period"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Month = raw.Month
	p.Cumulative = nanIfNil(raw.Cumulative)
	p.Period = nanIfNil(raw.Period)
	return nil
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nanIfNil(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
