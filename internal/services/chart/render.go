// Package chart renders PNG line charts for the returns series and the
// calculator balance history.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/models"
)

// ErrNotEnoughPoints is returned when fewer than two finite values remain.
var ErrNotEnoughPoints = errors.New("need at least 2 finite data points")

const (
	width  = 900
	height = 360
)

var (
	lineColor     = drawing.ColorFromHex("ca9ee6")
	gainColor     = drawing.ColorFromHex("a6d189").WithAlpha(110)
	lossColor     = drawing.ColorFromHex("e78284").WithAlpha(110)
	balanceFill   = drawing.ColorFromHex("ca9ee6").WithAlpha(40)
	canvasColor   = drawing.ColorWhite
	invisibleLine = drawing.Color{R: 255, G: 255, B: 255, A: 0}
)

// RenderSeriesChart renders the chosen view of the returns series.
// The area between the line and zero is green above zero and red below it;
// NaN values leave gaps in the line.
func RenderSeriesChart(s models.PortfolioSeries, view models.SeriesView) ([]byte, error) {
	values := s.Values(view)
	if countFinite(values) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrNotEnoughPoints, countFinite(values))
	}

	segs := finiteSegments(values)

	var fills, lines []gochart.Series
	for _, seg := range segs {
		if len(seg.xs) == 1 {
			lines = append(lines, dotSeries(seg))
			continue
		}

		xs, ys := splitAtZero(seg.xs, seg.ys)
		zeros := make([]float64, len(xs))

		// Layered fills, each reaching down to the canvas bottom:
		// gain from max(v,0), loss from 0, then canvas colour from min(v,0)
		// erases everything below the negative part of the line.
		fills = append(fills,
			fillSeries(xs, clamp(ys, positivePart), gainColor),
			fillSeries(xs, zeros, lossColor),
			fillSeries(xs, clamp(ys, negativePart), canvasColor),
		)
		lines = append(lines, gochart.ContinuousSeries{
			Style: gochart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 3,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	// Gain fills must all be drawn before any loss/erase fill.
	ordered := make([]gochart.Series, 0, len(fills)+len(lines)+1)
	for i := 0; i < len(fills); i += 3 {
		ordered = append(ordered, fills[i])
	}
	for i := 0; i < len(fills); i += 3 {
		ordered = append(ordered, fills[i+1])
	}
	for i := 0; i < len(fills); i += 3 {
		ordered = append(ordered, fills[i+2])
	}
	ordered = append(ordered, lines...)

	lo, hi := valueRange(values, true)
	graph := gochart.Chart{
		Title:  view.Label(),
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(len(values) - 1)},
			Ticks: labelTicks(s.Months()),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Series: ordered,
	}

	return render(graph)
}

// RenderBalanceChart renders the calculator's balance after each flow.
func RenderBalanceChart(points []models.BalancePoint) ([]byte, error) {
	values := make([]float64, len(points))
	labels := make([]string, len(points))
	for i, p := range points {
		values[i] = p.Balance
		labels[i] = p.Label
	}
	if countFinite(values) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrNotEnoughPoints, countFinite(values))
	}

	var series []gochart.Series
	for _, seg := range finiteSegments(values) {
		series = append(series, gochart.ContinuousSeries{
			Style: gochart.Style{
				StrokeColor: lineColor,
				StrokeWidth: 3,
				FillColor:   balanceFill,
				DotColor:    lineColor,
				DotWidth:    4,
			},
			XValues: seg.xs,
			YValues: seg.ys,
		})
	}

	lo, hi := valueRange(values, false)
	graph := gochart.Chart{
		Title:  "Portfolio Value ($)",
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(len(values) - 1)},
			Ticks: labelTicks(labels),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	return render(graph)
}

func fillSeries(xs, ys []float64, fill drawing.Color) gochart.ContinuousSeries {
	return gochart.ContinuousSeries{
		Style: gochart.Style{
			StrokeColor: invisibleLine,
			StrokeWidth: 1,
			FillColor:   fill,
		},
		XValues: xs,
		YValues: ys,
	}
}

func dotSeries(seg segment) gochart.ContinuousSeries {
	return gochart.ContinuousSeries{
		Style: gochart.Style{
			StrokeColor: invisibleLine,
			DotColor:    lineColor,
			DotWidth:    4,
		},
		XValues: seg.xs,
		YValues: seg.ys,
	}
}

// labelTicks places a label at every k-th index so at most ~12 are drawn.
func labelTicks(labels []string) []gochart.Tick {
	step := int(math.Ceil(float64(len(labels)) / 12))
	if step < 1 {
		step = 1
	}
	ticks := make([]gochart.Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	return ticks
}

func render(graph gochart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
