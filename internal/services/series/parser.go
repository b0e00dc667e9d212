// Package series loads the monthly portfolio returns CSV that feeds the
// performance chart.
package series

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

var (
	lineSplit     = regexp.MustCompile(`\r?\n`)
	numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)
)

// ParseSeries parses a 3-column CSV (month, cumulative %, period %).
// The first non-blank line is a header and is dropped. Rows with fewer than
// three fields are skipped. Numeric fields that do not parse become NaN so a
// renderer can show them as gaps.
func ParseSeries(csvText string) models.PortfolioSeries {
	var lines []string
	for _, line := range lineSplit.Split(csvText, -1) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	series := models.PortfolioSeries{Points: []models.SeriesPoint{}}
	if len(lines) < 2 {
		return series
	}

	for _, line := range lines[1:] {
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		series.Points = append(series.Points, models.SeriesPoint{
			Month:      FormatMonth(parts[0]),
			Cumulative: parseFloat(parts[1]),
			Period:     parseFloat(parts[2]),
		})
	}

	return series
}

// FormatMonth expands "Oct-24" to "Oct 2024". Two-digit years are always
// taken as 20YY. Tokens without a hyphen are returned unchanged.
func FormatMonth(token string) string {
	name, year, ok := strings.Cut(token, "-")
	if !ok {
		return token
	}
	if i := strings.Index(year, "-"); i >= 0 {
		year = year[:i]
	}
	if len(year) == 2 {
		year = "20" + year
	}
	return name + " " + year
}

// parseFloat reads the leading decimal number of s and ignores the rest,
// so "2.3%" is 2.3. Text with no leading number, or a number outside the
// float64 range, is NaN.
func parseFloat(s string) float64 {
	m := numericPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
