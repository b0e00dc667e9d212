package twr

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// ExportFilename is the suggested download name for ExportCSV output.
const ExportFilename = "twr-calculation.csv"

// ExportCSV writes the calculator input table: a header, a Start row holding
// the opening balance, then every flow in date order.
func ExportCSV(w io.Writer, startDate time.Time, startBalance float64, flows []models.CashFlowEvent) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Date", "Amount", "Balance After"},
		{startDate.Format(DateLayout), "Start", formatNumber(startBalance)},
	}
	for _, f := range SortFlows(flows) {
		rows = append(rows, []string{f.Date.Format(DateLayout), formatNumber(f.Amount), formatNumber(f.BalanceAfter)})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv export: %w", err)
	}
	return nil
}

// formatNumber uses the shortest representation that round-trips.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
