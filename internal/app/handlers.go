package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/series"
	"github.com/bobmcallan/folio/internal/services/twr"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Folio Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.Version, common.Build, common.GitCommit)
		return textResult(result), nil
	}
}

// handleComputeTWR implements the compute_twr tool
func handleComputeTWR(calculator interfaces.CalculatorService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startDate, err := request.RequireString("start_date")
		if err != nil || startDate == "" {
			return errorResult("Error: start_date parameter is required"), nil
		}
		startBalance, err := request.RequireString("start_balance")
		if err != nil || startBalance == "" {
			return errorResult("Error: start_balance parameter is required"), nil
		}

		flows, err := parseFlowLines(request.GetString("flows", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: flows: %v", err)), nil
		}

		report, err := calculator.Calculate(ctx, twr.CalculatorInput{
			StartDate:    startDate,
			StartBalance: startBalance,
			Flows:        flows,
		})
		if err != nil {
			var validation *twr.ValidationError
			var undefined *twr.PeriodUndefinedError
			switch {
			case errors.As(err, &validation):
				return errorResult("Error: " + validation.Message), nil
			case errors.As(err, &undefined):
				return errorResult(fmt.Sprintf("Error: %v", undefined)), nil
			case errors.Is(err, twr.ErrNonFiniteResult):
				return errorResult(fmt.Sprintf("Error: %v", err)), nil
			}
			logger.Error().Err(err).Msg("TWR calculation failed")
			return errorResult(fmt.Sprintf("Calculation error: %v", err)), nil
		}

		return textResult(formatTWRReport(report)), nil
	}
}

// handleGetPortfolioSeries implements the get_portfolio_series tool
func handleGetPortfolioSeries(seriesService interfaces.SeriesService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		view, err := models.ParseSeriesView(request.GetString("view", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}

		s := seriesService.Load(ctx)
		if s.Fallback {
			logger.Debug().Msg("Serving fallback series")
		}
		return textResult(formatSeries(s, view, series.Stats(s, view))), nil
	}
}

// parseFlowLines reads "date,amount,balance_after" lines. Short rows are
// kept so the calculator reports them as skipped.
func parseFlowLines(text string) ([]twr.FlowInput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var flows []twr.FlowInput
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var f twr.FlowInput
		if len(record) > 0 {
			f.Date = record[0]
		}
		if len(record) > 1 {
			f.Amount = record[1]
		}
		if len(record) > 2 {
			f.BalanceAfter = record[2]
		}
		flows = append(flows, f)
	}
	return flows, nil
}

// formatTWRReport formats a calculator report as markdown
func formatTWRReport(report *twr.Report) string {
	var sb strings.Builder

	sb.WriteString("# Time-Weighted Return\n\n")
	sb.WriteString(fmt.Sprintf("**TWR:** %s\n", report.Display.TWR))
	sb.WriteString(fmt.Sprintf("**Simple Return:** %s\n", report.Display.SimpleReturn))
	sb.WriteString(fmt.Sprintf("**Total Gain:** %s\n", report.Display.TotalGain))
	sb.WriteString(fmt.Sprintf("**End Balance:** %s\n\n", report.Display.EndBalance))

	if len(report.Result.Periods) > 0 {
		sb.WriteString("## Periods\n\n")
		sb.WriteString("| # | From | To | Start | End (pre-flow) | Flow | Return |\n")
		sb.WriteString("|---|------|----|-------|----------------|------|--------|\n")
		for i, p := range report.Result.Periods {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |\n",
				i+1,
				p.StartDate.Format(twr.DateLayout),
				p.EndDate.Format(twr.DateLayout),
				common.FormatMoney(p.StartBalance),
				common.FormatMoney(p.EndBalance),
				common.FormatMoney(p.CashFlow),
				common.FormatSignedPercent(p.Return*100),
			))
		}
		sb.WriteString("\n")
	}

	if len(report.Skipped) > 0 {
		sb.WriteString("## Skipped Rows\n\n")
		for _, s := range report.Skipped {
			sb.WriteString(fmt.Sprintf("- Row %d: %s\n", s.Row, s.Reason))
		}
	}

	return sb.String()
}

// formatSeries formats the returns series as markdown
func formatSeries(s models.PortfolioSeries, view models.SeriesView, stats models.SeriesStats) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", view.Label()))
	if s.Fallback {
		sb.WriteString("*Source unavailable, showing sample data.*\n\n")
	}

	if view == models.SeriesViewPeriod {
		sb.WriteString(fmt.Sprintf("**Best Month:** %s\n", common.FormatSignedPercent(stats.Best)))
		sb.WriteString(fmt.Sprintf("**Worst Month:** %s\n", common.FormatSignedPercent(stats.Worst)))
		sb.WriteString(fmt.Sprintf("**Average:** %s\n\n", common.FormatSignedPercent(stats.Average)))
	} else {
		sb.WriteString(fmt.Sprintf("**Current:** %s\n", common.FormatSignedPercent(stats.Current)))
		if stats.Months > 0 {
			sb.WriteString(fmt.Sprintf("**Range:** %s to %s (%d months)\n\n", stats.FirstMonth, stats.LastMonth, stats.Months))
		}
	}

	sb.WriteString("| Month | Return |\n")
	sb.WriteString("|-------|--------|\n")
	values := s.Values(view)
	for i, p := range s.Points {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", p.Month, common.FormatSignedPercent(values[i])))
	}

	return sb.String()
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}
