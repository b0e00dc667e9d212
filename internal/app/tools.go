package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createComputeTWRTool(), handleComputeTWR(a.CalculatorService, logger))
	s.AddTool(createGetPortfolioSeriesTool(), handleGetPortfolioSeries(a.SeriesService, logger))
}

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Folio server version and status. Use this to verify connectivity."),
	)
}

// createComputeTWRTool returns the compute_twr tool definition
func createComputeTWRTool() mcp.Tool {
	return mcp.NewTool("compute_twr",
		mcp.WithDescription("Compute the time-weighted return of an account from its starting balance and a list of dated cash flows. Also reports the simple (money-weighted) return and total gain for comparison."),
		mcp.WithString("start_date",
			mcp.Required(),
			mcp.Description("Start date (YYYY-MM-DD)"),
		),
		mcp.WithString("start_balance",
			mcp.Required(),
			mcp.Description("Account value on the start date, must be greater than 0 (e.g., '1000')"),
		),
		mcp.WithString("flows",
			mcp.Description("Cash flows, one per line as 'date,amount,balance_after'. Amount is positive for deposits, negative for withdrawals; balance_after is the account value right after the flow (e.g., '2024-02-01,100,1150')"),
		),
	)
}

// createGetPortfolioSeriesTool returns the get_portfolio_series tool definition
func createGetPortfolioSeriesTool() mcp.Tool {
	return mcp.NewTool("get_portfolio_series",
		mcp.WithDescription("Get the monthly portfolio returns series with summary statistics."),
		mcp.WithString("view",
			mcp.Description("'cumulative' (default) for cumulative TWR, 'period' for per-month returns"),
			mcp.Enum("cumulative", "period"),
		),
	)
}
