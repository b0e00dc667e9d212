package models

import "time"

// CashFlowEvent is a contribution (positive) or withdrawal (negative) together
// with the account valuation immediately after it was applied.
type CashFlowEvent struct {
	Date         time.Time `json:"date"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
}

// PreFlowBalance is the valuation just before the flow was applied.
func (e CashFlowEvent) PreFlowBalance() float64 {
	return e.BalanceAfter - e.Amount
}

// Period is the interval between two consecutive cash-flow dates.
type Period struct {
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	StartBalance float64   `json:"start_balance"`
	EndBalance   float64   `json:"end_balance"`
	CashFlow     float64   `json:"cash_flow"`
	Return       float64   `json:"return"` // decimal, not percentage
}

// TWRResult holds the outcome of one time-weighted return calculation.
// TWR and SimpleReturn are percentages (raw float x 100).
type TWRResult struct {
	TWR          float64  `json:"twr"`
	SimpleReturn float64  `json:"simple_return"`
	TotalGain    float64  `json:"total_gain"`
	EndBalance   float64  `json:"end_balance"`
	Periods      []Period `json:"periods"`
}

// BalancePoint is one point of the calculator's balance chart.
type BalancePoint struct {
	Label   string    `json:"label"`
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
}
