package twr

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/folio/internal/models"
)

// DateLayout is the calendar date format used for input and export.
const DateLayout = "2006-01-02"

// FlowInput is one raw cash-flow row as typed by a user.
type FlowInput struct {
	Date         string `json:"date"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
}

// CalculatorInput is the raw calculator form.
type CalculatorInput struct {
	StartDate    string      `json:"start_date"`
	StartBalance string      `json:"start_balance"`
	Flows        []FlowInput `json:"flows"`
}

// SkippedFlow records an incomplete row that was left out of the calculation.
type SkippedFlow struct {
	Row    int    `json:"row"` // 1-based position in the input
	Reason string `json:"reason"`
}

// Calculation is a validated calculator input ready for Compute.
type Calculation struct {
	StartDate    time.Time
	StartBalance float64
	Flows        []models.CashFlowEvent
	Skipped      []SkippedFlow
}

// ValidationError is a user-facing rejection of a primary input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseAmount converts user text to a number. Decimal parsing rejects
// everything strconv would quietly accept as NaN or Inf.
func ParseAmount(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %q is out of range", s)
	}
	return f, nil
}

// ParseInput validates the primary inputs and converts flow rows.
// A bad start date or balance rejects the whole input; incomplete flow rows
// are skipped and listed in Skipped.
func ParseInput(in CalculatorInput) (*Calculation, error) {
	if strings.TrimSpace(in.StartDate) == "" {
		return nil, &ValidationError{Field: "start_date", Message: "Please enter a start date"}
	}
	startDate, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Message: "Please enter a valid start date (YYYY-MM-DD)"}
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(in.StartBalance))
	if err != nil || !balance.IsPositive() || math.IsInf(balance.InexactFloat64(), 0) {
		return nil, &ValidationError{Field: "start_balance", Message: "Please enter a valid starting balance"}
	}

	calc := &Calculation{
		StartDate:    startDate,
		StartBalance: balance.InexactFloat64(),
		Flows:        make([]models.CashFlowEvent, 0, len(in.Flows)),
	}

	for i, row := range in.Flows {
		flow, reason := parseFlow(row)
		if reason != "" {
			calc.Skipped = append(calc.Skipped, SkippedFlow{Row: i + 1, Reason: reason})
			continue
		}
		calc.Flows = append(calc.Flows, flow)
	}

	return calc, nil
}

func parseFlow(row FlowInput) (models.CashFlowEvent, string) {
	if strings.TrimSpace(row.Date) == "" {
		return models.CashFlowEvent{}, "missing date"
	}
	date, err := ParseDate(row.Date)
	if err != nil {
		return models.CashFlowEvent{}, err.Error()
	}
	amount, err := ParseAmount(row.Amount)
	if err != nil {
		return models.CashFlowEvent{}, "amount: " + err.Error()
	}
	balance, err := ParseAmount(row.BalanceAfter)
	if err != nil {
		return models.CashFlowEvent{}, "balance after: " + err.Error()
	}
	return models.CashFlowEvent{Date: date, Amount: amount, BalanceAfter: balance}, ""
}
