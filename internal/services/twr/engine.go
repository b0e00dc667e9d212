// Package twr computes time-weighted returns from a starting balance and a
// series of dated cash flows.
package twr

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

var (
	// ErrInvalidStartBalance is returned when the starting balance is not a finite number above zero.
	ErrInvalidStartBalance = errors.New("start balance must be greater than zero")

	// ErrPeriodUndefined marks a period whose return cannot be computed.
	ErrPeriodUndefined = errors.New("period return undefined")

	// ErrNonFiniteResult is returned when a total overflows or is otherwise not a finite number.
	ErrNonFiniteResult = errors.New("result is not a finite number")
)

// PeriodUndefinedError reports the first period that starts from a balance of
// zero or less, or whose return is otherwise not a finite number.
type PeriodUndefinedError struct {
	Index        int
	StartDate    time.Time
	EndDate      time.Time
	StartBalance float64
}

func (e *PeriodUndefinedError) Error() string {
	return fmt.Sprintf("period %d (%s to %s) starts from balance %g: return undefined",
		e.Index+1, e.StartDate.Format(DateLayout), e.EndDate.Format(DateLayout), e.StartBalance)
}

func (e *PeriodUndefinedError) Is(target error) bool {
	return target == ErrPeriodUndefined
}

// SortFlows returns a copy of flows ordered by date. Flows on the same date
// keep their input order.
func SortFlows(flows []models.CashFlowEvent) []models.CashFlowEvent {
	sorted := make([]models.CashFlowEvent, len(flows))
	copy(sorted, flows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Compute partitions the timeline at each cash flow, computes the market
// return of every period and chains them geometrically.
//
// A period's return compares the balance just before its closing flow
// (BalanceAfter - Amount) with the balance it opened on, so the flow itself
// never counts as performance. TWR and SimpleReturn are percentages.
func Compute(startBalance float64, startDate time.Time, flows []models.CashFlowEvent) (*models.TWRResult, error) {
	if math.IsNaN(startBalance) || math.IsInf(startBalance, 0) || startBalance <= 0 {
		return nil, ErrInvalidStartBalance
	}

	sorted := SortFlows(flows)

	periods := make([]models.Period, 0, len(sorted))
	currentBalance := startBalance
	currentDate := startDate

	for i, flow := range sorted {
		periodReturn := (flow.PreFlowBalance() - currentBalance) / currentBalance
		if currentBalance <= 0 || math.IsNaN(periodReturn) || math.IsInf(periodReturn, 0) {
			return nil, &PeriodUndefinedError{
				Index:        i,
				StartDate:    currentDate,
				EndDate:      flow.Date,
				StartBalance: currentBalance,
			}
		}

		periods = append(periods, models.Period{
			StartDate:    currentDate,
			EndDate:      flow.Date,
			StartBalance: currentBalance,
			EndBalance:   flow.BalanceAfter,
			CashFlow:     flow.Amount,
			Return:       periodReturn,
		})

		currentBalance = flow.BalanceAfter
		currentDate = flow.Date
	}

	// An empty product is 1, so no flows means a TWR of exactly 0%.
	product := 1.0
	for _, p := range periods {
		product *= 1 + p.Return
	}

	endBalance := startBalance
	if len(sorted) > 0 {
		endBalance = sorted[len(sorted)-1].BalanceAfter
	}

	totalCashFlow := 0.0
	for _, f := range sorted {
		totalCashFlow += f.Amount
	}

	totalGain := endBalance - startBalance - totalCashFlow

	result := &models.TWRResult{
		TWR:          (product - 1) * 100,
		SimpleReturn: (totalGain / startBalance) * 100,
		TotalGain:    totalGain,
		EndBalance:   endBalance,
		Periods:      periods,
	}

	totals := []struct {
		name  string
		value float64
	}{
		{"twr", result.TWR},
		{"simple_return", result.SimpleReturn},
		{"total_gain", result.TotalGain},
		{"end_balance", result.EndBalance},
		{"cash_flow", totalCashFlow},
	}
	for _, f := range totals {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return nil, fmt.Errorf("%s: %w", f.name, ErrNonFiniteResult)
		}
	}

	return result, nil
}

// BalancePoints returns the balance chart data: the starting balance followed
// by the balance after each flow in date order.
func BalancePoints(startBalance float64, startDate time.Time, flows []models.CashFlowEvent) []models.BalancePoint {
	sorted := SortFlows(flows)
	points := make([]models.BalancePoint, 0, len(sorted)+1)
	points = append(points, models.BalancePoint{Label: "Start", Date: startDate, Balance: startBalance})
	for i, f := range sorted {
		points = append(points, models.BalancePoint{
			Label:   fmt.Sprintf("Flow %d", i+1),
			Date:    f.Date,
			Balance: f.BalanceAfter,
		})
	}
	return points
}
