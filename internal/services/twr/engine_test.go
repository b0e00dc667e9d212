package twr

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func day(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestCompute_NoFlows(t *testing.T) {
	for _, balance := range []float64{0.01, 1000, 2_500_000.75} {
		result, err := Compute(balance, day(0), nil)
		require.NoError(t, err)

		assert.Equal(t, 0.0, result.TWR)
		assert.Equal(t, 0.0, result.SimpleReturn)
		assert.Equal(t, 0.0, result.TotalGain)
		assert.Equal(t, balance, result.EndBalance)
		assert.Empty(t, result.Periods)
		assert.NotNil(t, result.Periods)
	}
}

func TestCompute_SingleFlow(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(30), Amount: 100, BalanceAfter: 1150},
	}

	result, err := Compute(1000, day(0), flows)
	require.NoError(t, err)

	require.Len(t, result.Periods, 1)
	p := result.Periods[0]
	assert.Equal(t, day(0), p.StartDate)
	assert.Equal(t, day(30), p.EndDate)
	assert.Equal(t, 1000.0, p.StartBalance)
	assert.Equal(t, 1150.0, p.EndBalance)
	assert.Equal(t, 100.0, p.CashFlow)
	assert.InDelta(t, 0.05, p.Return, 1e-12)

	assert.InDelta(t, 5.0, result.TWR, 1e-9)
	assert.InDelta(t, 5.0, result.SimpleReturn, 1e-9)
	assert.InDelta(t, 50.0, result.TotalGain, 1e-9)
	assert.Equal(t, 1150.0, result.EndBalance)
}

func TestCompute_GeometricChaining(t *testing.T) {
	// r1 = +10%, r2 = -5% with no cash moving: chained 4.50%, not 5.00%.
	flows := []models.CashFlowEvent{
		{Date: day(31), Amount: 0, BalanceAfter: 1100},
		{Date: day(60), Amount: 0, BalanceAfter: 1045},
	}

	result, err := Compute(1000, day(0), flows)
	require.NoError(t, err)

	require.Len(t, result.Periods, 2)
	assert.InDelta(t, 0.10, result.Periods[0].Return, 1e-12)
	assert.InDelta(t, -0.05, result.Periods[1].Return, 1e-12)
	assert.InDelta(t, ((1+0.10)*(1-0.05)-1)*100, result.TWR, 1e-9)
	assert.InDelta(t, 4.5, result.TWR, 1e-9)
}

func TestCompute_TWRDiffersFromSimpleReturn(t *testing.T) {
	// Same period returns as above, but with a contribution then a withdrawal.
	flows := []models.CashFlowEvent{
		{Date: day(31), Amount: 200, BalanceAfter: 1300},  // pre-flow 1100: +10%
		{Date: day(60), Amount: -300, BalanceAfter: 935}, // pre-flow 1235: -5%
	}

	result, err := Compute(1000, day(0), flows)
	require.NoError(t, err)

	assert.InDelta(t, 4.5, result.TWR, 1e-9)
	assert.InDelta(t, 35.0, result.TotalGain, 1e-9)
	assert.InDelta(t, 3.5, result.SimpleReturn, 1e-9)
	assert.Equal(t, 935.0, result.EndBalance)

	// Period boundaries chain: each period opens where the previous closed.
	assert.Equal(t, result.Periods[0].EndBalance, result.Periods[1].StartBalance)
	assert.Equal(t, result.Periods[0].EndDate, result.Periods[1].StartDate)
}

func TestCompute_InputOrderIndependent(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(10), Amount: 50, BalanceAfter: 1080},
		{Date: day(40), Amount: -20, BalanceAfter: 1100},
		{Date: day(70), Amount: 300, BalanceAfter: 1420},
		{Date: day(90), Amount: 0, BalanceAfter: 1390},
		{Date: day(120), Amount: -100, BalanceAfter: 1333.33},
	}

	want, err := Compute(1000, day(0), flows)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.CashFlowEvent, len(flows))
		copy(shuffled, flows)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Compute(1000, day(0), shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(20), Amount: 10, BalanceAfter: 1020},
		{Date: day(10), Amount: 10, BalanceAfter: 1015},
	}
	original := append([]models.CashFlowEvent(nil), flows...)

	_, err := Compute(1000, day(0), flows)
	require.NoError(t, err)
	assert.Equal(t, original, flows)
}

func TestCompute_SameDateFlowsKeepInputOrder(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(5), Amount: 100, BalanceAfter: 1100},
		{Date: day(5), Amount: -50, BalanceAfter: 1050},
	}

	result, err := Compute(1000, day(0), flows)
	require.NoError(t, err)

	require.Len(t, result.Periods, 2)
	assert.Equal(t, 100.0, result.Periods[0].CashFlow)
	assert.Equal(t, -50.0, result.Periods[1].CashFlow)
	// Zero-length second period opens on 1100 and closes pre-flow at 1100.
	assert.InDelta(t, 0.0, result.Periods[1].Return, 1e-12)
}

func TestCompute_ZeroBalancePeriodUndefined(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(10), Amount: -1000, BalanceAfter: 0},
		{Date: day(20), Amount: 500, BalanceAfter: 500},
	}

	result, err := Compute(1000, day(0), flows)
	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPeriodUndefined))

	var undefined *PeriodUndefinedError
	require.True(t, errors.As(err, &undefined))
	assert.Equal(t, 1, undefined.Index)
	assert.Equal(t, 0.0, undefined.StartBalance)
	assert.Equal(t, day(10), undefined.StartDate)
	assert.Equal(t, day(20), undefined.EndDate)
	assert.Contains(t, err.Error(), "period 2")
}

func TestCompute_NegativeBalancePeriodUndefined(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(10), Amount: -1200, BalanceAfter: -150},
		{Date: day(20), Amount: 0, BalanceAfter: -100},
	}

	_, err := Compute(1000, day(0), flows)
	assert.ErrorIs(t, err, ErrPeriodUndefined)
}

func TestCompute_NonFiniteFlowValuesUndefined(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(10), Amount: 0, BalanceAfter: math.NaN()},
	}

	_, err := Compute(1000, day(0), flows)
	assert.ErrorIs(t, err, ErrPeriodUndefined)
}

func TestCompute_OverflowingTotalsRejected(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(10), Amount: 1e308, BalanceAfter: 1e308},
		{Date: day(20), Amount: 1e308, BalanceAfter: 1e308},
	}

	result, err := Compute(1000, day(0), flows)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNonFiniteResult)
	assert.NotErrorIs(t, err, ErrPeriodUndefined)
}

func TestCompute_InvalidStartBalance(t *testing.T) {
	for _, balance := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := Compute(balance, day(0), nil)
		assert.ErrorIs(t, err, ErrInvalidStartBalance, "balance %v", balance)
	}
}

func TestBalancePoints(t *testing.T) {
	flows := []models.CashFlowEvent{
		{Date: day(20), Amount: 10, BalanceAfter: 1020},
		{Date: day(10), Amount: 10, BalanceAfter: 1015},
	}

	points := BalancePoints(1000, day(0), flows)

	require.Len(t, points, 3)
	assert.Equal(t, models.BalancePoint{Label: "Start", Date: day(0), Balance: 1000}, points[0])
	assert.Equal(t, "Flow 1", points[1].Label)
	assert.Equal(t, 1015.0, points[1].Balance)
	assert.Equal(t, "Flow 2", points[2].Label)
	assert.Equal(t, 1020.0, points[2].Balance)
}
