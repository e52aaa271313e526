package backtest

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"ladder"
)

// Report aggregates trade statistics from the records a backtest
// produced. All values are derived purely from the record list; the
// engine itself never computes statistics.
type Report struct {
	TradeCount int
	WinCount   int
	LossCount  int

	WinRate float64

	TotalPnL float64

	// MaxDrawdown is the largest peak-to-trough drop of the cumulative
	// realized profit curve, in quote asset units.
	MaxDrawdown float64

	AverageRungsUsed float64

	AverageTradeDuration time.Duration
}

func NewReport(records []*ladder.TradeRecord) *Report {
	report := &Report{
		TradeCount: len(records),
	}

	if len(records) == 0 {
		return report
	}

	sorted := make([]*ladder.TradeRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExitTime.Before(sorted[j].ExitTime)
	})

	zero := big.NewFloat(0)

	cumulativePnL := 0.0
	peakPnL := 0.0
	totalRungs := 0
	totalDuration := time.Duration(0)

	for _, record := range sorted {
		pnl := record.PnL()

		if pnl.Cmp(zero) > 0 {
			report.WinCount++
		} else {
			report.LossCount++
		}

		pnlValue, _ := pnl.Float64()
		cumulativePnL += pnlValue

		if cumulativePnL > peakPnL {
			peakPnL = cumulativePnL
		}

		drawdown := peakPnL - cumulativePnL
		if drawdown > report.MaxDrawdown {
			report.MaxDrawdown = drawdown
		}

		totalRungs += record.RungsUsed
		totalDuration += record.ExitTime.Sub(record.EntryTime)
	}

	report.TotalPnL = cumulativePnL
	report.WinRate = float64(report.WinCount) / float64(report.TradeCount)
	report.AverageRungsUsed =
		float64(totalRungs) / float64(report.TradeCount)
	report.AverageTradeDuration =
		totalDuration / time.Duration(report.TradeCount)

	return report
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"trades: %v, win rate: %.2f, total pnl: %.2f, "+
			"max drawdown: %.2f, avg rungs: %.2f, avg duration: %v",
		r.TradeCount,
		r.WinRate,
		r.TotalPnL,
		r.MaxDrawdown,
		r.AverageRungsUsed,
		r.AverageTradeDuration,
	)
}
