package ladder

import (
	"math/big"
	"testing"
	"time"
)

type testID string

func (ti testID) String() string {
	return string(ti)
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatal(err)
	}

	return parsed
}

func assertInvariantError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error")
	}

	if _, ok := err.(*InvariantError); !ok {
		t.Errorf("expected an invariant error; got: [%v]", err)
	}
}

func openTestPosition(t *testing.T, ledger *Ledger) {
	t.Helper()

	err := ledger.OpenPosition(
		testID("position-1"),
		"BTCUSDT",
		"binance",
		LONG,
		big.NewFloat(100),
		big.NewFloat(1),
		testTime(t, "2021-06-11T15:00:00Z"),
	)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLedger_OpenPosition(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	snapshot, isOpen := ledger.Snapshot()
	if !isOpen {
		t.Fatal("expected an open position")
	}

	assertFloatEqual(t, "rung 0 price", 100, snapshot.Rung0Price)
	assertFloatEqual(t, "total quantity", 1, snapshot.TotalQuantity)
	assertFloatEqual(t, "total cost", 100, snapshot.TotalCost)
	assertFloatEqual(t, "average price", 100, snapshot.AveragePrice)

	if snapshot.RungsFilled != 0 {
		t.Errorf(
			"unexpected rungs filled count\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			0,
			snapshot.RungsFilled,
		)
	}
}

func TestLedger_ApplyFill(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	// quantity = 100 * 1.5 / 99.5
	quantity := new(big.Float).Quo(big.NewFloat(150), big.NewFloat(99.5))

	err := ledger.ApplyFill(1, big.NewFloat(99.5), quantity)
	if err != nil {
		t.Fatal(err)
	}

	snapshot, _ := ledger.Snapshot()

	if snapshot.RungsFilled != 1 {
		t.Errorf(
			"unexpected rungs filled count\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			1,
			snapshot.RungsFilled,
		)
	}

	// total cost = 100 + 99.5 * (150/99.5) = 250
	// total quantity = 1 + 150/99.5 ≈ 2.5075377
	// average = 250 / 2.5075377 ≈ 99.69940
	assertFloatEqual(t, "total cost", 250, snapshot.TotalCost)
	assertFloatEqual(
		t,
		"total quantity",
		2.507537688442211,
		snapshot.TotalQuantity,
	)
	assertFloatEqual(t, "average price", 99.699398797595, snapshot.AveragePrice)
}

func TestLedger_AveragePriceInvariant(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	fills := []struct {
		rungIndex int
		price     float64
		quantity  float64
	}{
		{1, 99.5, 1.5075},
		{2, 99.4, 2.2635},
		{3, 99.28, 3.3995},
	}

	for _, fill := range fills {
		err := ledger.ApplyFill(
			fill.rungIndex,
			big.NewFloat(fill.price),
			big.NewFloat(fill.quantity),
		)
		if err != nil {
			t.Fatal(err)
		}

		snapshot, _ := ledger.Snapshot()

		expectedAverage := new(big.Float).Quo(
			snapshot.TotalCost,
			snapshot.TotalQuantity,
		)
		expectedAverageValue, _ := expectedAverage.Float64()

		assertFloatEqual(
			t,
			"average price after fill",
			expectedAverageValue,
			snapshot.AveragePrice,
		)
	}
}

func TestLedger_OpenWhileOpen(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	err := ledger.OpenPosition(
		testID("position-2"),
		"BTCUSDT",
		"binance",
		LONG,
		big.NewFloat(100),
		big.NewFloat(1),
		testTime(t, "2021-06-11T15:01:00Z"),
	)
	assertInvariantError(t, err)
}

func TestLedger_FillWhileFlat(t *testing.T) {
	ledger := NewLedger()

	err := ledger.ApplyFill(1, big.NewFloat(99.5), big.NewFloat(1))
	assertInvariantError(t, err)
}

func TestLedger_FillOutOfSequence(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	err := ledger.ApplyFill(2, big.NewFloat(99.4), big.NewFloat(1))
	assertInvariantError(t, err)
}

func TestLedger_CloseWhileFlat(t *testing.T) {
	ledger := NewLedger()

	_, err := ledger.ClosePosition(
		TakeProfit,
		big.NewFloat(100.5),
		testTime(t, "2021-06-11T15:05:00Z"),
	)
	assertInvariantError(t, err)
}

func TestLedger_ClosePosition(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	err := ledger.ApplyFill(1, big.NewFloat(99.5), big.NewFloat(1.5))
	if err != nil {
		t.Fatal(err)
	}

	exitTime := testTime(t, "2021-06-11T15:05:00Z")

	record, err := ledger.ClosePosition(
		TakeProfit,
		big.NewFloat(100.5),
		exitTime,
	)
	if err != nil {
		t.Fatal(err)
	}

	if ledger.IsOpen() {
		t.Errorf("expected the ledger to be flat after close")
	}

	if record.ExitReason != TakeProfit {
		t.Errorf(
			"unexpected exit reason\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			TakeProfit,
			record.ExitReason,
		)
	}

	if record.RungsUsed != 1 {
		t.Errorf(
			"unexpected rungs used count\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			1,
			record.RungsUsed,
		)
	}

	if !record.ExitTime.Equal(exitTime) {
		t.Errorf(
			"unexpected exit time\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			exitTime,
			record.ExitTime,
		)
	}

	assertFloatEqual(t, "exit price", 100.5, record.ExitPrice)
	assertFloatEqual(t, "quantity", 2.5, record.Quantity)

	// reopening after close must succeed
	openTestPosition(t, ledger)
}

func TestSnapshot_UnrealizedPnLFraction(t *testing.T) {
	ledger := NewLedger()
	openTestPosition(t, ledger)

	snapshot, _ := ledger.Snapshot()

	assertFloatEqual(
		t,
		"long pnl fraction",
		0.05,
		snapshot.UnrealizedPnLFraction(big.NewFloat(105)),
	)

	snapshot.Type = SHORT

	assertFloatEqual(
		t,
		"short pnl fraction",
		-0.05,
		snapshot.UnrealizedPnLFraction(big.NewFloat(105)),
	)
}

func TestTradeRecord_PnL(t *testing.T) {
	record := &TradeRecord{
		Type:              LONG,
		AverageEntryPrice: big.NewFloat(100),
		ExitPrice:         big.NewFloat(101),
		Quantity:          big.NewFloat(2),
	}

	assertFloatEqual(t, "long pnl", 2, record.PnL())

	record.Type = SHORT

	assertFloatEqual(t, "short pnl", -2, record.PnL())
}
