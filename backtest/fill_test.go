package backtest

import (
	"math"
	"math/big"
	"testing"

	"ladder"
)

const priceTolerance = 1e-9

func assertFloatEqual(
	t *testing.T,
	name string,
	expected float64,
	actual *big.Float,
) {
	t.Helper()

	actualValue, _ := actual.Float64()

	if math.Abs(actualValue-expected) > priceTolerance {
		t.Errorf(
			"unexpected %v\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			name,
			expected,
			actualValue,
		)
	}
}

func testCandle(open, high, low, close float64) *ladder.Candle {
	return &ladder.Candle{
		OpenPrice:  big.NewFloat(open),
		MaxPrice:   big.NewFloat(high),
		MinPrice:   big.NewFloat(low),
		ClosePrice: big.NewFloat(close),
	}
}

func TestIntrabarFillResolver_Long(t *testing.T) {
	resolver := NewIntrabarFillResolver()
	level := big.NewFloat(99.5)

	// candle low above the level
	_, isCrossed := resolver.Resolve(
		ladder.LONG,
		level,
		testCandle(100, 100.2, 99.6, 100),
	)
	if isCrossed {
		t.Error("expected no fill")
	}

	// candle touches the level; fill at the level price
	fillPrice, isCrossed := resolver.Resolve(
		ladder.LONG,
		level,
		testCandle(100, 100.2, 99.4, 99.8),
	)
	if !isCrossed {
		t.Fatal("expected a fill")
	}

	assertFloatEqual(t, "fill price", 99.5, fillPrice)

	// candle gaps below the level; fill at the open price
	fillPrice, isCrossed = resolver.Resolve(
		ladder.LONG,
		level,
		testCandle(99.2, 99.4, 99.1, 99.3),
	)
	if !isCrossed {
		t.Fatal("expected a fill")
	}

	assertFloatEqual(t, "fill price", 99.2, fillPrice)
}

func TestIntrabarFillResolver_Short(t *testing.T) {
	resolver := NewIntrabarFillResolver()
	level := big.NewFloat(100.5)

	// candle high below the level
	_, isCrossed := resolver.Resolve(
		ladder.SHORT,
		level,
		testCandle(100, 100.4, 99.8, 100),
	)
	if isCrossed {
		t.Error("expected no fill")
	}

	// candle touches the level; fill at the level price
	fillPrice, isCrossed := resolver.Resolve(
		ladder.SHORT,
		level,
		testCandle(100, 100.6, 99.8, 100.2),
	)
	if !isCrossed {
		t.Fatal("expected a fill")
	}

	assertFloatEqual(t, "fill price", 100.5, fillPrice)

	// candle gaps above the level; fill at the open price
	fillPrice, isCrossed = resolver.Resolve(
		ladder.SHORT,
		level,
		testCandle(100.8, 101, 100.7, 100.9),
	)
	if !isCrossed {
		t.Fatal("expected a fill")
	}

	assertFloatEqual(t, "fill price", 100.8, fillPrice)
}

func TestCloseOnlyFillResolver(t *testing.T) {
	resolver := NewCloseOnlyFillResolver()
	level := big.NewFloat(99.5)

	// the low touches the level but the close does not
	_, isCrossed := resolver.Resolve(
		ladder.LONG,
		level,
		testCandle(100, 100.2, 99.4, 99.8),
	)
	if isCrossed {
		t.Error("expected no fill")
	}

	// the close crosses the level; fill at the close price
	fillPrice, isCrossed := resolver.Resolve(
		ladder.LONG,
		level,
		testCandle(100, 100.2, 99.2, 99.3),
	)
	if !isCrossed {
		t.Fatal("expected a fill")
	}

	assertFloatEqual(t, "fill price", 99.3, fillPrice)
}

func TestFillResolvers_IncompleteCandle(t *testing.T) {
	candle := testCandle(100, 100.2, 99.4, 99.8)
	candle.ClosePrice = nil

	if _, isCrossed := NewIntrabarFillResolver().Resolve(
		ladder.LONG,
		big.NewFloat(99.5),
		candle,
	); isCrossed {
		t.Error("expected no fill")
	}

	if _, isCrossed := NewCloseOnlyFillResolver().Resolve(
		ladder.LONG,
		big.NewFloat(99.5),
		candle,
	); isCrossed {
		t.Error("expected no fill")
	}
}
