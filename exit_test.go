package ladder

import (
	"math/big"
	"testing"
)

func testCandle(open, high, low, close float64) *Candle {
	return &Candle{
		OpenPrice:  big.NewFloat(open),
		MaxPrice:   big.NewFloat(high),
		MinPrice:   big.NewFloat(low),
		ClosePrice: big.NewFloat(close),
	}
}

func testSnapshot(
	positionType PositionType,
	rung0Price float64,
	averagePrice float64,
	rungsFilled int,
) *Snapshot {
	return &Snapshot{
		ID:           testID("position-1"),
		IsOpen:       true,
		Type:         positionType,
		Rung0Price:   big.NewFloat(rung0Price),
		RungsFilled:  rungsFilled,
		AveragePrice: big.NewFloat(averagePrice),
	}
}

func newTestEvaluator(t *testing.T, config *Config) *ExitEvaluator {
	t.Helper()

	plan, err := NewRungPlan(config)
	if err != nil {
		t.Fatal(err)
	}

	return NewExitEvaluator(config, plan)
}

func TestExitEvaluator_TakeProfit(t *testing.T) {
	evaluator := newTestEvaluator(t, validConfig())

	snapshot := testSnapshot(LONG, 100, 99.6994, 1)

	// take profit price = 99.6994 * 1.005 ≈ 100.1979
	belowTarget := testCandle(100, 100.19, 99.9, 100.19)
	if _, shouldExit := evaluator.Evaluate(snapshot, belowTarget); shouldExit {
		t.Errorf("expected no exit below the take profit price")
	}

	atTarget := testCandle(100, 100.25, 99.9, 100.2)
	decision, shouldExit := evaluator.Evaluate(snapshot, atTarget)
	if !shouldExit {
		t.Fatal("expected an exit at the take profit price")
	}

	if decision.Reason != TakeProfit {
		t.Errorf(
			"unexpected exit reason\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			TakeProfit,
			decision.Reason,
		)
	}

	assertFloatEqual(t, "exit price", 100.197897, decision.Price)
}

func TestExitEvaluator_TakeProfitShort(t *testing.T) {
	config := validConfig()
	config.DirectionMode = ShortOnly

	evaluator := newTestEvaluator(t, config)

	snapshot := testSnapshot(SHORT, 100, 100.3, 1)

	// take profit price = 100.3 * 0.995 ≈ 99.7985
	decision, shouldExit := evaluator.Evaluate(
		snapshot,
		testCandle(100, 100.1, 99.7, 99.79),
	)
	if !shouldExit {
		t.Fatal("expected an exit at the take profit price")
	}

	if decision.Reason != TakeProfit {
		t.Errorf(
			"unexpected exit reason\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			TakeProfit,
			decision.Reason,
		)
	}
}

func TestExitEvaluator_StopArmedAfterMaxRungsOnly(t *testing.T) {
	config := validConfig()
	config.StopArmPolicy = StopAfterMaxRungs
	config.StopLossFraction = big.NewFloat(0.01)
	config.GrowthPolicy = PureGeometric

	evaluator := newTestEvaluator(t, config)

	// only 1 of 3 rungs filled; the stop is inactive regardless of how
	// far the price falls
	snapshot := testSnapshot(LONG, 100, 99.6994, 1)

	crash := testCandle(95, 95, 90, 90)
	if _, shouldExit := evaluator.Evaluate(snapshot, crash); shouldExit {
		t.Errorf("expected no exit while the stop is not armed")
	}

	if _, armed := evaluator.StopLossPrice(snapshot); armed {
		t.Errorf("expected the stop to be disarmed")
	}

	// all rungs filled; the stop activates, anchored at rung 3's level
	snapshot = testSnapshot(LONG, 100, 99.2, 3)

	stopPrice, armed := evaluator.StopLossPrice(snapshot)
	if !armed {
		t.Fatal("expected the stop to be armed")
	}

	// rung 3 level = 100 * (1 - 0.0072); stop = level * 0.99
	assertFloatEqual(t, "stop price", 100*(1-0.0072)*0.99, stopPrice)

	decision, shouldExit := evaluator.Evaluate(snapshot, crash)
	if !shouldExit {
		t.Fatal("expected a stop loss exit")
	}

	if decision.Reason != StopLoss {
		t.Errorf(
			"unexpected exit reason\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			StopLoss,
			decision.Reason,
		)
	}
}

func TestExitEvaluator_StopAfterAnyRungTracksLatestRung(t *testing.T) {
	config := validConfig()
	config.StopArmPolicy = StopAfterAnyRung
	config.StopLossFraction = big.NewFloat(0.01)
	config.GrowthPolicy = PureGeometric

	evaluator := newTestEvaluator(t, config)

	// no rung filled yet; the stop anchors at the base order price
	stopPrice, armed := evaluator.StopLossPrice(
		testSnapshot(LONG, 100, 100, 0),
	)
	if !armed {
		t.Fatal("expected the stop to be armed")
	}
	assertFloatEqual(t, "stop price at rung 0", 99, stopPrice)

	// rung 1 filled; the stop re-anchors at rung 1's level
	stopPrice, armed = evaluator.StopLossPrice(
		testSnapshot(LONG, 100, 99.6994, 1),
	)
	if !armed {
		t.Fatal("expected the stop to be armed")
	}
	assertFloatEqual(t, "stop price at rung 1", 99.5*0.99, stopPrice)
}

func TestExitEvaluator_StopPrecedence(t *testing.T) {
	// When the take profit and the stop loss both trigger on the same
	// candle, the stop loss wins as the more conservative outcome.
	config := validConfig()
	config.StopArmPolicy = StopAfterAnyRung
	config.StopLossFraction = big.NewFloat(0.004)

	evaluator := newTestEvaluator(t, config)

	// average dragged down to 98.6; take profit = 98.6 * 1.005 = 99.093;
	// stop anchored at rung 1 level 99.5, stop = 99.5 * 0.996 = 99.102
	snapshot := testSnapshot(LONG, 100, 98.6, 1)

	// close 99.1 is above the take profit (99.093) and below the
	// stop (99.102); both conditions hold
	candle := testCandle(99.3, 99.4, 99.0, 99.1)

	takeProfitPrice := evaluator.TakeProfitPrice(snapshot)
	stopPrice, armed := evaluator.StopLossPrice(snapshot)
	if !armed {
		t.Fatal("expected the stop to be armed")
	}

	if candle.ClosePrice.Cmp(takeProfitPrice) < 0 {
		t.Fatal("test candle does not trigger the take profit")
	}
	if candle.ClosePrice.Cmp(stopPrice) > 0 {
		t.Fatal("test candle does not trigger the stop loss")
	}

	decision, shouldExit := evaluator.Evaluate(snapshot, candle)
	if !shouldExit {
		t.Fatal("expected an exit")
	}

	if decision.Reason != StopLoss {
		t.Errorf(
			"unexpected exit reason\n"+
				"expected: [%v]\n"+
				"actual:   [%v]",
			StopLoss,
			decision.Reason,
		)
	}
}

func TestExitEvaluator_StopDisabled(t *testing.T) {
	evaluator := newTestEvaluator(t, validConfig())

	snapshot := testSnapshot(LONG, 100, 99.6994, 3)

	if _, armed := evaluator.StopLossPrice(snapshot); armed {
		t.Errorf("expected the stop to be disarmed")
	}
}

func TestExitEvaluator_IncompleteCandle(t *testing.T) {
	evaluator := newTestEvaluator(t, validConfig())

	snapshot := testSnapshot(LONG, 100, 99.6994, 1)

	candle := testCandle(100, 110, 99, 110)
	candle.MaxPrice = nil

	if _, shouldExit := evaluator.Evaluate(snapshot, candle); shouldExit {
		t.Errorf("expected no exit for an incomplete candle")
	}
}
