package ladder

import (
	"fmt"
	"math/big"
)

type ExitReason int

const (
	NoExit ExitReason = iota
	TakeProfit
	StopLoss
	Flatten
)

func ParseExitReason(value string) (ExitReason, error) {
	switch value {
	case "NONE":
		return NoExit, nil
	case "TAKE_PROFIT":
		return TakeProfit, nil
	case "STOP_LOSS":
		return StopLoss, nil
	case "FLATTEN":
		return Flatten, nil
	}

	return -1, fmt.Errorf("unknown exit reason: [%v]", value)
}

func (er ExitReason) String() string {
	switch er {
	case NoExit:
		return "NONE"
	case TakeProfit:
		return "TAKE_PROFIT"
	case StopLoss:
		return "STOP_LOSS"
	case Flatten:
		return "FLATTEN"
	default:
		panic("unknown exit reason")
	}
}

type ExitDecision struct {
	Reason ExitReason
	Price  *big.Float
}

// ExitEvaluator derives take-profit and stop-loss trigger prices from
// the position snapshot and checks them against a candle's close
// price. It never mutates the position.
type ExitEvaluator struct {
	config *Config
	plan   *RungPlan
}

func NewExitEvaluator(config *Config, plan *RungPlan) *ExitEvaluator {
	return &ExitEvaluator{
		config: config,
		plan:   plan,
	}
}

// Evaluate checks the exit conditions for an open position against the
// given candle. When the take-profit and the stop-loss trigger on the
// same candle, the stop loss wins as the more conservative outcome.
func (ee *ExitEvaluator) Evaluate(
	snapshot *Snapshot,
	candle *Candle,
) (*ExitDecision, bool) {
	if !snapshot.IsOpen || !candle.Complete() {
		return nil, false
	}

	if stopPrice, armed := ee.StopLossPrice(snapshot); armed {
		if crossed(snapshot.Type.opposite(), candle.ClosePrice, stopPrice) {
			return &ExitDecision{
				Reason: StopLoss,
				Price:  stopPrice,
			}, true
		}
	}

	takeProfitPrice := ee.TakeProfitPrice(snapshot)
	if crossed(snapshot.Type, candle.ClosePrice, takeProfitPrice) {
		return &ExitDecision{
			Reason: TakeProfit,
			Price:  takeProfitPrice,
		}, true
	}

	return nil, false
}

// TakeProfitPrice is the price at which the position exits with profit,
// derived from the running average entry price.
func (ee *ExitEvaluator) TakeProfitPrice(snapshot *Snapshot) *big.Float {
	one := big.NewFloat(1)

	var factor *big.Float
	switch snapshot.Type {
	case LONG:
		factor = new(big.Float).Add(one, ee.config.TakeProfitFraction)
	case SHORT:
		factor = new(big.Float).Sub(one, ee.config.TakeProfitFraction)
	default:
		panic("unknown position type")
	}

	return new(big.Float).Mul(snapshot.AveragePrice, factor)
}

// StopLossPrice is the price at which the position exits with loss. It
// is anchored at the base order price while no rung has filled, then at
// the planned level of the most recently filled rung. The second return
// value reports whether the stop is armed at all under the configured
// arm policy.
func (ee *ExitEvaluator) StopLossPrice(
	snapshot *Snapshot,
) (*big.Float, bool) {
	switch ee.config.StopArmPolicy {
	case StopDisabled:
		return nil, false
	case StopAfterMaxRungs:
		if snapshot.RungsFilled < ee.config.MaxRungs {
			return nil, false
		}
	case StopAfterAnyRung:
		// armed from position open
	default:
		panic("unknown stop arm policy")
	}

	anchor := ee.plan.Level(
		snapshot.Rung0Price,
		snapshot.RungsFilled,
		snapshot.Type,
	)

	one := big.NewFloat(1)

	var factor *big.Float
	switch snapshot.Type {
	case LONG:
		factor = new(big.Float).Sub(one, ee.config.StopLossFraction)
	case SHORT:
		factor = new(big.Float).Add(one, ee.config.StopLossFraction)
	default:
		panic("unknown position type")
	}

	return new(big.Float).Mul(anchor, factor), true
}

// crossed checks whether the price reached the target in the favorable
// direction of the given position type: upwards for LONG, downwards
// for SHORT.
func crossed(
	positionType PositionType,
	price *big.Float,
	target *big.Float,
) bool {
	switch positionType {
	case LONG:
		return price.Cmp(target) >= 0
	case SHORT:
		return price.Cmp(target) <= 0
	default:
		panic("unknown position type")
	}
}

func (pt PositionType) opposite() PositionType {
	switch pt {
	case LONG:
		return SHORT
	case SHORT:
		return LONG
	default:
		panic("unknown position type")
	}
}
