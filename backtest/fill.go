package backtest

import (
	"math/big"

	"ladder"
)

// IntrabarFillResolver treats a rung as filled once the candle's
// adverse extreme touches its level. The fill executes at the level
// price, or at the candle open when the candle gaps through the level
// entirely (a resting limit order fills at its price or better).
type IntrabarFillResolver struct{}

func NewIntrabarFillResolver() *IntrabarFillResolver {
	return &IntrabarFillResolver{}
}

func (ifr *IntrabarFillResolver) Resolve(
	positionType ladder.PositionType,
	level *big.Float,
	candle *ladder.Candle,
) (*big.Float, bool) {
	if !candle.Complete() {
		return nil, false
	}

	switch positionType {
	case ladder.LONG:
		if candle.MinPrice.Cmp(level) > 0 {
			return nil, false
		}

		if candle.OpenPrice.Cmp(level) < 0 {
			return new(big.Float).Copy(candle.OpenPrice), true
		}

		return new(big.Float).Copy(level), true
	case ladder.SHORT:
		if candle.MaxPrice.Cmp(level) < 0 {
			return nil, false
		}

		if candle.OpenPrice.Cmp(level) > 0 {
			return new(big.Float).Copy(candle.OpenPrice), true
		}

		return new(big.Float).Copy(level), true
	default:
		panic("unknown position type")
	}
}

// CloseOnlyFillResolver checks rung crossings against the candle close
// price only and fills at the close. More conservative than the
// intrabar model for sparse data where the intrabar path is unknown.
type CloseOnlyFillResolver struct{}

func NewCloseOnlyFillResolver() *CloseOnlyFillResolver {
	return &CloseOnlyFillResolver{}
}

func (cfr *CloseOnlyFillResolver) Resolve(
	positionType ladder.PositionType,
	level *big.Float,
	candle *ladder.Candle,
) (*big.Float, bool) {
	if !candle.Complete() {
		return nil, false
	}

	switch positionType {
	case ladder.LONG:
		if candle.ClosePrice.Cmp(level) > 0 {
			return nil, false
		}
	case ladder.SHORT:
		if candle.ClosePrice.Cmp(level) < 0 {
			return nil, false
		}
	default:
		panic("unknown position type")
	}

	return new(big.Float).Copy(candle.ClosePrice), true
}
