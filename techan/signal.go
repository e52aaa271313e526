package techan

import (
	"math/big"
	"time"

	techanbig "github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"ladder"
)

const emaLength = 50

// SignalGenerator produces directional entry signals from an EMA cross
// of the close price: a cross up fires a LONG signal, a cross down
// fires a SHORT one. A signal fires at most once per candle.
type SignalGenerator struct {
	logger ladder.Logger
	pair   ladder.Pair

	lastSignalCandleTime time.Time
}

func NewSignalGenerator(
	logger ladder.Logger,
	pair ladder.Pair,
) *SignalGenerator {
	return &SignalGenerator{
		logger: logger,
		pair:   pair,
	}
}

func (sg *SignalGenerator) Evaluate(
	candles []*ladder.Candle,
) (*ladder.Signal, bool) {
	if len(candles) <= emaLength {
		return nil, false
	}

	lastCandle := candles[len(candles)-1]

	if lastCandle.OpenTime.Equal(sg.lastSignalCandleTime) {
		// already fired for this candle
		return nil, false
	}

	series := techan.NewTimeSeries()

	for _, currentCandle := range candles {
		series.AddCandle(toTechanCandle(currentCandle))
	}

	lastIndex := series.LastIndex()
	price := techan.NewClosePriceIndicator(series)
	priceEma := techan.NewEMAIndicator(price, emaLength)

	// Check against the second to last index because the last index is
	// not yet stable as its value changes.
	checkIndex := lastIndex - 1

	crossUp := newNearCrossRule(priceEma, price, 1)
	crossDown := newNearCrossRule(priceEma, price, -1)

	var signalType ladder.PositionType

	if crossUp.IsSatisfied(checkIndex, nil) {
		signalType = ladder.LONG
	} else if crossDown.IsSatisfied(checkIndex, nil) {
		signalType = ladder.SHORT
	} else {
		return nil, false
	}

	sg.lastSignalCandleTime = lastCandle.OpenTime

	sg.logger.Debugf(
		"ema cross detected; firing [%v] signal for pair [%v]",
		signalType,
		sg.pair,
	)

	return &ladder.Signal{
		Pair: sg.pair,
		Type: signalType,
	}, true
}

func toTechanCandle(candle *ladder.Candle) *techan.Candle {
	period := techan.TimePeriod{
		Start: candle.OpenTime,
		End:   candle.CloseTime,
	}

	techanCandle := techan.NewCandle(period)

	techanCandle.OpenPrice = toTechanValue(candle.OpenPrice)
	techanCandle.ClosePrice = toTechanValue(candle.ClosePrice)
	techanCandle.MaxPrice = toTechanValue(candle.MaxPrice)
	techanCandle.MinPrice = toTechanValue(candle.MinPrice)
	techanCandle.Volume = toTechanValue(candle.Volume)
	techanCandle.TradeCount = candle.TradeCount

	return techanCandle
}

func toTechanValue(value *big.Float) techanbig.Decimal {
	if value == nil {
		return techanbig.ZERO
	}

	return techanbig.NewFromString(value.Text('f', 8))
}

type nearCrossRule struct {
	upper techan.Indicator
	lower techan.Indicator
	cmp   int
}

func newNearCrossRule(
	upper, lower techan.Indicator,
	cmp int,
) techan.Rule {
	return nearCrossRule{
		upper: upper,
		lower: lower,
		cmp:   cmp,
	}
}

func (ncr nearCrossRule) IsSatisfied(
	index int,
	_ *techan.TradingRecord,
) bool {
	if index <= 0 {
		return false
	}

	current := ncr.lower.Calculate(index).
		Cmp(ncr.upper.Calculate(index))

	previous := ncr.lower.Calculate(index - 1).
		Cmp(ncr.upper.Calculate(index - 1))

	if (current == 0 || current == ncr.cmp) &&
		(previous == 0 || previous == -ncr.cmp) {
		return true
	}

	return false
}
