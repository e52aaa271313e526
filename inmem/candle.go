package inmem

import (
	"fmt"
	"math/big"
	"sync"

	"ladder"
)

type CandleRepository struct {
	candlesMutex sync.RWMutex
	candles      []*ladder.Candle

	windowSize int
}

func NewCandleRepository(windowSize int) *CandleRepository {
	return &CandleRepository{
		candles:    make([]*ladder.Candle, 0),
		windowSize: windowSize,
	}
}

func (cr *CandleRepository) SaveCandles(candles ...*ladder.Candle) {
	cr.candlesMutex.Lock()
	defer cr.candlesMutex.Unlock()

	for _, candle := range candles {
		var lastCandle *ladder.Candle
		if len(cr.candles) > 0 {
			lastCandle = cr.candles[len(cr.candles)-1]
		}

		if lastCandle != nil && lastCandle.Equal(candle) {
			lastCandle.OpenPrice = candle.OpenPrice
			lastCandle.ClosePrice = candle.ClosePrice
			lastCandle.MaxPrice = candle.MaxPrice
			lastCandle.MinPrice = candle.MinPrice
			lastCandle.Volume = candle.Volume
			lastCandle.TradeCount = candle.TradeCount
		} else {
			cr.candles = append(cr.candles, candle)

			// remove oldest candle if registry size has been exceeded
			if len(cr.candles) > cr.windowSize {
				index := 0
				copy(cr.candles[index:], cr.candles[index+1:])
				cr.candles[len(cr.candles)-1] = nil
				cr.candles = cr.candles[:len(cr.candles)-1]
			}
		}
	}
}

func (cr *CandleRepository) Candles() []*ladder.Candle {
	cr.candlesMutex.RLock()
	defer cr.candlesMutex.RUnlock()

	snapshot := make([]*ladder.Candle, len(cr.candles))
	copy(snapshot, cr.candles)

	return snapshot
}

func (cr *CandleRepository) LastClosePrice() (*big.Float, error) {
	cr.candlesMutex.RLock()
	defer cr.candlesMutex.RUnlock()

	if len(cr.candles) == 0 {
		return nil, fmt.Errorf("no candles in the repository")
	}

	lastCandle := cr.candles[len(cr.candles)-1]
	if lastCandle.ClosePrice == nil {
		return nil, fmt.Errorf("last candle has no close price")
	}

	return new(big.Float).Copy(lastCandle.ClosePrice), nil
}
