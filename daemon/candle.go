package daemon

import (
	"context"
	"fmt"
	"time"

	"ladder"
)

const candleTickTimeout = 10 * time.Second

// CandleSource streams candles for one pair: a historical window first,
// then live intrabar ticks.
type CandleSource interface {
	ExchangeName() string

	Candles(
		ctx context.Context,
		filter *ladder.CandleFilter,
	) ([]*ladder.Candle, error)

	CandlesTicker(
		ctx context.Context,
		filter *ladder.CandleFilter,
	) (<-chan *ladder.CandleTick, <-chan error)
}

type CandleMonitor struct {
	logger     ladder.Logger
	source     CandleSource
	filter     *ladder.CandleFilter
	repository ladder.CandleRepository
	errChan    chan error
}

func RunCandleMonitor(
	ctx context.Context,
	logger ladder.Logger,
	source CandleSource,
	filter *ladder.CandleFilter,
	repository ladder.CandleRepository,
) *CandleMonitor {
	monitor := &CandleMonitor{
		logger:     logger,
		source:     source,
		filter:     filter,
		repository: repository,
		errChan:    make(chan error, 1),
	}

	go monitor.loop(ctx)

	return monitor
}

func (cm *CandleMonitor) loop(ctx context.Context) {
	candles, err := cm.source.Candles(ctx, cm.filter)
	if err != nil {
		cm.errChan <- fmt.Errorf("failed to get candles: [%v]", err)
		return
	}

	cm.logger.Debugf("fetched [%v] historical candles", len(candles))

	cm.repository.SaveCandles(candles...)

	tickTimeoutTimer := time.NewTimer(candleTickTimeout)
	ticker, tickerErrorChannel := cm.source.CandlesTicker(ctx, cm.filter)

	for {
		select {
		case tick := <-ticker:
			cm.logger.Debugf("received candle tick [%v]", tick)

			cm.repository.SaveCandles(tick.Candle)

			if !tickTimeoutTimer.Stop() {
				<-tickTimeoutTimer.C
			}
			tickTimeoutTimer.Reset(candleTickTimeout)
		case <-tickTimeoutTimer.C:
			cm.errChan <- fmt.Errorf("tick timeout expiration")
			return
		case err := <-tickerErrorChannel:
			cm.errChan <- fmt.Errorf("ticker error: [%v]", err)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (cm *CandleMonitor) ErrChan() <-chan error {
	return cm.errChan
}
