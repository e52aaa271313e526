package binance

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/adshao/go-binance/v2"

	"ladder"
)

const requestTimeout = 1 * time.Minute

const exchangeName = "binance"

// CandleService streams candles from the Binance spot market: the
// historical window through the REST klines endpoint and subsequent
// intrabar updates through the websocket kline stream. Order execution
// endpoints are deliberately absent; the engine never routes real
// orders.
type CandleService struct {
	client *binance.Client
}

func NewCandleService(apiKey, secretKey string, testnet bool) *CandleService {
	binance.UseTestnet = testnet

	return &CandleService{
		client: binance.NewClient(apiKey, secretKey),
	}
}

func (cs *CandleService) ExchangeName() string {
	return exchangeName
}

func (cs *CandleService) Candles(
	ctx context.Context,
	filter *ladder.CandleFilter,
) ([]*ladder.Candle, error) {
	requestCtx, cancelRequestCtx := context.WithTimeout(ctx, requestTimeout)
	defer cancelRequestCtx()

	klines, err := cs.client.
		NewKlinesService().
		Symbol(filter.Pair).
		Interval(filter.Interval).
		StartTime(filter.StartTime.UnixNano() / 1e6).
		EndTime(filter.EndTime.UnixNano() / 1e6).
		Limit(1000).
		Do(requestCtx)
	if err != nil {
		return nil, err
	}

	candles := make([]*ladder.Candle, len(klines))
	for index := range candles {
		kline := klines[index]

		candle, err := newCandle(
			filter.Pair,
			parseMilliseconds(kline.OpenTime),
			parseMilliseconds(kline.CloseTime),
			kline.Open,
			kline.Close,
			kline.High,
			kline.Low,
			kline.Volume,
			uint(kline.TradeNum),
		)
		if err != nil {
			return nil, fmt.Errorf("could not parse kline: [%v]", err)
		}

		candles[index] = candle
	}

	return candles, nil
}

func (cs *CandleService) CandlesTicker(
	ctx context.Context,
	filter *ladder.CandleFilter,
) (<-chan *ladder.CandleTick, <-chan error) {
	tickChannel := make(chan *ladder.CandleTick)
	errorChannel := make(chan error)

	go func() {
		_, stopChannel, err := binance.WsKlineServe(
			filter.Pair,
			filter.Interval,
			func(event *binance.WsKlineEvent) {
				tick, err := parseKlineEvent(event)
				if err != nil {
					errorChannel <- err
					return
				}

				tickChannel <- tick
			},
			func(err error) {
				errorChannel <- err
			},
		)
		if err != nil {
			errorChannel <- err
			return
		}

		<-ctx.Done()
		close(stopChannel)
	}()

	return tickChannel, errorChannel
}

func parseKlineEvent(event *binance.WsKlineEvent) (*ladder.CandleTick, error) {
	candle, err := newCandle(
		event.Symbol,
		parseMilliseconds(event.Kline.StartTime),
		parseMilliseconds(event.Kline.EndTime),
		event.Kline.Open,
		event.Kline.Close,
		event.Kline.High,
		event.Kline.Low,
		event.Kline.Volume,
		uint(event.Kline.TradeNum),
	)
	if err != nil {
		return nil, fmt.Errorf("could not parse kline event: [%v]", err)
	}

	return &ladder.CandleTick{
		Candle:   candle,
		TickTime: parseMilliseconds(event.Time),
	}, nil
}

func newCandle(
	pair string,
	openTime, closeTime time.Time,
	openPrice, closePrice, maxPrice, minPrice, volume string,
	tradeCount uint,
) (*ladder.Candle, error) {
	prices := make([]*big.Float, 5)

	for index, value := range []string{
		openPrice,
		closePrice,
		maxPrice,
		minPrice,
		volume,
	} {
		price, ok := new(big.Float).SetString(value)
		if !ok {
			return nil, fmt.Errorf("could not parse value: [%v]", value)
		}

		prices[index] = price
	}

	return &ladder.Candle{
		Pair:       pair,
		Exchange:   exchangeName,
		OpenTime:   openTime,
		CloseTime:  closeTime,
		OpenPrice:  prices[0],
		ClosePrice: prices[1],
		MaxPrice:   prices[2],
		MinPrice:   prices[3],
		Volume:     prices[4],
		TradeCount: tradeCount,
	}, nil
}

func parseMilliseconds(milliseconds int64) time.Time {
	return time.Unix(0, milliseconds*int64(time.Millisecond))
}
