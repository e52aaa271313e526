package inmem

import (
	"testing"

	"ladder"
)

func TestTradeRepository_Trades(t *testing.T) {
	repository := NewTradeRepository()

	trades := []*ladder.TradeRecord{
		{Pair: "BTCUSDT", Exchange: "binance"},
		{Pair: "ETHUSDT", Exchange: "binance"},
		{Pair: "BTCUSDT", Exchange: "test"},
	}

	for _, trade := range trades {
		if err := repository.CreateTrade(trade); err != nil {
			t.Fatal(err)
		}
	}

	assertTradesCount := func(filter ladder.TradeFilter, expected int) {
		actualTrades, err := repository.Trades(filter)
		if err != nil {
			t.Fatal(err)
		}

		if len(actualTrades) != expected {
			t.Errorf(
				"unexpected trades count for filter [%+v]\n"+
					"expected: [%v]\n"+
					"actual:   [%v]",
				filter,
				expected,
				len(actualTrades),
			)
		}
	}

	assertTradesCount(ladder.TradeFilter{}, 3)
	assertTradesCount(ladder.TradeFilter{Pair: "BTCUSDT"}, 2)
	assertTradesCount(ladder.TradeFilter{Exchange: "binance"}, 2)
	assertTradesCount(
		ladder.TradeFilter{Pair: "BTCUSDT", Exchange: "test"},
		1,
	)
	assertTradesCount(ladder.TradeFilter{Pair: "XRPUSDT"}, 0)
}
