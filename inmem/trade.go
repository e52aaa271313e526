package inmem

import (
	"sync"

	"ladder"
)

type TradeRepository struct {
	tradesMutex sync.RWMutex
	trades      []*ladder.TradeRecord
}

func NewTradeRepository() *TradeRepository {
	return &TradeRepository{
		trades: make([]*ladder.TradeRecord, 0),
	}
}

func (tr *TradeRepository) CreateTrade(record *ladder.TradeRecord) error {
	tr.tradesMutex.Lock()
	defer tr.tradesMutex.Unlock()

	tr.trades = append(tr.trades, record)

	return nil
}

func (tr *TradeRepository) Trades(
	filter ladder.TradeFilter,
) ([]*ladder.TradeRecord, error) {
	tr.tradesMutex.RLock()
	defer tr.tradesMutex.RUnlock()

	trades := make([]*ladder.TradeRecord, 0)

	for _, trade := range tr.trades {
		if len(filter.Pair) > 0 && trade.Pair != filter.Pair {
			continue
		}

		if len(filter.Exchange) > 0 && trade.Exchange != filter.Exchange {
			continue
		}

		trades = append(trades, trade)
	}

	return trades, nil
}
