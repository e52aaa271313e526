package ladder

import (
	"fmt"
	"math/big"
	"time"
)

type Candle struct {
	Pair       string
	Exchange   string
	OpenTime   time.Time
	CloseTime  time.Time
	OpenPrice  *big.Float
	ClosePrice *big.Float
	MaxPrice   *big.Float
	MinPrice   *big.Float
	Volume     *big.Float
	TradeCount uint
}

// Complete checks whether the candle carries all four price points.
// Incomplete candles are tolerated by consumers and treated as
// "no signal, no rung crossing".
func (c *Candle) Complete() bool {
	return c.OpenPrice != nil &&
		c.ClosePrice != nil &&
		c.MaxPrice != nil &&
		c.MinPrice != nil
}

func (c *Candle) Equal(other *Candle) bool {
	return c.OpenTime.Equal(other.OpenTime) &&
		c.CloseTime.Equal(other.CloseTime)
}

func (c *Candle) String() string {
	closePrice := "<nil>"
	if c.ClosePrice != nil {
		closePrice = c.ClosePrice.Text('f', 2)
	}

	return fmt.Sprintf(
		"time: %v, price: %v",
		c.OpenTime.Format(time.RFC3339),
		closePrice,
	)
}

// CandleTick is an intrabar update of a still-open candle, as used in
// the every-tick evaluation mode.
type CandleTick struct {
	*Candle
	TickTime time.Time
}

func (ct *CandleTick) String() string {
	return ct.Candle.String()
}

type CandleFilter struct {
	Pair      string
	Interval  string
	StartTime time.Time
	EndTime   time.Time
}

type CandleRepository interface {
	SaveCandles(candles ...*Candle)

	Candles() []*Candle

	LastClosePrice() (*big.Float, error)
}
