package ladder

import (
	"fmt"
	"math/big"
	"time"
)

type PositionType int

const (
	LONG PositionType = iota
	SHORT
)

func ParsePositionType(value string) (PositionType, error) {
	switch value {
	case "LONG":
		return LONG, nil
	case "SHORT":
		return SHORT, nil
	}

	return -1, fmt.Errorf("unknown position type: [%v]", value)
}

func (pt PositionType) String() string {
	switch pt {
	case LONG:
		return "LONG"
	case SHORT:
		return "SHORT"
	default:
		panic("unknown position type")
	}
}

// Position is the single mutable record of one open ladder position.
// It is owned exclusively by the Ledger and exposed to observers only
// through read-only snapshots.
type Position struct {
	ID            ID
	Pair          string
	Exchange      string
	Type          PositionType
	Rung0Price    *big.Float
	RungsFilled   int
	TotalQuantity *big.Float
	TotalCost     *big.Float
	AveragePrice  *big.Float
	EntryTime     time.Time
}

// Ledger tracks at most one open position, applies rung fills and
// maintains the volume-weighted average entry price. Precondition
// violations surface as InvariantError since they always indicate a
// controller bug, not a runtime condition.
type Ledger struct {
	position *Position
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) IsOpen() bool {
	return l.position != nil
}

func (l *Ledger) OpenPosition(
	id ID,
	pair string,
	exchange string,
	positionType PositionType,
	entryPrice *big.Float,
	baseQuantity *big.Float,
	entryTime time.Time,
) error {
	if l.position != nil {
		return newInvariantError(
			"cannot open a position while position [%v] is open",
			l.position.ID,
		)
	}

	l.position = &Position{
		ID:            id,
		Pair:          pair,
		Exchange:      exchange,
		Type:          positionType,
		Rung0Price:    new(big.Float).Copy(entryPrice),
		RungsFilled:   0,
		TotalQuantity: new(big.Float).Copy(baseQuantity),
		TotalCost:     new(big.Float).Mul(entryPrice, baseQuantity),
		AveragePrice:  new(big.Float).Copy(entryPrice),
		EntryTime:     entryTime,
	}

	return nil
}

func (l *Ledger) ApplyFill(
	rungIndex int,
	fillPrice *big.Float,
	quantity *big.Float,
) error {
	if l.position == nil {
		return newInvariantError(
			"cannot apply a rung fill while flat",
		)
	}

	if rungIndex != l.position.RungsFilled+1 {
		return newInvariantError(
			"rung fills must be sequential; "+
				"got rung [%v] while [%v] rungs are filled",
			rungIndex,
			l.position.RungsFilled,
		)
	}

	l.position.TotalQuantity = new(big.Float).Add(
		l.position.TotalQuantity,
		quantity,
	)
	l.position.TotalCost = new(big.Float).Add(
		l.position.TotalCost,
		new(big.Float).Mul(fillPrice, quantity),
	)
	l.position.AveragePrice = new(big.Float).Quo(
		l.position.TotalCost,
		l.position.TotalQuantity,
	)
	l.position.RungsFilled = rungIndex

	return nil
}

func (l *Ledger) ClosePosition(
	reason ExitReason,
	exitPrice *big.Float,
	exitTime time.Time,
) (*TradeRecord, error) {
	if l.position == nil {
		return nil, newInvariantError(
			"cannot close a position while flat",
		)
	}

	record := &TradeRecord{
		ID:                l.position.ID,
		Pair:              l.position.Pair,
		Exchange:          l.position.Exchange,
		Type:              l.position.Type,
		EntryTime:         l.position.EntryTime,
		ExitTime:          exitTime,
		RungsUsed:         l.position.RungsFilled,
		AverageEntryPrice: l.position.AveragePrice,
		ExitPrice:         new(big.Float).Copy(exitPrice),
		ExitReason:        reason,
		Quantity:          l.position.TotalQuantity,
	}

	l.position = nil

	return record, nil
}

// Snapshot returns a read-only view of the current position state for
// exit evaluation and reporting. The second return value is false
// while flat.
func (l *Ledger) Snapshot() (*Snapshot, bool) {
	if l.position == nil {
		return &Snapshot{}, false
	}

	return &Snapshot{
		ID:            l.position.ID,
		IsOpen:        true,
		Type:          l.position.Type,
		Rung0Price:    new(big.Float).Copy(l.position.Rung0Price),
		RungsFilled:   l.position.RungsFilled,
		TotalQuantity: new(big.Float).Copy(l.position.TotalQuantity),
		TotalCost:     new(big.Float).Copy(l.position.TotalCost),
		AveragePrice:  new(big.Float).Copy(l.position.AveragePrice),
		EntryTime:     l.position.EntryTime,
	}, true
}

type Snapshot struct {
	ID            ID
	IsOpen        bool
	Type          PositionType
	Rung0Price    *big.Float
	RungsFilled   int
	TotalQuantity *big.Float
	TotalCost     *big.Float
	AveragePrice  *big.Float
	EntryTime     time.Time
}

// UnrealizedPnLFraction returns the signed profit fraction of the open
// position at the given price, relative to the average entry price.
func (s *Snapshot) UnrealizedPnLFraction(
	currentPrice *big.Float,
) *big.Float {
	if !s.IsOpen {
		return big.NewFloat(0)
	}

	change := new(big.Float).Quo(
		new(big.Float).Sub(currentPrice, s.AveragePrice),
		s.AveragePrice,
	)

	if s.Type == SHORT {
		change = new(big.Float).Neg(change)
	}

	return change
}

type TradeRecord struct {
	ID                ID
	Pair              string
	Exchange          string
	Type              PositionType
	EntryTime         time.Time
	ExitTime          time.Time
	RungsUsed         int
	AverageEntryPrice *big.Float
	ExitPrice         *big.Float
	ExitReason        ExitReason
	Quantity          *big.Float
}

// PnL returns the realized quote asset profit of the trade.
func (tr *TradeRecord) PnL() *big.Float {
	diff := new(big.Float).Sub(tr.ExitPrice, tr.AverageEntryPrice)

	if tr.Type == SHORT {
		diff = new(big.Float).Neg(diff)
	}

	return new(big.Float).Mul(diff, tr.Quantity)
}

type TradeFilter struct {
	Pair     string
	Exchange string
}

type TradeRepository interface {
	CreateTrade(record *TradeRecord) error

	Trades(filter TradeFilter) ([]*TradeRecord, error)
}
