package ladder

import (
	"fmt"
	"math/big"
	"time"
)

type EventType int

const (
	EventPositionOpened EventType = iota
	EventRungFilled
	EventPositionClosed
)

func (et EventType) String() string {
	switch et {
	case EventPositionOpened:
		return "POSITION_OPENED"
	case EventRungFilled:
		return "RUNG_FILLED"
	case EventPositionClosed:
		return "POSITION_CLOSED"
	default:
		panic("unknown event type")
	}
}

type Event interface {
	fmt.Stringer

	Type() EventType
}

type PositionOpened struct {
	PositionID   ID
	Pair         string
	Exchange     string
	PositionType PositionType
	Price        *big.Float
	Quantity     *big.Float
	Time         time.Time
}

func (po *PositionOpened) Type() EventType {
	return EventPositionOpened
}

func (po *PositionOpened) String() string {
	return fmt.Sprintf(
		"position [%v] (%v %v) opened at [%v] with quantity [%v]",
		po.PositionID,
		po.Pair,
		po.PositionType,
		po.Price.Text('f', 2),
		po.Quantity.Text('f', 6),
	)
}

type RungFilled struct {
	PositionID        ID
	RungIndex         int
	Price             *big.Float
	Quantity          *big.Float
	AveragePriceAfter *big.Float
	Time              time.Time
}

func (rf *RungFilled) Type() EventType {
	return EventRungFilled
}

func (rf *RungFilled) String() string {
	return fmt.Sprintf(
		"position [%v] rung [%v] filled at [%v] with quantity [%v]; "+
			"average price is now [%v]",
		rf.PositionID,
		rf.RungIndex,
		rf.Price.Text('f', 2),
		rf.Quantity.Text('f', 6),
		rf.AveragePriceAfter.Text('f', 2),
	)
}

type PositionClosed struct {
	PositionID ID
	Reason     ExitReason
	Price      *big.Float
	Record     *TradeRecord
	Time       time.Time
}

func (pc *PositionClosed) Type() EventType {
	return EventPositionClosed
}

func (pc *PositionClosed) String() string {
	return fmt.Sprintf(
		"position [%v] closed at [%v] with reason [%v]",
		pc.PositionID,
		pc.Price.Text('f', 2),
		pc.Reason,
	)
}

type EventService interface {
	Publish(event Event)
}
