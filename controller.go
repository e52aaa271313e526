package ladder

import (
	"fmt"
	"math/big"
	"time"
)

// Controller drives one ladder position through its lifecycle. For
// every candle it performs, in this exact order: the entry check, the
// rung-fill check and the exit check. It owns the position ledger
// exclusively; collaborators observe it only through snapshots.
//
// The controller is synchronous and candle-sequential. It may be
// invoked once per closed candle or repeatedly for a still-open candle
// (every-tick mode); rung fills are keyed by rung index so a replayed
// candle can never double-fill a rung.
type Controller struct {
	pair     Pair
	exchange string

	config        *Config
	plan          *RungPlan
	exitEvaluator *ExitEvaluator
	ledger        *Ledger

	fillResolver    FillResolver
	tradeRepository TradeRepository
	eventService    EventService
	idService       IDService

	logger Logger
}

func NewController(
	config *Config,
	pair Pair,
	exchange string,
	fillResolver FillResolver,
	tradeRepository TradeRepository,
	eventService EventService,
	idService IDService,
	logger Logger,
) (*Controller, error) {
	validatedConfig, err := NewConfig(config)
	if err != nil {
		return nil, err
	}

	plan, err := NewRungPlan(validatedConfig)
	if err != nil {
		return nil, err
	}

	return &Controller{
		pair:            pair,
		exchange:        exchange,
		config:          validatedConfig,
		plan:            plan,
		exitEvaluator:   NewExitEvaluator(validatedConfig, plan),
		ledger:          NewLedger(),
		fillResolver:    fillResolver,
		tradeRepository: tradeRepository,
		eventService:    eventService,
		idService:       idService,
		logger:          logger,
	}, nil
}

// ProcessCandle evaluates one candle together with the signal fired
// for it, if any. Incomplete candles are skipped entirely.
func (c *Controller) ProcessCandle(signal *Signal, candle *Candle) error {
	if candle == nil || !candle.Complete() {
		c.logger.Debugf("skipping incomplete candle")
		return nil
	}

	if err := c.checkEntry(signal, candle); err != nil {
		return fmt.Errorf("entry check failed: [%v]", err)
	}

	if err := c.checkRungFills(candle); err != nil {
		return fmt.Errorf("rung fill check failed: [%v]", err)
	}

	if err := c.checkExit(candle); err != nil {
		return fmt.Errorf("exit check failed: [%v]", err)
	}

	return nil
}

// ProcessTick evaluates an intrabar update of a still-open candle,
// applying the same check ordering as ProcessCandle.
func (c *Controller) ProcessTick(signal *Signal, tick *CandleTick) error {
	return c.ProcessCandle(signal, tick.Candle)
}

func (c *Controller) checkEntry(signal *Signal, candle *Candle) error {
	if c.ledger.IsOpen() || signal == nil {
		return nil
	}

	if !c.config.DirectionMode.Accepts(signal.Type) {
		c.logger.Debugf(
			"dropping signal [%v] not matching direction mode [%v]",
			signal,
			c.config.DirectionMode,
		)
		return nil
	}

	entryPrice := candle.ClosePrice
	baseQuantity := new(big.Float).Quo(c.config.BaseOrderSize, entryPrice)

	err := c.ledger.OpenPosition(
		c.idService.NewID(),
		c.pair.String(),
		c.exchange,
		signal.Type,
		entryPrice,
		baseQuantity,
		candle.OpenTime,
	)
	if err != nil {
		return err
	}

	snapshot, _ := c.ledger.Snapshot()

	c.logger.Infof(
		"opened [%v] position at [%v] with quantity [%v]",
		snapshot.Type,
		entryPrice.Text('f', 2),
		baseQuantity.Text('f', 6),
	)

	c.publish(&PositionOpened{
		PositionID:   c.positionID(),
		Pair:         c.pair.String(),
		Exchange:     c.exchange,
		PositionType: snapshot.Type,
		Price:        new(big.Float).Copy(entryPrice),
		Quantity:     baseQuantity,
		Time:         candle.OpenTime,
	})

	return nil
}

func (c *Controller) checkRungFills(candle *Candle) error {
	for {
		snapshot, isOpen := c.ledger.Snapshot()
		if !isOpen || snapshot.RungsFilled >= c.config.MaxRungs {
			return nil
		}

		rungIndex := snapshot.RungsFilled + 1
		level := c.plan.Level(snapshot.Rung0Price, rungIndex, snapshot.Type)

		fillPrice, isCrossed := c.fillResolver.Resolve(
			snapshot.Type,
			level,
			candle,
		)
		if !isCrossed {
			return nil
		}

		quantity := new(big.Float).Quo(
			new(big.Float).Mul(
				c.config.BaseOrderSize,
				c.plan.Rung(rungIndex).SizeMultiplier,
			),
			fillPrice,
		)

		if err := c.ledger.ApplyFill(rungIndex, fillPrice, quantity); err != nil {
			return err
		}

		snapshot, _ = c.ledger.Snapshot()

		c.logger.Infof(
			"rung [%v] filled at [%v] with quantity [%v]; "+
				"average price is now [%v]",
			rungIndex,
			fillPrice.Text('f', 2),
			quantity.Text('f', 6),
			snapshot.AveragePrice.Text('f', 2),
		)

		c.publish(&RungFilled{
			PositionID:        c.positionID(),
			RungIndex:         rungIndex,
			Price:             fillPrice,
			Quantity:          quantity,
			AveragePriceAfter: snapshot.AveragePrice,
			Time:              candle.OpenTime,
		})

		if c.config.FillPolicy == SequentialOneRungPerBar {
			return nil
		}
	}
}

func (c *Controller) checkExit(candle *Candle) error {
	snapshot, isOpen := c.ledger.Snapshot()
	if !isOpen {
		return nil
	}

	decision, shouldExit := c.exitEvaluator.Evaluate(snapshot, candle)
	if !shouldExit {
		return nil
	}

	return c.closePosition(decision.Reason, decision.Price, candle.CloseTime)
}

// Flatten is an external request to force the position closed at the
// given price, regardless of the exit policy. It is a no-op while flat.
func (c *Controller) Flatten(price *big.Float, at time.Time) error {
	if !c.ledger.IsOpen() {
		c.logger.Warningf("flatten requested while flat")
		return nil
	}

	return c.closePosition(Flatten, price, at)
}

func (c *Controller) closePosition(
	reason ExitReason,
	price *big.Float,
	at time.Time,
) error {
	positionID := c.positionID()

	record, err := c.ledger.ClosePosition(reason, price, at)
	if err != nil {
		return err
	}

	c.logger.Infof(
		"closed position [%v] at [%v] with reason [%v]",
		positionID,
		price.Text('f', 2),
		reason,
	)

	if c.tradeRepository != nil {
		if err := c.tradeRepository.CreateTrade(record); err != nil {
			return fmt.Errorf(
				"could not persist trade record [%v]: [%v]",
				record.ID,
				err,
			)
		}
	}

	c.publish(&PositionClosed{
		PositionID: positionID,
		Reason:     reason,
		Price:      new(big.Float).Copy(price),
		Record:     record,
		Time:       at,
	})

	return nil
}

// Snapshot exposes the current position state for any-time display.
func (c *Controller) Snapshot() *Snapshot {
	snapshot, _ := c.ledger.Snapshot()
	return snapshot
}

func (c *Controller) Plan() *RungPlan {
	return c.plan
}

func (c *Controller) publish(event Event) {
	if c.eventService != nil {
		c.eventService.Publish(event)
	}
}

func (c *Controller) positionID() ID {
	snapshot, isOpen := c.ledger.Snapshot()
	if !isOpen {
		return nil
	}

	return snapshot.ID
}
