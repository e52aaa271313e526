package backtest

import (
	"fmt"

	"ladder"
)

// Runner replays an ordered candle series through a ladder controller
// in bar-close mode: every candle is evaluated exactly once, in order.
// Signals are drawn from the signal generator over the growing candle
// window, mirroring how the live daemon feeds the controller.
type Runner struct {
	controller      *ladder.Controller
	signalGenerator ladder.SignalGenerator
	logger          ladder.Logger
}

func NewRunner(
	controller *ladder.Controller,
	signalGenerator ladder.SignalGenerator,
	logger ladder.Logger,
) *Runner {
	return &Runner{
		controller:      controller,
		signalGenerator: signalGenerator,
		logger:          logger,
	}
}

func (r *Runner) Run(candles []*ladder.Candle) error {
	r.logger.Infof("starting backtest over [%v] candles", len(candles))

	for index, candle := range candles {
		var signal *ladder.Signal

		if r.signalGenerator != nil {
			if generated, exists := r.signalGenerator.Evaluate(
				candles[:index+1],
			); exists {
				signal = generated
			}
		}

		if err := r.controller.ProcessCandle(signal, candle); err != nil {
			return fmt.Errorf(
				"could not process candle [%v]: [%v]",
				candle,
				err,
			)
		}
	}

	r.logger.Infof("backtest finished")

	return nil
}
