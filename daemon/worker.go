package daemon

import (
	"context"
	"sync"
	"time"

	"ladder"
)

const (
	workerTick           = 5 * time.Second
	workerRestartBackoff = 10 * time.Second
	candleWindow         = 12 * time.Hour
)

type CandleRepositoryFactoryFn func(windowSize int) ladder.CandleRepository

type SignalGeneratorFactoryFn func(
	logger ladder.Logger,
	pair ladder.Pair,
) ladder.SignalGenerator

// WorkerController manages one ladder worker per trading pair. A worker
// runs a candle monitor and an evaluation loop feeding every intrabar
// tick into its ladder controller. Crashed workers restart with a
// backoff.
type WorkerController struct {
	logger                  ladder.Logger
	ladderConfig            *ladder.Config
	source                  CandleSource
	candleRepositoryFactory CandleRepositoryFactoryFn
	signalGeneratorFactory  SignalGeneratorFactoryFn
	fillResolver            ladder.FillResolver
	tradeRepository         ladder.TradeRepository
	eventService            ladder.EventService
	idService               ladder.IDService

	workersMutex   sync.Mutex
	workers        map[ladder.Pair]bool
	workerInterval string
}

func NewWorkerController(
	logger ladder.Logger,
	ladderConfig *ladder.Config,
	source CandleSource,
	candleRepositoryFactory CandleRepositoryFactoryFn,
	signalGeneratorFactory SignalGeneratorFactoryFn,
	fillResolver ladder.FillResolver,
	tradeRepository ladder.TradeRepository,
	eventService ladder.EventService,
	idService ladder.IDService,
) *WorkerController {
	return &WorkerController{
		logger:                  logger,
		ladderConfig:            ladderConfig,
		source:                  source,
		candleRepositoryFactory: candleRepositoryFactory,
		signalGeneratorFactory:  signalGeneratorFactory,
		fillResolver:            fillResolver,
		tradeRepository:         tradeRepository,
		eventService:            eventService,
		idService:               idService,
		workers:                 make(map[ladder.Pair]bool),
		workerInterval:          "1m",
	}
}

func (wc *WorkerController) ActivateWorker(
	ctx context.Context,
	pair ladder.Pair,
) {
	wc.workersMutex.Lock()
	defer wc.workersMutex.Unlock()

	workerLogger := wc.logger.WithFields(
		map[string]interface{}{
			"exchange": wc.source.ExchangeName(),
			"pair":     pair.String(),
			"interval": wc.workerInterval,
		},
	)

	if _, exists := wc.workers[pair]; exists {
		workerLogger.Warningf("worker is already active")
		return
	}

	workerLogger.Infof("activating worker")

	wc.workers[pair] = true

	go func() {
		defer func() {
			wc.workersMutex.Lock()
			defer wc.workersMutex.Unlock()

			workerLogger.Infof("deactivating worker")

			delete(wc.workers, pair)
		}()

		for {
			if ctx.Err() != nil {
				return
			}

			wc.runWorker(ctx, workerLogger, pair)

			time.Sleep(workerRestartBackoff)
		}
	}()
}

func (wc *WorkerController) ActiveWorkers() int {
	wc.workersMutex.Lock()
	defer wc.workersMutex.Unlock()

	return len(wc.workers)
}

func (wc *WorkerController) runWorker(
	ctx context.Context,
	workerLogger ladder.Logger,
	pair ladder.Pair,
) {
	workerLogger.Infof("running worker")
	defer workerLogger.Infof("terminating worker")

	workerCtx, cancelWorkerCtx := context.WithCancel(ctx)
	defer cancelWorkerCtx()

	now := time.Now()

	filter := &ladder.CandleFilter{
		Pair:      pair.String(),
		Interval:  wc.workerInterval,
		StartTime: now.Add(-candleWindow),
		EndTime:   now,
	}

	candleRegistrySize := int(filter.EndTime.Sub(filter.StartTime).Minutes())

	candleRepository := wc.candleRepositoryFactory(candleRegistrySize)

	candleMonitor := RunCandleMonitor(
		workerCtx,
		workerLogger,
		wc.source,
		filter,
		candleRepository,
	)

	controller, err := ladder.NewController(
		wc.ladderConfig,
		pair,
		wc.source.ExchangeName(),
		wc.fillResolver,
		wc.tradeRepository,
		wc.eventService,
		wc.idService,
		workerLogger,
	)
	if err != nil {
		workerLogger.Errorf("could not create ladder controller: [%v]", err)
		return
	}

	worker := RunWorker(
		workerCtx,
		workerLogger,
		pair,
		controller,
		wc.signalGeneratorFactory(workerLogger, pair),
		candleRepository,
	)

	for {
		select {
		case err := <-candleMonitor.ErrChan():
			workerLogger.Errorf("candle monitor error: [%v]", err)
			return
		case err := <-worker.ErrChan():
			workerLogger.Errorf("worker error: [%v]", err)
			return
		case <-workerCtx.Done():
			workerLogger.Infof("worker context is done")
			return
		}
	}
}

// Worker drives one ladder controller in every-tick mode: on each tick
// of its loop it reevaluates the most recent, possibly still-open
// candle. Rung fills are idempotent across reevaluations so this is
// safe by construction.
type Worker struct {
	logger           ladder.Logger
	pair             ladder.Pair
	controller       *ladder.Controller
	signalGenerator  ladder.SignalGenerator
	candleRepository ladder.CandleRepository
	errChan          chan error
}

func RunWorker(
	ctx context.Context,
	logger ladder.Logger,
	pair ladder.Pair,
	controller *ladder.Controller,
	signalGenerator ladder.SignalGenerator,
	candleRepository ladder.CandleRepository,
) *Worker {
	worker := &Worker{
		logger:           logger,
		pair:             pair,
		controller:       controller,
		signalGenerator:  signalGenerator,
		candleRepository: candleRepository,
		errChan:          make(chan error, 1),
	}

	go worker.loop(ctx)

	return worker
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(workerTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			candles := w.candleRepository.Candles()
			if len(candles) == 0 {
				continue
			}

			var signal *ladder.Signal
			if generated, exists := w.signalGenerator.Evaluate(
				candles,
			); exists {
				w.logger.Infof("received signal [%v]", generated)
				signal = generated
			}

			tick := &ladder.CandleTick{
				Candle:   candles[len(candles)-1],
				TickTime: time.Now(),
			}

			if err := w.controller.ProcessTick(signal, tick); err != nil {
				w.errChan <- err
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) ErrChan() <-chan error {
	return w.errChan
}
