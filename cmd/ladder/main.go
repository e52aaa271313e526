package main

import (
	"context"
	"fmt"
	"os"

	"ladder"
	"ladder/backtest"
	"ladder/binance"
	"ladder/daemon"
	"ladder/inmem"
	ladderlogrus "ladder/logrus"
	"ladder/postgres"
	"ladder/pubsub"
	"ladder/techan"
	ladderuuid "ladder/uuid"
)

func main() {
	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	config, err := readConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "could not read config: [%v]", err)
		os.Exit(1)
	}

	logger := ladderlogrus.ConfigureStandardLogger(
		config.Logging.Format,
		config.Logging.Level,
	)

	ladderConfig, err := config.Ladder.toLadderConfig()
	if err != nil {
		logger.Fatalf("could not build ladder config: [%v]", err)
	}

	if len(config.Backtest.DataFile) > 0 {
		runBacktest(config, ladderConfig, logger)
		return
	}

	runDaemon(ctx, config, ladderConfig, logger)
}

func runBacktest(
	config *Config,
	ladderConfig *ladder.Config,
	logger ladder.Logger,
) {
	pair := ladder.ParsePair(config.Backtest.Pair)

	candles, err := backtest.ReadCandles(
		config.Backtest.DataFile,
		pair.String(),
		"backtest",
	)
	if err != nil {
		logger.Fatalf("could not read candles: [%v]", err)
	}

	tradeRepository := inmem.NewTradeRepository()
	eventLog := inmem.NewEventLog()

	controller, err := ladder.NewController(
		ladderConfig,
		pair,
		"backtest",
		backtest.NewIntrabarFillResolver(),
		tradeRepository,
		eventLog,
		&ladderuuid.IDService{},
		logger,
	)
	if err != nil {
		logger.Fatalf("could not create ladder controller: [%v]", err)
	}

	runner := backtest.NewRunner(
		controller,
		techan.NewSignalGenerator(logger, pair),
		logger,
	)

	if err := runner.Run(candles); err != nil {
		logger.Fatalf("backtest failed: [%v]", err)
	}

	trades, err := tradeRepository.Trades(ladder.TradeFilter{})
	if err != nil {
		logger.Fatalf("could not read trades: [%v]", err)
	}

	logger.Infof("backtest report: %v", backtest.NewReport(trades))
}

func runDaemon(
	ctx context.Context,
	config *Config,
	ladderConfig *ladder.Config,
	logger ladder.Logger,
) {
	postgresClient, err := connectPostgres(ctx, logger, &config.Database)
	if err != nil {
		logger.Fatalf("could not connect postgres: [%v]", err)
	}

	idService := &ladderuuid.IDService{}

	var eventService ladder.EventService
	if len(config.Pubsub.ProjectID) > 0 {
		pubsubClient, err := pubsub.NewClient(
			ctx,
			config.Pubsub.ProjectID,
			config.Pubsub.NotificationsTopic,
		)
		if err != nil {
			logger.Fatalf("could not create pubsub client: [%v]", err)
		}

		eventService = pubsub.NewEventService(pubsubClient, logger)
	}

	candleService := binance.NewCandleService(
		config.Binance.ApiKey,
		config.Binance.SecretKey,
		config.Binance.Testnet,
	)

	workerController := daemon.NewWorkerController(
		logger,
		ladderConfig,
		candleService,
		func(windowSize int) ladder.CandleRepository {
			return inmem.NewCandleRepository(windowSize)
		},
		func(
			workerLogger ladder.Logger,
			pair ladder.Pair,
		) ladder.SignalGenerator {
			return techan.NewSignalGenerator(workerLogger, pair)
		},
		backtest.NewIntrabarFillResolver(),
		postgres.NewTradeRepository(postgresClient, idService),
		eventService,
		idService,
	)

	for _, pair := range config.Binance.Pairs {
		workerController.ActivateWorker(ctx, ladder.ParsePair(pair))
	}

	<-ctx.Done()
}

func connectPostgres(
	ctx context.Context,
	logger ladder.Logger,
	config *Database,
) (*postgres.Client, error) {
	if err := postgres.RunMigration(
		logger,
		(*postgres.Config)(config),
	); err != nil {
		return nil, fmt.Errorf(
			"could not run postgres migration: [%v]",
			err,
		)
	}

	client, err := postgres.NewClient(
		ctx,
		(*postgres.Config)(config),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"could not create postgres client: [%v]",
			err,
		)
	}

	return client, nil
}
