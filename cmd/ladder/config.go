package main

import (
	"fmt"
	"math/big"

	"github.com/sherifabdlnaby/configuro"

	"ladder"
)

// Config values can be set using either environment variables with
// `CONFIG_` prefix or config.yml file placed in working directory.
// See https://github.com/sherifabdlnaby/configuro.
type Config struct {
	Logging  Logging
	Database Database
	Binance  Binance
	Pubsub   Pubsub
	Ladder   Ladder
	Backtest Backtest
}

type Logging struct {
	Level  string
	Format string
}

type Database struct {
	Address      string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MigrationDir string
}

type Binance struct {
	ApiKey    string
	SecretKey string
	Testnet   bool
	Pairs     []string
}

type Pubsub struct {
	ProjectID          string
	NotificationsTopic string
}

type Ladder struct {
	DirectionMode       string
	BaseOrderSize       float64
	BaseStepFraction    float64
	StepScaleMultiplier float64
	VolumeMultiplier    float64
	MaxRungs            int
	TakeProfitFraction  float64
	StopLossFraction    float64
	StopArmPolicy       string
	GrowthPolicy        string
	FillPolicy          string
	MaxPositionCost     float64
}

type Backtest struct {
	DataFile string
	Pair     string
}

func readConfig() (*Config, error) {
	loader, err := configuro.NewConfig()
	if err != nil {
		return nil, err
	}

	// Default config values.
	config := &Config{
		Logging: Logging{
			Level: "info",
		},
		Database: Database{
			Address:  "localhost:5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "postgres",
			SSLMode:  "disabled",
		},
		Ladder: Ladder{
			DirectionMode:       "LONG",
			BaseOrderSize:       100,
			BaseStepFraction:    0.01,
			StepScaleMultiplier: 1.2,
			VolumeMultiplier:    1.5,
			MaxRungs:            5,
			TakeProfitFraction:  0.01,
			StopArmPolicy:       "DISABLED",
			GrowthPolicy:        "ADDITIVE_COMPOUND",
			FillPolicy:          "ALL_ELIGIBLE_RUNGS_PER_BAR",
		},
	}

	err = loader.Load(config)
	if err != nil {
		return nil, err
	}

	err = loader.Validate(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Ladder) toLadderConfig() (*ladder.Config, error) {
	directionMode, err := ladder.ParseDirectionMode(l.DirectionMode)
	if err != nil {
		return nil, fmt.Errorf("could not parse direction mode: [%v]", err)
	}

	stopArmPolicy, err := ladder.ParseStopArmPolicy(l.StopArmPolicy)
	if err != nil {
		return nil, fmt.Errorf("could not parse stop arm policy: [%v]", err)
	}

	growthPolicy, err := ladder.ParseGrowthPolicy(l.GrowthPolicy)
	if err != nil {
		return nil, fmt.Errorf("could not parse growth policy: [%v]", err)
	}

	fillPolicy, err := ladder.ParseFillPolicy(l.FillPolicy)
	if err != nil {
		return nil, fmt.Errorf("could not parse fill policy: [%v]", err)
	}

	config := &ladder.Config{
		DirectionMode:       directionMode,
		BaseOrderSize:       big.NewFloat(l.BaseOrderSize),
		BaseStepFraction:    big.NewFloat(l.BaseStepFraction),
		StepScaleMultiplier: big.NewFloat(l.StepScaleMultiplier),
		VolumeMultiplier:    big.NewFloat(l.VolumeMultiplier),
		MaxRungs:            l.MaxRungs,
		TakeProfitFraction:  big.NewFloat(l.TakeProfitFraction),
		StopArmPolicy:       stopArmPolicy,
		GrowthPolicy:        growthPolicy,
		FillPolicy:          fillPolicy,
	}

	if l.StopLossFraction > 0 {
		config.StopLossFraction = big.NewFloat(l.StopLossFraction)
	}

	if l.MaxPositionCost > 0 {
		config.MaxPositionCost = big.NewFloat(l.MaxPositionCost)
	}

	return ladder.NewConfig(config)
}
