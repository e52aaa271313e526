package ladder

import (
	"fmt"
	"math/big"
)

// Safety rung counts beyond this value were never observed in practice
// and only produce absurd martingale sizing.
const maxRungsLimit = 51

type DirectionMode int

const (
	LongOnly DirectionMode = iota
	ShortOnly
	BothDirections
)

func ParseDirectionMode(value string) (DirectionMode, error) {
	switch value {
	case "LONG":
		return LongOnly, nil
	case "SHORT":
		return ShortOnly, nil
	case "BOTH":
		return BothDirections, nil
	}

	return -1, fmt.Errorf("unknown direction mode: [%v]", value)
}

func (dm DirectionMode) String() string {
	switch dm {
	case LongOnly:
		return "LONG"
	case ShortOnly:
		return "SHORT"
	case BothDirections:
		return "BOTH"
	default:
		panic("unknown direction mode")
	}
}

func (dm DirectionMode) Accepts(positionType PositionType) bool {
	switch dm {
	case LongOnly:
		return positionType == LONG
	case ShortOnly:
		return positionType == SHORT
	case BothDirections:
		return true
	default:
		panic("unknown direction mode")
	}
}

type GrowthPolicy int

const (
	// AdditiveCompound compounds the previous offset and adds the base
	// step on top: offset[i] = offset[i-1]*mult + base. Grows faster
	// than the pure geometric sequence for the same multiplier.
	AdditiveCompound GrowthPolicy = iota

	// PureGeometric derives offsets directly from the base step:
	// offset[i] = base * mult^(i-1).
	PureGeometric
)

func ParseGrowthPolicy(value string) (GrowthPolicy, error) {
	switch value {
	case "ADDITIVE_COMPOUND":
		return AdditiveCompound, nil
	case "PURE_GEOMETRIC":
		return PureGeometric, nil
	}

	return -1, fmt.Errorf("unknown growth policy: [%v]", value)
}

func (gp GrowthPolicy) String() string {
	switch gp {
	case AdditiveCompound:
		return "ADDITIVE_COMPOUND"
	case PureGeometric:
		return "PURE_GEOMETRIC"
	default:
		panic("unknown growth policy")
	}
}

type FillPolicy int

const (
	// AllEligibleRungsPerBar fills every not-yet-filled rung whose
	// level was crossed within a single candle. Handles candles
	// gapping through multiple levels at once.
	AllEligibleRungsPerBar FillPolicy = iota

	// SequentialOneRungPerBar fills at most one rung per candle; the
	// next rung's crossing is checked on subsequent candles only.
	// Matches a limit order submitted once and left resting.
	SequentialOneRungPerBar
)

func ParseFillPolicy(value string) (FillPolicy, error) {
	switch value {
	case "ALL_ELIGIBLE_RUNGS_PER_BAR":
		return AllEligibleRungsPerBar, nil
	case "SEQUENTIAL_ONE_RUNG_PER_BAR":
		return SequentialOneRungPerBar, nil
	}

	return -1, fmt.Errorf("unknown fill policy: [%v]", value)
}

func (fp FillPolicy) String() string {
	switch fp {
	case AllEligibleRungsPerBar:
		return "ALL_ELIGIBLE_RUNGS_PER_BAR"
	case SequentialOneRungPerBar:
		return "SEQUENTIAL_ONE_RUNG_PER_BAR"
	default:
		panic("unknown fill policy")
	}
}

type StopArmPolicy int

const (
	StopDisabled StopArmPolicy = iota

	// StopAfterMaxRungs arms the stop loss only once all safety rungs
	// have been filled, anchored at the last rung's level.
	StopAfterMaxRungs

	// StopAfterAnyRung keeps the stop loss armed from position open,
	// re-anchored to the latest filled rung each time one fills.
	StopAfterAnyRung
)

func ParseStopArmPolicy(value string) (StopArmPolicy, error) {
	switch value {
	case "DISABLED":
		return StopDisabled, nil
	case "AFTER_MAX_RUNGS":
		return StopAfterMaxRungs, nil
	case "AFTER_ANY_RUNG":
		return StopAfterAnyRung, nil
	}

	return -1, fmt.Errorf("unknown stop arm policy: [%v]", value)
}

func (sap StopArmPolicy) String() string {
	switch sap {
	case StopDisabled:
		return "DISABLED"
	case StopAfterMaxRungs:
		return "AFTER_MAX_RUNGS"
	case StopAfterAnyRung:
		return "AFTER_ANY_RUNG"
	default:
		panic("unknown stop arm policy")
	}
}

// Config is the immutable parameter set of one ladder instance.
// Use NewConfig to get a validated instance.
type Config struct {
	DirectionMode DirectionMode

	// BaseOrderSize is the quote asset amount spent on the base order.
	// Safety rung sizes are derived from it through the volume
	// multiplier.
	BaseOrderSize *big.Float

	// BaseStepFraction is the price offset fraction of the first
	// safety rung, relative to the base order price.
	BaseStepFraction *big.Float

	// StepScaleMultiplier scales the offset of each subsequent rung
	// according to the growth policy.
	StepScaleMultiplier *big.Float

	// VolumeMultiplier scales the size of each subsequent rung
	// geometrically: rung i carries BaseOrderSize * VolumeMultiplier^i.
	VolumeMultiplier *big.Float

	MaxRungs int

	TakeProfitFraction *big.Float

	// StopLossFraction is required unless the stop arm policy is
	// DISABLED.
	StopLossFraction *big.Float

	StopArmPolicy StopArmPolicy

	GrowthPolicy GrowthPolicy

	FillPolicy FillPolicy

	// MaxPositionCost is an optional capital ceiling. When set, a plan
	// whose projected full-depth cost exceeds it is rejected at
	// construction time.
	MaxPositionCost *big.Float
}

func NewConfig(config *Config) (*Config, error) {
	one := big.NewFloat(1)
	zero := big.NewFloat(0)

	if config.BaseOrderSize == nil ||
		config.BaseOrderSize.Cmp(zero) <= 0 {
		return nil, newConfigError(
			"baseOrderSize",
			"must be a positive value",
		)
	}

	if config.BaseStepFraction == nil ||
		config.BaseStepFraction.Cmp(zero) <= 0 {
		return nil, newConfigError(
			"baseStepFraction",
			"must be a positive value",
		)
	}

	if config.StepScaleMultiplier == nil ||
		config.StepScaleMultiplier.Cmp(one) < 0 {
		return nil, newConfigError(
			"stepScaleMultiplier",
			"must not be less than 1",
		)
	}

	if config.VolumeMultiplier == nil ||
		config.VolumeMultiplier.Cmp(one) < 0 {
		return nil, newConfigError(
			"volumeMultiplier",
			"must not be less than 1",
		)
	}

	if config.MaxRungs < 1 {
		return nil, newConfigError(
			"maxRungs",
			"must not be less than 1",
		)
	}

	if config.MaxRungs > maxRungsLimit {
		return nil, newConfigError(
			"maxRungs",
			"must not be greater than %v",
			maxRungsLimit,
		)
	}

	if config.TakeProfitFraction == nil ||
		config.TakeProfitFraction.Cmp(zero) <= 0 {
		return nil, newConfigError(
			"takeProfitFraction",
			"must be a positive value",
		)
	}

	if config.StopArmPolicy != StopDisabled {
		if config.StopLossFraction == nil ||
			config.StopLossFraction.Cmp(zero) <= 0 {
			return nil, newConfigError(
				"stopLossFraction",
				"must be a positive value when the stop loss is enabled",
			)
		}
	}

	if config.MaxPositionCost != nil &&
		config.MaxPositionCost.Cmp(zero) <= 0 {
		return nil, newConfigError(
			"maxPositionCost",
			"must be a positive value when set",
		)
	}

	return config, nil
}
