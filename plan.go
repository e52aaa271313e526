package ladder

import (
	"math/big"
)

// Rung is one pre-planned safety order: a price offset fraction
// relative to the base order price and a size multiplier relative to
// the base order size. Rung indexes start at 1; the base order itself
// is rung 0 with an implicit multiplier of 1.
type Rung struct {
	Index          int
	Offset         *big.Float
	SizeMultiplier *big.Float
}

// RungPlan is the ordered ladder of safety rungs derived once from the
// config. It carries no market data and never changes after
// construction.
type RungPlan struct {
	config *Config
	rungs  []*Rung
}

func NewRungPlan(config *Config) (*RungPlan, error) {
	rungs := make([]*Rung, config.MaxRungs)

	offset := new(big.Float)
	multiplier := big.NewFloat(1)

	for i := 1; i <= config.MaxRungs; i++ {
		switch config.GrowthPolicy {
		case AdditiveCompound:
			// offset[i] = offset[i-1] * mult + base
			offset = new(big.Float).Add(
				new(big.Float).Mul(offset, config.StepScaleMultiplier),
				config.BaseStepFraction,
			)
		case PureGeometric:
			// offset[i] = base * mult^(i-1)
			if i == 1 {
				offset = new(big.Float).Copy(config.BaseStepFraction)
			} else {
				offset = new(big.Float).Mul(
					offset,
					config.StepScaleMultiplier,
				)
			}
		default:
			panic("unknown growth policy")
		}

		multiplier = new(big.Float).Mul(
			multiplier,
			config.VolumeMultiplier,
		)

		rungs[i-1] = &Rung{
			Index:          i,
			Offset:         new(big.Float).Copy(offset),
			SizeMultiplier: new(big.Float).Copy(multiplier),
		}
	}

	plan := &RungPlan{
		config: config,
		rungs:  rungs,
	}

	if config.MaxPositionCost != nil {
		projectedCost := plan.ProjectedCost(config.BaseOrderSize)

		if projectedCost.Cmp(config.MaxPositionCost) > 0 {
			return nil, newConfigError(
				"maxPositionCost",
				"projected full-depth position cost [%v] exceeds "+
					"the ceiling [%v]",
				projectedCost.Text('f', 2),
				config.MaxPositionCost.Text('f', 2),
			)
		}
	}

	return plan, nil
}

func (rp *RungPlan) Size() int {
	return len(rp.rungs)
}

func (rp *RungPlan) Rung(index int) *Rung {
	if index < 1 || index > len(rp.rungs) {
		panic("rung index out of plan range")
	}

	return rp.rungs[index-1]
}

// Level resolves the absolute trigger price of the given rung for a
// position whose base order executed at rung0Price. Index 0 resolves
// to rung0Price itself.
func (rp *RungPlan) Level(
	rung0Price *big.Float,
	index int,
	positionType PositionType,
) *big.Float {
	if index == 0 {
		return new(big.Float).Copy(rung0Price)
	}

	offset := rp.Rung(index).Offset

	one := big.NewFloat(1)

	var factor *big.Float
	switch positionType {
	case LONG:
		factor = new(big.Float).Sub(one, offset)
	case SHORT:
		factor = new(big.Float).Add(one, offset)
	default:
		panic("unknown position type")
	}

	return new(big.Float).Mul(rung0Price, factor)
}

// ProjectedCost returns the total quote asset amount a position costs
// once the base order and every safety rung have filled. Rung sizes
// grow geometrically, so this value explodes quickly for aggressive
// volume multipliers.
func (rp *RungPlan) ProjectedCost(baseOrderSize *big.Float) *big.Float {
	cost := new(big.Float).Copy(baseOrderSize)

	for _, rung := range rp.rungs {
		cost = new(big.Float).Add(
			cost,
			new(big.Float).Mul(baseOrderSize, rung.SizeMultiplier),
		)
	}

	return cost
}
