package ladder

import "math/big"

// FillResolver is the injected fill capability of the host execution
// engine. It decides whether a resting rung order at the given level
// was crossed within the candle and at which price it filled. Keeping
// it outside the ladder logic allows substituting alternate fill
// models (intrabar, close-only, worst-case) without touching the state
// machine.
type FillResolver interface {
	Resolve(
		positionType PositionType,
		level *big.Float,
		candle *Candle,
	) (*big.Float, bool)
}
