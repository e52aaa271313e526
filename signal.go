package ladder

import "fmt"

// Signal is a per-candle directional entry hint produced by an external
// indicator subsystem. It is fired once per candle and is non-latching;
// the controller consumes it only while flat.
type Signal struct {
	Pair Pair
	Type PositionType
}

func (s *Signal) String() string {
	return fmt.Sprintf("%v (%v)", s.Pair.String(), s.Type.String())
}

type SignalGenerator interface {
	// Evaluate inspects the given candle window and returns a signal
	// for the most recent candle, if any.
	Evaluate(candles []*Candle) (*Signal, bool)
}
