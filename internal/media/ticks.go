package media

import "time"

// TicksPerSecond is the server's fixed-point time resolution.
const TicksPerSecond = 10_000_000

// tickDuration is the wall-clock length of one tick (100ns).
const tickDuration = time.Second / TicksPerSecond

// Ticks is a position or length in server ticks.
type Ticks int64

// FromDuration converts d to ticks, truncating anything below one tick.
func FromDuration(d time.Duration) Ticks {
	return Ticks(d / tickDuration)
}

// FromSeconds converts whole seconds to ticks.
func FromSeconds(s int64) Ticks {
	return Ticks(s * TicksPerSecond)
}

// Duration converts t to a time.Duration. The conversion is exact.
func (t Ticks) Duration() time.Duration {
	return time.Duration(t) * tickDuration
}

// Seconds returns t in whole seconds, truncated.
func (t Ticks) Seconds() int64 {
	return int64(t) / TicksPerSecond
}
