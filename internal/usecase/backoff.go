package usecase

import (
	"math"
	"time"
)

// backoffDelay grows geometrically: base * 1.2^(n/step), capped at max.
// The integer division keeps the delay flat for `step` polls before each
// growth, matching the gateways' tolerated request rates.
func backoffDelay(base time.Duration, n, step int, max time.Duration) time.Duration {
	if step <= 0 {
		step = 1
	}
	d := time.Duration(float64(base) * math.Pow(1.2, float64(n/step)))
	if d > max {
		return max
	}
	return d
}
