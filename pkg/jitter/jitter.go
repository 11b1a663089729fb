// Package jitter добавляет случайность в интервалы повторов (backoff),
// чтобы переподключения воркеров не совпадали по времени.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает продолжительность с применённым джиттером.
// Результат находится в диапазоне [d, d*(1+jitterFactor)].
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return DurationWithRand(d, jitterFactor, rand.Float64)
}

// DurationWithRand работает как Duration, но берёт случайное число из rnd.
// rnd должна возвращать значения из [0, 1).
func DurationWithRand(d time.Duration, jitterFactor float64, rnd func() float64) time.Duration {
	if d <= 0 || jitterFactor <= 0 {
		return d
	}
	return d + time.Duration(rnd()*jitterFactor*float64(d))
}

// ExponentialBackoff вычисляет задержку base*2^attempt, ограниченную max, и добавляет джиттер.
// attempt нумеруется с нуля.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(backoff(base, max, attempt), jitterFactor)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	return d
}
