package engine

import "github.com/alderwick/almanac/internal/model"

// Seeded RNG constants. The formula below is a cross-implementation
// contract: identical (seed, year, dayOfYear) inputs must produce identical
// rolls everywhere, so every step reduces modulo 2^31 with int64
// intermediates and a floor-style positive modulo.
const (
	rngMultiplier = 1103515245
	rngIncrement  = 12345
	rngModulus    = int64(1) << 31
	rngYearSalt   = 31337
	rngDaySalt    = 7919
)

// MatchesRandom rolls the deterministic pseudo-random check for a date.
// Probability is a percentage: values at or below 0 never fire, values at
// or above 100 always fire.
func (e *Engine) MatchesRandom(cfg *model.RandomConfig, date model.Date) bool {
	if cfg == nil {
		return false
	}
	if cfg.Probability <= 0 {
		return false
	}
	if cfg.Probability >= 100 {
		return true
	}
	roll := randomRoll(cfg.Seed, date.Year, e.cal.DayOfYear(date))
	return roll < cfg.Probability
}

// randomRoll hashes (seed, year, dayOfYear) into [0,100).
func randomRoll(seed int64, year, dayOfYear int) float64 {
	h := seed
	if h < 0 {
		h = -h
	}
	if h == 0 {
		h = 1
	}
	h = posMod64(h%rngModulus*rngMultiplier+rngIncrement, rngModulus)
	h = posMod64(h+int64(year)*rngYearSalt, rngModulus)
	h = posMod64(h*rngMultiplier+int64(dayOfYear)*rngDaySalt, rngModulus)
	return float64(h%10000) / 100
}
