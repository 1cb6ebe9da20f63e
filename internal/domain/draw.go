package domain

import "time"

// HistoricalDraw is a past drawing. Sequences of draws are ordered newest-first.
type HistoricalDraw struct {
	DrawDate time.Time
	Numbers  Combination
}

// Sum returns the sum of the drawn numbers.
func (d *HistoricalDraw) Sum() int {
	return d.Numbers.Sum()
}
