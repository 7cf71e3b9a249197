package estimate

import "math/rand/v2"

// RandomSource returns an integer in [lo, hi], inclusive. It only feeds chart
// decoration and the simulated live price; no business figure depends on it.
type RandomSource interface {
	IntRange(lo, hi int) int
}

// midpointSource always returns the middle of the range.
type midpointSource struct{}

func (midpointSource) IntRange(lo, hi int) int {
	return lo + (hi-lo)/2
}

// ZeroJitter is a deterministic source: price jitter is 0 and the live price
// sits in the middle of its band.
var ZeroJitter RandomSource = midpointSource{}

type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a reproducible pseudo-random source.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

// JitteredSeries returns each catalog entry's reference price shifted by up to
// ±PriceJitter. A nil source behaves as ZeroJitter.
func JitteredSeries(c Catalog, src RandomSource) []PricePoint {
	if src == nil {
		src = ZeroJitter
	}
	points := make([]PricePoint, 0, len(c))
	for _, entry := range c {
		points = append(points, PricePoint{
			GCV:   entry.GCV,
			Price: entry.Price + float64(src.IntRange(-PriceJitter, PriceJitter)),
		})
	}
	return points
}

// LivePrice returns the simulated market price of the day in ₹/ton.
func LivePrice(src RandomSource) int {
	if src == nil {
		src = ZeroJitter
	}
	return src.IntRange(LivePriceMinimum, LivePriceMaximum)
}
