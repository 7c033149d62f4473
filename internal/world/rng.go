package world

import "math/rand"

func (w *World) ensureRNG() {
	if w.rng != nil {
		return
	}
	if w.rngSeed == 0 {
		w.rngSeed = 1
	}
	w.rng = rand.New(rand.NewSource(w.rngSeed))
}

// randFloat returns a value in [0, 1).
func (w *World) randFloat() float64 {
	w.ensureRNG()
	w.rngCalls++
	return w.rng.Float64()
}

// randSpan returns a value in [-span/2, span/2).
func (w *World) randSpan(span float64) float64 {
	return (w.randFloat() - 0.5) * span
}

func (w *World) randSign() float64 {
	if w.randFloat() > 0.5 {
		return 1
	}
	return -1
}

// Seed reseeds the world generator. Worlds with equal seeds and equal
// message streams evolve identically.
func (w *World) Seed(seed int64) {
	if seed == 0 {
		seed = 1
	}
	w.rngSeed = seed
	w.rng = nil
	w.rngCalls = 0
	w.ensureRNG()
}
