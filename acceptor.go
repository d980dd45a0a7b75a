package polyfit

import (
	"math"
	"math/rand/v2"
)

// Acceptor decides whether a scored candidate replaces the current canvas.
//
// Accept receives the metric (for its orientation), the current score and the
// candidate score. Implementations may use rng for stochastic decisions; the
// engine owns rng and seeds it, so runs stay reproducible.
type Acceptor interface {
	Accept(m Metric, current, candidate float64, rng *rand.Rand) bool
}

// AcceptorResetter is implemented by stateful acceptors. Engine.Reset calls
// Reset so a restarted run begins from the initial state.
type AcceptorResetter interface {
	Reset()
}

// Greedy accepts a candidate only when it strictly improves the score.
// This is the default hill-climbing rule.
type Greedy struct{}

// Accept implements Acceptor.
func (Greedy) Accept(m Metric, current, candidate float64, _ *rand.Rand) bool {
	return m.Better(candidate, current)
}

// Annealing accepts every improvement and accepts a worsening of size delta > 0
// with probability exp(-delta/T) (the Metropolis rule). After every decision
// the temperature T is multiplied by Cooling, down to MinTemperature.
//
// Annealing is stateful; use one instance per engine. Reset restores the
// temperature seen at the first decision.
type Annealing struct {
	Temperature    float64
	Cooling        float64
	MinTemperature float64

	start   float64
	started bool
}

// NewAnnealing returns an annealing acceptor starting at temperature t0 and
// cooling geometrically by factor cooling per decision.
func NewAnnealing(t0, cooling float64) *Annealing {
	return &Annealing{
		Temperature:    t0,
		Cooling:        cooling,
		MinTemperature: 1e-12,
		start:          t0,
		started:        true,
	}
}

// Accept implements Acceptor.
func (a *Annealing) Accept(m Metric, current, candidate float64, rng *rand.Rand) bool {
	if !a.started {
		a.start, a.started = a.Temperature, true
	}
	defer a.cool()

	if m.Better(candidate, current) {
		return true
	}
	if a.Temperature <= 0 {
		return false
	}

	delta := candidate - current
	if !m.LowerIsBetter() {
		delta = current - candidate
	}
	if !(delta > 0) {
		// Ties and undefined differences are not worth a history entry.
		return false
	}
	return rng.Float64() < math.Exp(-delta/a.Temperature)
}

func (a *Annealing) cool() {
	a.Temperature *= a.Cooling
	if a.Temperature < a.MinTemperature {
		a.Temperature = a.MinTemperature
	}
}

// Reset implements AcceptorResetter.
func (a *Annealing) Reset() {
	if a.started {
		a.Temperature = a.start
	}
}
