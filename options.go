package polyfit

// Option configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Default: MSE metric, greedy acceptance, even-odd fill
//	e, err := polyfit.New(target)
//
//	// Reproducible run with simulated annealing on 8 workers
//	e, err := polyfit.New(target,
//	    polyfit.WithSeed(42),
//	    polyfit.WithWorkers(8),
//	    polyfit.WithAcceptor(polyfit.NewAnnealing(0.01, 0.999)),
//	)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	metric       Metric
	acceptor     Acceptor
	fillRule     FillRule
	seed         uint64
	seeded       bool
	workers      int
	canvas       *Canvas
	historyLimit int
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		metric:   MetricMSE,
		acceptor: Greedy{},
		fillRule: FillEvenOdd,
		workers:  0, // GOMAXPROCS
	}
}

// WithMetric sets the similarity metric. Default: MetricMSE.
func WithMetric(m Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithAcceptor sets the acceptance policy. Default: Greedy.
func WithAcceptor(a Acceptor) Option {
	return func(o *options) {
		if a != nil {
			o.acceptor = a
		}
	}
}

// WithFillRule sets the rasterizer fill rule. Default: FillEvenOdd.
func WithFillRule(r FillRule) Option {
	return func(o *options) {
		o.fillRule = r
	}
}

// WithSeed seeds the engine's random source so generated candidates and
// stochastic acceptance are reproducible. Without it the seed is random.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithWorkers sets the number of goroutines used by StepBatch.
// Zero or negative uses GOMAXPROCS; 1 evaluates serially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithCanvas starts the run from a copy of c instead of a white canvas.
// The canvas must have the target's shape.
func WithCanvas(c *Canvas) Option {
	return func(o *options) {
		o.canvas = c
	}
}

// WithHistoryLimit keeps at most n undo entries; older entries are dropped.
// Zero (the default) keeps every entry.
func WithHistoryLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyLimit = n
		}
	}
}
