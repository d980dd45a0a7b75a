package polyfit

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/gogpu/polyfit/internal/parallel"
)

// State is the phase of the engine's step cycle.
type State int

const (
	// StateIdle means no step has run since creation, reset or undo.
	StateIdle State = iota
	// StateProposing means a candidate is being generated.
	StateProposing
	// StateEvaluating means candidates are being rendered and scored.
	StateEvaluating
	// StateAccepted means the last step replaced the canvas.
	StateAccepted
	// StateRejected means the last step left the canvas untouched.
	StateRejected
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProposing:
		return "proposing"
	case StateEvaluating:
		return "evaluating"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Candidate is a polygon together with the mode used to composite it.
type Candidate struct {
	Polygon Polygon
	Mode    BlendMode
}

// Result describes the outcome of a step.
type Result struct {
	// Accepted reports whether the canvas was replaced.
	Accepted bool

	// Score is the candidate's score against the target.
	Score float64

	// Delta is Score minus the score before the step. Its sign is only
	// meaningful together with the metric's orientation.
	Delta float64

	// Index is the position of the winning candidate in a batch (0 for Step).
	Index int

	// Candidate is the winning candidate.
	Candidate Candidate
}

// Stats counts step outcomes since creation or the last Reset.
type Stats struct {
	Proposed int
	Accepted int
	Rejected int
	Undone   int
}

// historyEntry is the state replaced by an accepted step.
type historyEntry struct {
	canvas    *Canvas
	score     float64
	candidate Candidate
}

// evaluator is per-worker scratch state for batch evaluation.
type evaluator struct {
	scratch *Canvas
	raster  *Rasterizer
}

// ErrEmptyBatch is returned by StepBatch when no candidates are given.
var ErrEmptyBatch = errors.New("polyfit: empty candidate batch")

// Engine fits a canvas to a target image one polygon at a time.
//
// Each step renders a candidate onto a scratch copy of the current canvas,
// scores the copy against the target and lets the Acceptor decide whether the
// copy replaces the canvas. A rejected step leaves the canvas and score
// bit-identical. Accepted steps can be reverted with Undo.
//
// An Engine is not safe for concurrent use. StepBatch parallelizes internally.
type Engine struct {
	opts options

	target  *Buffer
	current *Canvas
	scratch *Canvas
	score   float64

	history  []historyEntry
	accepted []Candidate

	rng    *rand.Rand
	raster *Rasterizer
	state  State
	stats  Stats

	pool       *parallel.WorkerPool
	evaluators []evaluator
}

// New creates an engine for target. The canvas starts white unless
// WithCanvas is given. The target is copied.
func New(target *Buffer, opts ...Option) (*Engine, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidShape)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !o.metric.IsValid() {
		return nil, fmt.Errorf("polyfit: invalid metric %d", o.metric)
	}
	if !o.seeded {
		o.seed = rand.Uint64()
	}

	e := &Engine{
		opts:   o,
		rng:    rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15)),
		raster: NewRasterizer(o.fillRule),
	}

	var start *Canvas
	if o.canvas != nil {
		if o.canvas.Shape() != target.Shape() {
			return nil, fmt.Errorf("%w: canvas %v, target %v", ErrShapeMismatch, o.canvas.Shape(), target.Shape())
		}
		start = o.canvas.Clone()
	}
	if err := e.reset(target, start); err != nil {
		return nil, err
	}

	Logger().Info("polyfit: engine created",
		"shape", e.target.Shape().String(),
		"metric", o.metric.String(),
		"fill", o.fillRule.String(),
		"score", e.score)
	return e, nil
}

// reset installs target and start (a white canvas when nil).
func (e *Engine) reset(target *Buffer, start *Canvas) error {
	s := target.Shape()
	if err := s.Validate(); err != nil {
		return err
	}
	if start == nil {
		var err error
		if start, err = NewCanvas(s); err != nil {
			return err
		}
	}

	score, err := e.opts.metric.Compare(start, target)
	if err != nil {
		return err
	}

	if e.target != nil && e.target.Shape() != s {
		e.scratch = nil
		e.evaluators = nil
	}
	e.target = target.Clone()
	e.current = start
	e.score = score
	e.history = nil
	e.accepted = nil
	e.stats = Stats{}
	e.state = StateIdle
	return nil
}

// Reset restarts the run against target with a white canvas and empty
// history. The target may have a different shape than before. An acceptor
// implementing AcceptorResetter is reset as well.
func (e *Engine) Reset(target *Buffer) error {
	if target == nil {
		return fmt.Errorf("%w: nil target", ErrInvalidShape)
	}
	if err := e.reset(target, nil); err != nil {
		return err
	}
	if r, ok := e.opts.acceptor.(AcceptorResetter); ok {
		r.Reset()
	}
	Logger().Info("polyfit: reset",
		"shape", e.target.Shape().String(),
		"score", e.score)
	return nil
}

// Step proposes a single polygon composited with mode.
func (e *Engine) Step(p Polygon, mode BlendMode) (Result, error) {
	e.state = StateProposing
	c := Candidate{Polygon: p, Mode: mode}
	if err := validateCandidate(c); err != nil {
		e.state = StateIdle
		return Result{}, err
	}
	return e.evaluateOne(c)
}

// StepGenerated asks g for a candidate, using the engine's random source,
// and steps with it.
func (e *Engine) StepGenerated(g Generator, mode BlendMode) (Result, error) {
	e.state = StateProposing
	p, err := g.Propose(e.rng, e.target)
	if err != nil {
		e.state = StateIdle
		return Result{}, fmt.Errorf("polyfit: propose: %w", err)
	}
	c := Candidate{Polygon: p, Mode: mode}
	if err := validateCandidate(c); err != nil {
		e.state = StateIdle
		return Result{}, err
	}
	return e.evaluateOne(c)
}

// Propose draws n candidates from g using the engine's random source.
// The candidates are not evaluated; pass them to StepBatch.
func (e *Engine) Propose(g Generator, n int, mode BlendMode) ([]Candidate, error) {
	cands := make([]Candidate, 0, n)
	for range n {
		p, err := g.Propose(e.rng, e.target)
		if err != nil {
			return nil, fmt.Errorf("polyfit: propose: %w", err)
		}
		cands = append(cands, Candidate{Polygon: p, Mode: mode})
	}
	return cands, nil
}

// StepBatch scores every candidate concurrently against the current canvas
// and offers the best one to the acceptor. Ties go to the lowest index, so
// the outcome does not depend on the number of workers.
//
// If any candidate is invalid the step fails with the error of the lowest
// such index and the canvas is untouched.
func (e *Engine) StepBatch(cands []Candidate) (Result, error) {
	if len(cands) == 0 {
		return Result{}, ErrEmptyBatch
	}
	e.state = StateProposing
	for i, c := range cands {
		if err := validateCandidate(c); err != nil {
			e.state = StateIdle
			return Result{}, fmt.Errorf("polyfit: candidate %d: %w", i, err)
		}
	}
	if len(cands) == 1 {
		return e.evaluateOne(cands[0])
	}

	e.state = StateEvaluating
	scores := make([]float64, len(cands))
	errs := make([]error, len(cands))

	pool := e.workerPool()
	e.ensureEvaluators(pool.Workers())
	pool.ForEach(len(cands), func(worker, i int) {
		ev := &e.evaluators[worker]
		scores[i], errs[i] = e.render(ev.scratch, ev.raster, cands[i])
	})

	best := -1
	for i := range cands {
		if errs[i] != nil {
			e.state = StateIdle
			return Result{}, fmt.Errorf("polyfit: candidate %d: %w", i, errs[i])
		}
		if best < 0 || e.opts.metric.Better(scores[i], scores[best]) {
			best = i
		}
	}

	// Re-render the winner on the engine's own scratch for the commit.
	scratch := e.scratchCanvas()
	score, err := e.render(scratch, e.raster, cands[best])
	if err != nil {
		e.state = StateIdle
		return Result{}, err
	}
	e.stats.Proposed += len(cands) - 1
	res := e.decide(cands[best], score)
	res.Index = best
	return res, nil
}

// evaluateOne renders c on the engine's scratch canvas and decides.
func (e *Engine) evaluateOne(c Candidate) (Result, error) {
	e.state = StateEvaluating
	score, err := e.render(e.scratchCanvas(), e.raster, c)
	if err != nil {
		e.state = StateIdle
		return Result{}, err
	}
	return e.decide(c, score), nil
}

// render copies the current canvas into dst, draws c and scores dst.
func (e *Engine) render(dst *Canvas, r *Rasterizer, c Candidate) (float64, error) {
	if err := dst.CopyFrom(e.current); err != nil {
		return 0, err
	}
	if _, err := r.Draw(dst, c.Polygon, c.Mode); err != nil {
		return 0, err
	}
	return e.opts.metric.Compare(dst, e.target)
}

// decide commits or discards the scratch canvas holding c's rendering.
func (e *Engine) decide(c Candidate, score float64) Result {
	e.stats.Proposed++
	res := Result{
		Score:     score,
		Delta:     score - e.score,
		Candidate: c,
	}

	if e.opts.acceptor.Accept(e.opts.metric, e.score, score, e.rng) {
		e.commit(c, score)
		res.Accepted = true
		e.stats.Accepted++
		e.state = StateAccepted
	} else {
		e.stats.Rejected++
		e.state = StateRejected
	}

	Logger().Debug("polyfit: step",
		"accepted", res.Accepted,
		"score", res.Score,
		"delta", res.Delta,
		"mode", c.Mode.String(),
		"vertices", len(c.Polygon.Vertices))
	return res
}

// commit swaps the scratch canvas in and records the previous state.
func (e *Engine) commit(c Candidate, score float64) {
	e.history = append(e.history, historyEntry{
		canvas:    e.current,
		score:     e.score,
		candidate: c,
	})
	e.accepted = append(e.accepted, c)
	e.current = e.scratch
	e.scratch = nil

	if limit := e.opts.historyLimit; limit > 0 && len(e.history) > limit {
		// Recycle the oldest canvas as the next scratch.
		e.scratch = e.history[0].canvas
		e.history = append(e.history[:0], e.history[1:]...)
	}
	e.score = score
}

// Undo reverts the most recent accepted step.
func (e *Engine) Undo() error {
	if len(e.history) == 0 {
		return ErrEmptyHistory
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.accepted = e.accepted[:len(e.accepted)-1]

	e.scratch = e.current
	e.current = last.canvas
	e.score = last.score
	e.stats.Undone++
	e.state = StateIdle
	return nil
}

func validateCandidate(c Candidate) error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("polyfit: invalid blend mode %d", c.Mode)
	}
	return c.Polygon.Validate()
}

func (e *Engine) scratchCanvas() *Canvas {
	if e.scratch == nil {
		e.scratch = e.current.Clone()
	}
	return e.scratch
}

func (e *Engine) workerPool() *parallel.WorkerPool {
	if e.pool == nil || !e.pool.IsRunning() {
		n := e.opts.workers
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		e.pool = parallel.NewWorkerPool(n)
	}
	return e.pool
}

func (e *Engine) ensureEvaluators(n int) {
	for len(e.evaluators) < n {
		e.evaluators = append(e.evaluators, evaluator{
			scratch: e.current.Clone(),
			raster:  NewRasterizer(e.opts.fillRule),
		})
	}
}

// Current returns a copy of the current canvas.
func (e *Engine) Current() *Canvas {
	return e.current.Clone()
}

// Target returns a copy of the target image.
func (e *Engine) Target() *Buffer {
	return e.target.Clone()
}

// Score returns the current canvas's score against the target.
func (e *Engine) Score() float64 {
	return e.score
}

// Shape returns the shape shared by the canvas and the target.
func (e *Engine) Shape() Shape {
	return e.target.Shape()
}

// Metric returns the similarity metric in use.
func (e *Engine) Metric() Metric {
	return e.opts.metric
}

// FillRule returns the rasterizer fill rule in use.
func (e *Engine) FillRule() FillRule {
	return e.opts.fillRule
}

// State returns the phase reached by the last operation.
func (e *Engine) State() State {
	return e.state
}

// HistoryLen returns the number of steps Undo can revert.
func (e *Engine) HistoryLen() int {
	return len(e.history)
}

// Accepted returns the accepted candidates in order. Replaying them onto a
// white canvas reproduces Current unless the run started from WithCanvas.
func (e *Engine) Accepted() []Candidate {
	out := make([]Candidate, len(e.accepted))
	for i, c := range e.accepted {
		out[i] = Candidate{Polygon: c.Polygon.Clone(), Mode: c.Mode}
	}
	return out
}

// Stats returns step counters.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Close releases the worker pool. The engine stays usable; later batches
// start a new pool.
func (e *Engine) Close() error {
	if e.pool != nil {
		e.pool.Close()
		e.pool = nil
	}
	return nil
}
