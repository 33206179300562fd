package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/rewrite"
	"github.com/gnolang/tsat/internal/term"
)

// ErrStop is returned by a hook to end the run with Stopped.
var ErrStop = errors.New("stop")

// Hook runs after every iteration. Returning ErrStop stops the run; any
// other error is logged and ignored.
type Hook func(r *Runner) error

// StopWhenEqual stops the run as soon as a and b are in the same class.
func StopWhenEqual(a, b egraph.ID) Hook {
	return func(r *Runner) error {
		if r.EGraph.Find(a) == r.EGraph.Find(b) {
			return ErrStop
		}
		return nil
	}
}

// StopOnDone stops the run once ctx is cancelled or its deadline passes.
func StopOnDone(ctx context.Context) Hook {
	return func(*Runner) error {
		if ctx.Err() != nil {
			return ErrStop
		}
		return nil
	}
}

// Limits bound a run. A zero field means no bound.
type Limits struct {
	Nodes      int
	Iterations int
	Time       time.Duration
}

// DefaultLimits are 10,000 nodes, 30 iterations and 5 seconds.
func DefaultLimits() Limits {
	return Limits{Nodes: 10_000, Iterations: 30, Time: 5 * time.Second}
}

// Option configures a Runner.
type Option func(*Runner)

func WithLimits(l Limits) Option { return func(r *Runner) { r.limits = l } }

func WithScheduler(s Scheduler) Option { return func(r *Runner) { r.scheduler = s } }

func WithHook(h Hook) Option { return func(r *Runner) { r.hooks = append(r.hooks, h) } }

func WithLogger(l *zap.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithParallelSearch searches rules concurrently. The search phase only
// reads the e-graph, so results do not depend on this setting.
func WithParallelSearch(on bool) Option { return func(r *Runner) { r.parallel = on } }

// WithInvariantChecks verifies the e-graph after every rebuild and panics
// on a violation.
func WithInvariantChecks() Option { return func(r *Runner) { r.checkInvariants = true } }

// Runner drives equality saturation over one e-graph.
type Runner struct {
	EGraph     *egraph.EGraph
	Roots      []egraph.ID
	Iterations []Iteration
	StopReason StopReason

	limits          Limits
	scheduler       Scheduler
	hooks           []Hook
	logger          *zap.Logger
	parallel        bool
	checkInvariants bool
	start           time.Time
}

// New returns a runner over g with default limits and a backoff scheduler.
func New(g *egraph.EGraph, opts ...Option) *Runner {
	r := &Runner{
		EGraph:    g,
		limits:    DefaultLimits(),
		scheduler: NewBackoffScheduler(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddRoot adds t to the e-graph and records it as a root.
func (r *Runner) AddRoot(t term.Term) egraph.ID {
	id := r.EGraph.AddTerm(t)
	r.Roots = append(r.Roots, id)
	return id
}

// Run saturates the e-graph with rules until it stops and returns the stop
// reason. Calling Run again on a stopped runner does nothing.
func (r *Runner) Run(rules []*rewrite.Rewrite) StopReason {
	if r.StopReason != Running {
		return r.StopReason
	}
	r.start = time.Now()
	r.EGraph.Rebuild()
	r.scheduler.Init(rules)

	for r.StopReason == Running {
		it, reason := r.runOne(rules)
		if reason == Running {
			reason = r.checkStop(&it)
		}
		r.StopReason = reason
		if reason != Running {
			it.StopReason = reason.String()
		}
		r.Iterations = append(r.Iterations, it)

		r.logger.Debug("iteration",
			zap.Int("iteration", len(r.Iterations)-1),
			zap.Int("nodes", it.EGraphNodes),
			zap.Int("classes", it.EGraphClasses),
			zap.Int("unions", it.NUnions),
			zap.Float64("total_time", it.TotalTime),
		)
	}

	runsTotal.WithLabelValues(r.StopReason.String()).Inc()
	finalNodes.Observe(float64(r.EGraph.TotalSize()))
	r.logger.Info("saturation stopped",
		zap.Stringer("reason", r.StopReason),
		zap.Int("iterations", len(r.Iterations)),
		zap.Int("nodes", r.EGraph.TotalSize()),
		zap.Int("classes", r.EGraph.NumClasses()),
		zap.Duration("elapsed", time.Since(r.start)),
	)
	return r.StopReason
}

// runOne performs a search phase over a stable snapshot, an apply phase
// and a single rebuild. A limit hit between rules ends the apply phase
// early and is returned as the stop reason.
func (r *Runner) runOne(rules []*rewrite.Rewrite) (Iteration, StopReason) {
	g := r.EGraph
	iteration := len(r.Iterations)
	it := Iteration{Applied: make(map[string]int)}
	start := time.Now()
	unionsBefore := g.NumUnions()

	searchStart := time.Now()
	matches := make([][]rewrite.SearchMatches, len(rules))
	if r.parallel {
		var eg errgroup.Group
		for i, rule := range rules {
			i, rule := i, rule
			eg.Go(func() error {
				matches[i] = r.scheduler.Search(iteration, i, rule, g)
				return nil
			})
		}
		_ = eg.Wait()
	} else {
		for i, rule := range rules {
			matches[i] = r.scheduler.Search(iteration, i, rule, g)
		}
	}
	it.SearchTime = seconds(time.Since(searchStart))

	applyStart := time.Now()
	reason := Running
	for i, rule := range rules {
		if reason = r.checkBudget(); reason != Running {
			break
		}
		if n := rule.Apply(g, matches[i]); n > 0 {
			it.Applied[rule.Name] += n
		}
	}
	it.ApplyTime = seconds(time.Since(applyStart))

	rebuildStart := time.Now()
	g.Rebuild()
	it.NRebuilds = 1
	it.RebuildTime = seconds(time.Since(rebuildStart))
	if r.checkInvariants {
		if err := g.CheckInvariants(); err != nil {
			panic(fmt.Sprintf("e-graph invariant violated after iteration %d: %v", iteration, err))
		}
	}

	it.NUnions = g.NumUnions() - unionsBefore
	it.EGraphNodes = g.TotalSize()
	it.EGraphClasses = g.NumClasses()
	it.TotalTime = seconds(time.Since(start))

	iterationsTotal.Inc()
	unionsTotal.Add(float64(it.NUnions))
	phaseSeconds.WithLabelValues("search").Observe(it.SearchTime)
	phaseSeconds.WithLabelValues("apply").Observe(it.ApplyTime)
	phaseSeconds.WithLabelValues("rebuild").Observe(it.RebuildTime)
	return it, reason
}

// checkBudget reports a node or time limit hit in the middle of an
// iteration.
func (r *Runner) checkBudget() StopReason {
	if r.limits.Nodes > 0 && r.EGraph.TotalSize() > r.limits.Nodes {
		return NodeLimit
	}
	if r.limits.Time > 0 && time.Since(r.start) > r.limits.Time {
		return TimeLimit
	}
	return Running
}

// checkStop evaluates the stop conditions after a completed iteration, in
// order: saturation, node limit, iteration and time limits, hooks.
func (r *Runner) checkStop(it *Iteration) StopReason {
	iteration := len(r.Iterations)
	if it.NUnions == 0 && r.scheduler.CanStop(iteration) {
		return Saturated
	}
	if r.limits.Nodes > 0 && it.EGraphNodes > r.limits.Nodes {
		return NodeLimit
	}
	if r.limits.Iterations > 0 && iteration+1 >= r.limits.Iterations {
		return IterationLimit
	}
	if r.limits.Time > 0 && time.Since(r.start) > r.limits.Time {
		return TimeLimit
	}
	for _, h := range r.hooks {
		if err := h(r); err != nil {
			if errors.Is(err, ErrStop) {
				return Stopped
			}
			r.logger.Warn("hook failed", zap.Error(err))
		}
	}
	return Running
}

// Elapsed is the time since Run started.
func (r *Runner) Elapsed() time.Duration { return time.Since(r.start) }
