// Package session adapts the saturation engine to a line-oriented JSON
// protocol. A Session holds the rule set loaded by earlier requests; every
// request builds and discards its own e-graph.
package session

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gnolang/tsat/internal/analysis/constfold"
	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/extract"
	"github.com/gnolang/tsat/internal/rewrite"
	"github.com/gnolang/tsat/internal/runner"
	"github.com/gnolang/tsat/internal/term"
)

// Version is reported by the version request. It is set at build time
// with -ldflags "-X github.com/gnolang/tsat/internal/session.Version=...".
var Version = "0.1.0"

// maxLineSize bounds a single request line.
const maxLineSize = 64 << 20

// Config controls how requests run.
type Config struct {
	SimplifyLimits runner.Limits
	ProveLimits    runner.Limits
	// Scheduler is "backoff" or "simple".
	Scheduler string
	Parallel  bool
	Cost      extract.CostFunction
	// CheckExplanations re-derives every proof before it is returned.
	CheckExplanations bool
}

// DefaultConfig bounds both request kinds by runner.DefaultLimits and uses
// the backoff scheduler with AstSize costs.
func DefaultConfig() Config {
	return Config{
		SimplifyLimits:    runner.DefaultLimits(),
		ProveLimits:       runner.DefaultLimits(),
		Scheduler:         "backoff",
		Cost:              extract.AstSize{},
		CheckExplanations: true,
	}
}

// Session is the state shared by the requests of one connection.
type Session struct {
	ID string

	cfg    Config
	logger *zap.Logger

	maxLine int

	mu    sync.RWMutex
	rules []*rewrite.Rewrite
}

// Option configures a Session.
type Option func(*Session)

func WithConfig(cfg Config) Option { return func(s *Session) { s.cfg = cfg } }

func WithLogger(l *zap.Logger) Option { return func(s *Session) { s.logger = l } }

// New returns a session with no rules loaded.
func New(opts ...Option) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		cfg:     DefaultConfig(),
		logger:  zap.NewNop(),
		maxLine: maxLineSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Cost == nil {
		s.cfg.Cost = extract.AstSize{}
	}
	s.logger = s.logger.With(zap.String("session", s.ID))
	return s
}

// SetRules replaces the loaded rule set.
func (s *Session) SetRules(rules []*rewrite.Rewrite) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = rules
}

// Rules returns the loaded rule set. The slice must not be modified.
func (s *Session) Rules() []*rewrite.Rewrite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules
}

// Serve reads one request per line from r and writes one pretty-printed
// response per request to w. Blank lines are skipped. A malformed or
// oversized line is answered with an error response and the session
// continues.
func (s *Session) Serve(r io.Reader, w io.Writer) error {
	br := bufio.NewReaderSize(r, 64*1024)
	bw := bufio.NewWriter(w)

	for {
		line, err := readLine(br, s.maxLine)
		var resp any
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errLineTooLong):
			s.logger.Warn("bad request", zap.Error(err))
			resp = errorResponse(&TransportError{Err: err})
		case err != nil:
			return err
		case len(bytes.TrimSpace(line)) == 0:
			continue
		default:
			resp = s.HandleLine(line)
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding response: %w", err)
		}
		out = append(out, '\n')
		if _, err := bw.Write(out); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
	}
}

var errLineTooLong = errors.New("request line too long")

// readLine returns the next line without its line ending. A line longer
// than limit bytes is consumed to its end and reported as errLineTooLong.
func readLine(br *bufio.Reader, limit int) ([]byte, error) {
	var line []byte
	tooLong := false
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			return nil, err
		}
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !more {
			break
		}
	}
	if tooLong {
		return nil, fmt.Errorf("%w: more than %d bytes", errLineTooLong, limit)
	}
	return line, nil
}

// HandleLine decodes and handles one request line.
func (s *Session) HandleLine(line []byte) any {
	req, err := DecodeRequest(line)
	if err != nil {
		s.logger.Warn("bad request", zap.Error(err))
		return errorResponse(err)
	}
	return s.Handle(req)
}

// Handle runs one decoded request. Failures are returned as an
// *ErrorResponse; the session state is left unchanged by a failed request.
func (s *Session) Handle(req *Request) any {
	logger := s.logger.With(
		zap.String("request_id", uuid.NewString()[:8]),
		zap.String("kind", string(req.Kind)),
	)
	logger.Debug("handling request")

	resp, err := s.dispatch(req, logger)
	if err != nil {
		logger.Warn("request failed", zap.Error(err))
		return errorResponse(err)
	}
	return resp
}

func (s *Session) dispatch(req *Request, logger *zap.Logger) (any, error) {
	switch req.Kind {
	case KindVersion:
		return &VersionResponse{Response: KindVersion, Version: Version}, nil
	case KindLoadRewrites:
		return s.loadRewrites(req.LoadRewrites)
	case KindSimplify:
		return s.simplify(req.Simplify, logger)
	case KindPerformRewrite:
		return s.performRewrite(req.PerformRewrite, logger)
	default:
		return nil, &TransportError{Err: fmt.Errorf("unknown request kind %q", req.Kind)}
	}
}

func (s *Session) loadRewrites(req *LoadRewritesRequest) (any, error) {
	rules, err := rewrite.Compile(req.Rewrites)
	if err != nil {
		return nil, err
	}
	s.SetRules(rules)
	return &LoadRewritesResponse{Response: KindLoadRewrites, N: len(rules)}, nil
}

func (s *Session) simplify(req *SimplifyRequest, logger *zap.Logger) (any, error) {
	rules := s.Rules()
	if len(rules) == 0 {
		return nil, ErrNoRewrites
	}

	exprs := make([]term.Term, len(req.Exprs))
	for i, text := range req.Exprs {
		t, err := term.Parse(text)
		if err != nil {
			return nil, &ExprError{Field: "expr", Text: text, Err: err}
		}
		exprs[i] = t
	}

	// prune is accepted for compatibility; e-nodes are never removed.
	res, err := Simplify(context.Background(), rules, exprs, req.constantFold(), s.cfg, logger)
	if err != nil {
		return nil, err
	}
	return &SimplifyResponse{Response: KindSimplify, Iterations: res.Iterations, Best: res.Best}, nil
}

// Simplification is the outcome of Simplify.
type Simplification struct {
	StopReason runner.StopReason
	Iterations []runner.Iteration
	Best       []Comparison
	// EGraph is the saturated e-graph, kept for diagnostics.
	EGraph *egraph.EGraph
}

// Simplify saturates one e-graph holding all of exprs and extracts the
// cheapest equivalent of each under cfg.Cost.
func Simplify(ctx context.Context, rules []*rewrite.Rewrite, exprs []term.Term, constantFold bool, cfg Config, logger *zap.Logger) (*Simplification, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cost := cfg.Cost
	if cost == nil {
		cost = extract.AstSize{}
	}

	var opts []egraph.Option
	if constantFold {
		opts = append(opts, egraph.WithAnalysis(constfold.New()))
	}
	g := egraph.New(opts...)
	r := newRunner(g, cfg, cfg.SimplifyLimits, logger, runner.WithHook(runner.StopOnDone(ctx)))
	for _, t := range exprs {
		r.AddRoot(t)
	}
	reason := r.Run(rules)

	x := extract.New(g, cost)
	best := make([]Comparison, len(exprs))
	for i, t := range exprs {
		c, final, ok := x.FindBest(r.Roots[i])
		if !ok {
			return nil, fmt.Errorf("no finite-cost term for %s", t)
		}
		best[i] = Comparison{
			InitialExpr: t.String(),
			InitialCost: extract.TermCost(cost, t),
			FinalExpr:   final.String(),
			FinalCost:   c,
		}
	}

	logger.Info("simplified",
		zap.Int("exprs", len(exprs)),
		zap.Stringer("stop_reason", reason),
		zap.Int("iterations", len(r.Iterations)),
	)
	return &Simplification{StopReason: reason, Iterations: r.Iterations, Best: best, EGraph: g}, nil
}

func (s *Session) performRewrite(req *PerformRewriteRequest, logger *zap.Logger) (any, error) {
	rules, err := rewrite.Compile(req.Rewrites)
	if err != nil {
		return nil, err
	}
	lhs, err := term.Parse(req.TargetLHS)
	if err != nil {
		return nil, &ExprError{Field: "target-lhs", Text: req.TargetLHS, Err: err}
	}
	rhs, err := term.Parse(req.TargetRHS)
	if err != nil {
		return nil, &ExprError{Field: "target-rhs", Text: req.TargetRHS, Err: err}
	}

	proof, err := Prove(context.Background(), rules, lhs, rhs, s.cfg, logger)
	if err != nil {
		return nil, err
	}
	resp := &PerformRewriteResponse{Response: KindPerformRewrite, Success: proof.Proven, Explanation: []string{}}
	if proof.Proven {
		resp.Explanation = proof.Explanation.FlatStrings()
	}
	return resp, nil
}

// Proof is the outcome of Prove.
type Proof struct {
	Proven      bool
	StopReason  runner.StopReason
	Iterations  []runner.Iteration
	Explanation *egraph.Explanation
}

// Prove saturates an e-graph holding lhs and rhs with rules and, if they
// end up equal, explains why. The run stops as soon as both are equal.
func Prove(ctx context.Context, rules []*rewrite.Rewrite, lhs, rhs term.Term, cfg Config, logger *zap.Logger) (*Proof, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := egraph.New(egraph.WithExplanations())
	left := g.AddTerm(lhs)
	right := g.AddTerm(rhs)
	r := newRunner(g, cfg, cfg.ProveLimits, logger,
		runner.WithHook(runner.StopWhenEqual(left, right)),
		runner.WithHook(runner.StopOnDone(ctx)),
	)
	r.Roots = append(r.Roots, left, right)
	reason := r.Run(rules)

	proof := &Proof{StopReason: reason, Iterations: r.Iterations}
	if g.Find(left) != g.Find(right) {
		logger.Info("not proven", zap.Stringer("stop_reason", reason), zap.Int("iterations", len(r.Iterations)))
		return proof, nil
	}

	exp, err := g.ExplainEquivalence(lhs, rhs)
	if err != nil {
		return nil, fmt.Errorf("explaining %s = %s: %w", lhs, rhs, err)
	}
	if cfg.CheckExplanations {
		if err := rewrite.CheckExplanation(rules, exp); err != nil {
			return nil, fmt.Errorf("explanation of %s = %s does not check: %w", lhs, rhs, err)
		}
	}
	proof.Proven = true
	proof.Explanation = exp
	logger.Info("proven", zap.Int("steps", exp.Len()), zap.Int("iterations", len(r.Iterations)))
	return proof, nil
}

func newRunner(g *egraph.EGraph, cfg Config, limits runner.Limits, logger *zap.Logger, extra ...runner.Option) *runner.Runner {
	var sched runner.Scheduler = runner.NewBackoffScheduler()
	if cfg.Scheduler == "simple" {
		sched = runner.SimpleScheduler{}
	}
	opts := []runner.Option{
		runner.WithLimits(limits),
		runner.WithScheduler(sched),
		runner.WithParallelSearch(cfg.Parallel),
		runner.WithLogger(logger),
	}
	return runner.New(g, append(opts, extra...)...)
}
