// Package engine is the entry point used by the tsat commands. It ties a
// .tsat.yaml configuration and a rule file to the saturation engine.
package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gnolang/tsat/internal/rewrite"
	"github.com/gnolang/tsat/internal/session"
	"github.com/gnolang/tsat/internal/term"
)

// Engine holds a configuration and the current rule set.
type Engine struct {
	config  Config
	session session.Config
	logger  *zap.Logger

	mu    sync.RWMutex
	rules []*rewrite.Rewrite
}

// New builds an engine from config. If config names a rule file it is
// loaded immediately.
func New(config Config, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	sc, err := config.SessionConfig()
	if err != nil {
		return nil, err
	}
	e := &Engine{config: config, session: sc, logger: logger}
	if config.Rules != "" {
		if err := e.LoadRules(config.Rules); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *Engine) Config() Config { return e.config }

// LoadRules replaces the rule set with the rules of a YAML rule file. On
// error the previous rules are kept.
func (e *Engine) LoadRules(path string) error {
	rules, err := rewrite.LoadRewrites(path)
	if err != nil {
		return fmt.Errorf("loading rules from %s: %w", path, err)
	}
	e.SetRules(rules)
	e.logger.Info("rules loaded", zap.String("path", path), zap.Int("rules", len(rules)))
	return nil
}

func (e *Engine) SetRules(rules []*rewrite.Rewrite) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = rules
}

func (e *Engine) Rules() []*rewrite.Rewrite {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// NewSession returns a protocol session using the engine configuration
// with the current rules preloaded.
func (e *Engine) NewSession() *session.Session {
	s := session.New(session.WithConfig(e.session), session.WithLogger(e.logger))
	s.SetRules(e.Rules())
	return s
}

// Simplify simplifies exprs together in one e-graph, folding constants when
// the configuration asks for it.
func (e *Engine) Simplify(ctx context.Context, exprs []term.Term) (*session.Simplification, error) {
	rules := e.Rules()
	if len(rules) == 0 {
		return nil, session.ErrNoRewrites
	}
	return session.Simplify(ctx, rules, exprs, e.config.ConstantFold, e.session, e.logger)
}

// Prove tries to show lhs = rhs with the current rules.
func (e *Engine) Prove(ctx context.Context, lhs, rhs term.Term) (*session.Proof, error) {
	return session.Prove(ctx, e.Rules(), lhs, rhs, e.session, e.logger)
}
