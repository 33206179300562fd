package runner

import (
	"github.com/gnolang/tsat/internal/egraph"
	"github.com/gnolang/tsat/internal/rewrite"
)

// Scheduler decides which matches of which rules are applied in an
// iteration. Search may be called concurrently for different rule indices
// within one iteration; CanStop is called from the run loop only.
type Scheduler interface {
	// Init is called once per run with the rule set.
	Init(rules []*rewrite.Rewrite)
	// Search returns the matches of rule to apply. Returning nil skips the
	// rule for this iteration.
	Search(iteration, index int, rule *rewrite.Rewrite, g *egraph.EGraph) []rewrite.SearchMatches
	// CanStop is asked when an iteration made no unions. Returning false
	// keeps the run going.
	CanStop(iteration int) bool
}

// SimpleScheduler applies every rule to all of its matches every iteration.
type SimpleScheduler struct{}

func (SimpleScheduler) Init([]*rewrite.Rewrite) {}

func (SimpleScheduler) Search(_, _ int, rule *rewrite.Rewrite, g *egraph.EGraph) []rewrite.SearchMatches {
	return rule.Search(g, 0)
}

func (SimpleScheduler) CanStop(int) bool { return true }

const (
	defaultMatchLimit = 1000
	defaultBanLength  = 5
	// shifts beyond this would overflow the limits
	maxTimesBanned = 30
)

type ruleStats struct {
	timesApplied int
	bannedUntil  int
	timesBanned  int
}

// BackoffScheduler keeps rules that match too often from exploding the
// e-graph. A rule whose matches in one iteration exceed its threshold
// (matchLimit << timesBanned) is not applied and is banned for
// banLength << timesBanned iterations.
type BackoffScheduler struct {
	matchLimit int
	banLength  int
	stats      []ruleStats
}

// NewBackoffScheduler returns a backoff scheduler with a match limit of
// 1000 and a ban length of 5 iterations.
func NewBackoffScheduler() *BackoffScheduler {
	return &BackoffScheduler{matchLimit: defaultMatchLimit, banLength: defaultBanLength}
}

// WithMatchLimit sets the initial match limit.
func (s *BackoffScheduler) WithMatchLimit(limit int) *BackoffScheduler {
	s.matchLimit = limit
	return s
}

// WithBanLength sets the initial ban length.
func (s *BackoffScheduler) WithBanLength(n int) *BackoffScheduler {
	s.banLength = n
	return s
}

func (s *BackoffScheduler) Init(rules []*rewrite.Rewrite) {
	s.stats = make([]ruleStats, len(rules))
}

func (s *BackoffScheduler) Search(iteration, index int, rule *rewrite.Rewrite, g *egraph.EGraph) []rewrite.SearchMatches {
	st := &s.stats[index]
	if iteration < st.bannedUntil {
		return nil
	}

	threshold := s.matchLimit << st.timesBanned
	matches := rule.Search(g, threshold+1)
	total := 0
	for _, m := range matches {
		total += len(m.Substs)
	}
	if total > threshold {
		st.bannedUntil = iteration + s.banLength<<st.timesBanned
		if st.timesBanned < maxTimesBanned {
			st.timesBanned++
		}
		return nil
	}
	st.timesApplied++
	return matches
}

// CanStop lets the run saturate only when no rule is banned. Otherwise it
// fast-forwards all bans by the shortest remaining one so the next
// iteration unbans at least one rule.
func (s *BackoffScheduler) CanStop(iteration int) bool {
	minBan := -1
	for _, st := range s.stats {
		if st.bannedUntil > iteration {
			if left := st.bannedUntil - iteration; minBan < 0 || left < minBan {
				minBan = left
			}
		}
	}
	if minBan < 0 {
		return true
	}
	for i := range s.stats {
		if s.stats[i].bannedUntil > iteration {
			s.stats[i].bannedUntil -= minBan
		}
	}
	return false
}

// Banned reports whether the rule at index is banned at iteration.
func (s *BackoffScheduler) Banned(iteration, index int) bool {
	return iteration < s.stats[index].bannedUntil
}
