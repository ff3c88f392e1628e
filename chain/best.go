package chain

import (
	"sync"

	"github.com/fingoldin/sbrlmod/ruleset"
)

// BestTracker keeps the best-scoring RuleSet seen across any number of
// concurrent chains, grounded on the teacher's fuzzer.Cover: a
// mutex-guarded "max so far" value, copied out on read and merged in on
// write so callers never see a half-updated value.
type BestTracker struct {
	mu       sync.RWMutex
	best     *ruleset.RuleSet
	logPost  float64
	hasValue bool
}

// NewBestTracker returns an empty tracker; LogPosterior(floor) returns
// floor until the first Offer.
func NewBestTracker() *BestTracker {
	return &BestTracker{}
}

// Offer replaces the tracked best if logPost improves on it, and reports
// whether it did. rs is copied; the caller keeps ownership of its
// argument.
func (b *BestTracker) Offer(rs *ruleset.RuleSet, logPost float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasValue && logPost <= b.logPost {
		return false
	}
	b.best = rs.Copy()
	b.logPost = logPost
	b.hasValue = true
	return true
}

// Snapshot returns a copy of the current best RuleSet and its
// log-posterior. ok is false if no value has ever been offered.
func (b *BestTracker) Snapshot() (rs *ruleset.RuleSet, logPost float64, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.hasValue {
		return nil, 0, false
	}
	return b.best.Copy(), b.logPost, true
}

// LogPosterior returns the current best log-posterior, or the supplied
// floor if no value has been offered yet.
func (b *BestTracker) LogPosterior(floor float64) float64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.hasValue {
		return floor
	}
	return b.logPost
}
