// Package ruleset implements the ordered-list-of-rules data structure that
// the stochastic search mutates: creation, deep copy, add/delete/swap, and
// the backup/restore pair used to cheaply remember a best-so-far list
// without holding onto its bitvectors.
package ruleset

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/fingoldin/sbrlmod/bitcap"
)

// ErrInvalidArgument is returned by mutators given an out-of-range
// position, a duplicate rule id, or an index that targets the default
// entry. Go's allocator does not expose recoverable allocation failure the
// way the source's malloc-based contract assumed (see DESIGN.md), so this
// supersedes that contract's "fails only on allocation error" wording with
// "fails only on an invalid argument".
var ErrInvalidArgument = errors.New("ruleset: invalid argument")

// CapturedRule is one RuleSet entry: which rule fired, and which samples it
// captured at that position (fired here and not at any earlier position).
type CapturedRule struct {
	RuleID    int
	Captures  bitcap.Vector
	NCaptured int
}

// RuleSet is an ordered sequence of CapturedRule terminated by the default
// entry (RuleID == DefaultRuleID, always last). Captures are pairwise
// disjoint and their union is the full sample set.
type RuleSet struct {
	Rules    []CapturedRule
	NSamples int
}

// NRules reports the number of list entries, including the default.
func (rs *RuleSet) NRules() int { return len(rs.Rules) }

// CreateRandom builds a RuleSet by choosing initSize distinct non-default
// rule ids from rules in random order, then appending the default entry.
func CreateRandom(rng *rand.Rand, initSize, nsamples, nrules int, rules []Rule) (*RuleSet, error) {
	if initSize < 1 || initSize > nrules-1 {
		return nil, fmt.Errorf("ruleset: init_size %d out of range [1, %d]: %w", initSize, nrules-1, ErrInvalidArgument)
	}
	perm := rng.Perm(nrules - 1) // permutation of [0, nrules-2]
	ids := make([]int, initSize)
	for i := 0; i < initSize; i++ {
		ids[i] = perm[i] + 1 // shift into [1, nrules-1], skipping the default slot
	}

	rs := &RuleSet{
		Rules:    make([]CapturedRule, initSize+1),
		NSamples: nsamples,
	}
	for i, id := range ids {
		rs.Rules[i] = CapturedRule{RuleID: id}
	}
	rs.Rules[initSize] = CapturedRule{RuleID: DefaultRuleID}
	deriveCaptures(rs, rules, 0)
	return rs, nil
}

// Copy returns a deep copy of rs, including its bitvectors.
func (rs *RuleSet) Copy() *RuleSet {
	out := &RuleSet{
		Rules:    make([]CapturedRule, len(rs.Rules)),
		NSamples: rs.NSamples,
	}
	for i, cr := range rs.Rules {
		out.Rules[i] = CapturedRule{
			RuleID:    cr.RuleID,
			Captures:  cr.Captures.Clone(),
			NCaptured: cr.NCaptured,
		}
	}
	return out
}

// Add inserts ruleID at position, which must address a non-default slot
// (it can equal the current default's position, pushing the default one
// slot later). Captures for position and everything after are re-derived;
// earlier positions are untouched.
func (rs *RuleSet) Add(rules []Rule, ruleID, position int) error {
	if position < 0 || position >= len(rs.Rules) {
		return fmt.Errorf("ruleset: add position %d out of range: %w", position, ErrInvalidArgument)
	}
	for _, cr := range rs.Rules {
		if cr.RuleID == ruleID {
			return fmt.Errorf("ruleset: rule id %d already present: %w", ruleID, ErrInvalidArgument)
		}
	}
	rs.Rules = append(rs.Rules, CapturedRule{})
	copy(rs.Rules[position+1:], rs.Rules[position:len(rs.Rules)-1])
	rs.Rules[position] = CapturedRule{RuleID: ruleID}
	deriveCaptures(rs, rules, position)
	return nil
}

// Delete removes the non-default entry at position. Captures for position
// and everything after are re-derived.
func (rs *RuleSet) Delete(rules []Rule, position int) error {
	if position < 0 || position >= len(rs.Rules)-1 {
		return fmt.Errorf("ruleset: delete position %d out of range: %w", position, ErrInvalidArgument)
	}
	rs.Rules = append(rs.Rules[:position], rs.Rules[position+1:]...)
	deriveCaptures(rs, rules, position)
	return nil
}

// SwapAny exchanges the rule ids at positions i and j, neither of which may
// be the default (last) position. Captures from min(i,j) onward are
// re-derived.
func (rs *RuleSet) SwapAny(rules []Rule, i, j int) error {
	last := len(rs.Rules) - 1
	if i < 0 || j < 0 || i >= last || j >= last {
		return fmt.Errorf("ruleset: swap positions (%d, %d) out of range: %w", i, j, ErrInvalidArgument)
	}
	if i == j {
		return fmt.Errorf("ruleset: swap requires distinct positions: %w", ErrInvalidArgument)
	}
	rs.Rules[i].RuleID, rs.Rules[j].RuleID = rs.Rules[j].RuleID, rs.Rules[i].RuleID
	from := i
	if j < from {
		from = j
	}
	deriveCaptures(rs, rules, from)
	return nil
}

// Backup returns the ordered list of rule ids, cheap to keep around as a
// best-so-far marker instead of holding onto the RuleSet's bitvectors.
func (rs *RuleSet) Backup() []int {
	ids := make([]int, len(rs.Rules))
	for i, cr := range rs.Rules {
		ids[i] = cr.RuleID
	}
	return ids
}

// RestoreFromIDs rebuilds a RuleSet from a Backup id list.
func RestoreFromIDs(ids []int, nsamples int, rules []Rule) *RuleSet {
	rs := &RuleSet{
		Rules:    make([]CapturedRule, len(ids)),
		NSamples: nsamples,
	}
	for i, id := range ids {
		rs.Rules[i] = CapturedRule{RuleID: id}
	}
	deriveCaptures(rs, rules, 0)
	return rs
}

// Destroy is a documented no-op kept for parity with the C lifecycle this
// type generalizes: Go's garbage collector, not an explicit free, owns the
// bitvectors once a RuleSet is no longer reachable.
func (rs *RuleSet) Destroy() {
	for _, cr := range rs.Rules {
		cr.Captures.Free()
	}
}

// deriveCaptures recomputes Captures/NCaptured for every position at and
// after from. Positions before from keep whatever capture they already
// have, so the caller must ensure they are still valid (deriveCaptures
// never looks at them beyond OR-ing them into the running "already
// covered" set).
func deriveCaptures(rs *RuleSet, rules []Rule, from int) {
	covered := bitcap.NewVector(rs.NSamples)
	for i := 0; i < from; i++ {
		covered = covered.Or(rs.Rules[i].Captures)
	}

	last := len(rs.Rules) - 1
	for i := from; i < last; i++ {
		id := rs.Rules[i].RuleID
		captured := rules[id].Truthtable.AndNot(covered)
		rs.Rules[i].Captures = captured
		rs.Rules[i].NCaptured = captured.PopCount()
		covered = covered.Or(captured)
	}

	def := covered.Not()
	rs.Rules[last].Captures = def
	rs.Rules[last].NCaptured = def.PopCount()
}
