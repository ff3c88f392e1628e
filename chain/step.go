// Package chain drives the unified propose/score/accept procedure shared
// by the Metropolis-Hastings and simulated-annealing search modes, plus
// the best-so-far tracking and warm-start resampling around it.
package chain

import (
	"math/rand"

	"github.com/fingoldin/sbrlmod/accept"
	"github.com/fingoldin/sbrlmod/posterior"
	"github.com/fingoldin/sbrlmod/proposal"
	"github.com/fingoldin/sbrlmod/ruleset"
)

// State is the mutable state a single chain carries between steps.
type State struct {
	RuleSet   *ruleset.RuleSet
	LogPost   float64
	PrefixBnd float64
}

// Step runs one propose-mutate-evaluate-accept cycle starting from cur,
// against the shared rule pool, posterior evaluator and label vectors.
// maxLogPosterior is this chain's own running best log-posterior — the
// pruning threshold every proposal is gated against — and is never shared
// across chains; Step returns the possibly-raised value alongside the next
// state, which the caller threads into its next call. The returned state
// is either the mutated proposal (on acceptance) or cur unchanged (on
// rejection); in both cases the caller owns the result and the discarded
// RuleSet's Destroy has already been called.
func Step(
	rng *rand.Rand,
	cur State,
	rules []ruleset.Rule,
	labels [2]ruleset.Rule,
	kernel proposal.Kernel,
	eval *posterior.Evaluator,
	strategy accept.Strategy,
	maxLogPosterior float64,
	metrics *Metrics,
) (State, float64) {
	candidate := cur.RuleSet.Copy()
	mv, jumpRatio := kernel.Propose(rng, candidate)
	metrics.Proposals.Add(1)

	if err := applyMove(candidate, rules, mv, metrics); err != nil {
		// An invalid move from a correctly configured Kernel means the
		// pool and the RuleSet have drifted out of sync; treat it as a
		// rejection rather than panicking mid-chain.
		candidate.Destroy()
		return cur, maxLogPosterior
	}

	length4bound := candidate.NRules() - 2
	newLP, bound := eval.Evaluate(candidate, labels, length4bound)

	if !strategy.Accept(rng, newLP, cur.LogPost, bound, maxLogPosterior, jumpRatio) {
		if bound <= maxLogPosterior {
			metrics.BoundRejects.Add(1)
		}
		candidate.Destroy()
		return cur, maxLogPosterior
	}

	metrics.Accepts.Add(1)
	cur.RuleSet.Destroy()
	if newLP > maxLogPosterior {
		maxLogPosterior = newLP
		metrics.NewBest.Add(1)
	}
	return State{RuleSet: candidate, LogPost: newLP, PrefixBnd: bound}, maxLogPosterior
}

func applyMove(rs *ruleset.RuleSet, rules []ruleset.Rule, mv proposal.Move, metrics *Metrics) error {
	switch m := mv.(type) {
	case proposal.Swap:
		metrics.Swaps.Add(1)
		return rs.SwapAny(rules, m.I, m.J)
	case proposal.Add:
		metrics.Adds.Add(1)
		return rs.Add(rules, m.RuleID, m.Position)
	case proposal.Delete:
		metrics.Deletes.Add(1)
		return rs.Delete(rules, m.Position)
	default:
		return ruleset.ErrInvalidArgument
	}
}
