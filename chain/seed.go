package chain

import (
	"math"
	"math/rand"

	"github.com/fingoldin/sbrlmod/ruleset"
)

// maxSeedAttempts bounds the resampling loop in seedChain so a vStar that
// no random draw of this InitSize can realistically reach does not hang a
// chain forever; the best-bound draw seen within the cap is used instead.
const maxSeedAttempts = 10000

// seedChain repeatedly draws a random RuleSet of size initSize and scores
// it, resampling until its prefix bound reaches the driver's current
// vStar — the best log-posterior any chain sharing d.Best has found so
// far, or -Inf for the very first chain. This is the chain-seeding "warm
// start" gate: chain 1 accepts its first draw outright, while later
// chains keep resampling until they land in a region the bound says may
// still beat the running best.
func (d *Driver) seedChain(rng *rand.Rand, initSize int) (State, error) {
	vStar := d.Best.LogPosterior(math.Inf(-1))

	var bestAttempt State
	haveAttempt := false
	for attempt := 0; attempt < maxSeedAttempts; attempt++ {
		candidate, err := ruleset.CreateRandom(rng, initSize, d.NSamples, d.NRules, d.Rules)
		if err != nil {
			return State{}, err
		}
		logPost, bound := d.Eval.Evaluate(candidate, d.Labels, candidate.NRules()-2)

		if bound >= vStar {
			if haveAttempt {
				bestAttempt.RuleSet.Destroy()
			}
			return State{RuleSet: candidate, LogPost: logPost, PrefixBnd: bound}, nil
		}

		if !haveAttempt || bound > bestAttempt.PrefixBnd {
			if haveAttempt {
				bestAttempt.RuleSet.Destroy()
			}
			bestAttempt = State{RuleSet: candidate, LogPost: logPost, PrefixBnd: bound}
			haveAttempt = true
		} else {
			candidate.Destroy()
		}
	}
	return bestAttempt, nil
}
