package chain

import (
	"errors"
	"math/rand"

	"github.com/fingoldin/sbrlmod/accept"
	"github.com/fingoldin/sbrlmod/posterior"
	"github.com/fingoldin/sbrlmod/proposal"
	"github.com/fingoldin/sbrlmod/ruleset"
)

// Driver runs repeated Steps against a fixed rule pool and label vectors,
// sharing one BestTracker across however many chains call it. Metrics are
// NOT shared: each call to RunMCMC/RunSA takes its own, since the spec's
// per-chain counters must reset at chain start.
type Driver struct {
	Rules    []ruleset.Rule
	Labels   [2]ruleset.Rule
	NRules   int
	NSamples int
	Eval     *posterior.Evaluator
	Best     *BestTracker
}

// MCMCParams configures a single chain's run of RunMCMC.
type MCMCParams struct {
	InitSize int
	Iters    int
	Strategy accept.Strategy
}

// RunMCMC seeds one Metropolis-Hastings chain via seedChain (resampling
// until the seed's prefix bound reaches the driver's current vStar), then
// runs Params.Iters steps against this chain's own running best
// log-posterior, backing up the chain's best RuleSet whenever a step
// raises it. The chain's best is offered to d.Best exactly once, after the
// loop finishes, and RunMCMC returns the best RuleSet this driver has seen
// across every call to RunMCMC or RunSA that shares its BestTracker.
func (d *Driver) RunMCMC(rng *rand.Rand, p MCMCParams, metrics *Metrics) (*ruleset.RuleSet, float64, error) {
	kernel := proposal.Kernel{NRules: d.NRules}

	cur, err := d.seedChain(rng, p.InitSize)
	if err != nil {
		return nil, 0, err
	}
	maxLogPosterior := cur.LogPost
	chainBest := cur.RuleSet.Copy()
	chainBestLP := cur.LogPost

	for i := 0; i < p.Iters; i++ {
		prevMax := maxLogPosterior
		cur, maxLogPosterior = Step(rng, cur, d.Rules, d.Labels, kernel, d.Eval, p.Strategy, maxLogPosterior, metrics)
		if maxLogPosterior > prevMax {
			chainBest.Destroy()
			chainBest, chainBestLP = cur.RuleSet.Copy(), maxLogPosterior
		}
	}
	cur.RuleSet.Destroy()

	d.Best.Offer(chainBest, chainBestLP)
	chainBest.Destroy()

	best, bestLP, ok := d.Best.Snapshot()
	if !ok {
		return nil, 0, errors.New("chain: RunMCMC produced no chain-local best")
	}
	return best, bestLP, nil
}
