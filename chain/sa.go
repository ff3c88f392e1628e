package chain

import (
	"errors"
	"math"
	"math/rand"

	"github.com/fingoldin/sbrlmod/accept"
	"github.com/fingoldin/sbrlmod/proposal"
	"github.com/fingoldin/sbrlmod/ruleset"
)

// DefaultPlateauIters is the number of proposals run at each integer time
// point, and DefaultPlateaus the number of temperature steps — together
// they reproduce the source's 200-iterations/27-plateaus default (tau[0]=1
// is only the initial boundary and never itself a plateau). Unlike the
// source's fixed T[100000] buffer, the schedule below is a slice sized to
// exactly as many plateaus as SAParams asks for.
const (
	DefaultPlateauIters = 200
	DefaultPlateaus     = 27
)

// SAParams configures RunSA's cooling schedule.
type SAParams struct {
	InitSize int

	// PlateauIters is the number of proposals run at every individual
	// integer time point (DefaultPlateauIters if zero).
	PlateauIters int

	// Plateaus is the number of temperature steps i = 1..Plateaus, each at
	// temperature 1/(i+1) (DefaultPlateaus if zero).
	Plateaus int
}

// Plateau is one temperature step of the cooling schedule: Width integer
// time points, each run for PlateauIters proposals, all at Temperature.
type Plateau struct {
	Temperature float64
	Width       int
}

// CoolingSchedule builds the time-point schedule from tau[0] = 1,
// tau[i] = tau[i-1] + exp(0.25*(i+1)) for i = 1..plateaus. tau[0] = 1 is
// only the initial boundary for plateau 1's width; it never produces a
// temperature of its own. Plateau i (1-indexed) holds temperature
// 1/(i+1) for every integer time point in [floor(tau[i-1]), floor(tau[i])),
// so plateau widths grow exponentially even though the temperature itself
// steps down by a fixed harmonic sequence.
func (p SAParams) CoolingSchedule() []Plateau {
	plateaus := p.Plateaus
	if plateaus <= 0 {
		plateaus = DefaultPlateaus
	}
	schedule := make([]Plateau, plateaus)
	tau := 1.0
	prevBound := int(math.Floor(tau))
	for i := 1; i <= plateaus; i++ {
		tau += math.Exp(0.25 * float64(i+1))
		bound := int(math.Floor(tau))
		width := bound - prevBound
		if width < 1 {
			width = 1
		}
		schedule[i-1] = Plateau{Temperature: 1.0 / float64(i+1), Width: width}
		prevBound = bound
	}
	return schedule
}

// TotalProposals returns the total number of proposals a full run of
// CoolingSchedule spends: the number of integer time points across every
// plateau, times PlateauIters (DefaultPlateauIters if zero).
func (p SAParams) TotalProposals() int {
	iters := p.PlateauIters
	if iters <= 0 {
		iters = DefaultPlateauIters
	}
	total := 0
	for _, plateau := range p.CoolingSchedule() {
		total += plateau.Width
	}
	return total * iters
}

// RunSA seeds one chain via seedChain, then anneals it through
// p.CoolingSchedule(), spending p.PlateauIters proposals (default
// DefaultPlateauIters) at every integer time point before cooling further.
// Like RunMCMC, the chain's own running best is tracked locally and offered
// to d.Best exactly once, after annealing finishes.
func (d *Driver) RunSA(rng *rand.Rand, p SAParams, metrics *Metrics) (*ruleset.RuleSet, float64, error) {
	kernel := proposal.Kernel{NRules: d.NRules}
	plateauIters := p.PlateauIters
	if plateauIters <= 0 {
		plateauIters = DefaultPlateauIters
	}

	cur, err := d.seedChain(rng, p.InitSize)
	if err != nil {
		return nil, 0, err
	}
	maxLogPosterior := cur.LogPost
	chainBest := cur.RuleSet.Copy()
	chainBestLP := cur.LogPost

	for _, plateau := range p.CoolingSchedule() {
		strategy := accept.SimulatedAnnealing{Temperature: plateau.Temperature}
		steps := plateau.Width * plateauIters
		for i := 0; i < steps; i++ {
			prevMax := maxLogPosterior
			cur, maxLogPosterior = Step(rng, cur, d.Rules, d.Labels, kernel, d.Eval, strategy, maxLogPosterior, metrics)
			if maxLogPosterior > prevMax {
				chainBest.Destroy()
				chainBest, chainBestLP = cur.RuleSet.Copy(), maxLogPosterior
			}
		}
	}
	cur.RuleSet.Destroy()

	d.Best.Offer(chainBest, chainBestLP)
	chainBest.Destroy()

	best, bestLP, ok := d.Best.Snapshot()
	if !ok {
		return nil, 0, errors.New("chain: RunSA produced no chain-local best")
	}
	return best, bestLP, nil
}
