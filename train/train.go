// Package train runs the full stochastic search — one or more
// Metropolis-Hastings or simulated-annealing chains sharing a best
// tracker — and packages the winning RuleSet into a PredictionModel.
package train

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/fingoldin/sbrlmod/accept"
	"github.com/fingoldin/sbrlmod/chain"
	"github.com/fingoldin/sbrlmod/posterior"
	"github.com/fingoldin/sbrlmod/prior"
	"github.com/fingoldin/sbrlmod/rlog"
	"github.com/fingoldin/sbrlmod/ruleset"
	"github.com/fingoldin/sbrlmod/telemetry"
)

// Method selects which search procedure Train runs on each chain.
type Method int

const (
	MethodMCMC Method = iota
	MethodSA
)

// Data is the mined rule pool, the two label truth-tables and the sample
// count the search runs against.
type Data struct {
	Rules    []ruleset.Rule
	Labels   [2]ruleset.Rule
	NSamples int
}

// Params configures the prior, likelihood and search schedule.
type Params struct {
	Lambda, Eta float64
	Alpha       [2]float64

	// Threshold is the prediction cutoff: the caller predicts class 1 at a
	// position whose Theta is >= Threshold. Train itself never branches on
	// it; it is only validated and carried onto PredictionModel.
	Threshold float64

	Iters    int
	InitSize int
	NChain   int
	Seed     int64

	// Verbosity, when positive, sets rlog's package-level verbosity; the
	// setting stays in effect after Train returns. 0 leaves it untouched.
	Verbosity int

	// PlateauIters and Plateaus configure RunSA's cooling schedule when
	// Method is MethodSA; both default (via chain.DefaultPlateauIters and
	// chain.DefaultPlateaus) when left zero.
	PlateauIters int
	Plateaus     int

	// PriorCache, if non-nil, is used to look up or build this run's
	// prior.Cache instead of a one-shot Cache private to this call, so a
	// caller running Train repeatedly with the same (nrules, lambda, eta)
	// can share the cache across calls. Train owns the cache's lifetime
	// either way; it never touches a package-level cache.
	PriorCache *prior.Registry

	// Registry, if non-nil, receives this run's chain.Metrics counters.
	Registry *telemetry.Registry
}

// ValidationError names every Params field that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("train: invalid params: %s", strings.Join(e.Fields, ", "))
}

func (p Params) validate(data Data) error {
	var bad []string
	if p.Lambda <= 0 {
		bad = append(bad, "lambda")
	}
	if p.Eta <= 0 {
		bad = append(bad, "eta")
	}
	if p.Alpha[0] <= 0 {
		bad = append(bad, "alpha0")
	}
	if p.Alpha[1] <= 0 {
		bad = append(bad, "alpha1")
	}
	if p.Threshold < 0 || p.Threshold > 1 {
		bad = append(bad, "threshold")
	}
	if p.Iters <= 0 {
		bad = append(bad, "iters")
	}
	if p.InitSize < 1 {
		bad = append(bad, "init_size")
	}
	if p.NChain < 1 {
		bad = append(bad, "nchain")
	}
	if len(data.Rules) < 2 {
		bad = append(bad, "data.rules")
	}
	if data.NSamples < 1 {
		bad = append(bad, "data.nsamples")
	}
	if p.InitSize > len(data.Rules)-1 {
		bad = append(bad, "init_size")
	}
	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

// PredictionModel is the winning RuleSet together with each position's
// Beta posterior mean P(class=1) and the prediction cutoff it was trained
// with.
type PredictionModel struct {
	RunID        string
	RuleSet      *ruleset.RuleSet
	Theta        []float64
	LogPosterior float64
	Threshold    float64
}

// Predict reports whether position j's posterior mean meets the model's
// prediction cutoff.
func (m *PredictionModel) Predict(j int) bool {
	return m.Theta[j] >= m.Threshold
}

// Train runs Params.NChain independent chains of the chosen Method and
// returns the best-scoring RuleSet found by any of them.
func Train(data Data, method Method, params Params) (*PredictionModel, error) {
	if err := params.validate(data); err != nil {
		return nil, err
	}
	if params.Verbosity > 0 {
		rlog.SetVerbosity(params.Verbosity)
	}

	cacheRegistry := params.PriorCache
	if cacheRegistry == nil {
		cacheRegistry = prior.NewRegistry(1)
	}
	cache, err := cacheRegistry.Get(len(data.Rules), params.Lambda, params.Eta)
	if err != nil {
		return nil, fmt.Errorf("train: building prior cache: %w", err)
	}
	eval := posterior.NewEvaluator(cache, data.Rules, params.Alpha[0], params.Alpha[1], rlog.Logf)

	driver := &chain.Driver{
		Rules:    data.Rules,
		Labels:   data.Labels,
		NRules:   len(data.Rules),
		NSamples: data.NSamples,
		Eval:     eval,
		Best:     chain.NewBestTracker(),
	}

	// Chain 1 seeds with v_star = -Inf (chain.Driver.Best starts empty);
	// chains 2..N seed against the best log-posterior found so far, since
	// they all share driver.Best across this loop. Each chain gets its own
	// Metrics, reset at chain start; params.Registry, if set, still sees
	// every chain's counters by name.
	for c := 0; c < params.NChain; c++ {
		chainRng := rand.New(rand.NewSource(params.Seed + int64(c)))
		metrics := chain.NewMetrics(params.Registry)
		switch method {
		case MethodMCMC:
			if _, _, err := driver.RunMCMC(chainRng, chain.MCMCParams{
				InitSize: params.InitSize,
				Iters:    params.Iters,
				Strategy: accept.Metropolis{},
			}, metrics); err != nil {
				return nil, fmt.Errorf("train: chain %d: %w", c, err)
			}
		case MethodSA:
			if _, _, err := driver.RunSA(chainRng, chain.SAParams{
				InitSize:     params.InitSize,
				PlateauIters: params.PlateauIters,
				Plateaus:     params.Plateaus,
			}, metrics); err != nil {
				return nil, fmt.Errorf("train: chain %d: %w", c, err)
			}
		default:
			return nil, fmt.Errorf("train: unknown method %d", method)
		}
	}

	bestRS, bestLP, ok := driver.Best.Snapshot()
	if !ok {
		return nil, errors.New("train: no chain produced a result")
	}
	theta := eval.Theta(bestRS, data.Labels)
	return &PredictionModel{
		RunID:        uuid.NewString(),
		RuleSet:      bestRS,
		Theta:        theta,
		LogPosterior: bestLP,
		Threshold:    params.Threshold,
	}, nil
}
