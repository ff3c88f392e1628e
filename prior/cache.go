// Package prior precomputes and caches the Poisson log-PMFs (list length
// and rule cardinality) that the posterior evaluator's log-prior leans on
// every iteration, plus the truncated-Poisson normalizer for cardinality.
package prior

import (
	"fmt"
	"math"

	"github.com/fingoldin/sbrlmod/ruleset"
)

// Cache holds the log-PMFs for a fixed (nrules, lambda, eta) triple.
// Built once per Train call via Registry and reused for the run's
// duration — never a package-level singleton (see DESIGN.md).
type Cache struct {
	NRules       int
	Lambda, Eta  float64
	LogLambdaPMF []float64                     // index 0..NRules-1
	LogEtaPMF    [ruleset.MaxCardinality + 1]float64 // index 0..MaxCardinality
	EtaNorm      float64
}

// NewCache builds a Cache for the given hyperparameters. Callers should
// generally go through Registry.Get rather than calling this directly.
func NewCache(nrules int, lambda, eta float64) (*Cache, error) {
	if nrules < 1 {
		return nil, fmt.Errorf("prior: nrules must be >= 1, got %d", nrules)
	}
	if lambda <= 0 || eta <= 0 {
		return nil, fmt.Errorf("prior: lambda and eta must be > 0, got lambda=%v eta=%v", lambda, eta)
	}

	c := &Cache{
		NRules:       nrules,
		Lambda:       lambda,
		Eta:          eta,
		LogLambdaPMF: make([]float64, nrules),
	}
	for i := 0; i < nrules; i++ {
		c.LogLambdaPMF[i] = PoissonLogPMF(i, lambda)
	}
	for i := 0; i <= ruleset.MaxCardinality; i++ {
		c.LogEtaPMF[i] = PoissonLogPMF(i, eta)
	}
	// Assumes every cardinality in [1, MaxCardinality] is realizable by the
	// mined rule pool (spec's simplifying assumption).
	c.EtaNorm = PoissonCDF(ruleset.MaxCardinality, eta) - math.Exp(PoissonLogPMF(0, eta))
	return c, nil
}

// LambdaAt returns log_lambda_pmf[k], clamped to the cache's range. The
// prefix-bound envelope term needs this evaluated at ⌊λ⌋, which can exceed
// the current list length but must stay inside the precomputed range.
func (c *Cache) LambdaAt(k int) float64 {
	if k < 0 {
		k = 0
	}
	if k >= len(c.LogLambdaPMF) {
		k = len(c.LogLambdaPMF) - 1
	}
	return c.LogLambdaPMF[k]
}
