// Package posterior computes the log-posterior of a RuleSet — the
// structural log-prior over list length and rule cardinality plus the
// Beta-Bernoulli log-likelihood — and the prefix upper bound used to prune
// exploration before a full proposal is even scored.
package posterior

import (
	"math"

	"github.com/fingoldin/sbrlmod/prior"
	"github.com/fingoldin/sbrlmod/ruleset"
)

// Evaluator scores RuleSets against a fixed rule pool, prior cache and
// Beta pseudo-counts. It is stateless across calls except for the
// diagnostic logger.
type Evaluator struct {
	cache         *prior.Cache
	rules         []ruleset.Rule
	baseCardCount [ruleset.MaxCardinality + 1]int
	alpha0, alpha1 float64
	logf          func(level int, format string, args ...any)
}

// NewEvaluator builds an Evaluator. logf may be nil to suppress the
// degenerate-prior diagnostic.
func NewEvaluator(cache *prior.Cache, rules []ruleset.Rule, alpha0, alpha1 float64, logf func(level int, format string, args ...any)) *Evaluator {
	e := &Evaluator{cache: cache, rules: rules, alpha0: alpha0, alpha1: alpha1, logf: logf}
	for _, r := range rules {
		e.baseCardCount[r.Cardinality]++
	}
	return e
}

// Evaluate returns the log-posterior of rs and, as a side output, the
// prefix bound over positions [0, length4bound]. length4bound == -1
// disables the bound (the loop conditions below simply never fire).
func (e *Evaluator) Evaluate(rs *ruleset.RuleSet, labels [2]ruleset.Rule, length4bound int) (logPosterior, prefixBound float64) {
	m := len(rs.Rules)
	cardCount := e.baseCardCount
	normConstant := e.cache.EtaNorm

	logPrior := e.cache.LambdaAt(m - 1)
	var prefixPrior float64
	if float64(m-1) > e.cache.Lambda {
		prefixPrior = e.cache.LambdaAt(m - 1)
	} else {
		prefixPrior = e.cache.LambdaAt(int(e.cache.Lambda))
	}

	degenerate := false
	for i := 0; i < m-1; i++ {
		id := rs.Rules[i].RuleID
		c := e.rules[id].Cardinality

		if normConstant <= 0 {
			degenerate = true
			logPrior = math.Inf(-1)
			if i <= length4bound {
				prefixPrior = math.Inf(-1)
			}
		} else {
			term := e.cache.LogEtaPMF[c] - math.Log(normConstant) - math.Log(float64(cardCount[c]))
			logPrior += term
			if i <= length4bound {
				prefixPrior += term
			}
		}

		cardCount[c]--
		if cardCount[c] == 0 {
			normConstant -= math.Exp(e.cache.LogEtaPMF[c])
		}
	}
	if degenerate && e.logf != nil {
		e.logf(1, "posterior: truncated-Poisson normalizer exhausted, clamping log_prior to -Inf")
	}

	var logLikelihood, prefixLogLikelihood float64
	left0, left1 := labels[0].Support, labels[1].Support
	for j := 0; j < m; j++ {
		n0 := rs.Rules[j].Captures.AndCount(labels[0].Truthtable)
		n1 := rs.Rules[j].NCaptured - n0

		lg0, _ := math.Lgamma(float64(n0) + e.alpha0)
		lg1, _ := math.Lgamma(float64(n1) + e.alpha1)
		lgTotal, _ := math.Lgamma(float64(n0+n1) + e.alpha0 + e.alpha1)
		logLikelihood += lg0 + lg1 - lgTotal

		left0 -= n0
		left1 -= n1
		if j <= length4bound {
			flg0, _ := math.Lgamma(float64(n0) + 1)
			flg1, _ := math.Lgamma(float64(n1) + 1)
			flgTotal, _ := math.Lgamma(float64(n0+n1) + 2)
			prefixLogLikelihood += flg0 + flg1 - flgTotal

			if j == length4bound {
				l0, _ := math.Lgamma(float64(left0) + 1)
				l0b, _ := math.Lgamma(float64(left0) + 2)
				l1, _ := math.Lgamma(float64(left1) + 1)
				l1b, _ := math.Lgamma(float64(left1) + 2)
				prefixLogLikelihood += l0 - l0b + l1 - l1b
			}
		}
	}

	return logPrior + logLikelihood, prefixPrior + prefixLogLikelihood
}

// Theta returns the Beta posterior mean P(class=1) for each position in
// rs, given the winning list's captures.
func (e *Evaluator) Theta(rs *ruleset.RuleSet, labels [2]ruleset.Rule) []float64 {
	theta := make([]float64, len(rs.Rules))
	for j, cr := range rs.Rules {
		n0 := cr.Captures.AndCount(labels[0].Truthtable)
		n1 := cr.NCaptured - n0
		theta[j] = (float64(n1) + e.alpha1) / (float64(n0+n1) + e.alpha0 + e.alpha1)
	}
	return theta
}
