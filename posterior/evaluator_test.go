package posterior

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fingoldin/sbrlmod/bitcap"
	"github.com/fingoldin/sbrlmod/prior"
	"github.com/fingoldin/sbrlmod/ruleset"
)

func vectorOf(n int, set ...int) bitcap.Vector {
	v := bitcap.NewVector(n)
	for _, i := range set {
		v.Set(i)
	}
	return v
}

func TestEvaluateHandComputedExample(t *testing.T) {
	const n = 4
	// rules[0] is the conventional default; rules[1] fires on samples {0,1}.
	rules := []ruleset.Rule{
		{ID: 0, Cardinality: 1},
		{ID: 1, Cardinality: 1, Truthtable: vectorOf(n, 0, 1), Support: 2},
	}
	labels := [2]ruleset.Rule{
		{Truthtable: vectorOf(n, 1, 3), Support: 2}, // class 0 at samples 1,3
		{Truthtable: vectorOf(n, 0, 2), Support: 2}, // class 1 at samples 0,2
	}

	rs := &ruleset.RuleSet{
		Rules: []ruleset.CapturedRule{
			{RuleID: 1},
			{RuleID: ruleset.DefaultRuleID},
		},
		NSamples: n,
	}
	// Position 0 captures {0,1}; default captures {2,3}.
	rs.Rules[0].Captures = vectorOf(n, 0, 1)
	rs.Rules[0].NCaptured = 2
	rs.Rules[1].Captures = vectorOf(n, 2, 3)
	rs.Rules[1].NCaptured = 2

	cache, err := prior.NewCache(2, 1.0, 1.0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	eval := NewEvaluator(cache, rules, 1.0, 1.0, nil)

	logPost, _ := eval.Evaluate(rs, labels, -1)
	if math.IsNaN(logPost) || math.IsInf(logPost, 0) {
		t.Fatalf("Evaluate returned non-finite log-posterior: %v", logPost)
	}

	theta := eval.Theta(rs, labels)
	// Position 0 captures {0,1}: sample 0 is class 1, sample 1 is class 0 -> n0=1,n1=1.
	wantTheta0 := (1.0 + 1.0) / (1.0 + 1.0 + 1.0 + 1.0)
	if math.Abs(theta[0]-wantTheta0) > 1e-12 {
		t.Errorf("theta[0] = %v, want %v", theta[0], wantTheta0)
	}
	for _, th := range theta {
		if th < 0 || th > 1 {
			t.Errorf("theta = %v, want in [0,1]", th)
		}
	}
}

func TestEvaluateFiniteForRandomRulesets(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const nsamples = 80
	const nrules = 15
	rules := make([]ruleset.Rule, nrules)
	for i := range rules {
		tt := bitcap.NewVector(nsamples)
		for s := 0; s < nsamples; s++ {
			if rng.Float64() < 0.3 {
				tt.Set(s)
			}
		}
		rules[i] = ruleset.Rule{ID: i, Cardinality: 1 + rng.Intn(ruleset.MaxCardinality), Truthtable: tt, Support: tt.PopCount()}
	}
	labelTT0 := bitcap.NewVector(nsamples)
	labelTT1 := bitcap.NewVector(nsamples)
	for s := 0; s < nsamples; s++ {
		if s%2 == 0 {
			labelTT1.Set(s)
		} else {
			labelTT0.Set(s)
		}
	}
	labels := [2]ruleset.Rule{
		{Truthtable: labelTT0, Support: labelTT0.PopCount()},
		{Truthtable: labelTT1, Support: labelTT1.PopCount()},
	}

	cache, err := prior.NewCache(nrules, 3.0, 2.0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	eval := NewEvaluator(cache, rules, 1.0, 1.0, nil)

	for trial := 0; trial < 20; trial++ {
		rs, err := ruleset.CreateRandom(rng, 1+rng.Intn(nrules-2), nsamples, nrules, rules)
		if err != nil {
			t.Fatalf("CreateRandom: %v", err)
		}
		logPost, bound := eval.Evaluate(rs, labels, rs.NRules()-2)
		if math.IsNaN(logPost) {
			t.Fatalf("trial %d: log-posterior is NaN", trial)
		}
		if math.IsNaN(bound) {
			t.Fatalf("trial %d: prefix bound is NaN", trial)
		}
	}
}

// TestPrefixBoundIsUpperEnvelope enumerates every completion of a fixed
// two-rule prefix over a small synthetic pool and checks that no
// completion's log-posterior exceeds the prefix bound computed at that
// prefix length.
func TestPrefixBoundIsUpperEnvelope(t *testing.T) {
	const nsamples = 8
	rules := []ruleset.Rule{
		{ID: 0, Cardinality: 1},
		{ID: 1, Cardinality: 2, Truthtable: vectorOf(nsamples, 0, 1), Support: 2},
		{ID: 2, Cardinality: 2, Truthtable: vectorOf(nsamples, 2, 3), Support: 2},
		{ID: 3, Cardinality: 3, Truthtable: vectorOf(nsamples, 4), Support: 1},
		{ID: 4, Cardinality: 1, Truthtable: vectorOf(nsamples, 5), Support: 1},
	}
	labels := [2]ruleset.Rule{
		{Truthtable: vectorOf(nsamples, 1, 3, 5, 7), Support: 4},
		{Truthtable: vectorOf(nsamples, 0, 2, 4, 6), Support: 4},
	}

	cache, err := prior.NewCache(len(rules), 2.0, 1.5)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	eval := NewEvaluator(cache, rules, 1.0, 1.0, nil)

	prefixIDs := []int{1, 2} // fixed two-rule prefix
	length4bound := len(prefixIDs) - 1

	// Every completion appends some subset of {3, 4} in some order, then the default.
	remaining := [][]int{
		{},
		{3},
		{4},
		{3, 4},
		{4, 3},
	}
	for _, extra := range remaining {
		ids := append(append([]int{}, prefixIDs...), extra...)
		ids = append(ids, ruleset.DefaultRuleID)
		rs := ruleset.RestoreFromIDs(ids, nsamples, rules)

		_, bound := eval.Evaluate(rs, labels, length4bound)
		full, _ := eval.Evaluate(rs, labels, -1)
		if full > bound+1e-9 {
			t.Errorf("completion %v: log-posterior %v exceeds prefix bound %v", extra, full, bound)
		}
	}
}
