package proposal

import (
	"math/rand"
	"testing"

	"github.com/fingoldin/sbrlmod/bitcap"
	"github.com/fingoldin/sbrlmod/ruleset"
)

func makeRules(n, nsamples int) []ruleset.Rule {
	rules := make([]ruleset.Rule, n)
	rules[0] = ruleset.Rule{ID: 0, Cardinality: 1}
	for i := 1; i < n; i++ {
		tt := bitcap.NewVector(nsamples)
		tt.Set(i % nsamples)
		rules[i] = ruleset.Rule{ID: i, Cardinality: 1, Truthtable: tt, Support: 1}
	}
	return rules
}

func TestProposeSize1OnlyAdds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rules := makeRules(10, 20)
	rs, err := ruleset.CreateRandom(rng, 9, 20, 10, rules)
	if err != nil {
		t.Fatalf("CreateRandom: %v", err)
	}
	// Shrink down to size 1 (default only) by repeated deletion.
	for rs.NRules() > 1 {
		if err := rs.Delete(rules, 0); err != nil {
			t.Fatalf("Delete: %v", err)
		}
	}
	k := Kernel{NRules: 10}
	for i := 0; i < 50; i++ {
		mv, jr := k.Propose(rng, rs)
		if _, ok := mv.(Add); !ok {
			t.Fatalf("Propose at m=1 returned %T, want Add", mv)
		}
		if jr <= 0 {
			t.Errorf("Add jump ratio = %v, want > 0", jr)
		}
	}
}

func TestProposeFullOnlySwapsOrDeletes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const nrules = 8
	rules := makeRules(nrules, 20)
	// initSize nrules-2 plus the default entry gives m = nrules-1.
	rs, err := ruleset.CreateRandom(rng, nrules-2, 20, nrules, rules)
	if err != nil {
		t.Fatalf("CreateRandom: %v", err)
	}
	k := Kernel{NRules: nrules}
	for i := 0; i < 50; i++ {
		mv, _ := k.Propose(rng, rs)
		switch mv.(type) {
		case Swap, Delete:
		default:
			t.Fatalf("Propose at m=nrules-1 returned %T, want Swap or Delete", mv)
		}
	}
}

func TestProposeSwapNeverTargetsDefault(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const nrules = 12
	rules := makeRules(nrules, 30)
	rs, err := ruleset.CreateRandom(rng, 6, 30, nrules, rules)
	if err != nil {
		t.Fatalf("CreateRandom: %v", err)
	}
	k := Kernel{NRules: nrules}
	last := rs.NRules() - 1
	for i := 0; i < 200; i++ {
		mv, _ := k.Propose(rng, rs)
		if sw, ok := mv.(Swap); ok {
			if sw.I == sw.J {
				t.Fatalf("Swap proposed identical indices %d,%d", sw.I, sw.J)
			}
			if sw.I == last || sw.J == last {
				t.Fatalf("Swap targeted the default position: %+v", sw)
			}
		}
	}
}

func TestProposeAddPicksUnusedRule(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const nrules = 10
	rules := makeRules(nrules, 20)
	rs, err := ruleset.CreateRandom(rng, 3, 20, nrules, rules)
	if err != nil {
		t.Fatalf("CreateRandom: %v", err)
	}
	used := map[int]bool{}
	for _, cr := range rs.Rules {
		used[cr.RuleID] = true
	}
	k := Kernel{NRules: nrules}
	for i := 0; i < 200; i++ {
		mv, _ := k.Propose(rng, rs)
		if add, ok := mv.(Add); ok {
			if used[add.RuleID] {
				t.Fatalf("Add proposed already-used rule id %d", add.RuleID)
			}
			if add.Position < 0 || add.Position > rs.NRules()-1 {
				t.Fatalf("Add proposed out-of-range position %d for m=%d", add.Position, rs.NRules())
			}
		}
	}
}
