package proposal

import (
	"math/rand"

	"github.com/fingoldin/sbrlmod/ruleset"
)

type regime struct {
	pSwap, pAdd, pDelete          float64
	baseSwap, baseAdd, baseDelete float64
}

var regimeSize1 = regime{pSwap: 0, pAdd: 1, pDelete: 0, baseAdd: 0.5}
var regimeSize2 = regime{pSwap: 0, pAdd: 0.5, pDelete: 0.5, baseAdd: 2.0 / 3.0, baseDelete: 2.0}
var regimeFull = regime{pSwap: 0.5, pAdd: 0, pDelete: 0.5, baseSwap: 1, baseDelete: 2.0 / 3.0}
var regimeNearFull = regime{pSwap: 1.0 / 3, pAdd: 1.0 / 3, pDelete: 1.0 / 3, baseSwap: 1, baseAdd: 1.5, baseDelete: 1}
var regimeGeneral = regime{pSwap: 1.0 / 3, pAdd: 1.0 / 3, pDelete: 1.0 / 3, baseSwap: 1, baseAdd: 1, baseDelete: 1}

// regimeFor picks the move-probability table for the current list size m
// against the input pool size nrules, following the spec's priority order.
func regimeFor(m, nrules int) regime {
	switch {
	case m == 1:
		return regimeSize1
	case m == 2:
		return regimeSize2
	case m == nrules-1:
		return regimeFull
	case m == nrules-2:
		return regimeNearFull
	default:
		return regimeGeneral
	}
}

// Kernel draws moves against a fixed rule-pool size.
type Kernel struct {
	NRules int
}

// Propose picks a move kind and its indices from rs, returning the move
// and its Hastings jump-ratio correction.
func (k Kernel) Propose(rng *rand.Rand, rs *ruleset.RuleSet) (Move, float64) {
	m := rs.NRules()
	r := regimeFor(m, k.NRules)

	u := rng.Float64()
	switch {
	case u < r.pSwap:
		i := rng.Intn(m - 1)
		j := i
		for j == i {
			j = rng.Intn(m - 1)
		}
		return Swap{I: i, J: j}, r.baseSwap

	case u < r.pSwap+r.pAdd:
		ruleID := k.pickUnusedRule(rng, rs)
		position := rng.Intn(m)
		return Add{RuleID: ruleID, Position: position}, r.baseAdd * float64(k.NRules-1-m)

	default:
		position := rng.Intn(m - 1)
		return Delete{Position: position}, r.baseDelete * float64(k.NRules-m)
	}
}

// pickUnusedRule draws uniformly among the rule-pool indices [1, NRules-1]
// not already present in rs.
func (k Kernel) pickUnusedRule(rng *rand.Rand, rs *ruleset.RuleSet) int {
	used := make(map[int]bool, rs.NRules())
	for _, cr := range rs.Rules {
		used[cr.RuleID] = true
	}
	n := k.NRules - 1 - (rs.NRules() - 1) // count of unused non-default ids
	target := rng.Intn(n)
	seen := 0
	for id := 1; id < k.NRules; id++ {
		if used[id] {
			continue
		}
		if seen == target {
			return id
		}
		seen++
	}
	panic("proposal: pickUnusedRule found no candidate, rule pool exhausted")
}
