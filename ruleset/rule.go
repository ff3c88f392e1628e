package ruleset

import "github.com/fingoldin/sbrlmod/bitcap"

// MaxCardinality bounds how many atomic conditions a single mined rule may
// combine (spec: rule cardinality in [1, MaxCardinality]).
const MaxCardinality = 10

// DefaultRuleID is the reserved index, by convention, of the background
// rule in the caller's rule pool: rules[DefaultRuleID] is never selected as
// an ordinary list entry, and the RuleSet's final position always refers
// to it. Real mined rules occupy indices [1, len(rules)-1].
const DefaultRuleID = 0

// Rule is an immutable, precomputed boolean predicate over samples.
type Rule struct {
	ID          int
	Cardinality int
	Truthtable  bitcap.Vector
	Support     int
}
