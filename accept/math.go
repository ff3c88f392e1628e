package accept

import (
	"math"
	"math/rand"
)

// logOrNegInf returns log(x), or -Inf for non-positive x instead of NaN.
func logOrNegInf(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return math.Log(x)
}

// logUniform draws log(u) for u ~ Uniform(0,1), used to compare against a
// log-acceptance-ratio without ever exponentiating it.
func logUniform(rng *rand.Rand) float64 {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return math.Log(u)
}
