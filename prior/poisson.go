package prior

import "math"

// PoissonLogPMF returns log P(X = k) for X ~ Poisson(mu). No distribution
// library appears anywhere in the retrieved reference corpus, so this
// leans on math.Lgamma the way the corpus itself leans on ad-hoc math
// rather than a statistics package (see DESIGN.md).
func PoissonLogPMF(k int, mu float64) float64 {
	if k < 0 || mu <= 0 {
		return math.Inf(-1)
	}
	lgammaK1, _ := math.Lgamma(float64(k) + 1)
	return float64(k)*math.Log(mu) - mu - lgammaK1
}

// PoissonCDF returns P(X <= k) for X ~ Poisson(mu) by direct summation of
// the PMF, which is numerically fine for the small k (<= MaxCardinality)
// this package ever evaluates it at.
func PoissonCDF(k int, mu float64) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += math.Exp(PoissonLogPMF(i, mu))
	}
	return sum
}
