// Package model reduces measurement datasets to interpretable
// complexity expressions: a Chebyshev basis for univariate growth
// curves, the adaptive step-size estimator built on it, and a greedy
// additive term fitter.
package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateFit is returned when a curve cannot be fitted, e.g. all
// x values coincide or there are fewer points than requested degrees.
var ErrDegenerateFit = errors.New("cannot fit curve to observations")

// svdRcond is the singular value cutoff for rank determination in the
// least-squares solves.
const svdRcond = 1e-12

// Chebyshev is a polynomial on [a, b] represented in the Chebyshev
// basis T₀=1, T₁=x, Tₖ = 2x·Tₖ₋₁ − Tₖ₋₂, with the domain mapped onto
// [-1, 1] via x ↦ (x − a − w)/w, w = (b − a)/2.
type Chebyshev struct {
	a         float64
	halfwidth float64
	coeffs    []float64
}

// chebyshevT evaluates the k-th Chebyshev polynomial of the first kind
// at x by the three-term recurrence.
func chebyshevT(x float64, k int) float64 {
	if k == 0 {
		return 1
	}
	if k == 1 {
		return x
	}
	prev, cur := 1.0, x
	for i := 2; i <= k; i++ {
		prev, cur = cur, 2*x*cur-prev
	}
	return cur
}

// FitChebyshev fits a Chebyshev polynomial with the given number of
// coefficients to the (x, y) observations by least-squares SVD.
func FitChebyshev(xs, ys []float64, degree int) (*Chebyshev, error) {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrDegenerateFit, n, len(ys))
	}
	if degree < 1 || degree > n {
		return nil, fmt.Errorf("%w: degree %d with %d observations", ErrDegenerateFit, degree, n)
	}

	a, b := xs[0], xs[0]
	for _, x := range xs {
		a = math.Min(a, x)
		b = math.Max(b, x)
	}
	halfwidth := (b - a) / 2
	if halfwidth == 0 {
		return nil, fmt.Errorf("%w: all x values coincide", ErrDegenerateFit)
	}

	design := mat.NewDense(n, degree, nil)
	for i, x := range xs {
		mapped := (x - a - halfwidth) / halfwidth
		for k := 0; k < degree; k++ {
			design.Set(i, k, chebyshevT(mapped, k))
		}
	}

	coeffs, err := leastSquares(design, ys)
	if err != nil {
		return nil, err
	}

	return &Chebyshev{a: a, halfwidth: halfwidth, coeffs: coeffs}, nil
}

// Coefficients returns the fitted Chebyshev coefficients, lowest degree
// first.
func (c *Chebyshev) Coefficients() []float64 {
	out := make([]float64, len(c.coeffs))
	copy(out, c.coeffs)
	return out
}

// Eval evaluates the polynomial at x using Clenshaw's recurrence.
func (c *Chebyshev) Eval(x float64) float64 {
	mapped := (x - c.a - c.halfwidth) / c.halfwidth

	var b1, b2 float64
	for k := len(c.coeffs) - 1; k >= 1; k-- {
		b1, b2 = 2*mapped*b1-b2+c.coeffs[k], b1
	}
	return mapped*b1 - b2 + c.coeffs[0]
}

// leastSquares solves the over- or exactly-determined system design·β ≈ y
// in the least-squares sense via SVD.
func leastSquares(design *mat.Dense, ys []float64) ([]float64, error) {
	_, cols := design.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%w: SVD factorization failed", ErrDegenerateFit)
	}

	rank := svd.Rank(svdRcond)
	if rank == 0 {
		return nil, fmt.Errorf("%w: zero-rank design matrix", ErrDegenerateFit)
	}

	var solution mat.VecDense
	svd.SolveVecTo(&solution, mat.NewVecDense(len(ys), ys), rank)

	coeffs := make([]float64, cols)
	for i := range coeffs {
		coeffs[i] = solution.AtVec(i)
	}
	return coeffs, nil
}
