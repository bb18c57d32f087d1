package model

import (
	"math"
	"sort"
	"strings"

	"github.com/bytesnake/alco/params"
)

// Basis is one univariate growth shape applied to a single axis.
type Basis int

const (
	// BasisLinear is x.
	BasisLinear Basis = iota

	// BasisSquare is x².
	BasisSquare

	// BasisCube is x³.
	BasisCube

	// BasisLinLog is x·log x.
	BasisLinLog

	// BasisLog is log x.
	BasisLog
)

// allBases lists every single-axis basis in the term library.
var allBases = []Basis{BasisLinear, BasisSquare, BasisCube, BasisLinLog, BasisLog}

// eval applies the basis to a value. Logarithms are clamped at 1 so
// that axes starting at 0 do not blow up the design matrix.
func (b Basis) eval(x float64) float64 {
	switch b {
	case BasisLinear:
		return x
	case BasisSquare:
		return x * x
	case BasisCube:
		return x * x * x
	case BasisLinLog:
		return x * math.Log(math.Max(x, 1))
	case BasisLog:
		return math.Log(math.Max(x, 1))
	}
	return 0
}

// render writes the basis applied to a named axis.
func (b Basis) render(axis string) string {
	switch b {
	case BasisLinear:
		return axis
	case BasisSquare:
		return axis + "²"
	case BasisCube:
		return axis + "³"
	case BasisLinLog:
		return axis + "·log " + axis
	case BasisLog:
		return "log " + axis
	}
	return "?"
}

// Factor is one basis applied to one axis.
type Factor struct {
	Axis  string
	Basis Basis
}

// Term is a product of factors over distinct axes. The empty product is
// the constant term.
type Term struct {
	Factors []Factor
}

// ConstantTerm returns the empty product.
func ConstantTerm() Term {
	return Term{}
}

// IsConstant reports whether the term is the constant term.
func (t Term) IsConstant() bool {
	return len(t.Factors) == 0
}

// Order returns the number of distinct axes the term touches.
func (t Term) Order() int {
	return len(t.Factors)
}

// Eval computes the term value on an assignment. It returns false when
// a factor's axis is missing or non-numeric.
func (t Term) Eval(s *params.Samples) (float64, bool) {
	product := 1.0
	for _, f := range t.Factors {
		x, ok := s.GetNumeric(f.Axis)
		if !ok {
			return 0, false
		}
		product *= f.Basis.eval(x)
	}
	return product, true
}

// evalValues computes the term on a name→value map, used when rendering
// the dominant term at the dataset extremes.
func (t Term) evalValues(values map[string]float64) float64 {
	product := 1.0
	for _, f := range t.Factors {
		product *= f.Basis.eval(values[f.Axis])
	}
	return product
}

// Key returns a canonical identity for the term, independent of factor
// order.
func (t Term) Key() string {
	parts := make([]string, len(t.Factors))
	for i, f := range t.Factors {
		parts[i] = f.Basis.render(f.Axis)
	}
	sort.Strings(parts)
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, "*")
}

// String renders the term for humans.
func (t Term) String() string {
	if len(t.Factors) == 0 {
		return "1"
	}
	parts := make([]string, len(t.Factors))
	for i, f := range t.Factors {
		parts[i] = f.Basis.render(f.Axis)
	}
	return strings.Join(parts, "·")
}

// EnumerateTerms builds the term library for the given axes: the
// constant, every single-axis basis, and every product of up to
// maxInteractions distinct axes with one basis per axis.
func EnumerateTerms(axes []string, maxInteractions int) []Term {
	terms := []Term{ConstantTerm()}

	var extend func(start int, current []Factor)
	extend = func(start int, current []Factor) {
		if len(current) > 0 {
			factors := make([]Factor, len(current))
			copy(factors, current)
			terms = append(terms, Term{Factors: factors})
		}
		if len(current) == maxInteractions {
			return
		}
		for i := start; i < len(axes); i++ {
			for _, basis := range allBases {
				extend(i+1, append(current, Factor{Axis: axes[i], Basis: basis}))
			}
		}
	}
	extend(0, nil)

	return terms
}
