package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/bytesnake/alco/params"
)

// Observation is one measurement record: the assignment that was run
// and the instruction delta over the calibration baseline.
type Observation struct {
	Samples *params.Samples
	Delta   uint64
}

// Dataset is the accumulated measurement records of one benchmark
// group.
type Dataset []Observation

// FittedTerm is a term with its least-squares coefficient.
type FittedTerm struct {
	Term        Term
	Coefficient float64
}

// ExponentialAxis reports an axis whose cost grows geometrically. The
// additive term library cannot express it, so it is detected separately
// and excluded from the beam search.
type ExponentialAxis struct {
	// Axis is the parameter name.
	Axis string

	// Base is the estimated growth factor per unit increase of the axis
	// value.
	Base float64

	// Scale is the estimated multiplier in scale·base^x.
	Scale float64
}

// Model is the fitted additive complexity model of one benchmark group.
type Model struct {
	// Terms are the additive terms with their coefficients.
	Terms []FittedTerm

	// Exponentials are axes with geometric growth, reported separately.
	Exponentials []ExponentialAxis

	// Score is the penalised score of the winning model.
	Score float64

	// dominant is the rendered dominant term, chosen at fit time by
	// contribution at the dataset's extreme axis values.
	dominant string
}

// DominantTerm returns the term that contributes most at the largest
// observed axis values. An exponential axis always dominates the
// polynomial terms.
func (m *Model) DominantTerm() string {
	return m.dominant
}

// String renders the model as an additive expression.
func (m *Model) String() string {
	var parts []string
	for _, e := range m.Exponentials {
		parts = append(parts, fmt.Sprintf("%.3g·%.3f^%s", e.Scale, e.Base, e.Axis))
	}
	for _, t := range m.Terms {
		if t.Term.IsConstant() {
			parts = append(parts, fmt.Sprintf("%.3g", t.Coefficient))
			continue
		}
		parts = append(parts, fmt.Sprintf("%.3g·%s", t.Coefficient, t.Term))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}

// Thresholds for the exponential probe: the log-linear fit must be
// nearly exact and the growth must be clearly geometric before an axis
// is pulled out of the additive search.
const (
	expProbeMinPoints = 3
	expProbeMinR2     = 0.995
	expProbeMinSlope  = 0.1
)

// FitGreedyAdditive reduces a dataset to a small additive model by
// greedy beam search over the term library, with an exponential probe
// per axis run first.
func FitGreedyAdditive(ds Dataset, beamSize, maxInteractions int) (*Model, error) {
	if len(ds) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrDegenerateFit)
	}
	if beamSize < 1 || maxInteractions < 1 {
		return nil, fmt.Errorf("%w: beam size %d, interaction order %d", ErrDegenerateFit, beamSize, maxInteractions)
	}

	axes := numericAxes(ds)

	exponentials, expAxes := probeExponentials(ds, axes)

	remaining := make([]string, 0, len(axes))
	for _, axis := range axes {
		if !expAxes[axis] {
			remaining = append(remaining, axis)
		}
	}

	terms, score, err := beamSearch(ds, remaining, beamSize, maxInteractions)
	if err != nil {
		return nil, err
	}

	m := &Model{Terms: terms, Exponentials: exponentials, Score: score}
	m.dominant = dominantTerm(ds, m)
	return m, nil
}

// numericAxes collects the numeric parameter names of the dataset in
// sorted order. String axes have no ordering to exploit and stay out of
// the term library.
func numericAxes(ds Dataset) []string {
	seen := map[string]bool{}
	var axes []string
	for _, name := range ds[0].Samples.Names() {
		if _, ok := ds[0].Samples.GetNumeric(name); ok && !seen[name] {
			seen[name] = true
			axes = append(axes, name)
		}
	}
	sort.Strings(axes)
	return axes
}

// axisExtremes returns the minimum and maximum observed value per
// numeric axis.
func axisExtremes(ds Dataset, axes []string) (mins, maxs map[string]float64) {
	mins = map[string]float64{}
	maxs = map[string]float64{}
	for _, axis := range axes {
		first := true
		for _, obs := range ds {
			x, ok := obs.Samples.GetNumeric(axis)
			if !ok {
				continue
			}
			if first {
				mins[axis], maxs[axis] = x, x
				first = false
				continue
			}
			mins[axis] = math.Min(mins[axis], x)
			maxs[axis] = math.Max(maxs[axis], x)
		}
	}
	return mins, maxs
}

// probeExponentials regresses ln(δ+1) against each axis over the
// observations where every other axis sits at its minimum (the seeding
// measurements). A near-exact fit with clearly positive slope means the
// axis grows geometrically.
func probeExponentials(ds Dataset, axes []string) ([]ExponentialAxis, map[string]bool) {
	mins, _ := axisExtremes(ds, axes)

	var out []ExponentialAxis
	flagged := map[string]bool{}

	for _, axis := range axes {
		var xs, ys []float64
		seenX := map[float64]bool{}

		for _, obs := range ds {
			x, ok := obs.Samples.GetNumeric(axis)
			if !ok || seenX[x] {
				continue
			}
			othersAtMin := true
			for _, other := range axes {
				if other == axis {
					continue
				}
				v, ok := obs.Samples.GetNumeric(other)
				if !ok || v != mins[other] {
					othersAtMin = false
					break
				}
			}
			if !othersAtMin {
				continue
			}
			seenX[x] = true
			xs = append(xs, x)
			ys = append(ys, math.Log(float64(obs.Delta)+1))
		}

		if len(xs) < expProbeMinPoints {
			continue
		}

		slope, intercept, r2 := linearRegression(xs, ys)
		if r2 >= expProbeMinR2 && slope >= expProbeMinSlope {
			out = append(out, ExponentialAxis{
				Axis:  axis,
				Base:  math.Exp(slope),
				Scale: math.Exp(intercept),
			})
			flagged[axis] = true
		}
	}

	return out, flagged
}

// linearRegression returns the slope, intercept, and R² of the ordinary
// least-squares line through (xs, ys).
func linearRegression(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return 0, meanY, 0
	}
	slope = sxy / sxx
	intercept = meanY - slope*meanX
	if syy == 0 {
		return slope, intercept, 1
	}
	r2 = (sxy * sxy) / (sxx * syy)
	return slope, intercept, r2
}

// beamEntry is one candidate model during the search.
type beamEntry struct {
	terms  []Term
	keys   map[string]bool
	coeffs []float64
	ssr    float64
	score  float64
}

// beamSearch runs the greedy additive search: extend every beam entry
// by one absent term, refit by ordinary least squares, score by SSR
// plus a per-term complexity penalty, keep the best beamSize models,
// and halt when no extension improves the best penalised score.
func beamSearch(
	ds Dataset,
	axes []string,
	beamSize, maxInteractions int,
) ([]FittedTerm, float64, error) {
	ys := make([]float64, len(ds))
	var sumY, sumY2 float64
	for i, obs := range ds {
		ys[i] = float64(obs.Delta)
		sumY += ys[i]
		sumY2 += ys[i] * ys[i]
	}

	n := float64(len(ds))
	meanY := sumY / n
	sst := sumY2 - n*meanY*meanY

	// All deltas equal: the constant term is the whole model.
	if sst <= 0 {
		return []FittedTerm{{Term: ConstantTerm(), Coefficient: meanY}}, 0, nil
	}

	// The penalty a term must earn back: a ln(n)/n share of the data's
	// variance, so small datasets resist term shopping.
	penalty := (sst / n) * math.Log(n)

	pool := EnumerateTerms(axes, maxInteractions)

	empty := beamEntry{keys: map[string]bool{}, ssr: sumY2, score: sumY2}
	beam := []beamEntry{empty}
	best := empty

	for round := 0; round < len(pool); round++ {
		var candidates []beamEntry

		for _, entry := range beam {
			for _, term := range pool {
				if entry.keys[term.Key()] {
					continue
				}

				terms := append(append([]Term{}, entry.terms...), term)
				coeffs, ssr, err := fitTerms(ds, terms, ys)
				if err != nil {
					continue
				}

				keys := make(map[string]bool, len(terms))
				for _, t := range terms {
					keys[t.Key()] = true
				}

				candidates = append(candidates, beamEntry{
					terms:  terms,
					keys:   keys,
					coeffs: coeffs,
					ssr:    ssr,
					score:  ssr + penalty*float64(len(terms)),
				})
			}
		}

		if len(candidates) == 0 {
			break
		}

		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].score < candidates[j].score
		})
		candidates = dedupeCandidates(candidates)
		if len(candidates) > beamSize {
			candidates = candidates[:beamSize]
		}

		if candidates[0].score >= best.score {
			break
		}
		best = candidates[0]
		beam = candidates
	}

	fitted := make([]FittedTerm, len(best.terms))
	for i, t := range best.terms {
		fitted[i] = FittedTerm{Term: t, Coefficient: best.coeffs[i]}
	}
	return fitted, best.score, nil
}

// dedupeCandidates drops candidates whose term sets coincide, keeping
// the first (best-scored) occurrence.
func dedupeCandidates(candidates []beamEntry) []beamEntry {
	seen := map[string]bool{}
	out := candidates[:0]
	for _, c := range candidates {
		keys := make([]string, 0, len(c.keys))
		for k := range c.keys {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		id := strings.Join(keys, "|")
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, c)
	}
	return out
}

// fitTerms solves for the term coefficients by ordinary least squares
// and returns the coefficients and the sum of squared residuals.
func fitTerms(ds Dataset, terms []Term, ys []float64) ([]float64, float64, error) {
	design := mat.NewDense(len(ds), len(terms), nil)
	for i, obs := range ds {
		for j, term := range terms {
			v, ok := term.Eval(obs.Samples)
			if !ok {
				return nil, 0, fmt.Errorf("%w: term %s not evaluable", ErrDegenerateFit, term)
			}
			design.Set(i, j, v)
		}
	}

	coeffs, err := leastSquares(design, ys)
	if err != nil {
		return nil, 0, err
	}

	var ssr float64
	for i := range ds {
		pred := 0.0
		for j := range terms {
			pred += coeffs[j] * design.At(i, j)
		}
		r := ys[i] - pred
		ssr += r * r
	}
	return coeffs, ssr, nil
}

// dominantTerm picks the rendered term with the largest contribution at
// the dataset's extreme axis values. Exponential axes always win.
func dominantTerm(ds Dataset, m *Model) string {
	if len(m.Exponentials) > 0 {
		e := m.Exponentials[0]
		for _, cand := range m.Exponentials[1:] {
			if cand.Base > e.Base {
				e = cand
			}
		}
		return fmt.Sprintf("%.3f^%s", e.Base, e.Axis)
	}

	axes := numericAxes(ds)
	_, maxs := axisExtremes(ds, axes)

	bestTerm := ""
	bestContribution := math.Inf(-1)
	for _, t := range m.Terms {
		contribution := math.Abs(t.Coefficient * t.Term.evalValues(maxs))
		if t.Term.IsConstant() {
			// The constant only dominates when nothing else is left.
			contribution = math.Abs(t.Coefficient) * 1e-9
		}
		if contribution > bestContribution {
			bestContribution = contribution
			bestTerm = t.Term.String()
		}
	}
	return bestTerm
}
