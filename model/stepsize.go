package model

// StepDelta is one per-axis seeding observation: the step index on the
// axis and the instruction delta measured there.
type StepDelta struct {
	Step  int
	Delta uint64
}

// stepSearchHorizon bounds the forward projection when looking for the
// next step. Growth that needs more than this many steps to move by
// minChange counts as saturated.
const stepSearchHorizon = 1024

// EstimateStepSize returns how far to advance the step index on one
// axis so that the instruction count changes by at least minChange,
// according to a Chebyshev extrapolation of the observations so far.
// It returns 1 while fewer than two observations exist, and 0 when the
// growth has saturated and the axis is done.
func EstimateStepSize(obs []StepDelta, minChange uint64) int {
	if len(obs) < 2 {
		return 1
	}

	xs := make([]float64, len(obs))
	ys := make([]float64, len(obs))
	for i, o := range obs {
		xs[i] = float64(o.Step)
		ys[i] = float64(o.Delta)
	}

	curve, err := FitChebyshev(xs, ys, len(obs))
	if err != nil {
		return 0
	}

	last := obs[len(obs)-1]
	target := float64(last.Delta) + float64(minChange)

	// Accept the smallest integer step whose projected delta clears the
	// target; the fit smooths over measurement noise.
	for dk := 1; dk <= stepSearchHorizon; dk++ {
		if curve.Eval(float64(last.Step+dk)) >= target {
			return dk
		}
	}

	return 0
}
