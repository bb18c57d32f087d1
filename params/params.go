package params

// Definition describes one registered parameter: how to produce the
// sample for a given step, and, for discrete item sets, how many items
// exist. Ranges have no item count.
type Definition interface {
	// ForStep returns the sample at step k, or false when the step is
	// past the last valid one.
	ForStep(step int) (Sample, bool)

	// NumItems returns the number of discrete items. It is defined only
	// for item sets; ranges return false.
	NumItems() (int, bool)
}

// UsizeRange is a half-open integer interval [Lo, Hi) walked with a
// positive step. Step k yields Lo + k·Step while that is < Hi.
type UsizeRange struct {
	Lo   int
	Hi   int
	Step int
}

// ForStep returns Lo + step·Step, or false past the end of the range.
func (r UsizeRange) ForStep(step int) (Sample, bool) {
	v := r.Lo + step*r.Step
	if v >= r.Hi {
		return Sample{}, false
	}
	return Usize(v), true
}

// NumItems is not defined for ranges.
func (r UsizeRange) NumItems() (int, bool) {
	return 0, false
}

// FloatRange is a half-open float interval [Lo, Hi) walked with a
// positive float step.
type FloatRange struct {
	Lo   float64
	Hi   float64
	Step float64
}

// ForStep returns Lo + step·Step, or false past the end of the range.
func (r FloatRange) ForStep(step int) (Sample, bool) {
	v := r.Lo + float64(step)*r.Step
	if v >= r.Hi {
		return Sample{}, false
	}
	return Float(v), true
}

// NumItems is not defined for ranges.
func (r FloatRange) NumItems() (int, bool) {
	return 0, false
}

// Items is an ordered list of discrete samples. Step k returns the k-th
// item.
type Items struct {
	samples []Sample
}

// NewItems creates an item-set definition from explicit samples.
func NewItems(samples []Sample) Items {
	cloned := make([]Sample, len(samples))
	copy(cloned, samples)
	return Items{samples: cloned}
}

// ForStep returns the step-th item, or false past the last one.
func (it Items) ForStep(step int) (Sample, bool) {
	if step < 0 || step >= len(it.samples) {
		return Sample{}, false
	}
	return it.samples[step].Clone(), true
}

// NumItems returns the item count.
func (it Items) NumItems() (int, bool) {
	return len(it.samples), true
}
