package params

import (
	"fmt"
)

// NamedDefinition pairs a parameter name with its definition.
type NamedDefinition struct {
	Name string
	Def  Definition
}

// StepIndex selects a step for a named parameter when building an
// assignment from indices.
type StepIndex struct {
	Name string
	Step int
}

// Builder is a name-keyed registry of parameter definitions. It produces
// concrete assignments for the measurement driver. Registration order is
// kept so that enumeration is deterministic within a run.
type Builder struct {
	names []string
	defs  map[string]Definition
}

// NewBuilder creates an empty parameter registry.
func NewBuilder() *Builder {
	return &Builder{defs: map[string]Definition{}}
}

// add inserts a definition, failing on duplicate names with the registry
// unchanged.
func (b *Builder) add(name string, def Definition) error {
	if _, ok := b.defs[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	b.names = append(b.names, name)
	b.defs[name] = def
	return nil
}

// AddUsizeRange registers an integer range [lo, hi) with step 1.
func (b *Builder) AddUsizeRange(name string, lo, hi int) error {
	return b.add(name, UsizeRange{Lo: lo, Hi: hi, Step: 1})
}

// AddUsizeSteppedRange registers an integer range [lo, hi) with an
// explicit positive step.
func (b *Builder) AddUsizeSteppedRange(name string, lo, hi, step int) error {
	if step <= 0 {
		return fmt.Errorf("%w: integer range step must be positive", ErrUnsupportedType)
	}
	return b.add(name, UsizeRange{Lo: lo, Hi: hi, Step: step})
}

// AddFloatRange registers a float range [lo, hi) with an explicit
// positive step.
func (b *Builder) AddFloatRange(name string, lo, hi, step float64) error {
	if step <= 0 {
		return fmt.Errorf("%w: float range step must be positive", ErrUnsupportedType)
	}
	return b.add(name, FloatRange{Lo: lo, Hi: hi, Step: step})
}

// AddItems registers a discrete item set. The items argument must be a
// []int, []float64, []string, or []Sample; anything else is an
// unsupported element type.
func (b *Builder) AddItems(name string, items any) error {
	var samples []Sample

	switch vs := items.(type) {
	case []int:
		samples = make([]Sample, len(vs))
		for i, v := range vs {
			samples[i] = Usize(v)
		}
	case []float64:
		samples = make([]Sample, len(vs))
		for i, v := range vs {
			samples[i] = Float(v)
		}
	case []string:
		samples = make([]Sample, len(vs))
		for i, v := range vs {
			samples[i] = Str(v)
		}
	case []Sample:
		samples = vs
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, items)
	}

	return b.add(name, NewItems(samples))
}

// AddRange registers a range [lo, hi) for any supported element type,
// dispatching on the concrete type at runtime. Integers get step 1;
// string ranges are forbidden; float ranges need an explicit step and go
// through AddFloatRange.
func AddRange[T any](b *Builder, name string, lo, hi T) error {
	switch l := any(lo).(type) {
	case int:
		return b.AddUsizeRange(name, l, any(hi).(int))
	case string:
		return ErrStringRange
	case float32, float64:
		return fmt.Errorf("%w: float ranges need an explicit step, use AddFloatRange", ErrUnsupportedType)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, lo)
	}
}

// Len returns the number of registered parameters.
func (b *Builder) Len() int {
	return len(b.names)
}

// Params enumerates the registered (name, definition) pairs in
// registration order.
func (b *Builder) Params() []NamedDefinition {
	out := make([]NamedDefinition, 0, len(b.names))
	for _, name := range b.names {
		out = append(out, NamedDefinition{Name: name, Def: b.defs[name]})
	}
	return out
}

// LowerBound returns the assignment that sets every parameter to its
// step-0 sample. It fails only when a registered parameter has no valid
// step at all.
func (b *Builder) LowerBound() (*Samples, error) {
	args := make(map[string]Sample, len(b.names))
	for _, name := range b.names {
		sample, ok := b.defs[name].ForStep(0)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrEmptyParam, name)
		}
		args[name] = sample
	}
	return NewSamples(args), nil
}

// FromIndices builds an assignment from explicit (name, step) pairs. It
// returns false when any named parameter is unknown, any step is past
// the last valid one, or the pairs do not cover every registered
// parameter.
func (b *Builder) FromIndices(indices []StepIndex) (*Samples, bool) {
	args := make(map[string]Sample, len(indices))
	for _, idx := range indices {
		def, ok := b.defs[idx.Name]
		if !ok {
			return nil, false
		}
		sample, ok := def.ForStep(idx.Step)
		if !ok {
			return nil, false
		}
		args[idx.Name] = sample
	}
	if len(args) != len(b.names) {
		return nil, false
	}
	return NewSamples(args), true
}

// UpdateStep returns a copy of prev with the named parameter replaced by
// its sample at the given step. It returns false when the name is
// unknown or the step is past the last valid one.
func (b *Builder) UpdateStep(prev *Samples, name string, step int) (*Samples, bool) {
	def, ok := b.defs[name]
	if !ok {
		return nil, false
	}
	sample, ok := def.ForStep(step)
	if !ok {
		return nil, false
	}
	next := prev.Clone()
	next.set(name, sample)
	return next, true
}
