package params

import (
	"sort"
)

// Samples is a complete assignment of one sample per registered
// parameter. It is created by the Builder in the driver process,
// serialized onto the child's command line, and parsed back on the other
// side.
type Samples struct {
	// SetupOnly tells the benchmark function to perform its setup work
	// but skip the measured body. A zero-token child invocation is the
	// calibration run and sets this flag.
	SetupOnly bool

	args map[string]Sample
}

// NewSamples creates an assignment from a name→sample map.
func NewSamples(args map[string]Sample) *Samples {
	if args == nil {
		args = map[string]Sample{}
	}
	return &Samples{args: args}
}

// CalibrationSamples returns the empty assignment with the setup-only
// flag set, matching a zero-token child invocation.
func CalibrationSamples() *Samples {
	return &Samples{args: map[string]Sample{}, SetupOnly: true}
}

// ParseSamples parses serialized assignment tokens. Zero tokens means
// calibration mode: the returned assignment is empty and SetupOnly is
// set.
func ParseSamples(tokens []string) (*Samples, error) {
	if len(tokens) == 0 {
		return CalibrationSamples(), nil
	}

	args := make(map[string]Sample, len(tokens))
	for _, token := range tokens {
		name, sample, err := ParseToken(token)
		if err != nil {
			return nil, err
		}
		args[name] = sample
	}

	return &Samples{args: args}, nil
}

// Tokens serializes the assignment, one <name>§<kind>§<value> token per
// parameter. Token order carries no meaning; names are sorted so that
// repeated serializations of the same assignment are identical.
func (s *Samples) Tokens() []string {
	tokens := make([]string, 0, len(s.args))
	for name, sample := range s.args {
		tokens = append(tokens, name+Delimiter+sample.String())
	}
	sort.Strings(tokens)
	return tokens
}

// Names returns the parameter names of the assignment in sorted order.
func (s *Samples) Names() []string {
	names := make([]string, 0, len(s.args))
	for name := range s.args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of parameters in the assignment.
func (s *Samples) Len() int {
	return len(s.args)
}

// Get returns the sample for a parameter name.
func (s *Samples) Get(name string) (Sample, bool) {
	sample, ok := s.args[name]
	return sample, ok
}

// GetUsize returns the integer value of a parameter, if present and of
// integer kind.
func (s *Samples) GetUsize(name string) (int, bool) {
	sample, ok := s.args[name]
	if !ok {
		return 0, false
	}
	return sample.Usize()
}

// GetFloat returns the float value of a parameter, if present and of
// float kind.
func (s *Samples) GetFloat(name string) (float64, bool) {
	sample, ok := s.args[name]
	if !ok {
		return 0, false
	}
	return sample.Float()
}

// GetStr returns the string value of a parameter, if present and of
// string kind.
func (s *Samples) GetStr(name string) (string, bool) {
	sample, ok := s.args[name]
	if !ok {
		return "", false
	}
	return sample.Str()
}

// GetNumeric returns the value of a parameter as a float64, if present
// and numeric.
func (s *Samples) GetNumeric(name string) (float64, bool) {
	sample, ok := s.args[name]
	if !ok {
		return 0, false
	}
	return sample.Numeric()
}

// Equal reports whether two assignments carry the same mapping and the
// same setup-only flag.
func (s *Samples) Equal(other *Samples) bool {
	if s.SetupOnly != other.SetupOnly || len(s.args) != len(other.args) {
		return false
	}
	for name, sample := range s.args {
		o, ok := other.args[name]
		if !ok || !sample.Equal(o) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the assignment.
func (s *Samples) Clone() *Samples {
	args := make(map[string]Sample, len(s.args))
	for name, sample := range s.args {
		args[name] = sample.Clone()
	}
	return &Samples{args: args, SetupOnly: s.SetupOnly}
}

// set replaces one entry. The builder uses it to derive assignments.
func (s *Samples) set(name string, sample Sample) {
	s.args[name] = sample
}
