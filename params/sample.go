// Package params provides the parameter and sample model for benchmark
// groups: typed parameter definitions, a name-keyed registry, and the
// concrete assignments that cross the parent/child process boundary.
package params

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the fields of a serialized sample token. It is the
// section-sign character U+00A7 and is part of the wire contract with the
// instrumented child; the exact byte sequence (0xC2 0xA7) must be kept.
const Delimiter = "§"

// Kind identifies the concrete type of a Sample.
type Kind int

const (
	// KindUsize is a non-negative integer sample.
	KindUsize Kind = iota

	// KindFloat is a floating-point sample.
	KindFloat

	// KindStr is a string sample.
	KindStr
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUsize:
		return "usize"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	}
	return "unknown"
}

// Sample is a single concrete value for one parameter. It is a closed
// tagged union of exactly the supported element kinds.
type Sample struct {
	kind  Kind
	usize int
	float float64
	str   string
}

// Usize creates an integer sample.
func Usize(v int) Sample {
	return Sample{kind: KindUsize, usize: v}
}

// Float creates a floating-point sample.
func Float(v float64) Sample {
	return Sample{kind: KindFloat, float: v}
}

// Str creates a string sample.
func Str(v string) Sample {
	return Sample{kind: KindStr, str: v}
}

// Kind returns the concrete type tag of the sample.
func (s Sample) Kind() Kind {
	return s.kind
}

// Usize returns the integer value, if the sample is an integer.
func (s Sample) Usize() (int, bool) {
	if s.kind != KindUsize {
		return 0, false
	}
	return s.usize, true
}

// Float returns the float value, if the sample is a float.
func (s Sample) Float() (float64, bool) {
	if s.kind != KindFloat {
		return 0, false
	}
	return s.float, true
}

// Str returns the string value, if the sample is a string.
func (s Sample) Str() (string, bool) {
	if s.kind != KindStr {
		return "", false
	}
	return s.str, true
}

// Numeric returns the sample value as a float64. String samples have no
// numeric view.
func (s Sample) Numeric() (float64, bool) {
	switch s.kind {
	case KindUsize:
		return float64(s.usize), true
	case KindFloat:
		return s.float, true
	}
	return 0, false
}

// Equal reports whether two samples have the same kind and value.
func (s Sample) Equal(other Sample) bool {
	return s == other
}

// Clone returns a copy of the sample.
func (s Sample) Clone() Sample {
	return s
}

// String serializes the sample as <kind>§<value>.
func (s Sample) String() string {
	switch s.kind {
	case KindUsize:
		return "usize" + Delimiter + strconv.Itoa(s.usize)
	case KindFloat:
		return "float" + Delimiter + strconv.FormatFloat(s.float, 'g', -1, 64)
	case KindStr:
		return "str" + Delimiter + s.str
	}
	return ""
}

// ParseToken parses one serialized assignment token of the shape
// <name>§<kind>§<value> and returns the parameter name and its sample.
func ParseToken(token string) (string, Sample, error) {
	parts := strings.SplitN(token, Delimiter, 3)
	if len(parts) != 3 {
		return "", Sample{}, fmt.Errorf("%w: %q", ErrParseToken, token)
	}

	name, kind, value := parts[0], parts[1], parts[2]

	switch kind {
	case "usize":
		v, err := strconv.Atoi(value)
		if err != nil {
			return "", Sample{}, fmt.Errorf("parsing integer sample %q: %w", token, err)
		}
		return name, Usize(v), nil
	case "float":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", Sample{}, fmt.Errorf("parsing float sample %q: %w", token, err)
		}
		return name, Float(v), nil
	case "str":
		return name, Str(value), nil
	}

	return "", Sample{}, fmt.Errorf("%w: unknown kind in %q", ErrParseToken, token)
}
