package params_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bytesnake/alco/params"
)

var _ = Describe("Sample", func() {
	Describe("token round-trip", func() {
		It("should round-trip integer samples", func() {
			sample := params.Usize(42)

			name, parsed, err := params.ParseToken("n" + params.Delimiter + sample.String())

			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("n"))
			Expect(parsed.Equal(sample)).To(BeTrue())
		})

		It("should round-trip float samples", func() {
			sample := params.Float(3.25)

			name, parsed, err := params.ParseToken("x" + params.Delimiter + sample.String())

			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("x"))
			Expect(parsed.Equal(sample)).To(BeTrue())
		})

		It("should round-trip string samples", func() {
			sample := params.Str("quicksort")

			name, parsed, err := params.ParseToken("algo" + params.Delimiter + sample.String())

			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("algo"))
			Expect(parsed.Equal(sample)).To(BeTrue())
		})

		It("should serialize with the section-sign delimiter", func() {
			token := "n" + params.Delimiter + params.Usize(7).String()

			Expect(token).To(Equal("n§usize§7"))
			Expect([]byte(params.Delimiter)).To(Equal([]byte{0xC2, 0xA7}))
		})
	})

	Describe("parse failures", func() {
		It("should reject tokens with too few fields", func() {
			_, _, err := params.ParseToken("n§usize")

			Expect(err).To(MatchError(params.ErrParseToken))
		})

		It("should reject unknown kinds", func() {
			_, _, err := params.ParseToken("n§complex§1")

			Expect(err).To(MatchError(params.ErrParseToken))
		})

		It("should reject malformed integers", func() {
			_, _, err := params.ParseToken("n§usize§twelve")

			Expect(err).To(HaveOccurred())
		})

		It("should reject malformed floats", func() {
			_, _, err := params.ParseToken("x§float§..5")

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Numeric", func() {
		It("should expose integers and floats as float64", func() {
			v, ok := params.Usize(5).Numeric()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(5.0))

			v, ok = params.Float(2.5).Numeric()
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(2.5))
		})

		It("should have no numeric view for strings", func() {
			_, ok := params.Str("a").Numeric()
			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("Samples", func() {
	It("should round-trip an assignment through its tokens", func() {
		original := params.NewSamples(map[string]params.Sample{
			"n":    params.Usize(128),
			"rate": params.Float(0.5),
			"algo": params.Str("merge"),
		})

		parsed, err := params.ParseSamples(original.Tokens())

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.Equal(original)).To(BeTrue())
	})

	It("should treat zero tokens as calibration mode", func() {
		parsed, err := params.ParseSamples(nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.SetupOnly).To(BeTrue())
		Expect(parsed.Len()).To(Equal(0))
	})

	It("should serialize deterministically", func() {
		samples := params.NewSamples(map[string]params.Sample{
			"b": params.Usize(2),
			"a": params.Usize(1),
			"c": params.Usize(3),
		})

		Expect(samples.Tokens()).To(Equal(samples.Tokens()))
	})

	It("should clone independently", func() {
		original := params.NewSamples(map[string]params.Sample{
			"n": params.Usize(1),
		})

		clone := original.Clone()
		clone.SetupOnly = true

		Expect(original.SetupOnly).To(BeFalse())
		Expect(clone.Equal(original)).To(BeFalse())
	})

	It("should expose typed accessors", func() {
		samples := params.NewSamples(map[string]params.Sample{
			"n":    params.Usize(9),
			"rate": params.Float(1.5),
			"algo": params.Str("heap"),
		})

		n, ok := samples.GetUsize("n")
		Expect(ok).To(BeTrue())
		Expect(n).To(Equal(9))

		rate, ok := samples.GetFloat("rate")
		Expect(ok).To(BeTrue())
		Expect(rate).To(Equal(1.5))

		algo, ok := samples.GetStr("algo")
		Expect(ok).To(BeTrue())
		Expect(algo).To(Equal("heap"))

		_, ok = samples.GetUsize("rate")
		Expect(ok).To(BeFalse())

		_, ok = samples.GetUsize("missing")
		Expect(ok).To(BeFalse())
	})
})
