package params_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bytesnake/alco/params"
)

var _ = Describe("Builder", func() {
	var builder *params.Builder

	BeforeEach(func() {
		builder = params.NewBuilder()
	})

	Describe("registration", func() {
		It("should reject duplicate names and leave the registry unchanged", func() {
			Expect(builder.AddUsizeRange("n", 0, 10)).To(Succeed())

			err := builder.AddFloatRange("n", 0, 1, 0.1)

			Expect(err).To(MatchError(params.ErrDuplicateName))
			Expect(builder.Len()).To(Equal(1))
			Expect(builder.Params()[0].Def).To(Equal(params.UsizeRange{Lo: 0, Hi: 10, Step: 1}))
		})

		It("should forbid ranges over strings", func() {
			err := params.AddRange(builder, "algo", "a", "z")

			Expect(err).To(MatchError(params.ErrStringRange))
			Expect(builder.Len()).To(Equal(0))
		})

		It("should reject unsupported element types", func() {
			err := builder.AddItems("flags", []bool{true, false})

			Expect(err).To(MatchError(params.ErrUnsupportedType))
		})

		It("should register integer ranges through the generic front door", func() {
			Expect(params.AddRange(builder, "n", 5, 50)).To(Succeed())

			sample, ok := builder.Params()[0].Def.ForStep(0)
			Expect(ok).To(BeTrue())
			Expect(sample.Equal(params.Usize(5))).To(BeTrue())
		})

		It("should reject non-positive steps", func() {
			Expect(builder.AddUsizeSteppedRange("n", 0, 10, 0)).To(
				MatchError(params.ErrUnsupportedType))
			Expect(builder.AddFloatRange("x", 0, 1, -0.5)).To(
				MatchError(params.ErrUnsupportedType))
		})

		It("should accept int, float64, and string item lists", func() {
			Expect(builder.AddItems("sizes", []int{1, 2, 3})).To(Succeed())
			Expect(builder.AddItems("rates", []float64{0.1, 0.2})).To(Succeed())
			Expect(builder.AddItems("algos", []string{"heap", "merge"})).To(Succeed())
		})
	})

	Describe("step samples", func() {
		It("should walk an integer range as lo + k·step below hi", func() {
			Expect(builder.AddUsizeSteppedRange("n", 16, 64, 16)).To(Succeed())
			def := builder.Params()[0].Def

			for k, want := range []int{16, 32, 48} {
				sample, ok := def.ForStep(k)
				Expect(ok).To(BeTrue())
				Expect(sample.Equal(params.Usize(want))).To(BeTrue())
			}

			_, ok := def.ForStep(3)
			Expect(ok).To(BeFalse())
		})

		It("should walk a float range", func() {
			Expect(builder.AddFloatRange("x", 0, 1, 0.25)).To(Succeed())
			def := builder.Params()[0].Def

			sample, ok := def.ForStep(2)
			Expect(ok).To(BeTrue())
			Expect(sample.Equal(params.Float(0.5))).To(BeTrue())

			_, ok = def.ForStep(4)
			Expect(ok).To(BeFalse())
		})

		It("should index discrete items by step", func() {
			Expect(builder.AddItems("algo", []string{"heap", "merge"})).To(Succeed())
			def := builder.Params()[0].Def

			count, ok := def.NumItems()
			Expect(ok).To(BeTrue())
			Expect(count).To(Equal(2))

			sample, ok := def.ForStep(1)
			Expect(ok).To(BeTrue())
			Expect(sample.Equal(params.Str("merge"))).To(BeTrue())

			_, ok = def.ForStep(2)
			Expect(ok).To(BeFalse())
		})

		It("should have no item count for ranges", func() {
			Expect(builder.AddUsizeRange("n", 0, 10)).To(Succeed())

			_, ok := builder.Params()[0].Def.NumItems()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("LowerBound", func() {
		It("should produce the same assignment on repeated calls", func() {
			Expect(builder.AddUsizeRange("n", 3, 10)).To(Succeed())
			Expect(builder.AddItems("algo", []string{"heap"})).To(Succeed())

			first, err := builder.LowerBound()
			Expect(err).NotTo(HaveOccurred())
			second, err := builder.LowerBound()
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Equal(second)).To(BeTrue())

			n, _ := first.GetUsize("n")
			Expect(n).To(Equal(3))
		})

		It("should fail when a parameter has no valid steps", func() {
			Expect(builder.AddUsizeRange("n", 5, 5)).To(Succeed())

			_, err := builder.LowerBound()

			Expect(err).To(MatchError(params.ErrEmptyParam))
		})
	})

	Describe("FromIndices", func() {
		BeforeEach(func() {
			Expect(builder.AddUsizeRange("n", 0, 10)).To(Succeed())
			Expect(builder.AddItems("algo", []string{"heap", "merge"})).To(Succeed())
		})

		It("should build an assignment from valid steps", func() {
			samples, ok := builder.FromIndices([]params.StepIndex{
				{Name: "n", Step: 4},
				{Name: "algo", Step: 1},
			})

			Expect(ok).To(BeTrue())
			n, _ := samples.GetUsize("n")
			Expect(n).To(Equal(4))
			algo, _ := samples.GetStr("algo")
			Expect(algo).To(Equal("merge"))
		})

		It("should return no assignment past the last valid step", func() {
			_, ok := builder.FromIndices([]params.StepIndex{
				{Name: "n", Step: 10},
				{Name: "algo", Step: 0},
			})

			Expect(ok).To(BeFalse())
		})

		It("should return no assignment when a parameter is missing", func() {
			_, ok := builder.FromIndices([]params.StepIndex{
				{Name: "n", Step: 0},
			})

			Expect(ok).To(BeFalse())
		})

		It("should return no assignment for unknown names", func() {
			_, ok := builder.FromIndices([]params.StepIndex{
				{Name: "n", Step: 0},
				{Name: "m", Step: 0},
			})

			Expect(ok).To(BeFalse())
		})
	})

	Describe("UpdateStep", func() {
		It("should replace exactly one entry", func() {
			Expect(builder.AddUsizeRange("n", 0, 100)).To(Succeed())
			Expect(builder.AddUsizeRange("m", 0, 100)).To(Succeed())
			lower, err := builder.LowerBound()
			Expect(err).NotTo(HaveOccurred())

			updated, ok := builder.UpdateStep(lower, "n", 7)

			Expect(ok).To(BeTrue())
			n, _ := updated.GetUsize("n")
			Expect(n).To(Equal(7))
			m, _ := updated.GetUsize("m")
			Expect(m).To(Equal(0))

			// The previous assignment is untouched.
			n, _ = lower.GetUsize("n")
			Expect(n).To(Equal(0))
		})

		It("should fail past the end of the range", func() {
			Expect(builder.AddUsizeRange("n", 0, 10)).To(Succeed())
			lower, err := builder.LowerBound()
			Expect(err).NotTo(HaveOccurred())

			_, ok := builder.UpdateStep(lower, "n", 10)

			Expect(ok).To(BeFalse())
		})
	})

	Describe("Params", func() {
		It("should enumerate in registration order", func() {
			Expect(builder.AddUsizeRange("b", 0, 1)).To(Succeed())
			Expect(builder.AddUsizeRange("a", 0, 1)).To(Succeed())
			Expect(builder.AddUsizeRange("c", 0, 1)).To(Succeed())

			names := []string{}
			for _, p := range builder.Params() {
				names = append(names, p.Name)
			}

			Expect(names).To(Equal([]string{"b", "a", "c"}))
		})
	})
})
