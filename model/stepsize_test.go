package model_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bytesnake/alco/model"
)

var _ = Describe("EstimateStepSize", func() {
	It("should return 1 with no observations yet", func() {
		Expect(model.EstimateStepSize(nil, 50)).To(Equal(1))
	})

	It("should return 1 with a single observation", func() {
		obs := []model.StepDelta{{Step: 0, Delta: 120}}

		Expect(model.EstimateStepSize(obs, 50)).To(Equal(1))
	})

	It("should return 1 when successive observations already clear the threshold", func() {
		obs := []model.StepDelta{
			{Step: 0, Delta: 0},
			{Step: 1, Delta: 100},
		}

		Expect(model.EstimateStepSize(obs, 50)).To(Equal(1))
	})

	It("should return 0 when growth has saturated", func() {
		obs := []model.StepDelta{
			{Step: 0, Delta: 500},
			{Step: 1, Delta: 500},
			{Step: 2, Delta: 500},
		}

		Expect(model.EstimateStepSize(obs, 50)).To(Equal(0))
	})

	It("should be monotone in the required change", func() {
		obs := []model.StepDelta{
			{Step: 0, Delta: 0},
			{Step: 1, Delta: 60},
			{Step: 2, Delta: 120},
		}

		small := model.EstimateStepSize(obs, 50)
		large := model.EstimateStepSize(obs, 500)

		Expect(small).To(Equal(1))
		Expect(large).To(BeNumerically(">=", small))
		Expect(large).To(BeNumerically(">", 1))
	})

	It("should stride further over shallow growth", func() {
		// Roughly 10 instructions per step: reaching a change of 50
		// needs about five steps.
		obs := []model.StepDelta{
			{Step: 0, Delta: 0},
			{Step: 1, Delta: 10},
			{Step: 2, Delta: 20},
		}

		step := model.EstimateStepSize(obs, 50)

		Expect(step).To(BeNumerically(">=", 4))
		Expect(step).To(BeNumerically("<=", 6))
	})
})
