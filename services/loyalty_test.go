package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsEarned(t *testing.T) {
	assert.Equal(t, 0, PointsEarned(0))
	assert.Equal(t, 0, PointsEarned(9.99))
	assert.Equal(t, 1, PointsEarned(10))
	assert.Equal(t, 4, PointsEarned(45.50))
	assert.Equal(t, 5, PointsEarned(50))
}

func TestQuoteLoyaltyDiscount(t *testing.T) {
	t.Run("25 points on a 50 order buys 20 percent", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(25, 50)
		assert.True(t, q.Eligible)
		assert.Equal(t, 20, q.DiscountPercentage)
		assert.Equal(t, 20, q.PointsUsed)
		assert.InDelta(t, 10.0, q.DiscountAmount, 1e-9)
		assert.InDelta(t, 40.0, q.FinalTotal, 1e-9)
		assert.Equal(t, 5, q.RemainingPoints)
	})

	t.Run("too few points", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(5, 50)
		assert.False(t, q.Eligible)
		assert.Equal(t, "Minimum 10 loyalty points required", q.Message)
		assert.InDelta(t, 50.0, q.FinalTotal, 1e-9)
	})

	t.Run("order too small", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(30, 8)
		assert.False(t, q.Eligible)
		assert.Equal(t, "Minimum 10 order total required for loyalty discount", q.Message)
	})

	t.Run("points message wins when both minimums fail", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(3, 5)
		assert.False(t, q.Eligible)
		assert.Equal(t, "Minimum 10 loyalty points required", q.Message)
	})

	t.Run("discount caps at 50 percent but all stacks are spent", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(83, 100)
		assert.True(t, q.Eligible)
		assert.Equal(t, 50, q.DiscountPercentage)
		assert.Equal(t, 80, q.PointsUsed)
		assert.InDelta(t, 50.0, q.DiscountAmount, 1e-9)
		assert.Equal(t, 3, q.RemainingPoints)
	})

	t.Run("partial stacks do not count", func(t *testing.T) {
		q := QuoteLoyaltyDiscount(19, 100)
		assert.True(t, q.Eligible)
		assert.Equal(t, 10, q.DiscountPercentage)
		assert.Equal(t, 10, q.PointsUsed)
		assert.Equal(t, 9, q.RemainingPoints)
	})
}

func TestDiscountForPoints(t *testing.T) {
	assert.InDelta(t, 0.0, DiscountForPoints(0, 50), 1e-9)
	assert.InDelta(t, 5.0, DiscountForPoints(10, 50), 1e-9)
	assert.InDelta(t, 10.0, DiscountForPoints(20, 50), 1e-9)
	// beyond five stacks the percentage stays capped
	assert.InDelta(t, 25.0, DiscountForPoints(80, 50), 1e-9)
}
