package services

// Loyalty scheme: one point per 10 currency units of subtotal. Every
// full stack of 10 banked points buys one 10% discount tier, capped at
// 50%. Redemption needs at least one full stack and a 10-unit order.
const (
	PointsPerUnit      = 10
	StackSize          = 10
	DiscountPerStack   = 10
	MaxDiscountPercent = 50
	MinRedeemPoints    = 10
	MinRedeemTotal     = 10.0
)

type LoyaltyQuote struct {
	Eligible           bool    `json:"eligible"`
	Message            string  `json:"message,omitempty"`
	DiscountAmount     float64 `json:"discountAmount"`
	PointsUsed         int     `json:"pointsUsed"`
	DiscountPercentage int     `json:"discountPercentage"`
	FinalTotal         float64 `json:"finalTotal"`
	RemainingPoints    int     `json:"remainingPoints"`
}

// PointsEarned converts spend into points: floor(subtotal / 10),
// computed on the pre-discount subtotal.
func PointsEarned(subtotal float64) int {
	if subtotal <= 0 {
		return 0
	}
	return int(subtotal / PointsPerUnit)
}

// QuoteLoyaltyDiscount converts a points balance into the discount it
// buys on orderTotal. When both minimums fail, the points message wins.
func QuoteLoyaltyDiscount(loyaltyPoints int, orderTotal float64) LoyaltyQuote {
	if loyaltyPoints < MinRedeemPoints || orderTotal < MinRedeemTotal {
		msg := "Minimum 10 loyalty points required"
		if loyaltyPoints >= MinRedeemPoints {
			msg = "Minimum 10 order total required for loyalty discount"
		}
		return LoyaltyQuote{Eligible: false, Message: msg, FinalTotal: orderTotal}
	}

	stacks := loyaltyPoints / StackSize
	pct := stacks * DiscountPerStack
	if pct > MaxDiscountPercent {
		pct = MaxDiscountPercent
	}
	pointsUsed := stacks * StackSize
	discount := orderTotal * float64(pct) / 100

	return LoyaltyQuote{
		Eligible:           true,
		DiscountAmount:     discount,
		PointsUsed:         pointsUsed,
		DiscountPercentage: pct,
		FinalTotal:         orderTotal - discount,
		RemainingPoints:    loyaltyPoints - pointsUsed,
	}
}

// DiscountForPoints derives the discount a redemption of pointsUsed
// buys on a subtotal. Order creation recomputes amounts with this
// instead of trusting client arithmetic.
func DiscountForPoints(pointsUsed int, subtotal float64) float64 {
	if pointsUsed <= 0 {
		return 0
	}
	pct := pointsUsed / StackSize * DiscountPerStack
	if pct > MaxDiscountPercent {
		pct = MaxDiscountPercent
	}
	return subtotal * float64(pct) / 100
}
