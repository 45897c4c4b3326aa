// Package credit derives a bounded eligibility score from a client's income
// and savings. The computation is pure: callers persist the result and emit
// whatever audit trail they need.
package credit

import "math"

type Rating string

const (
	RatingPoor      Rating = "Poor"
	RatingFair      Rating = "Fair"
	RatingGood      Rating = "Good"
	RatingVeryGood  Rating = "Very Good"
	RatingExcellent Rating = "Excellent"
)

// componentCap bounds each input's contribution so the total stays in [0,100].
const componentCap = 50

// Score maps (monthly income, savings balance) to a score in [0,100] and its
// rating band. Each input contributes floor(x/100) capped at 50; negative
// inputs contribute nothing.
func Score(monthlyIncome, savingsBalance float64) (int, Rating) {
	s := component(monthlyIncome) + component(savingsBalance)
	return s, RatingFor(s)
}

func component(v float64) int {
	if v <= 0 {
		return 0
	}
	c := int(math.Floor(v / 100))
	if c > componentCap {
		return componentCap
	}
	return c
}

// RatingFor returns the band label for a score.
func RatingFor(score int) Rating {
	switch {
	case score < 20:
		return RatingPoor
	case score < 40:
		return RatingFair
	case score < 60:
		return RatingGood
	case score < 80:
		return RatingVeryGood
	default:
		return RatingExcellent
	}
}
