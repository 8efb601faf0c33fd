package goal

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/driverlog/backend/internal/domain/entity"
)

var oneHundred = decimal.NewFromInt(100)

// FormatGoalValue renders a goal value for display. Monetary types hold minor
// units and render as BRL; distance and trip count render with their unit.
func FormatGoalValue(goalType entity.GoalType, value int64) string {
	switch goalType {
	case entity.GoalTypeRevenue, entity.GoalTypeSavings, entity.GoalTypeProfit:
		return "R$ " + decimal.NewFromInt(value).Div(oneHundred).StringFixed(2)
	case entity.GoalTypeDistance:
		return fmt.Sprintf("%d km", value)
	case entity.GoalTypeTripCount:
		return fmt.Sprintf("%d trips", value)
	default:
		return fmt.Sprintf("%d", value)
	}
}

// DaysRemaining returns whole days until the goal's end date, rounding up.
// It goes negative once the window is past due.
func DaysRemaining(endDate, now time.Time) int {
	return int(math.Ceil(endDate.Sub(now).Hours() / 24))
}

// ElapsedPercent returns how much of the goal window has passed, clamped to
// [0, 100]. A degenerate window counts as fully elapsed.
func ElapsedPercent(startDate, endDate, now time.Time) int {
	total := endDate.Sub(startDate)
	if total <= 0 {
		return 100
	}
	percent := int(math.Round(float64(now.Sub(startDate)) / float64(total) * 100))
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
