package goal

import (
	"time"

	"github.com/driverlog/backend/internal/domain/entity"
)

// GoalOutput is a goal enriched with the derived display fields callers
// render: formatted values, time progress, and whether this response carries a
// freshly recomputed snapshot or the last persisted one.
type GoalOutput struct {
	Goal             *entity.Goal
	Refreshed        bool
	FormattedTarget  string
	FormattedCurrent string
	DaysRemaining    int
	ElapsedPercent   int
}

// newGoalOutput derives the display fields for a goal as of now.
func newGoalOutput(g *entity.Goal, refreshed bool, now time.Time) *GoalOutput {
	return &GoalOutput{
		Goal:             g,
		Refreshed:        refreshed,
		FormattedTarget:  FormatGoalValue(g.Type, g.TargetValue),
		FormattedCurrent: FormatGoalValue(g.Type, g.CurrentValue),
		DaysRemaining:    DaysRemaining(g.EndDate, now),
		ElapsedPercent:   ElapsedPercent(g.StartDate, g.EndDate, now),
	}
}
