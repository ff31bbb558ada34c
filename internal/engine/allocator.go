package engine

import (
	"time"

	"github.com/claude/liftplan/internal/models"
)

// templateKey identifies one split template by goal and training days.
type templateKey struct {
	goal models.Goal
	days int
}

// splitTemplates holds the 20 predefined muscle-group-per-day templates.
// Unknown goal+days combinations fall back to the hypertrophy template for
// that day count, then to the 6-day hypertrophy default.
var splitTemplates = map[templateKey][]models.MuscleGroup{
	{models.GoalStrength, 3}: {models.GroupPush, models.GroupPull, models.GroupLegs},
	{models.GoalStrength, 4}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush},
	{models.GoalStrength, 5}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull},
	{models.GoalStrength, 6}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs},
	{models.GoalStrength, 7}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush},

	{models.GoalHypertrophy, 3}: {models.GroupPush, models.GroupPull, models.GroupLegs},
	{models.GoalHypertrophy, 4}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPull},
	{models.GoalHypertrophy, 5}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull},
	{models.GoalHypertrophy, 6}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs},
	{models.GoalHypertrophy, 7}: {models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupLegs},

	{models.GoalEndurance, 3}: {models.GroupLegs, models.GroupPush, models.GroupPull},
	{models.GoalEndurance, 4}: {models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs},
	{models.GoalEndurance, 5}: {models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush},
	{models.GoalEndurance, 6}: {models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull},
	{models.GoalEndurance, 7}: {models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupPush, models.GroupPull, models.GroupLegs},

	{models.GoalGeneral, 3}: {models.GroupPush, models.GroupLegs, models.GroupPull},
	{models.GoalGeneral, 4}: {models.GroupPush, models.GroupLegs, models.GroupPull, models.GroupLegs},
	{models.GoalGeneral, 5}: {models.GroupPush, models.GroupLegs, models.GroupPull, models.GroupPush, models.GroupLegs},
	{models.GoalGeneral, 6}: {models.GroupPush, models.GroupLegs, models.GroupPull, models.GroupPush, models.GroupLegs, models.GroupPull},
	{models.GoalGeneral, 7}: {models.GroupPush, models.GroupLegs, models.GroupPull, models.GroupPush, models.GroupLegs, models.GroupPull, models.GroupLegs},
}

// defaultTemplateKey is the final fallback when even the per-day-count
// hypertrophy template is missing.
var defaultTemplateKey = templateKey{models.GoalHypertrophy, 6}

// templateFor resolves the split template for a goal and day count.
func templateFor(goal models.Goal, days int) []models.MuscleGroup {
	if t, ok := splitTemplates[templateKey{goal, days}]; ok {
		return t
	}
	if t, ok := splitTemplates[templateKey{models.GoalHypertrophy, days}]; ok {
		return t
	}
	return splitTemplates[defaultTemplateKey]
}

// AllocateWeek assigns muscle groups to calendar days starting at weekStart
// and returns the per-day schedule plus each group's planned session count.
// The allocator is deterministic and carries no state; the same three inputs
// always produce the same schedule.
func AllocateWeek(weekStart time.Time, daysPerWeek int, goal models.Goal) ([]models.DayAssignment, map[models.MuscleGroup]int) {
	template := templateFor(goal, daysPerWeek)

	schedule := make([]models.DayAssignment, 0, len(template))
	counts := make(map[models.MuscleGroup]int, len(models.MuscleGroups))
	for i, group := range template {
		schedule = append(schedule, models.DayAssignment{
			Date:        weekStart.AddDate(0, 0, i),
			MuscleGroup: group,
		})
		counts[group]++
	}
	return schedule, counts
}
