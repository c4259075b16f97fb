package templates

import (
	"math"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/workouts"
)

const (
	fallbackReps   = 10
	fallbackWeight = 0
)

type TemplateExercise struct {
	ExerciseID    string  `json:"exerciseId" validate:"required"`
	DefaultSets   int     `json:"defaultSets" validate:"gte=0"`
	DefaultReps   int     `json:"defaultReps" validate:"gte=0"`
	DefaultWeight float64 `json:"defaultWeight" validate:"gte=0"`
}

type WorkoutTemplate struct {
	ID          string             `json:"id"`
	Name        string             `json:"name" validate:"required,max=100"`
	Description string             `json:"description"`
	Exercises   []TemplateExercise `json:"exercises" validate:"dive"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// FromExerciseLogs summarizes each log into a template exercise: the set
// count, and the rounded mean reps and weight of its sets.
func FromExerciseLogs(logs []workouts.ExerciseLog) []TemplateExercise {
	out := make([]TemplateExercise, 0, len(logs))
	for _, exLog := range logs {
		te := TemplateExercise{
			ExerciseID:    exLog.ExerciseID,
			DefaultSets:   len(exLog.Sets),
			DefaultReps:   fallbackReps,
			DefaultWeight: fallbackWeight,
		}
		if len(exLog.Sets) > 0 {
			var repsSum, weightSum float64
			for _, set := range exLog.Sets {
				repsSum += float64(set.Reps)
				weightSum += set.Weight
			}
			n := float64(len(exLog.Sets))
			te.DefaultReps = int(math.Round(repsSum / n))
			te.DefaultWeight = math.Round(weightSum / n)
		}
		out = append(out, te)
	}
	return out
}

// ToExerciseLogs expands a template into fresh exercise logs, each holding
// DefaultSets identical sets.
func ToExerciseLogs(template WorkoutTemplate) []workouts.ExerciseLog {
	logs := make([]workouts.ExerciseLog, 0, len(template.Exercises))
	for _, te := range template.Exercises {
		sets := make([]workouts.WorkoutSet, 0, te.DefaultSets)
		for i := 0; i < te.DefaultSets; i++ {
			sets = append(sets, workouts.WorkoutSet{
				Reps:   te.DefaultReps,
				Weight: te.DefaultWeight,
			})
		}
		logs = append(logs, workouts.ExerciseLog{
			ExerciseID: te.ExerciseID,
			Sets:       sets,
		})
	}
	return logs
}
