package workouts

import (
	"fmt"
	"strings"
	"time"
)

// DayLayout is the calendar-day format used for grouping and date queries.
const DayLayout = "2006-01-02"

type WorkoutSet struct {
	Reps   int     `json:"reps" validate:"gte=0"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type ExerciseLog struct {
	ExerciseID string       `json:"exerciseId" validate:"required"`
	Sets       []WorkoutSet `json:"sets" validate:"dive"`
}

type Workout struct {
	ID        string        `json:"id"`
	Date      time.Time     `json:"date" validate:"required"`
	StartTime *time.Time    `json:"startTime,omitempty"`
	EndTime   *time.Time    `json:"endTime,omitempty"`
	Exercises []ExerciseLog `json:"exercises" validate:"dive"`
	Notes     string        `json:"notes,omitempty"`
}

// Day returns the calendar day of the workout, in the workout date's own location.
func (w Workout) Day() string {
	return w.Date.Format(DayLayout)
}

// ExerciseLog returns the first log for the given exercise.
func (w Workout) ExerciseLog(exerciseID string) (ExerciseLog, bool) {
	for _, exLog := range w.Exercises {
		if exLog.ExerciseID == exerciseID {
			return exLog, true
		}
	}
	return ExerciseLog{}, false
}

// TotalVolume is the sum of reps x weight over all sets.
func (w Workout) TotalVolume() float64 {
	var volume float64
	for _, exLog := range w.Exercises {
		for _, set := range exLog.Sets {
			volume += float64(set.Reps) * set.Weight
		}
	}
	return volume
}

// Duration is known only when both start and end time are set.
func (w Workout) Duration() (time.Duration, bool) {
	if w.StartTime == nil || w.EndTime == nil {
		return 0, false
	}
	return w.EndTime.Sub(*w.StartTime), true
}

type exerciseNamer interface {
	DisplayName(exerciseID string) string
}

// Summary lists the names of the first three exercises, with " +N" for the rest.
func Summary(w Workout, namer exerciseNamer) string {
	names := make([]string, 0, 3)
	for i, exLog := range w.Exercises {
		if i == 3 {
			break
		}
		names = append(names, namer.DisplayName(exLog.ExerciseID))
	}

	summary := strings.Join(names, ", ")
	if len(w.Exercises) > 3 {
		summary += fmt.Sprintf(" +%d", len(w.Exercises)-3)
	}
	return summary
}

// CloneExerciseLogs deep copies logs, so the result shares no sets with the source.
func CloneExerciseLogs(logs []ExerciseLog) []ExerciseLog {
	out := make([]ExerciseLog, 0, len(logs))
	for _, exLog := range logs {
		sets := make([]WorkoutSet, len(exLog.Sets))
		copy(sets, exLog.Sets)
		out = append(out, ExerciseLog{
			ExerciseID: exLog.ExerciseID,
			Sets:       sets,
		})
	}
	return out
}
