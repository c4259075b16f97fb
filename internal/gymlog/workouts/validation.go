package workouts

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNoExercises     = errors.New("workout has no exercises")
	ErrInvalidWorkout  = errors.New("invalid workout")
	ErrUnknownExercise = errors.New("unknown exercise")
)

var validate = validator.New()

// Sanitize prepares user-entered data for saving: negative reps and weights
// are clamped to zero and exercise logs without sets are dropped.
func Sanitize(w Workout) Workout {
	exercises := make([]ExerciseLog, 0, len(w.Exercises))
	for _, exLog := range CloneExerciseLogs(w.Exercises) {
		if len(exLog.Sets) == 0 {
			continue
		}
		for i := range exLog.Sets {
			if exLog.Sets[i].Reps < 0 {
				exLog.Sets[i].Reps = 0
			}
			if exLog.Sets[i].Weight < 0 {
				exLog.Sets[i].Weight = 0
			}
		}
		exercises = append(exercises, exLog)
	}
	w.Exercises = exercises
	return w
}

// Validate refuses workouts that cannot be saved.
func Validate(w Workout) error {
	if len(w.Exercises) == 0 {
		return ErrNoExercises
	}
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidWorkout, err)
	}
	if w.StartTime != nil && w.EndTime != nil && w.EndTime.Before(*w.StartTime) {
		return fmt.Errorf("%w: end time before start time", ErrInvalidWorkout)
	}
	return nil
}
