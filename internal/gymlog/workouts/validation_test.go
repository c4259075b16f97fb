package workouts_test

import (
	"testing"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	w := workouts.Workout{
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Exercises: []workouts.ExerciseLog{
			{ExerciseID: "a", Sets: []workouts.WorkoutSet{{Reps: -3, Weight: 80}, {Reps: 5, Weight: -1}}},
			{ExerciseID: "empty"},
			{ExerciseID: "b", Sets: []workouts.WorkoutSet{{Reps: 10, Weight: 20}}},
		},
	}

	sanitized := workouts.Sanitize(w)
	require.Len(t, sanitized.Exercises, 2)
	assert.Equal(t, "a", sanitized.Exercises[0].ExerciseID)
	assert.Equal(t, []workouts.WorkoutSet{{Reps: 0, Weight: 80}, {Reps: 5, Weight: 0}}, sanitized.Exercises[0].Sets)
	assert.Equal(t, "b", sanitized.Exercises[1].ExerciseID)

	// source untouched
	assert.Equal(t, -3, w.Exercises[0].Sets[0].Reps)
	assert.Len(t, w.Exercises, 3)
}

func TestValidate(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := date.Add(18 * time.Hour)
	end := start.Add(time.Hour)

	valid := workouts.Workout{
		Date:      date,
		StartTime: &start,
		EndTime:   &end,
		Exercises: []workouts.ExerciseLog{
			{ExerciseID: "a", Sets: []workouts.WorkoutSet{{Reps: 5, Weight: 80}}},
		},
	}
	assert.NoError(t, workouts.Validate(valid))

	noExercises := valid
	noExercises.Exercises = nil
	assert.ErrorIs(t, workouts.Validate(noExercises), workouts.ErrNoExercises)

	noDate := valid
	noDate.Date = time.Time{}
	assert.ErrorIs(t, workouts.Validate(noDate), workouts.ErrInvalidWorkout)

	noExerciseID := valid
	noExerciseID.Exercises = []workouts.ExerciseLog{
		{Sets: []workouts.WorkoutSet{{Reps: 5, Weight: 80}}},
	}
	assert.ErrorIs(t, workouts.Validate(noExerciseID), workouts.ErrInvalidWorkout)

	negative := valid
	negative.Exercises = []workouts.ExerciseLog{
		{ExerciseID: "a", Sets: []workouts.WorkoutSet{{Reps: 5, Weight: -80}}},
	}
	assert.ErrorIs(t, workouts.Validate(negative), workouts.ErrInvalidWorkout)

	endBeforeStart := valid
	endBeforeStart.StartTime = &end
	endBeforeStart.EndTime = &start
	assert.ErrorIs(t, workouts.Validate(endBeforeStart), workouts.ErrInvalidWorkout)
}
