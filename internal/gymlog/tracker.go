package gymlog

import (
	"context"
	"fmt"

	"github.com/2beens/gymlog/internal/gymlog/exercises"
	"github.com/2beens/gymlog/internal/gymlog/records"
	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultReps is the rep count of the set prefilled for a newly added exercise.
const DefaultReps = 10

// Tracker ties the workout log to the personal records: every saved
// workout is folded into the records exactly once.
type Tracker struct {
	catalog        *exercises.Catalog
	workoutsLog    *workouts.Log
	records        *records.Aggregator
	metricsManager *metrics.Manager
}

func NewTracker(
	catalog *exercises.Catalog,
	workoutsLog *workouts.Log,
	records *records.Aggregator,
	metricsManager *metrics.Manager,
) *Tracker {
	return &Tracker{
		catalog:        catalog,
		workoutsLog:    workoutsLog,
		records:        records,
		metricsManager: metricsManager,
	}
}

// SaveWorkout cleans up the entered workout, adds it to the log and updates
// the personal records with its sets.
func (t *Tracker) SaveWorkout(ctx context.Context, workout workouts.Workout) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.save-workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout = workouts.Sanitize(workout)
	if err := workouts.Validate(workout); err != nil {
		return nil, err
	}

	saved, err := t.workoutsLog.Add(ctx, workout)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("id", saved.ID))
	t.metricsManager.CounterWorkoutsSaved.Inc()

	improvements, err := t.records.RecordWorkout(ctx, *saved)
	if err != nil {
		return nil, fmt.Errorf("record workout %s: %w", saved.ID, err)
	}
	for _, improvement := range improvements {
		t.metricsManager.CounterRecordsImproved.WithLabelValues(improvement.ExerciseID).Inc()
	}

	log.Debugf("tracker: saved workout [%s], %d records improved", saved.ID, len(improvements))
	return saved, nil
}

// UpdateWorkout merges the update into a logged workout and folds the
// resulting sets into the personal records. Records are never lowered.
func (t *Tracker) UpdateWorkout(ctx context.Context, id string, update workouts.WorkoutUpdate) (_ *workouts.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "tracker.update-workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	if update.Exercises != nil {
		update.Exercises = workouts.Sanitize(workouts.Workout{Exercises: update.Exercises}).Exercises
	}

	updated, err := t.workoutsLog.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	improvements, err := t.records.RecordWorkout(ctx, *updated)
	if err != nil {
		return nil, fmt.Errorf("record workout %s: %w", id, err)
	}
	for _, improvement := range improvements {
		t.metricsManager.CounterRecordsImproved.WithLabelValues(improvement.ExerciseID).Inc()
	}

	log.Debugf("tracker: updated workout [%s], %d records improved", id, len(improvements))
	return updated, nil
}

// DeleteWorkout removes the workout from the log. Personal records it set are kept.
func (t *Tracker) DeleteWorkout(ctx context.Context, id string) error {
	if err := t.workoutsLog.Delete(ctx, id); err != nil {
		return err
	}
	t.metricsManager.CounterWorkoutsDeleted.Inc()
	return nil
}

func (t *Tracker) RepeatWorkout(ctx context.Context, id string) ([]workouts.ExerciseLog, error) {
	workout, found, err := t.workoutsLog.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, workouts.ErrWorkoutNotFound
	}
	return workouts.CloneExerciseLogs(workout.Exercises), nil
}

func (t *Tracker) NewExerciseLog(ctx context.Context, exerciseID string) (workouts.ExerciseLog, error) {
	if _, ok := t.catalog.GetExercise(exerciseID); !ok {
		return workouts.ExerciseLog{}, workouts.ErrUnknownExercise
	}

	weight, err := t.records.DefaultWeight(ctx, exerciseID)
	if err != nil {
		return workouts.ExerciseLog{}, err
	}

	return workouts.ExerciseLog{
		ExerciseID: exerciseID,
		Sets: []workouts.WorkoutSet{
			{Reps: DefaultReps, Weight: weight},
		},
	}, nil
}
