package workouts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWorkoutNotFound = errors.New("workout not found")

// WorkoutUpdate holds the fields to merge into an existing workout.
// Nil fields are left unchanged; the id can never be changed.
type WorkoutUpdate struct {
	Date      *time.Time    `json:"date,omitempty"`
	StartTime *time.Time    `json:"startTime,omitempty"`
	EndTime   *time.Time    `json:"endTime,omitempty"`
	Exercises []ExerciseLog `json:"exercises,omitempty"`
	Notes     *string       `json:"notes,omitempty"`
}

// Log is the authoritative collection of workouts, stored most recent first.
type Log struct {
	mu          sync.Mutex
	collection  *kvstore.Collection[Workout]
	idGenerator pkg.IDGenerator
}

func NewLog(store kvstore.Store, idGenerator pkg.IDGenerator) *Log {
	return &Log{
		collection:  kvstore.NewCollection[Workout](store, kvstore.KeyWorkouts),
		idGenerator: idGenerator,
	}
}

// Add assigns a fresh id to the workout and prepends it to the log.
func (l *Log) Add(ctx context.Context, workout Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	workout.ID = l.idGenerator.NewID()
	span.SetAttributes(attribute.String("id", workout.ID))

	updated := make([]Workout, 0, len(all)+1)
	updated = append(updated, workout)
	updated = append(updated, all...)
	if err := l.collection.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}

	log.Debugf("workouts: added [%s] with %d exercises", workout.ID, len(workout.Exercises))
	return &workout, nil
}

// Update merges the update into the stored workout. The merged workout must
// pass Validate, otherwise the log is left untouched.
func (l *Log) Update(ctx context.Context, id string, update WorkoutUpdate) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return nil, ErrWorkoutNotFound
	}

	w := all[idx]
	if update.Date != nil {
		w.Date = *update.Date
	}
	if update.StartTime != nil {
		w.StartTime = update.StartTime
	}
	if update.EndTime != nil {
		w.EndTime = update.EndTime
	}
	if update.Exercises != nil {
		w.Exercises = CloneExerciseLogs(update.Exercises)
	}
	if update.Notes != nil {
		w.Notes = *update.Notes
	}
	if err := Validate(w); err != nil {
		return nil, err
	}
	all[idx] = w

	if err := l.collection.Save(ctx, all); err != nil {
		return nil, fmt.Errorf("save workouts: %w", err)
	}

	log.Debugf("workouts: updated [%s]", id)
	return &w, nil
}

// Delete removes the workout. Personal records it contributed to are kept.
func (l *Log) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.collection.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return ErrWorkoutNotFound
	}

	updated := append(all[:idx:idx], all[idx+1:]...)
	if err := l.collection.Save(ctx, updated); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}

	log.Debugf("workouts: deleted [%s]", id)
	return nil
}

func (l *Log) Get(ctx context.Context, id string) (_ Workout, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	all, err := l.List(ctx)
	if err != nil {
		return Workout{}, false, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return Workout{}, false, nil
	}
	return all[idx], true, nil
}

// List returns all workouts in storage order, most recently added first.
func (l *Log) List(ctx context.Context) ([]Workout, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.collection.Load(ctx)
}

// ListByDate returns the workouts on the given calendar day (YYYY-MM-DD).
func (l *Log) ListByDate(ctx context.Context, day string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list-by-date")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", day))

	all, err := l.List(ctx)
	if err != nil {
		return nil, err
	}

	found := make([]Workout, 0)
	for _, w := range all {
		if w.Day() == day {
			found = append(found, w)
		}
	}
	return found, nil
}

// History returns all workouts sorted by date, newest first.
// Workouts on the same date keep their storage order.
func (l *Log) History(ctx context.Context) ([]Workout, error) {
	all, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})
	return all, nil
}

func indexOf(all []Workout, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
