package records

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/exercises"
	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type exerciseLookup interface {
	GetExercise(id string) (exercises.Exercise, bool)
}

// Aggregator maintains personal records incrementally, as workouts are saved.
type Aggregator struct {
	mu         sync.Mutex
	collection *kvstore.Collection[PersonalRecord]
	catalog    exerciseLookup
	now        func() time.Time
}

func NewAggregator(store kvstore.Store, catalog exerciseLookup) *Aggregator {
	return &Aggregator{
		collection: kvstore.NewCollection[PersonalRecord](store, kvstore.KeyPersonalRecords),
		catalog:    catalog,
		now:        time.Now,
	}
}

// RecordWorkout max-merges all sets of the workout into the records.
// Only strict improvements (or a first value for a rep count) change a record
// and its UpdatedAt; the collection is written only if something changed.
// Sets with no reps carry no record.
func (a *Aggregator) RecordWorkout(ctx context.Context, workout workouts.Workout) (_ []Improvement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.record-workout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	a.mu.Lock()
	defer a.mu.Unlock()

	all, err := a.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(all))
	for i, r := range all {
		index[r.ExerciseID] = i
	}

	now := a.now()
	improvements := make([]Improvement, 0)
	for _, exLog := range workout.Exercises {
		idx, exists := index[exLog.ExerciseID]

		var record PersonalRecord
		if exists {
			record = all[idx]
			if record.Records == nil {
				record.Records = make(map[int]float64)
			}
		} else {
			record = PersonalRecord{
				ExerciseID: exLog.ExerciseID,
				Records:    make(map[int]float64),
				UpdatedAt:  now,
			}
		}

		changed := false
		for _, set := range exLog.Sets {
			if set.Reps <= 0 {
				continue
			}
			current, ok := record.Records[set.Reps]
			if ok && set.Weight <= current {
				continue
			}

			improvement := Improvement{
				ExerciseID: exLog.ExerciseID,
				Reps:       set.Reps,
				Weight:     set.Weight,
			}
			if ok {
				previous := current
				improvement.Previous = &previous
			}
			improvements = append(improvements, improvement)

			record.Records[set.Reps] = set.Weight
			record.UpdatedAt = now
			changed = true
		}

		if !changed {
			continue
		}
		if exists {
			all[idx] = record
		} else {
			all = append(all, record)
			index[record.ExerciseID] = len(all) - 1
		}
	}

	span.SetAttributes(attribute.Int("improvements", len(improvements)))
	if len(improvements) == 0 {
		return improvements, nil
	}

	if err := a.collection.Save(ctx, all); err != nil {
		return nil, fmt.Errorf("save personal records: %w", err)
	}

	log.Debugf("records: workout [%s] improved %d records", workout.ID, len(improvements))
	return improvements, nil
}

func (a *Aggregator) GetRecord(ctx context.Context, exerciseID string) (PersonalRecord, bool, error) {
	all, err := a.List(ctx)
	if err != nil {
		return PersonalRecord{}, false, err
	}
	for _, r := range all {
		if r.ExerciseID == exerciseID {
			return r, true, nil
		}
	}
	return PersonalRecord{}, false, nil
}

func (a *Aggregator) GetMaxWeight(ctx context.Context, exerciseID string, reps int) (float64, bool, error) {
	record, found, err := a.GetRecord(ctx, exerciseID)
	if err != nil || !found {
		return 0, false, err
	}
	weight, ok := record.Records[reps]
	return weight, ok, nil
}

// DefaultWeight is the starting weight suggested for a new set: the best
// weight over all rep counts, or 0 for an exercise never logged.
func (a *Aggregator) DefaultWeight(ctx context.Context, exerciseID string) (float64, error) {
	record, found, err := a.GetRecord(ctx, exerciseID)
	if err != nil || !found {
		return 0, err
	}
	return record.BestWeight(), nil
}

func (a *Aggregator) List(ctx context.Context) (_ []PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	a.mu.Lock()
	defer a.mu.Unlock()

	return a.collection.Load(ctx)
}

type DashboardItem struct {
	Exercise   exercises.Exercise `json:"exercise"`
	Record     PersonalRecord     `json:"record"`
	Entries    []Entry            `json:"entries"`
	BestWeight float64            `json:"bestWeight"`
	Formatted  string             `json:"formatted"`
}

// Dashboard lists records of known exercises, optionally narrowed to one muscle
// group, with the heaviest best weight first.
func (a *Aggregator) Dashboard(ctx context.Context, muscleGroup string) ([]DashboardItem, error) {
	all, err := a.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]DashboardItem, 0, len(all))
	for _, record := range all {
		exercise, ok := a.catalog.GetExercise(record.ExerciseID)
		if !ok {
			continue
		}
		if muscleGroup != "" && exercise.MuscleGroup != muscleGroup {
			continue
		}
		items = append(items, DashboardItem{
			Exercise:   exercise,
			Record:     record,
			Entries:    record.Entries(),
			BestWeight: record.BestWeight(),
			Formatted:  record.Format(),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BestWeight > items[j].BestWeight
	})
	return items, nil
}
