package progress

import (
	"context"
	"sort"

	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Point is the best set of one exercise on one day.
type Point struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	// Reps of the set that gave the day's best weight.
	Reps int `json:"reps"`
}

type SeriesParams struct {
	ExerciseID string
	// Reps, if set, keeps only sets with exactly this many reps.
	Reps *int
}

type workoutsLister interface {
	List(ctx context.Context) ([]workouts.Workout, error)
}

// Builder derives chartable progress series by replaying the workout log.
// Nothing is cached: every call reads the current log.
type Builder struct {
	workoutsLog workoutsLister
}

func NewBuilder(workoutsLog workoutsLister) *Builder {
	return &Builder{
		workoutsLog: workoutsLog,
	}
}

// BuildSeries returns one point per calendar day the exercise was logged, with
// the max weight of that day, in ascending date order. Only the first log of
// the exercise in each workout is considered.
func (b *Builder) BuildSeries(ctx context.Context, params SeriesParams) (_ []Point, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.build-series")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))
	if params.Reps != nil {
		span.SetAttributes(attribute.Int("reps", *params.Reps))
	}

	all, err := b.workoutsLog.List(ctx)
	if err != nil {
		return nil, err
	}
	sortByDateAsc(all)

	points := make([]Point, 0)
	dayIndex := make(map[string]int)
	for _, w := range all {
		exLog, ok := w.ExerciseLog(params.ExerciseID)
		if !ok {
			continue
		}

		day := w.Day()
		for _, set := range exLog.Sets {
			if params.Reps != nil && set.Reps != *params.Reps {
				continue
			}

			idx, seen := dayIndex[day]
			if !seen {
				dayIndex[day] = len(points)
				points = append(points, Point{
					Date:   day,
					Weight: set.Weight,
					Reps:   set.Reps,
				})
				continue
			}
			if set.Weight > points[idx].Weight {
				points[idx].Weight = set.Weight
				points[idx].Reps = set.Reps
			}
		}
	}

	// days from differently zoned dates may interleave
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})

	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}

// AvailableRepCounts returns the distinct rep counts ever logged for the
// exercise, ascending.
func (b *Builder) AvailableRepCounts(ctx context.Context, exerciseID string) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.available-rep-counts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	all, err := b.workoutsLog.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	repCounts := make([]int, 0)
	for _, w := range all {
		exLog, ok := w.ExerciseLog(exerciseID)
		if !ok {
			continue
		}
		for _, set := range exLog.Sets {
			if _, ok := seen[set.Reps]; ok {
				continue
			}
			seen[set.Reps] = struct{}{}
			repCounts = append(repCounts, set.Reps)
		}
	}
	sort.Ints(repCounts)

	return repCounts, nil
}

func sortByDateAsc(all []workouts.Workout) {
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})
}
