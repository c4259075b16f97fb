package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Get(ctx context.Context, id string) (Workout, bool, error)
	History(ctx context.Context) ([]Workout, error)
	ListByDate(ctx context.Context, day string) ([]Workout, error)
}

type workoutsService interface {
	SaveWorkout(ctx context.Context, workout Workout) (*Workout, error)
	UpdateWorkout(ctx context.Context, id string, update WorkoutUpdate) (*Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
	RepeatWorkout(ctx context.Context, id string) ([]ExerciseLog, error)
	NewExerciseLog(ctx context.Context, exerciseID string) (ExerciseLog, error)
}

type HistoryItem struct {
	Workout
	Summary         string  `json:"summary"`
	TotalVolume     float64 `json:"totalVolume"`
	DurationSeconds *int64  `json:"durationSeconds,omitempty"`
}

type DeleteWorkoutResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo    workoutsRepo
	service workoutsService
	namer   exerciseNamer
}

func NewHandler(repo workoutsRepo, service workoutsService, namer exerciseNamer) *Handler {
	return &Handler{
		repo:    repo,
		service: service,
		namer:   namer,
	}
}

func (handler *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.save")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("save workout, unmarshal json params: %s", err)
		http.Error(w, "save workout failed", http.StatusBadRequest)
		return
	}

	saved, err := handler.service.SaveWorkout(ctx, workout)
	if errors.Is(err, ErrNoExercises) || errors.Is(err, ErrInvalidWorkout) {
		log.Tracef("save workout refused: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to save workout: %s", err)
		http.Error(w, "error, failed to save workout", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, saved, http.StatusCreated)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.history")
	defer span.End()

	all, err := handler.repo.History(ctx)
	if err != nil {
		log.Errorf("failed to get workouts history: %s", err)
		http.Error(w, "error, failed to get workouts", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, handler.historyItems(all), http.StatusOK)
}

func (handler *Handler) HandleListByDate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list-by-date")
	defer span.End()

	day := mux.Vars(r)["day"]
	if _, err := time.Parse(DayLayout, day); err != nil {
		http.Error(w, "error, invalid day, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("day", day))

	found, err := handler.repo.ListByDate(ctx, day)
	if err != nil {
		log.Errorf("failed to list workouts for %s: %s", day, err)
		http.Error(w, "error, failed to get workouts", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, handler.historyItems(found), http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	workout, found, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get workout %s: %s", id, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	handler.writeJSON(w, handler.historyItem(workout), http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var update WorkoutUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Tracef("update workout, unmarshal json params: %s", err)
		http.Error(w, "update workout failed", http.StatusBadRequest)
		return
	}

	updated, err := handler.service.UpdateWorkout(ctx, id, update)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrNoExercises) || errors.Is(err, ErrInvalidWorkout) {
		log.Tracef("update workout %s refused: %s", id, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to update workout %s: %s", id, err)
		http.Error(w, "error, failed to update workout", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	err := handler.service.DeleteWorkout(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete workout %s: %s", id, err)
		http.Error(w, "error, failed to delete workout", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, DeleteWorkoutResponse{DeletedID: id}, http.StatusOK)
}

// HandleRepeat returns the exercise logs of a past workout, to seed a new session.
func (handler *Handler) HandleRepeat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.repeat")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	logs, err := handler.service.RepeatWorkout(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to repeat workout %s: %s", id, err)
		http.Error(w, "error, failed to repeat workout", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, logs, http.StatusOK)
}

// HandleNewExerciseLog returns a one-set log for the exercise, prefilled
// with the best weight of its personal record across all rep counts.
func (handler *Handler) HandleNewExerciseLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new-log")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("exercise_id", exerciseID))

	exLog, err := handler.service.NewExerciseLog(ctx, exerciseID)
	if errors.Is(err, ErrUnknownExercise) {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to prepare log for exercise %s: %s", exerciseID, err)
		http.Error(w, "error, failed to prepare exercise log", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, exLog, http.StatusOK)
}

func (handler *Handler) historyItems(all []Workout) []HistoryItem {
	items := make([]HistoryItem, 0, len(all))
	for _, workout := range all {
		items = append(items, handler.historyItem(workout))
	}
	return items
}

func (handler *Handler) historyItem(workout Workout) HistoryItem {
	item := HistoryItem{
		Workout:     workout,
		Summary:     Summary(workout, handler.namer),
		TotalVolume: workout.TotalVolume(),
	}
	if duration, ok := workout.Duration(); ok {
		seconds := int64(duration.Seconds())
		item.DurationSeconds = &seconds
	}
	return item
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any, status int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal workouts response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, status)
}
