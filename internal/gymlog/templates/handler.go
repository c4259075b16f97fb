package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type templatesRepo interface {
	Add(ctx context.Context, params NewTemplateParams) (*WorkoutTemplate, error)
	CreateFromWorkout(ctx context.Context, name, description string, logs []workouts.ExerciseLog) (*WorkoutTemplate, error)
	Update(ctx context.Context, id string, update TemplateUpdate) (*WorkoutTemplate, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (WorkoutTemplate, bool, error)
	List(ctx context.Context) ([]WorkoutTemplate, error)
}

type workoutGetter interface {
	Get(ctx context.Context, id string) (workouts.Workout, bool, error)
}

type exerciseNamer interface {
	DisplayName(exerciseID string) string
}

// FromWorkoutRequest creates a template either from a saved workout
// (WorkoutID) or from the exercise logs of an unsaved session.
type FromWorkoutRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	WorkoutID   string                 `json:"workoutId,omitempty"`
	Exercises   []workouts.ExerciseLog `json:"exercises,omitempty"`
}

type DeleteTemplateResponse struct {
	DeletedID string `json:"deletedId"`
}

type Handler struct {
	repo           templatesRepo
	workoutsLog    workoutGetter
	namer          exerciseNamer
	metricsManager *metrics.Manager
}

func NewHandler(
	repo templatesRepo,
	workoutsLog workoutGetter,
	namer exerciseNamer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		workoutsLog:    workoutsLog,
		namer:          namer,
		metricsManager: metricsManager,
	}
}

// Describe lists the exercise names of the logs, the default template description.
func Describe(logs []workouts.ExerciseLog, namer exerciseNamer) string {
	names := make([]string, 0, len(logs))
	for _, exLog := range logs {
		names = append(names, namer.DisplayName(exLog.ExerciseID))
	}
	return strings.Join(names, ", ")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.add")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var params NewTemplateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Tracef("add template, unmarshal json params: %s", err)
		http.Error(w, "add template failed", http.StatusBadRequest)
		return
	}

	template, err := handler.repo.Add(ctx, params)
	if handler.writeIfRefused(w, err) {
		return
	}
	if err != nil {
		log.Errorf("failed to add template: %s", err)
		http.Error(w, "error, failed to add template", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterTemplatesCreated.Inc()
	handler.writeJSON(w, template, http.StatusCreated)
}

func (handler *Handler) HandleCreateFromWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.from-workout")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req FromWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("template from workout, unmarshal json params: %s", err)
		http.Error(w, "create template failed", http.StatusBadRequest)
		return
	}

	logs := req.Exercises
	if req.WorkoutID != "" {
		workout, found, err := handler.workoutsLog.Get(ctx, req.WorkoutID)
		if err != nil {
			log.Errorf("failed to get workout %s: %s", req.WorkoutID, err)
			http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
			return
		}
		if !found {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		logs = workout.Exercises
	}
	if len(logs) == 0 {
		http.Error(w, workouts.ErrNoExercises.Error(), http.StatusBadRequest)
		return
	}

	description := req.Description
	if description == "" {
		description = Describe(logs, handler.namer)
	}

	template, err := handler.repo.CreateFromWorkout(ctx, req.Name, description, logs)
	if handler.writeIfRefused(w, err) {
		return
	}
	if err != nil {
		log.Errorf("failed to create template from workout: %s", err)
		http.Error(w, "error, failed to create template", http.StatusInternalServerError)
		return
	}

	handler.metricsManager.CounterTemplatesCreated.Inc()
	handler.writeJSON(w, template, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.list")
	defer span.End()

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list templates: %s", err)
		http.Error(w, "error, failed to get templates", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, all, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.get")
	defer span.End()

	template, ok := handler.getTemplate(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	handler.writeJSON(w, template, http.StatusOK)
}

// HandleExerciseLogs expands the template into exercise logs for a new session.
func (handler *Handler) HandleExerciseLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.logs")
	defer span.End()

	template, ok := handler.getTemplate(ctx, w, mux.Vars(r)["id"])
	if !ok {
		return
	}
	handler.writeJSON(w, ToExerciseLogs(template), http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.update")
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

	var update TemplateUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Tracef("update template, unmarshal json params: %s", err)
		http.Error(w, "update template failed", http.StatusBadRequest)
		return
	}

	template, err := handler.repo.Update(ctx, id, update)
	if errors.Is(err, ErrTemplateNotFound) {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	if handler.writeIfRefused(w, err) {
		return
	}
	if err != nil {
		log.Errorf("failed to update template %s: %s", id, err)
		http.Error(w, "error, failed to update template", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, template, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.templates.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	err := handler.repo.Delete(ctx, id)
	if errors.Is(err, ErrTemplateNotFound) {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete template %s: %s", id, err)
		http.Error(w, "error, failed to delete template", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, DeleteTemplateResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) getTemplate(ctx context.Context, w http.ResponseWriter, id string) (WorkoutTemplate, bool) {
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return WorkoutTemplate{}, false
	}

	template, found, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("failed to get template %s: %s", id, err)
		http.Error(w, "error, failed to get template", http.StatusInternalServerError)
		return WorkoutTemplate{}, false
	}
	if !found {
		http.Error(w, "template not found", http.StatusNotFound)
		return WorkoutTemplate{}, false
	}
	return template, true
}

func (handler *Handler) writeIfRefused(w http.ResponseWriter, err error) bool {
	if errors.Is(err, ErrTemplateNameEmpty) || errors.Is(err, ErrInvalidTemplate) {
		log.Tracef("template refused: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return true
	}
	return false
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any, status int) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal templates response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, status)
}
