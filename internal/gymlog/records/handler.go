package records

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type recordsRepo interface {
	List(ctx context.Context) ([]PersonalRecord, error)
	GetRecord(ctx context.Context, exerciseID string) (PersonalRecord, bool, error)
	GetMaxWeight(ctx context.Context, exerciseID string, reps int) (float64, bool, error)
	Dashboard(ctx context.Context, muscleGroup string) ([]DashboardItem, error)
}

type MaxWeightResponse struct {
	ExerciseID string  `json:"exerciseId"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
}

type Handler struct {
	repo recordsRepo
}

func NewHandler(repo recordsRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.list")
	defer span.End()

	all, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("failed to list personal records: %s", err)
		http.Error(w, "error, failed to get personal records", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, all)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.dashboard")
	defer span.End()

	muscleGroup := r.URL.Query().Get("muscle_group")
	span.SetAttributes(attribute.String("muscle_group", muscleGroup))

	items, err := handler.repo.Dashboard(ctx, muscleGroup)
	if err != nil {
		log.Errorf("failed to get records dashboard: %s", err)
		http.Error(w, "error, failed to get personal records", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, items)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.get")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	record, found, err := handler.repo.GetRecord(ctx, exerciseID)
	if err != nil {
		log.Errorf("failed to get personal record %s: %s", exerciseID, err)
		http.Error(w, "error, failed to get personal record", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "personal record not found", http.StatusNotFound)
		return
	}

	handler.writeJSON(w, record)
}

func (handler *Handler) HandleGetMaxWeight(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.records.max-weight")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID := vars["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}
	reps, err := strconv.Atoi(vars["reps"])
	if err != nil || reps <= 0 {
		http.Error(w, "error, reps must be a positive number", http.StatusBadRequest)
		return
	}

	weight, found, err := handler.repo.GetMaxWeight(ctx, exerciseID, reps)
	if err != nil {
		log.Errorf("failed to get max weight %s/%d: %s", exerciseID, reps, err)
		http.Error(w, "error, failed to get personal record", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "personal record not found", http.StatusNotFound)
		return
	}

	handler.writeJSON(w, MaxWeightResponse{
		ExerciseID: exerciseID,
		Reps:       reps,
		Weight:     weight,
	})
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal records response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, http.StatusOK)
}
