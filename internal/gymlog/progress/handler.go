package progress

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type seriesBuilder interface {
	BuildSeries(ctx context.Context, params SeriesParams) ([]Point, error)
	AvailableRepCounts(ctx context.Context, exerciseID string) ([]int, error)
}

type SeriesResponse struct {
	ExerciseID string  `json:"exerciseId"`
	Reps       *int    `json:"reps,omitempty"`
	Points     []Point `json:"points"`
}

type Handler struct {
	builder seriesBuilder
}

func NewHandler(builder seriesBuilder) *Handler {
	return &Handler{
		builder: builder,
	}
}

func (handler *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.series")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	params := SeriesParams{
		ExerciseID: exerciseID,
	}
	if repsStr := r.URL.Query().Get("reps"); repsStr != "" && repsStr != "all" {
		reps, err := strconv.Atoi(repsStr)
		if err != nil || reps < 0 {
			http.Error(w, "error, reps must be a number", http.StatusBadRequest)
			return
		}
		params.Reps = &reps
	}

	points, err := handler.builder.BuildSeries(ctx, params)
	if err != nil {
		log.Errorf("failed to build progress series for %s: %s", exerciseID, err)
		http.Error(w, "error, failed to build progress series", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, SeriesResponse{
		ExerciseID: exerciseID,
		Reps:       params.Reps,
		Points:     points,
	})
}

func (handler *Handler) HandleRepCounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.rep-counts")
	defer span.End()

	exerciseID := mux.Vars(r)["exerciseId"]
	if exerciseID == "" {
		http.Error(w, "error, exercise id empty", http.StatusBadRequest)
		return
	}

	repCounts, err := handler.builder.AvailableRepCounts(ctx, exerciseID)
	if err != nil {
		log.Errorf("failed to get rep counts for %s: %s", exerciseID, err)
		http.Error(w, "error, failed to get rep counts", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, repCounts)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal progress response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, http.StatusOK)
}
