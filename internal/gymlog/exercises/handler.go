package exercises

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	params := FilterParams{
		Search:      r.URL.Query().Get("search"),
		Category:    r.URL.Query().Get("category"),
		MuscleGroup: r.URL.Query().Get("muscle_group"),
	}
	span.SetAttributes(attribute.String("search", params.Search))

	if params.Category != "" && !Category(params.Category).Valid() {
		http.Error(w, "error, unknown category", http.StatusBadRequest)
		return
	}

	handler.writeJSON(w, handler.catalog.Filter(params))
}

func (handler *Handler) HandleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.muscle-groups")
	defer span.End()

	handler.writeJSON(w, handler.catalog.ListMuscleGroups())
}

func (handler *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.categories")
	defer span.End()

	handler.writeJSON(w, handler.catalog.ListCategories())
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal exercises response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resJson, http.StatusOK)
}
