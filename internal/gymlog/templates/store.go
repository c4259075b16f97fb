package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymlog/internal/gymlog/workouts"
	"github.com/2beens/gymlog/internal/kvstore"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrTemplateNotFound  = errors.New("template not found")
	ErrTemplateNameEmpty = errors.New("template name empty")
	ErrInvalidTemplate   = errors.New("invalid template")
)

var validate = validator.New()

type NewTemplateParams struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Exercises   []TemplateExercise `json:"exercises"`
}

// TemplateUpdate holds the fields to merge into a template; nil fields are kept.
type TemplateUpdate struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Exercises   []TemplateExercise `json:"exercises,omitempty"`
}

// Store keeps the workout templates, most recently created first.
type Store struct {
	mu          sync.Mutex
	collection  *kvstore.Collection[WorkoutTemplate]
	idGenerator pkg.IDGenerator
	now         func() time.Time
}

func NewStore(store kvstore.Store, idGenerator pkg.IDGenerator) *Store {
	return &Store{
		collection:  kvstore.NewCollection[WorkoutTemplate](store, kvstore.KeyWorkoutTemplates),
		idGenerator: idGenerator,
		now:         time.Now,
	}
}

func (s *Store) Add(ctx context.Context, params NewTemplateParams) (_ *WorkoutTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	template := WorkoutTemplate{
		Name:        strings.TrimSpace(params.Name),
		Description: params.Description,
		Exercises:   params.Exercises,
		CreatedAt:   s.now(),
	}
	if template.Exercises == nil {
		template.Exercises = []TemplateExercise{}
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	template.ID = s.idGenerator.NewID()
	span.SetAttributes(attribute.String("id", template.ID))

	updated := make([]WorkoutTemplate, 0, len(all)+1)
	updated = append(updated, template)
	updated = append(updated, all...)
	if err := s.collection.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("save templates: %w", err)
	}

	log.Debugf("templates: added [%s] %q with %d exercises", template.ID, template.Name, len(template.Exercises))
	return &template, nil
}

// CreateFromWorkout stores a template summarizing the given exercise logs.
func (s *Store) CreateFromWorkout(ctx context.Context, name, description string, logs []workouts.ExerciseLog) (*WorkoutTemplate, error) {
	return s.Add(ctx, NewTemplateParams{
		Name:        name,
		Description: description,
		Exercises:   FromExerciseLogs(logs),
	})
}

func (s *Store) Update(ctx context.Context, id string, update TemplateUpdate) (_ *WorkoutTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.collection.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return nil, ErrTemplateNotFound
	}

	template := all[idx]
	if update.Name != nil {
		template.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		template.Description = *update.Description
	}
	if update.Exercises != nil {
		template.Exercises = update.Exercises
	}
	if err := validateTemplate(template); err != nil {
		return nil, err
	}
	all[idx] = template

	if err := s.collection.Save(ctx, all); err != nil {
		return nil, fmt.Errorf("save templates: %w", err)
	}

	log.Debugf("templates: updated [%s]", id)
	return &template, nil
}

func (s *Store) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.collection.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(all, id)
	if idx < 0 {
		return ErrTemplateNotFound
	}

	updated := append(all[:idx:idx], all[idx+1:]...)
	if err := s.collection.Save(ctx, updated); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}

	log.Debugf("templates: deleted [%s]", id)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (WorkoutTemplate, bool, error) {
	all, err := s.List(ctx)
	if err != nil {
		return WorkoutTemplate{}, false, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return WorkoutTemplate{}, false, nil
	}
	return all[idx], true, nil
}

func (s *Store) List(ctx context.Context) (_ []WorkoutTemplate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.templates.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collection.Load(ctx)
}

func validateTemplate(template WorkoutTemplate) error {
	if template.Name == "" {
		return ErrTemplateNameEmpty
	}
	if err := validate.Struct(template); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTemplate, err)
	}
	return nil
}

func indexOf(all []WorkoutTemplate, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
