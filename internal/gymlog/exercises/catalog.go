package exercises

import (
	"sort"
	"strings"
)

const UnknownExerciseName = "Unknown"

// Catalog is the read-only list of known exercises. It is safe for
// concurrent use since it never changes after construction.
type Catalog struct {
	exercises    []Exercise
	exercisesMap map[string]Exercise
	muscleGroups []string
	categories   []string
}

func NewCatalog(exercises []Exercise) *Catalog {
	c := &Catalog{
		exercises:    make([]Exercise, 0, len(exercises)),
		exercisesMap: make(map[string]Exercise, len(exercises)),
	}

	seenMuscleGroups := make(map[string]struct{})
	seenCategories := make(map[Category]struct{})
	for _, e := range exercises {
		if _, ok := c.exercisesMap[e.ID]; ok {
			// first definition wins
			continue
		}
		c.exercises = append(c.exercises, e)
		c.exercisesMap[e.ID] = e

		if _, ok := seenMuscleGroups[e.MuscleGroup]; !ok {
			seenMuscleGroups[e.MuscleGroup] = struct{}{}
			c.muscleGroups = append(c.muscleGroups, e.MuscleGroup)
		}
		if _, ok := seenCategories[e.Category]; !ok {
			seenCategories[e.Category] = struct{}{}
			c.categories = append(c.categories, string(e.Category))
		}
	}
	sort.Strings(c.muscleGroups)

	return c
}

func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultExercises())
}

func (c *Catalog) GetExercise(id string) (Exercise, bool) {
	e, ok := c.exercisesMap[id]
	return e, ok
}

// DisplayName returns the exercise name, or "Unknown" for ids not in the catalog.
func (c *Catalog) DisplayName(id string) string {
	if e, ok := c.exercisesMap[id]; ok {
		return e.Name
	}
	return UnknownExerciseName
}

func (c *Catalog) ListAll() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// ListMuscleGroups returns the distinct muscle groups, sorted.
func (c *Catalog) ListMuscleGroups() []string {
	out := make([]string, len(c.muscleGroups))
	copy(out, c.muscleGroups)
	return out
}

// ListCategories returns the distinct categories in catalog order.
func (c *Catalog) ListCategories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

type FilterParams struct {
	// Search is matched case-insensitively against the exercise name.
	Search      string
	Category    string
	MuscleGroup string
}

// Filter returns exercises matching all the non-empty params, in catalog order.
func (c *Catalog) Filter(params FilterParams) []Exercise {
	search := strings.ToLower(params.Search)
	out := make([]Exercise, 0)
	for _, e := range c.exercises {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if params.Category != "" && string(e.Category) != params.Category {
			continue
		}
		if params.MuscleGroup != "" && e.MuscleGroup != params.MuscleGroup {
			continue
		}
		out = append(out, e)
	}
	return out
}
