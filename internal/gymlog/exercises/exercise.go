package exercises

type Category string

const (
	CategoryMachine    Category = "machine"
	CategoryFreeWeight Category = "free_weight"
	CategoryBodyweight Category = "bodyweight"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMachine, CategoryFreeWeight, CategoryBodyweight:
		return true
	default:
		return false
	}
}

type Exercise struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	MuscleGroup string   `json:"muscleGroup"`
	Pictogram   string   `json:"pictogram,omitempty"`
}
