package records

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PersonalRecord holds, for one exercise, the best weight ever lifted at each rep count.
type PersonalRecord struct {
	ExerciseID string          `json:"exerciseId"`
	Records    map[int]float64 `json:"records"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Entry struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Entries returns the records ordered by rep count.
func (r PersonalRecord) Entries() []Entry {
	entries := make([]Entry, 0, len(r.Records))
	for reps, weight := range r.Records {
		entries = append(entries, Entry{
			Reps:   reps,
			Weight: weight,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Reps < entries[j].Reps
	})
	return entries
}

// BestWeight is the max weight over all rep counts, 0 when there are no records.
func (r PersonalRecord) BestWeight() float64 {
	var best float64
	for _, weight := range r.Records {
		if weight > best {
			best = weight
		}
	}
	return best
}

// Format renders the records as "80kg x 5, 60kg x 10", ordered by rep count.
func (r PersonalRecord) Format() string {
	parts := make([]string, 0, len(r.Records))
	for _, e := range r.Entries() {
		parts = append(parts, fmt.Sprintf("%skg x %d", strconv.FormatFloat(e.Weight, 'f', -1, 64), e.Reps))
	}
	return strings.Join(parts, ", ")
}

// Improvement is one strict increase of a record, produced by RecordWorkout.
type Improvement struct {
	ExerciseID string   `json:"exerciseId"`
	Reps       int      `json:"reps"`
	Weight     float64  `json:"weight"`
	Previous   *float64 `json:"previous,omitempty"`
}
