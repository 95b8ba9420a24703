package recommendation

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrInvalidWeights = errors.New("invalid weights")

// WeightTable maps a question id to its importance on one axis.
type WeightTable map[string]int

// Get returns the weight for a question, or 0 when the question is not listed.
func (t WeightTable) Get(questionID string) int {
	return t[questionID]
}

// Sum returns the maximum score reachable on the axis.
func (t WeightTable) Sum() int {
	total := 0
	for _, w := range t {
		total += w
	}
	return total
}

// Len returns the number of weighted questions.
func (t WeightTable) Len() int {
	return len(t)
}

// Keys returns the question ids in lexical order.
func (t WeightTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Weights groups the per-axis tables. Track also defines the question count used
// for the completeness discount.
type Weights struct {
	Track WeightTable `yaml:"track" json:"track"`
	Level WeightTable `yaml:"level" json:"level"`
}

// Validate checks the tables can back an engine.
func (w Weights) Validate() error {
	if w.Track.Len() == 0 {
		return fmt.Errorf("%w: track table is empty", ErrInvalidWeights)
	}
	for _, id := range w.Track.Keys() {
		if w.Track[id] < 0 {
			return fmt.Errorf("%w: negative track weight for %q", ErrInvalidWeights, id)
		}
	}
	for _, id := range w.Level.Keys() {
		if w.Level[id] < 0 {
			return fmt.Errorf("%w: negative level weight for %q", ErrInvalidWeights, id)
		}
		if _, ok := w.Track[id]; !ok {
			return fmt.Errorf("%w: level weight for %q has no track entry", ErrInvalidWeights, id)
		}
	}
	return nil
}

func (w Weights) clone() Weights {
	return Weights{Track: maps.Clone(w.Track), Level: maps.Clone(w.Level)}
}

// LoadWeights reads a YAML document of the form
//
//	track: {career_field1: 2, ...}
//	level: {career_field1: 1, ...}
func LoadWeights(r io.Reader) (Weights, error) {
	var w Weights
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&w); err != nil {
		return Weights{}, fmt.Errorf("decode weights: %w", err)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// DefaultWeights returns the production weight tables for the 25-question catalog.
func DefaultWeights() Weights {
	return Weights{
		Track: WeightTable{
			"career_field1":      2,
			"career_path1":       2,
			"career_math_role1":  2,
			"career_motivation1": 1,
			"career_university1": 2,
			"interest1":          2,
			"interest2":          2,
			"interest3":          2,
			"interest4":          1,
			"interest5":          1,
			"skill1":             1,
			"skill2":             1,
			"skill3":             2,
			"skill4":             1,
			"skill5":             1,
			"learning1":          1,
			"learning2":          1,
			"learning3":          2,
			"learning4":          1,
			"learning5":          1,
			"future1":            2,
			"future2":            2,
			"future3":            2,
			"future4":            1,
			"future5":            1,
		},
		Level: WeightTable{
			"career_field1":      1,
			"career_path1":       1,
			"career_math_role1":  2,
			"career_motivation1": 2,
			"career_university1": 2,
			"interest1":          2,
			"interest2":          1,
			"interest3":          1,
			"interest4":          2,
			"interest5":          2,
			"skill1":             2,
			"skill2":             2,
			"skill3":             1,
			"skill4":             2,
			"skill5":             2,
			"learning1":          2,
			"learning2":          2,
			"learning3":          1,
			"learning4":          2,
			"learning5":          2,
			"future1":            3,
			"future2":            2,
			"future3":            2,
			"future4":            1,
			"future5":            2,
		},
	}
}
