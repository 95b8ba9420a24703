package recommendation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	require.NoError(t, w.Validate())
	assert.Equal(t, 25, w.Track.Len())
	assert.Equal(t, 37, w.Track.Sum())
	assert.Equal(t, 44, w.Level.Sum())
	assert.ElementsMatch(t, w.Track.Keys(), w.Level.Keys())
	assert.Zero(t, w.Track.Get("missing"))
	assert.Equal(t, 3, w.Level.Get("future1"))
}

func TestWeightsValidate(t *testing.T) {
	cases := map[string]Weights{
		"empty_track":    {Track: WeightTable{}, Level: WeightTable{}},
		"negative_track": {Track: WeightTable{"q1": -1}},
		"negative_level": {Track: WeightTable{"q1": 1}, Level: WeightTable{"q1": -2}},
		"orphan_level":   {Track: WeightTable{"q1": 1}, Level: WeightTable{"q2": 1}},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			err := w.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidWeights))
		})
	}
}

func TestLoadWeights(t *testing.T) {
	doc := `
track:
  q1: 2
  q2: 1
level:
  q1: 1
`
	w, err := LoadWeights(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 3, w.Track.Sum())
	assert.Equal(t, 1, w.Level.Sum())

	_, err = LoadWeights(strings.NewReader("track: {q1: 1}\nbonus: {q1: 1}\n"))
	assert.Error(t, err)

	_, err = LoadWeights(strings.NewReader("track: {}\n"))
	assert.ErrorIs(t, err, ErrInvalidWeights)
}

func TestNewEngineCopiesTables(t *testing.T) {
	w := Weights{Track: WeightTable{"q1": 1}, Level: WeightTable{"q1": 1}}
	engine, err := NewEngine(w)
	require.NoError(t, err)

	w.Track["q1"] = 50
	w.Track["q2"] = 50

	assert.Equal(t, 1, engine.QuestionCount())
	assert.Equal(t, 1, engine.Weights().Track.Get("q1"))
	res := engine.Compute(map[string]string{"q1": "ai_sl"})
	assert.Equal(t, 100, res.TrackConfidence)
}
