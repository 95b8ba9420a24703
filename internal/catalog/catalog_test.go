package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursefit-backend/internal/recommendation"
)

func mustDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func fullAnswers(c *Catalog, value string) map[string]string {
	answers := map[string]string{}
	for _, id := range c.QuestionIDs() {
		answers[id] = value
	}
	return answers
}

func TestDefaultCatalogMatchesDefaultWeights(t *testing.T) {
	c := mustDefault(t)

	require.NoError(t, c.ValidateWeights(recommendation.DefaultWeights()))
	assert.Equal(t, 25, c.QuestionCount())
	assert.Len(t, c.Sections, 5)
	for _, s := range c.Sections {
		assert.Len(t, s.Questions, 5, s.Key)
	}
	assert.True(t, c.HasTeacher("Mr. Radia"))
	assert.True(t, c.HasTeacher("[TEST] Development Testing"))
	assert.False(t, c.HasTeacher("mr. radia"))

	q, ok := c.Question("future1")
	require.True(t, ok)
	assert.True(t, q.HasOption("ai_sl"))
	assert.False(t, q.HasOption("ai_xx"))
}

func TestLoadRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"no_sections": "version: x\n",
		"bad_option": `
sections:
  - key: s
    questions:
      - id: q1
        options: [{value: aa_xx, label: x}]
`,
		"duplicate_id": `
sections:
  - key: s
    questions:
      - id: q1
        options: [{value: aa_hl, label: x}]
      - id: q1
        options: [{value: aa_hl, label: x}]
`,
		"unknown_field": `
sections:
  - key: s
    colour: red
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestValidateWeightsDetectsMismatch(t *testing.T) {
	c := mustDefault(t)

	w := recommendation.DefaultWeights()
	delete(w.Track, "skill3")
	assert.ErrorIs(t, c.ValidateWeights(w), ErrInvalidCatalog)

	w = recommendation.DefaultWeights()
	w.Track["bonus"] = 1
	assert.ErrorIs(t, c.ValidateWeights(w), ErrInvalidCatalog)
}

func TestCheckCompleteness(t *testing.T) {
	c := mustDefault(t)

	full := fullAnswers(c, "aa_sl")
	got := c.Check(full)
	assert.True(t, got.Complete())
	assert.Equal(t, 25, got.Answered)

	delete(full, "interest2")
	delete(full, "interest4")
	full["skill1"] = "aa_xx"
	full["bonus"] = "aa_hl"
	got = c.Check(full)
	assert.False(t, got.Complete())
	assert.Equal(t, 22, got.Answered)
	assert.Equal(t, []SectionGap{
		{Section: "interest", Title: "Interest & Enjoyment", Count: 2},
		{Section: "skills", Title: "Skills & Confidence", Count: 1},
	}, got.Unanswered)
	assert.Equal(t, []string{"skill1"}, got.Invalid)
	assert.Equal(t, []string{"bonus"}, got.Unknown)
}

func TestShuffledIsDeterministicPermutation(t *testing.T) {
	c := mustDefault(t)

	a := c.Shuffled(42)
	b := c.Shuffled(42)
	assert.Equal(t, a.QuestionIDs(), b.QuestionIDs())
	assert.ElementsMatch(t, c.QuestionIDs(), a.QuestionIDs())

	for si, section := range a.Sections {
		assert.Equal(t, c.Sections[si].Key, section.Key)
		for _, q := range section.Questions {
			orig, ok := c.Question(q.ID)
			require.True(t, ok)
			assert.ElementsMatch(t, orig.Options, q.Options)
		}
	}

	// The source catalog is untouched.
	first, _ := c.Question("career_field1")
	assert.Equal(t, "aa_hl", first.Options[0].Value)
	assert.Equal(t, "career_field1", c.QuestionIDs()[0])
}

func TestLoadReportsSchemaViolations(t *testing.T) {
	doc := `
version: "1"
teachers: [Ms. Lee]
sections:
  - key: s
    title: Section
    questions:
      - id: q1
        text: Question
        options:
          - {value: aa_hl, label: x}
          - {value: AI-SL, label: y}
`
	_, err := Load(strings.NewReader(doc))
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "value")
}

func TestLoadChecksDuplicatesAfterSchema(t *testing.T) {
	doc := `
version: "1"
teachers: [Ms. Lee]
sections:
  - key: s
    title: Section
    questions:
      - id: q1
        text: Question
        options: [{value: aa_hl, label: x}, {value: ai_sl, label: y}]
      - id: q1
        text: Again
        options: [{value: aa_hl, label: x}, {value: ai_sl, label: y}]
`
	_, err := Load(strings.NewReader(doc))
	require.ErrorIs(t, err, ErrInvalidCatalog)
	assert.Contains(t, err.Error(), "duplicate question id")
}
