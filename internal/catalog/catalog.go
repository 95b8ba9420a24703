// Package catalog holds the questionnaire: sections, questions, option encodings
// and the teacher roster students pick from.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"coursefit-backend/internal/recommendation"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed schema.json
var catalogSchema []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// Option is one selectable answer. Value uses the "<track>_<level>" encoding.
type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Question is a single multiple-choice item.
type Question struct {
	ID      string   `yaml:"id" json:"id"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// Section groups questions into one wizard step.
type Section struct {
	Key         string     `yaml:"key" json:"key"`
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

// Catalog is the full questionnaire.
type Catalog struct {
	Version  string    `yaml:"version" json:"version"`
	Teachers []string  `yaml:"teachers" json:"teachers"`
	Sections []Section `yaml:"sections" json:"sections"`

	index map[string]indexEntry
}

type indexEntry struct {
	section  int
	question int
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML catalog, validates it against the catalog schema and
// checks the cross-references the schema cannot express.
func Load(r io.Reader) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.build(); err != nil {
		return nil, err
	}
	return &c, nil
}

func validateSchema(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validate catalog schema: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(problems, "; "))
}

func (c *Catalog) build() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("%w: no sections", ErrInvalidCatalog)
	}
	c.index = make(map[string]indexEntry)
	for si, section := range c.Sections {
		if strings.TrimSpace(section.Key) == "" {
			return fmt.Errorf("%w: section %d has no key", ErrInvalidCatalog, si)
		}
		for qi, q := range section.Questions {
			if strings.TrimSpace(q.ID) == "" {
				return fmt.Errorf("%w: section %q question %d has no id", ErrInvalidCatalog, section.Key, qi)
			}
			if _, dup := c.index[q.ID]; dup {
				return fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
			}
			if len(q.Options) == 0 {
				return fmt.Errorf("%w: question %q has no options", ErrInvalidCatalog, q.ID)
			}
			seen := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				if _, ok := recommendation.ParseAnswer(opt.Value); !ok {
					return fmt.Errorf("%w: question %q option %q is not a valid encoding", ErrInvalidCatalog, q.ID, opt.Value)
				}
				if seen[opt.Value] {
					return fmt.Errorf("%w: question %q repeats option %q", ErrInvalidCatalog, q.ID, opt.Value)
				}
				seen[opt.Value] = true
			}
			c.index[q.ID] = indexEntry{section: si, question: qi}
		}
	}
	return nil
}

// ValidateWeights checks the catalog and the weight tables describe the same
// question set, so the completeness discount divides by the catalog size.
func (c *Catalog) ValidateWeights(w recommendation.Weights) error {
	for id := range c.index {
		if _, ok := w.Track[id]; !ok {
			return fmt.Errorf("%w: question %q has no track weight", ErrInvalidCatalog, id)
		}
	}
	for _, id := range w.Track.Keys() {
		if _, ok := c.index[id]; !ok {
			return fmt.Errorf("%w: track weight %q has no question", ErrInvalidCatalog, id)
		}
	}
	return nil
}

// QuestionCount returns the number of questions across all sections.
func (c *Catalog) QuestionCount() int {
	return len(c.index)
}

// QuestionIDs returns ids in catalog order.
func (c *Catalog) QuestionIDs() []string {
	ids := make([]string, 0, len(c.index))
	for _, s := range c.Sections {
		for _, q := range s.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Question looks up a question by id.
func (c *Catalog) Question(id string) (Question, bool) {
	entry, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.Sections[entry.section].Questions[entry.question], true
}

// HasOption reports whether value is one of the question's options.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// HasTeacher reports whether name is on the roster.
func (c *Catalog) HasTeacher(name string) bool {
	for _, t := range c.Teachers {
		if t == name {
			return true
		}
	}
	return false
}
