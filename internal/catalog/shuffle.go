package catalog

import (
	"math/rand/v2"
	"slices"
	"sort"
)

// Shuffled returns a copy with questions shuffled inside each section and options
// shuffled inside each question. Section order is kept. The same seed always
// produces the same order.
func (c *Catalog) Shuffled(seed uint64) *Catalog {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	out := &Catalog{
		Version:  c.Version,
		Teachers: slices.Clone(c.Teachers),
		Sections: make([]Section, len(c.Sections)),
	}
	for si, section := range c.Sections {
		questions := make([]Question, len(section.Questions))
		for qi, q := range section.Questions {
			q.Options = slices.Clone(q.Options)
			rng.Shuffle(len(q.Options), func(i, j int) {
				q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
			})
			questions[qi] = q
		}
		rng.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		section.Questions = questions
		out.Sections[si] = section
	}
	// Rebuilding cannot fail: the source catalog already passed build.
	_ = out.build()
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
