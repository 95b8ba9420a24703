package catalog

// SectionGap counts unanswered questions in one section.
type SectionGap struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
}

// Completeness summarises how much of the catalog an answer set covers.
type Completeness struct {
	Answered   int          `json:"answered"`
	Total      int          `json:"total"`
	Unanswered []SectionGap `json:"unanswered,omitempty"`
	Invalid    []string     `json:"invalid,omitempty"`
	Unknown    []string     `json:"unknown,omitempty"`
}

// Complete reports whether every question has a valid answer and nothing else was sent.
func (c Completeness) Complete() bool {
	return len(c.Unanswered) == 0 && len(c.Invalid) == 0 && len(c.Unknown) == 0
}

// Check compares answers against the catalog. An answer only counts when its
// value is one of that question's options.
func (c *Catalog) Check(answers map[string]string) Completeness {
	out := Completeness{Total: len(c.index)}
	for _, section := range c.Sections {
		missing := 0
		for _, q := range section.Questions {
			value, ok := answers[q.ID]
			switch {
			case !ok || value == "":
				missing++
			case !q.HasOption(value):
				out.Invalid = append(out.Invalid, q.ID)
				missing++
			default:
				out.Answered++
			}
		}
		if missing > 0 {
			out.Unanswered = append(out.Unanswered, SectionGap{Section: section.Key, Title: section.Title, Count: missing})
		}
	}
	for _, id := range sortedKeys(answers) {
		if _, ok := c.index[id]; !ok {
			out.Unknown = append(out.Unknown, id)
		}
	}
	return out
}
