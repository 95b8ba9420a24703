package recommendation

// Track is the course orientation axis.
type Track string

// Level is the rigor axis within a track.
type Level string

const (
	TrackAA Track = "AA"
	TrackAI Track = "AI"

	LevelHL Level = "HL"
	LevelSL Level = "SL"
)

// Result is the outcome of scoring one answer set. Values are never mutated after Compute returns.
type Result struct {
	Track           Track   `json:"track"`
	Level           Level   `json:"level"`
	Course          string  `json:"course"`
	Confidence      int     `json:"confidence"`
	TrackConfidence int     `json:"courseConfidence"`
	LevelConfidence int     `json:"levelConfidence"`
	Details         Details `json:"details"`
}

// Details holds the human-readable feedback attached to a result.
type Details struct {
	Focus  string `json:"focus"`
	Style  string `json:"style"`
	Advice string `json:"advice"`
}

// Course returns the display label stored alongside submissions, e.g. "AA HL".
func Course(track Track, level Level) string {
	return string(track) + " " + string(level)
}
