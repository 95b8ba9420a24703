package recommendation

import "strings"

const (
	tagAA = "aa"
	tagAI = "ai"
	tagHL = "hl"
	tagSL = "sl"
)

var (
	trackTags = map[string]Track{tagAA: TrackAA, tagAI: TrackAI}
	levelTags = map[string]Level{tagHL: LevelHL, tagSL: LevelSL}
)

// Answer is a parsed option value.
type Answer struct {
	Track Track
	Level Level
}

// ParseAnswer parses an option value of the form "<track>_<level>", e.g. "ai_sl".
// Both tags must be known.
func ParseAnswer(value string) (Answer, bool) {
	trackTag, levelTag, ok := splitAnswer(value)
	if !ok {
		return Answer{}, false
	}
	track, okTrack := trackTags[trackTag]
	level, okLevel := levelTags[levelTag]
	if !okTrack || !okLevel {
		return Answer{}, false
	}
	return Answer{Track: track, Level: level}, true
}

// FormatAnswer is the inverse of ParseAnswer.
func FormatAnswer(track Track, level Level) string {
	return strings.ToLower(string(track)) + "_" + strings.ToLower(string(level))
}

// String returns the encoded option value.
func (a Answer) String() string {
	return FormatAnswer(a.Track, a.Level)
}

// splitAnswer only checks the two-part shape. Tags are matched per axis by the caller.
func splitAnswer(value string) (string, string, bool) {
	trackTag, levelTag, found := strings.Cut(value, "_")
	if !found || strings.Contains(levelTag, "_") {
		return "", "", false
	}
	return trackTag, levelTag, true
}
