package recommendation

import (
	"strings"
	"testing"
)

func TestDescriptionsCoverEveryCourse(t *testing.T) {
	seen := map[string]bool{}
	for _, track := range []Track{TrackAA, TrackAI} {
		for _, level := range []Level{LevelHL, LevelSL} {
			focus, style := describe(track, level)
			if focus == "" || style == "" {
				t.Fatalf("missing description for %s %s", track, level)
			}
			if seen[focus] {
				t.Fatalf("focus text reused for %s %s", track, level)
			}
			seen[focus] = true
		}
	}
}

func TestAdviseBands(t *testing.T) {
	cases := []struct {
		name       string
		confidence int
		prefix     string
	}{
		{"strong_at_threshold", 80, "Your responses strongly indicate that AI SL"},
		{"moderate_upper", 79, "AI SL appears to be a good fit"},
		{"moderate_at_threshold", 60, "AI SL appears to be a good fit"},
		{"general_below", 59, "Your responses show mixed preferences"},
		{"general_zero", 0, "Your responses show mixed preferences"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := advise(tc.confidence, TrackAI, LevelSL, tc.confidence, tc.confidence+5)
			if !strings.HasPrefix(got, tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, got)
			}
		})
	}
}

func TestAdviseAxisTieNamesTrack(t *testing.T) {
	got := advise(70, TrackAI, LevelHL, 70, 70)
	want := " You show a clearer preference for AI (confidence of 70%), but it would be good to discuss whether HL is the right level for you."
	if !strings.HasSuffix(got, want) {
		t.Fatalf("expected track clause, got %q", got)
	}
}

func TestGeneralAdviceListsDiscussionPrompts(t *testing.T) {
	if n := strings.Count(generalAdvice, "• "); n != 3 {
		t.Fatalf("expected 3 prompts, got %d", n)
	}
}
