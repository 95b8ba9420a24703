package recommendation

import "math"

// Engine scores answer sets against a fixed pair of weight tables.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	weights  Weights
	maxTrack int
	maxLevel int
	total    int
}

var defaultEngine = mustEngine(DefaultWeights())

// NewEngine builds an engine over a private copy of the given tables.
func NewEngine(w Weights) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	w = w.clone()
	return &Engine{
		weights:  w,
		maxTrack: w.Track.Sum(),
		maxLevel: w.Level.Sum(),
		total:    w.Track.Len(),
	}, nil
}

func mustEngine(w Weights) *Engine {
	e, err := NewEngine(w)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns the engine over DefaultWeights.
func Default() *Engine {
	return defaultEngine
}

// Compute scores answers with the default weight tables.
func Compute(answers map[string]string) Result {
	return defaultEngine.Compute(answers)
}

// Weights returns a copy of the engine's tables.
func (e *Engine) Weights() Weights {
	return e.weights.clone()
}

// QuestionCount is the denominator of the completeness discount.
func (e *Engine) QuestionCount() int {
	return e.total
}

// Compute turns an answer set (question id -> option value) into a recommendation.
// Partial and malformed input is accepted: unknown values score nothing but still
// count as answered.
func (e *Engine) Compute(answers map[string]string) Result {
	var (
		aaScore, aiScore int
		hlScore, slScore int
		answered         int
	)

	for questionID, value := range answers {
		answered++

		trackTag, levelTag, ok := splitAnswer(value)
		if !ok {
			continue
		}

		switch trackTag {
		case tagAA:
			aaScore += e.weights.Track.Get(questionID)
		case tagAI:
			aiScore += e.weights.Track.Get(questionID)
		}

		switch levelTag {
		case tagHL:
			hlScore += e.weights.Level.Get(questionID)
		case tagSL:
			slScore += e.weights.Level.Get(questionID)
		}
	}

	// The second option only wins on a strict lead.
	track, trackScore := TrackAA, aaScore
	if aiScore > aaScore {
		track, trackScore = TrackAI, aiScore
	}
	level, levelScore := LevelHL, hlScore
	if slScore > hlScore {
		level, levelScore = LevelSL, slScore
	}

	ratio := 0.0
	if e.total > 0 {
		// Keys outside the catalog still count as answered; cap so confidence stays <= 100.
		ratio = math.Min(float64(answered)/float64(e.total), 1)
	}
	trackConfidence := roundHalfUp(float64(axisConfidence(trackScore, e.maxTrack)) * ratio)
	levelConfidence := roundHalfUp(float64(axisConfidence(levelScore, e.maxLevel)) * ratio)
	confidence := min(trackConfidence, levelConfidence)

	focus, style := describe(track, level)
	return Result{
		Track:           track,
		Level:           level,
		Course:          Course(track, level),
		Confidence:      confidence,
		TrackConfidence: trackConfidence,
		LevelConfidence: levelConfidence,
		Details: Details{
			Focus:  focus,
			Style:  style,
			Advice: advise(confidence, track, level, trackConfidence, levelConfidence),
		},
	}
}

func axisConfidence(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return roundHalfUp(float64(score) / float64(maxScore) * 100)
}

// roundHalfUp matches the rounding the stored results were produced with (.5 goes up).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
