package submissions

import (
	"time"

	"coursefit-backend/internal/recommendation"
)

// Submission is a stored questionnaire result.
type Submission struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Teacher        string                `json:"teacher"`
	Answers        map[string]string     `json:"answers"`
	Recommendation recommendation.Result `json:"recommendation"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// Scope restricts which submissions a caller may see. An empty Teacher means all.
type Scope struct {
	Teacher string
}

// Allows reports whether the scope covers a submission.
func (s Scope) Allows(sub Submission) bool {
	return s.Teacher == "" || s.Teacher == sub.Teacher
}

// Filter selects submissions newest first. Limit <= 0 returns every match.
type Filter struct {
	Teacher string
	Limit   int
	Offset  int
}
