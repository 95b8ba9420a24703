package submissions

import (
	"time"

	"coursefit-backend/internal/catalog"
	"coursefit-backend/internal/recommendation"
)

type answersRequest struct {
	Answers map[string]string `json:"answers"`
}

type submitRequest struct {
	Name    string            `json:"name"`
	Teacher string            `json:"teacher"`
	Answers map[string]string `json:"answers"`
}

type previewResponse struct {
	Recommendation recommendation.Result `json:"recommendation"`
	Completeness   catalog.Completeness  `json:"completeness"`
}

// ResultSummary is the dashboard row for a submission.
type ResultSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Teacher    string    `json:"teacher"`
	Course     string    `json:"recommendedCourse"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"timestamp"`
}

type resultsResponse struct {
	Items  []ResultSummary `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toSummary(sub Submission) ResultSummary {
	return ResultSummary{
		ID:         sub.ID,
		Name:       sub.Name,
		Teacher:    sub.Teacher,
		Course:     sub.Recommendation.Course,
		Confidence: sub.Recommendation.Confidence,
		CreatedAt:  sub.CreatedAt,
	}
}

func toResultsResponse(page Page) resultsResponse {
	items := make([]ResultSummary, 0, len(page.Items))
	for _, sub := range page.Items {
		items = append(items, toSummary(sub))
	}
	return resultsResponse{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}
