package submissions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"coursefit-backend/internal/catalog"
	"coursefit-backend/internal/queue"
	"coursefit-backend/internal/recommendation"
	"coursefit-backend/internal/shared/metrics"
	"coursefit-backend/internal/shared/storage/object"
	"coursefit-backend/internal/shared/telemetry"
)

const (
	maxNameLength   = 120
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service validates, scores and stores questionnaire submissions.
type Service struct {
	Repo    Repo
	Catalog *catalog.Catalog
	Engine  *recommendation.Engine
	Queue   queue.Client
	Store   object.ObjectStore
	Now     func() time.Time
}

// SubmitInput is a student's completed questionnaire.
type SubmitInput struct {
	Name      string
	Teacher   string
	Answers   map[string]string
	RequestID string
}

// Page is one slice of a newest-first listing.
type Page struct {
	Items  []Submission `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Export is an encoded dashboard export.
type Export struct {
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Preview scores a partial or complete answer set without storing it.
func (s *Service) Preview(answers map[string]string) recommendation.Result {
	metrics.IncPreview()
	return s.Engine.Compute(answers)
}

// Submit checks identity and completeness, computes the recommendation and stores it.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Submission, error) {
	name := strings.TrimSpace(in.Name)
	teacher := strings.TrimSpace(in.Teacher)
	if name == "" {
		metrics.IncSubmissionRejected()
		return Submission{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		metrics.IncSubmissionRejected()
		return Submission{}, fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if !s.Catalog.HasTeacher(teacher) {
		metrics.IncSubmissionRejected()
		return Submission{}, fmt.Errorf("%w: teacher must be chosen from the roster", ErrInvalidInput)
	}

	completeness := s.Catalog.Check(in.Answers)
	if !completeness.Complete() {
		metrics.IncSubmissionRejected()
		return Submission{}, &IncompleteError{Completeness: completeness}
	}

	result := s.Engine.Compute(in.Answers)
	sub := Submission{
		ID:             uuid.NewString(),
		Name:           name,
		Teacher:        teacher,
		Answers:        in.Answers,
		Recommendation: result,
		CreatedAt:      s.now(),
	}

	start := time.Now()
	if err := s.Repo.Create(ctx, sub); err != nil {
		return Submission{}, fmt.Errorf("store submission: %w", err)
	}
	metrics.ObserveSubmitDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	metrics.IncSubmissionAccepted(result.Course, result.Confidence)

	s.notify(ctx, sub, in.RequestID)
	return sub, nil
}

// notify publishes the submission event; a queue failure never fails the submission.
func (s *Service) notify(ctx context.Context, sub Submission, requestID string) {
	if s.Queue == nil {
		return
	}
	msg := queue.SubmissionCreated(sub.ID, sub.Teacher, sub.Recommendation.Course, sub.Recommendation.Confidence, requestID, sub.CreatedAt)
	if err := s.Queue.Send(ctx, msg); err != nil {
		telemetry.Error("submission.notify_failed", telemetry.Fields{
			"submission_id": sub.ID,
			"request_id":    requestID,
			"error":         err,
		})
	}
}

// List returns submissions visible to scope, newest first.
func (s *Service) List(ctx context.Context, scope Scope, limit, offset int) (Page, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.Repo.List(ctx, Filter{Teacher: scope.Teacher, Limit: limit, Offset: offset})
	if err != nil {
		return Page{}, fmt.Errorf("list submissions: %w", err)
	}
	total, err := s.Repo.Count(ctx, scope.Teacher)
	if err != nil {
		return Page{}, fmt.Errorf("count submissions: %w", err)
	}
	return Page{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns one submission; submissions outside scope read as not found.
func (s *Service) Get(ctx context.Context, scope Scope, id string) (Submission, error) {
	if strings.TrimSpace(id) == "" {
		return Submission{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if !scope.Allows(sub) {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

// Export encodes every submission visible to scope.
func (s *Service) Export(ctx context.Context, scope Scope, format Format) (Export, error) {
	subs, err := s.Repo.List(ctx, Filter{Teacher: scope.Teacher})
	if err != nil {
		return Export{}, fmt.Errorf("list submissions: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteExport(&buf, format, subs); err != nil {
		return Export{}, fmt.Errorf("encode %s export: %w", format, err)
	}
	metrics.IncExport()
	return Export{
		FileName:    FileName(format, s.now()),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
		Rows:        len(subs),
	}, nil
}

var errNoStore = errors.New("object store not configured")

func archiveNamespace(scope Scope) string {
	if scope.Teacher == "" {
		return "all"
	}
	return scope.Teacher
}

// Archive writes an export into the object store under fileName and returns
// its storage key. An empty fileName keeps the timestamped download name.
func (s *Service) Archive(ctx context.Context, scope Scope, format Format, fileName string) (string, Export, error) {
	if s.Store == nil {
		return "", Export{}, errNoStore
	}
	exp, err := s.Export(ctx, scope, format)
	if err != nil {
		return "", Export{}, err
	}
	if fileName != "" {
		exp.FileName = fileName
	}
	key, _, err := s.Store.Save(ctx, archiveNamespace(scope), exp.FileName, exp.ContentType, bytes.NewReader(exp.Body))
	if err != nil {
		return "", Export{}, fmt.Errorf("archive export: %w", err)
	}
	return key, exp, nil
}

// RefreshSnapshot overwrites the stable snapshot for scope and format.
func (s *Service) RefreshSnapshot(ctx context.Context, scope Scope, format Format) (string, Export, error) {
	return s.Archive(ctx, scope, format, SnapshotName(format))
}

// OpenSnapshot reads back the latest snapshot for scope. The caller closes
// the returned reader. A snapshot that was never written reads as ErrNotFound.
func (s *Service) OpenSnapshot(ctx context.Context, scope Scope, format Format) (io.ReadCloser, error) {
	if s.Store == nil {
		return nil, errNoStore
	}
	key, err := object.Key(archiveNamespace(scope), SnapshotName(format))
	if err != nil {
		return nil, err
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	return rc, nil
}
