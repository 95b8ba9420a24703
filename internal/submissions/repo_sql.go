package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"coursefit-backend/internal/recommendation"
	"coursefit-backend/internal/shared/storage/db"
)

// SQLRepo stores submissions in Postgres or SQLite depending on Dialect.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

const submissionColumns = `id, student_name, teacher, course, track, level, confidence, track_confidence, level_confidence, focus, style, advice, answers, created_at`

func (r *SQLRepo) Create(ctx context.Context, sub Submission) error {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	const query = `
INSERT INTO submissions (` + submissionColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res := sub.Recommendation
	_, err = r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		sub.ID,
		sub.Name,
		sub.Teacher,
		res.Course,
		string(res.Track),
		string(res.Level),
		res.Confidence,
		res.TrackConfidence,
		res.LevelConfidence,
		res.Details.Focus,
		res.Details.Style,
		res.Details.Advice,
		string(answers),
		sub.CreatedAt.UTC(),
	)
	return err
}

func (r *SQLRepo) GetByID(ctx context.Context, id string) (Submission, error) {
	query := `SELECT ` + submissionColumns + `
FROM submissions
WHERE id = ?
LIMIT 1`
	sub, err := scanSubmission(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return sub, nil
}

func (r *SQLRepo) List(ctx context.Context, filter Filter) ([]Submission, error) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT ` + submissionColumns + `
FROM submissions`)
	if filter.Teacher != "" {
		b.WriteString(`
WHERE teacher = ?`)
		args = append(args, filter.Teacher)
	}
	b.WriteString(`
ORDER BY created_at DESC, id DESC`)
	if filter.Limit > 0 {
		b.WriteString(`
LIMIT ? OFFSET ?`)
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	rows, err := r.DB.QueryContext(ctx, r.Dialect.Rebind(b.String()), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (r *SQLRepo) Count(ctx context.Context, teacher string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions`
	var args []any
	if teacher != "" {
		query += ` WHERE teacher = ?`
		args = append(args, teacher)
	}
	var n int
	if err := r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var (
		sub     Submission
		res     recommendation.Result
		track   string
		level   string
		answers []byte
	)
	err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Teacher,
		&res.Course,
		&track,
		&level,
		&res.Confidence,
		&res.TrackConfidence,
		&res.LevelConfidence,
		&res.Details.Focus,
		&res.Details.Style,
		&res.Details.Advice,
		&answers,
		&sub.CreatedAt,
	)
	if err != nil {
		return Submission{}, err
	}
	res.Track = recommendation.Track(track)
	res.Level = recommendation.Level(level)
	sub.Recommendation = res
	sub.Answers = map[string]string{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &sub.Answers); err != nil {
			return Submission{}, fmt.Errorf("decode answers for %s: %w", sub.ID, err)
		}
	}
	sub.CreatedAt = sub.CreatedAt.UTC()
	return sub, nil
}
