package staff

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"coursefit-backend/internal/shared/storage/db"
)

// SQLRepo stores staff in Postgres or SQLite depending on Dialect.
type SQLRepo struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func (r *SQLRepo) Create(ctx context.Context, member Member) error {
	const query = `
INSERT INTO staff (id, email, name, role, teacher, password_hash, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, r.Dialect.Rebind(query),
		member.ID,
		strings.ToLower(member.Email),
		member.Name,
		string(member.Role),
		nullableString(member.Teacher),
		nullableString(member.PasswordHash),
		member.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *SQLRepo) GetByID(ctx context.Context, id string) (Member, error) {
	const query = `
SELECT id, email, name, role, teacher, password_hash, created_at
FROM staff
WHERE id = ?
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), id))
}

func (r *SQLRepo) GetByEmail(ctx context.Context, email string) (Member, error) {
	const query = `
SELECT id, email, name, role, teacher, password_hash, created_at
FROM staff
WHERE email = ?
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, r.Dialect.Rebind(query), strings.ToLower(email)))
}

func (r *SQLRepo) scanOne(row *sql.Row) (Member, error) {
	var member Member
	var role string
	var teacher sql.NullString
	var passwordHash sql.NullString
	err := row.Scan(
		&member.ID,
		&member.Email,
		&member.Name,
		&role,
		&teacher,
		&passwordHash,
		&member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	member.Role = Role(role)
	if teacher.Valid {
		member.Teacher = teacher.String
	}
	if passwordHash.Valid {
		member.PasswordHash = passwordHash.String
	}
	return member, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// isUniqueViolation matches the duplicate-key errors of pgx (SQLSTATE 23505) and SQLite.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "UNIQUE constraint failed")
}
