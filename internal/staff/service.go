package staff

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coursefit-backend/internal/shared/auth"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// compared against when the email is unknown so both paths cost one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("coursefit-placeholder"), bcryptCost)

// CreateInput describes a new staff account.
type CreateInput struct {
	Email    string
	Name     string
	Role     Role
	Teacher  string
	Password string
}

// Session is an issued staff token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Member    Member    `json:"staff"`
}

type Service struct {
	Repo    Repo
	Issuer  *auth.Issuer
	Revoker auth.Revoker
	// InRoster, when set, rejects teacher accounts bound to unknown roster labels.
	InRoster func(label string) bool
}

func NewService(repo Repo, issuer *auth.Issuer, revoker auth.Revoker) *Service {
	return &Service{Repo: repo, Issuer: issuer, Revoker: revoker}
}

// Create validates and stores a staff account, hashing the password with bcrypt.
// An empty password creates a Google-only account.
func (s *Service) Create(ctx context.Context, in CreateInput) (Member, error) {
	if s == nil || s.Repo == nil {
		return Member{}, errors.New("staff service not configured")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return Member{}, fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Member{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Role.Valid() {
		return Member{}, fmt.Errorf("%w: role must be admin or teacher", ErrInvalidInput)
	}
	teacher := strings.TrimSpace(in.Teacher)
	if in.Role == RoleTeacher {
		if teacher == "" {
			return Member{}, fmt.Errorf("%w: teacher accounts need a roster label", ErrInvalidInput)
		}
		if s.InRoster != nil && !s.InRoster(teacher) {
			return Member{}, fmt.Errorf("%w: %q is not in the teacher roster", ErrInvalidInput, teacher)
		}
	}

	member := Member{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Role:      in.Role,
		Teacher:   teacher,
		CreatedAt: time.Now().UTC(),
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return Member{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
		if err != nil {
			return Member{}, fmt.Errorf("hash password: %w", err)
		}
		member.PasswordHash = string(hash)
	}

	if err := s.Repo.Create(ctx, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

// Authenticate checks an email/password pair against the directory.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Member, error) {
	member, err := s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return Member{}, ErrInvalidCredentials
		}
		return Member{}, err
	}
	if member.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Member{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)) != nil {
		return Member{}, ErrInvalidCredentials
	}
	return member, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	member, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.Issue(member)
}

// LookupEmail returns the member registered under email, for external sign-in.
func (s *Service) LookupEmail(ctx context.Context, email string) (Member, error) {
	return s.Repo.GetByEmail(ctx, strings.TrimSpace(email))
}

// Issue signs a token carrying the member's role and roster scope.
func (s *Service) Issue(member Member) (Session, error) {
	if s.Issuer == nil {
		return Session{}, errors.New("token issuer not configured")
	}
	token, err := s.Issuer.Sign(auth.Claims{
		Email:            member.Email,
		Name:             member.Name,
		Role:             string(member.Role),
		Teacher:          member.Scope(),
		RegisteredClaims: jwt.RegisteredClaims{Subject: member.ID},
	})
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	claims, err := s.Issuer.Verify(token)
	if err != nil {
		return Session{}, fmt.Errorf("verify issued token: %w", err)
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Member: member}, nil
}

// Logout revokes a token id until its natural expiry.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.Revoker == nil || tokenID == "" {
		return nil
	}
	return s.Revoker.Revoke(ctx, tokenID, expiresAt)
}

func (s *Service) GetByID(ctx context.Context, id string) (Member, error) {
	if strings.TrimSpace(id) == "" {
		return Member{}, fmt.Errorf("%w: staff id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, id)
}
