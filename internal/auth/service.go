package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/internal/users"
	pkgauth "github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/auth/session"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/security"
	"github.com/adityapratama/shopeasy-backend/pkg/types"
)

// RegisterInput is the signup payload. New accounts always start as buyers.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput carries the fields a user may change on their own
// account. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name    *string
	Address *types.Address
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Service handles account lifecycle and token issuance.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, *TokenPair, error)
	// Refresh trades a valid refresh token for a fresh pair, rotating the
	// refresh token in the process.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error)
}

// sessionStore is the slice of the session manager this service needs.
type sessionStore interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, refreshToken string) (uuid.UUID, error)
	Revoke(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     users.Repository
	hasher   *security.Hasher
	tokens   *pkgauth.TokenManager
	sessions sessionStore
}

func NewService(repo users.Repository, hasher *security.Hasher, tokens *pkgauth.TokenManager, sessions sessionStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{repo: repo, hasher: hasher, tokens: tokens, sessions: sessions}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)

	if email == "" || name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "email and name are required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.New(apperrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         enums.RoleBuyer,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "email already registered")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating user")
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil, badCredentials()
		}
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, nil, badCredentials()
	}
	if !user.IsActive {
		return nil, nil, apperrors.New(apperrors.CodeForbidden, "account is disabled")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.sessions.Resolve(ctx, refreshToken)
	if err != nil {
		if err == session.ErrNotFound {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "resolving session")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil, apperrors.New(apperrors.CodeForbidden, "account is disabled")
	}

	return s.issuePair(ctx, user)
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "name must not be empty")
		}
		user.Name = name
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating profile")
	}
	return user, nil
}

func (s *service) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "issuing access token")
	}

	refresh, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "issuing refresh token")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	}, nil
}

func badCredentials() error {
	return apperrors.New(apperrors.CodeUnauthorized, "invalid email or password")
}
