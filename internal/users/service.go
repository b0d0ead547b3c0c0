package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/internal/stores"
	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	"github.com/adityapratama/shopeasy-backend/pkg/enums"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/security"
)

// ListParams is the admin user listing query.
type ListParams struct {
	Role    *enums.UserRole
	Search  string
	Page    int
	PerPage int
}

// Service is the admin-facing account management surface.
type Service interface {
	List(ctx context.Context, params ListParams) ([]models.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	// ChangeRole updates the role and, when the new role can sell,
	// provisions a storefront for the user in the same transaction.
	ChangeRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, password string) error
	// SetActive enables or disables logins for the account. Admins cannot
	// lock themselves out.
	SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*models.User, error)
	// Delete removes the account and its cart lines. Admins cannot delete
	// themselves.
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type txRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error

type service struct {
	repo   Repository
	stores stores.Service
	hasher *security.Hasher
	runTx  txRunner
}

func NewService(repo Repository, storeSvc stores.Service, hasher *security.Hasher, gdb *gorm.DB) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if gdb == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	return &service{
		repo:   repo,
		stores: storeSvc,
		hasher: hasher,
		runTx: func(ctx context.Context, fn func(tx *gorm.DB) error) error {
			return db.WithTx(ctx, gdb, fn)
		},
	}, nil
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.User, int64, error) {
	if params.Role != nil && !params.Role.Valid() {
		return nil, 0, apperrors.New(apperrors.CodeValidation, "unknown role")
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	filter := ListFilter{Role: params.Role, Search: params.Search}
	users, total, err := s.repo.List(ctx, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, err, "listing users")
	}
	return users, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
	}
	return user, nil
}

func (s *service) ChangeRole(ctx context.Context, id uuid.UUID, role enums.UserRole) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.New(apperrors.CodeValidation, "unknown role")
	}

	var updated *models.User
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.GetByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return apperrors.New(apperrors.CodeNotFound, "user not found")
			}
			return apperrors.Wrap(apperrors.CodeInternal, err, "loading user")
		}

		if err := repo.UpdateRole(ctx, id, role); err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "updating role")
		}
		user.Role = role

		if role.CanSell() {
			if _, err := s.stores.EnsureStoreExists(ctx, tx, user); err != nil {
				return err
			}
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return apperrors.New(apperrors.CodeValidation, "password must be at least 8 characters")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "hashing password")
	}

	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "updating password")
	}
	return nil
}

func (s *service) SetActive(ctx context.Context, actorID, id uuid.UUID, active bool) (*models.User, error) {
	if actorID == id && !active {
		return nil, apperrors.New(apperrors.CodeValidation, "cannot deactivate your own account")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating account status")
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return apperrors.New(apperrors.CodeValidation, "cannot delete your own account")
	}

	return s.runTx(ctx, func(tx *gorm.DB) error {
		// Orders are financial records and must outlive the buyer, so an
		// account with history cannot be removed.
		var orders int64
		if err := tx.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", id).Count(&orders).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "counting orders")
		}
		if orders > 0 {
			return apperrors.New(apperrors.CodeConflict, "user has order history").
				WithDetails(map[string]any{"orders": orders})
		}

		// Carts are buyer-private, drop their lines with the account.
		if err := tx.WithContext(ctx).Delete(&models.CartItem{}, "user_id = ?", id).Error; err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "clearing cart")
		}

		if err := s.repo.WithTx(tx).Delete(ctx, id); err != nil {
			if db.IsNotFound(err) {
				return apperrors.New(apperrors.CodeNotFound, "user not found")
			}
			return apperrors.Wrap(apperrors.CodeInternal, err, "deleting user")
		}
		return nil
	})
}

func (s *service) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, err, "counting users")
	}
	return total, nil
}
