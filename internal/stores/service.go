package stores

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adityapratama/shopeasy-backend/pkg/db"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
)

// Service manages seller storefronts.
type Service interface {
	// EnsureStoreExists creates a default storefront for the user if they
	// do not already own one. Safe to call repeatedly.
	EnsureStoreExists(ctx context.Context, tx *gorm.DB, user *models.User) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
	UpdateProfile(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.Store, error)
	SetLogo(ctx context.Context, ownerID uuid.UUID, logoPath string) (*models.Store, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) EnsureStoreExists(ctx context.Context, tx *gorm.DB, user *models.User) (*models.Store, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	existing, err := repo.GetByOwner(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	if !db.IsNotFound(err) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "looking up store")
	}

	store := &models.Store{
		OwnerID: user.ID,
		Name:    defaultStoreName(user.Name),
	}
	if err := repo.Create(ctx, store); err != nil {
		if db.IsUniqueViolation(err) {
			return repo.GetByOwner(ctx, user.ID)
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "creating store")
	}
	return store, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "loading store")
	}
	return store, nil
}

func (s *service) UpdateProfile(ctx context.Context, ownerID uuid.UUID, name, description string) (*models.Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "store name is required")
	}

	store, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	store.Name = name
	store.Description = strings.TrimSpace(description)
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "updating store")
	}
	return store, nil
}

func (s *service) SetLogo(ctx context.Context, ownerID uuid.UUID, logoPath string) (*models.Store, error) {
	store, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	store.LogoPath = logoPath
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "saving store logo")
	}
	return store, nil
}

func defaultStoreName(ownerName string) string {
	ownerName = strings.TrimSpace(ownerName)
	if ownerName == "" {
		return "My Store"
	}
	return ownerName + "'s Store"
}
