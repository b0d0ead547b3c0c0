package media

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/adityapratama/shopeasy-backend/internal/catalog"
	"github.com/adityapratama/shopeasy-backend/internal/stores"
	"github.com/adityapratama/shopeasy-backend/pkg/auth"
	"github.com/adityapratama/shopeasy-backend/pkg/db/models"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/storage"
)

// Service attaches uploaded images to product listings and storefronts.
type Service interface {
	// AttachProductImage stores the upload and points the product at it.
	AttachProductImage(ctx context.Context, actor auth.Actor, productID uuid.UUID, upload io.Reader, filename string) (*models.Product, error)
	// AttachStoreLogo stores the upload as the logo of the actor's store.
	AttachStoreLogo(ctx context.Context, ownerID uuid.UUID, upload io.Reader, filename string) (*models.Store, error)
	OpenImage(name string) (io.ReadCloser, error)
}

type service struct {
	store   *storage.LocalStore
	catalog catalog.Service
	stores  stores.Service
}

func NewService(store *storage.LocalStore, catalogSvc catalog.Service, storeSvc stores.Service) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("media store is required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	if storeSvc == nil {
		return nil, fmt.Errorf("store service is required")
	}
	return &service{store: store, catalog: catalogSvc, stores: storeSvc}, nil
}

func (s *service) AttachProductImage(ctx context.Context, actor auth.Actor, productID uuid.UUID, upload io.Reader, filename string) (*models.Product, error) {
	name, err := s.store.SaveImage(upload, filename)
	if err != nil {
		if err == storage.ErrUnsupportedImage {
			return nil, apperrors.New(apperrors.CodeValidation, "unsupported image format")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "storing image")
	}

	product, err := s.catalog.SetProductImage(ctx, actor, productID, name)
	if err != nil {
		// Ownership or lookup failed, do not leave the file behind.
		_ = s.store.Remove(name)
		return nil, err
	}

	return product, nil
}

func (s *service) AttachStoreLogo(ctx context.Context, ownerID uuid.UUID, upload io.Reader, filename string) (*models.Store, error) {
	name, err := s.store.SaveImage(upload, filename)
	if err != nil {
		if err == storage.ErrUnsupportedImage {
			return nil, apperrors.New(apperrors.CodeValidation, "unsupported image format")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "storing image")
	}

	store, err := s.stores.SetLogo(ctx, ownerID, name)
	if err != nil {
		_ = s.store.Remove(name)
		return nil, err
	}
	return store, nil
}

func (s *service) OpenImage(name string) (io.ReadCloser, error) {
	f, err := s.store.Open(name)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "image not found")
	}
	return f, nil
}
