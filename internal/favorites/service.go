// Package favorites lets signed-in shoppers star products.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/micronstore/storefront/pkg/db"
	"github.com/micronstore/storefront/pkg/db/models"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"gorm.io/gorm"
)

const MsgProductNotFound = "Product not found"

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
}

type repository interface {
	Exists(ctx context.Context, userID uuid.UUID, productID uint) (bool, error)
	Add(ctx context.Context, userID uuid.UUID, productID uint) error
	Remove(ctx context.Context, userID uuid.UUID, productID uint) error
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uint, error)
	ListProducts(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo     repository
	Products productLoader
}

// Service exposes favorite rules.
type Service struct {
	repo     repository
	products productLoader
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &Service{repo: params.Repo, products: params.Products}, nil
}

// AddResult reports the favorited product and whether it was already there.
type AddResult struct {
	Product          *models.Product
	AlreadyFavorited bool
}

// SuccessMessage is shown when the product was added.
func (r AddResult) SuccessMessage() string {
	return fmt.Sprintf("%s added to favorites!", r.Product.Name)
}

// AlreadyMessage is shown when the product was favorited before.
func (r AddResult) AlreadyMessage() string {
	return fmt.Sprintf("%s is already in favorites!", r.Product.Name)
}

// Add stars the product for the user.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, productID uint) (AddResult, error) {
	if userID == uuid.Nil {
		return AddResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, MsgProductNotFound)
		}
		return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	if exists {
		return AddResult{Product: product, AlreadyFavorited: true}, nil
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		if db.IsUniqueViolation(err) {
			return AddResult{Product: product, AlreadyFavorited: true}, nil
		}
		return AddResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return AddResult{Product: product}, nil
}

// Remove unstars the product. Unknown favorites are a no-op.
func (s *Service) Remove(ctx context.Context, userID uuid.UUID, productID uint) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// IDs returns the user's favorites as a set. Anonymous users have none.
func (s *Service) IDs(ctx context.Context, userID uuid.UUID) (map[uint]struct{}, error) {
	out := map[uint]struct{}{}
	if userID == uuid.Nil {
		return out, nil
	}
	ids, err := s.repo.ProductIDs(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// List returns the user's favorited products.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	products, err := s.repo.ListProducts(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return products, nil
}
