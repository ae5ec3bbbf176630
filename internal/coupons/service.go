// Package coupons validates and redeems percentage coupons.
package coupons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/micronstore/storefront/pkg/db"
	"github.com/micronstore/storefront/pkg/db/models"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"gorm.io/gorm"
)

// Messages shown to shoppers.
const (
	MsgInvalidCode  = "Invalid coupon code"
	MsgUsageLimit   = "This coupon has reached its usage limit."
	MsgApplied      = "Coupon applied successfully"
	MsgRemoved      = "Coupon removed successfully."
	MsgInvalidForm  = "Invalid form"
	MaxCodeLength   = 50
	maxDiscountRate = 100
)

type repository interface {
	FindByID(ctx context.Context, id uint) (*models.Coupon, error)
	FindRedeemable(ctx context.Context, code string, now time.Time) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, c *models.Coupon) error
}

// Service exposes coupon rules.
type Service struct {
	repo repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Redeem finds the coupon for code and records one use of it.
func (s *Service) Redeem(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > MaxCodeLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, MsgInvalidForm)
	}

	coupon, err := s.repo.FindRedeemable(ctx, code, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, MsgInvalidCode)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	if !coupon.HasUsesLeft() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, MsgUsageLimit)
	}

	ok, err := s.repo.IncrementUsage(ctx, coupon.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record coupon use")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, MsgUsageLimit)
	}
	coupon.UsedCount++
	return coupon, nil
}

// FindByID loads a coupon by id.
func (s *Service) FindByID(ctx context.Context, id uint) (*models.Coupon, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateInput describes a new coupon.
type CreateInput struct {
	Code      string
	ValidFrom time.Time
	ValidTo   time.Time
	Discount  int
	Active    bool
	MaxUses   *int
}

// Create validates and stores a coupon.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Coupon, error) {
	code := strings.TrimSpace(in.Code)
	switch {
	case code == "" || len(code) > MaxCodeLength:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code must be 1 to 50 characters")
	case in.Discount < 0 || in.Discount > maxDiscountRate:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	case !in.ValidTo.After(in.ValidFrom):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "The 'valid_to' date must be after the 'valid_from' date.")
	case in.MaxUses != nil && *in.MaxUses < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "max uses cannot be negative")
	}

	c := &models.Coupon{
		Code:      code,
		ValidFrom: in.ValidFrom,
		ValidTo:   in.ValidTo,
		Discount:  in.Discount,
		Active:    in.Active,
		MaxUses:   in.MaxUses,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "Coupon with this code already exists.")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	return c, nil
}
