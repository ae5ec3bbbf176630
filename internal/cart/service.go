package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/micronstore/storefront/pkg/db/models"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
	"gorm.io/gorm"
)

// Messages shown to shoppers.
const (
	MsgOutOfStock      = "Product is out of stock"
	MsgNotEnoughStock  = "Not enough stock available"
	MsgProductNotFound = "Product not found"
	MsgAdded           = "Product added to cart"
	MsgUpdated         = "Cart updated"
	MsgRemoved         = "Product removed from cart"
	MsgCleared         = "Cart cleared"
)

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
}

type couponLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Coupon, error)
}

// ServiceParams groups the cart service dependencies.
type ServiceParams struct {
	Store    *Store
	Products productLoader
	Coupons  couponLoader
	Logger   *logger.Logger
}

// Service applies the storefront's cart rules on top of the session store.
type Service struct {
	store    *Store
	products productLoader
	coupons  couponLoader
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon loader required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{store: params.Store, products: params.Products, coupons: params.Coupons, logg: logg}, nil
}

// Add validates stock and adds qty of the product. With override the line
// quantity is replaced instead of incremented.
func (s *Service) Add(ctx context.Context, sessionID string, productID uint, qty int, override bool) (Totals, error) {
	if qty < 1 {
		return Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return Totals{}, err
	}
	if product.Quantity == 0 {
		return Totals{}, pkgerrors.New(pkgerrors.CodeOutOfStock, MsgOutOfStock)
	}
	if qty > product.Quantity {
		return Totals{}, pkgerrors.New(pkgerrors.CodeOutOfStock, MsgNotEnoughStock).
			WithDetails(map[string]any{"available": product.Quantity})
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	c.Add(*product, qty, override)
	if err := s.save(ctx, sessionID, c); err != nil {
		return Totals{}, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id": productID,
		"quantity":   qty,
		"override":   override,
	}), "cart.item.added")
	return s.compute(ctx, c)
}

// Remove drops the product's line. Unknown products are a no-op.
func (s *Service) Remove(ctx context.Context, sessionID string, productID uint) (Totals, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	if c.Remove(productID) {
		if err := s.save(ctx, sessionID, c); err != nil {
			return Totals{}, err
		}
	}
	return s.compute(ctx, c)
}

// Clear empties the cart and forgets the applied coupon.
func (s *Service) Clear(ctx context.Context, sessionID string) (Totals, error) {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return New().Compute(nil), nil
}

// Totals summarises the session's cart.
func (s *Service) Totals(ctx context.Context, sessionID string) (Totals, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	return s.compute(ctx, c)
}

// SetCoupon stores couponID on the cart; nil removes the coupon.
func (s *Service) SetCoupon(ctx context.Context, sessionID string, couponID *uint) (Totals, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	c.CouponID = couponID
	if err := s.save(ctx, sessionID, c); err != nil {
		return Totals{}, err
	}
	return s.compute(ctx, c)
}

// Adjustment records a change made to keep the cart within stock.
type Adjustment struct {
	ProductID uint
	Name      string
	Removed   bool
	Quantity  int
}

// Message is the warning shown to the shopper.
func (a Adjustment) Message() string {
	if a.Removed {
		return fmt.Sprintf("'%s' has been removed from your cart as it is no longer available.", a.Name)
	}
	return fmt.Sprintf("Quantity for '%s' has been adjusted to %d due to limited stock.", a.Name, a.Quantity)
}

// Reconcile brings the cart in line with current stock: unavailable products
// are removed and quantities above stock are lowered.
func (s *Service) Reconcile(ctx context.Context, sessionID string) ([]Adjustment, Totals, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, Totals{}, err
	}
	ids := c.ProductIDs()
	if len(ids) == 0 {
		totals, err := s.compute(ctx, c)
		return nil, totals, err
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	var adjustments []Adjustment
	for _, p := range products {
		item, ok := c.Item(p.ID)
		if !ok {
			continue
		}
		switch {
		case !p.Available || p.Quantity == 0:
			c.Remove(p.ID)
			adjustments = append(adjustments, Adjustment{ProductID: p.ID, Name: p.Name, Removed: true})
		case p.Quantity < item.Quantity:
			c.Add(p, p.Quantity, true)
			adjustments = append(adjustments, Adjustment{ProductID: p.ID, Name: p.Name, Quantity: p.Quantity})
		}
	}

	if len(adjustments) > 0 {
		if err := s.save(ctx, sessionID, c); err != nil {
			return nil, Totals{}, err
		}
		s.logg.Warn(s.logg.WithField(ctx, "adjustments", len(adjustments)), "cart.reconciled")
	}
	totals, err := s.compute(ctx, c)
	return adjustments, totals, err
}

func (s *Service) loadProduct(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, MsgProductNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, sessionID string, c *Cart) error {
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

// compute resolves the applied coupon. A coupon that no longer exists is
// treated as no coupon.
func (s *Service) compute(ctx context.Context, c *Cart) (Totals, error) {
	if c.CouponID == nil {
		return c.Compute(nil), nil
	}
	coupon, err := s.coupons.FindByID(ctx, *c.CouponID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Compute(nil), nil
		}
		return Totals{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	return c.Compute(coupon), nil
}
