package client

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/micronstore/storefront/internal/storefront/filter"
	"github.com/micronstore/storefront/internal/storefront/flash"
	"github.com/micronstore/storefront/internal/storefront/price"
	"github.com/micronstore/storefront/internal/storefront/totals"
	"github.com/micronstore/storefront/internal/storefront/ui"
	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/micronstore/storefront/pkg/enums"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

const (
	CouponSectionSelector = ".coupon-section"
	couponApplyURLAttr    = "data-apply-url"
	couponRemoveURLAttr   = "data-remove-url"

	invalidCouponMessage = "Invalid coupon code"
)

// FavoriteFormSelector matches the favorite form of one product card.
func FavoriteFormSelector(productID uint) string {
	return fmt.Sprintf(`.favorite-product-form[data-product-id="%d"]`, productID)
}

// CartItemSelector matches the cart row of one product.
func CartItemSelector(productID uint) string {
	return fmt.Sprintf(`.cart-item[data-product-id="%d"]`, productID)
}

// Page wires the client to a document and reproduces the storefront's
// form handlers: every action reports through the flash banner and leaves
// its button usable again when it fails.
type Page struct {
	client     *Client
	doc        view.Document
	formatter  *price.Formatter
	reconciler *totals.Reconciler
	notifier   *flash.Notifier
	afterFunc  view.AfterFunc
	logg       *logger.Logger
}

type PageOption func(*pageOptions)

type pageOptions struct {
	fallback  price.Locale
	afterFunc view.AfterFunc
	logg      *logger.Logger
}

// WithFallbackLocale is used when the document carries no locale attributes.
func WithFallbackLocale(loc price.Locale) PageOption {
	return func(o *pageOptions) { o.fallback = loc }
}

func WithPageAfterFunc(fn view.AfterFunc) PageOption {
	return func(o *pageOptions) { o.afterFunc = fn }
}

func WithPageLogger(logg *logger.Logger) PageOption {
	return func(o *pageOptions) { o.logg = logg }
}

func NewPage(c *Client, doc view.Document, opts ...PageOption) *Page {
	o := pageOptions{fallback: price.DefaultLocale(), afterFunc: view.RealAfterFunc, logg: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	formatter := price.NewFormatter(price.LocaleFromDocument(doc, o.fallback))
	return &Page{
		client:     c,
		doc:        doc,
		formatter:  formatter,
		reconciler: totals.NewReconciler(doc, formatter),
		notifier:   flash.NewNotifier(doc, flash.WithAfterFunc(o.afterFunc), flash.WithLogger(o.logg)),
		afterFunc:  o.afterFunc,
		logg:       o.logg,
	}
}

// Notifier exposes the page banner.
func (p *Page) Notifier() *flash.Notifier {
	return p.notifier
}

// Formatter exposes the page price formatter.
func (p *Page) Formatter() *price.Formatter {
	return p.formatter
}

func (p *Page) showFailure(err error, fallback string) {
	msg := fallback
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		msg = typed.Message()
	}
	p.notifier.ShowError(msg)
}

func (p *Page) showResult(r Response) {
	if r.Message != "" {
		p.notifier.Show(r.Message, r.MessageType)
	}
}

// AddToCart confirms the button immediately and rolls it back unless the
// add succeeds, in which case it resets after ui.ButtonResetDelay.
func (p *Page) AddToCart(ctx context.Context, buttonSelector string, productID uint, qty int) (CartResult, error) {
	button := ui.NewButtonState(p.doc, buttonSelector, p.afterFunc)
	button.MarkSuccess()

	res, err := p.client.AddToCart(ctx, productID, qty, false)
	if err != nil {
		p.showFailure(err, FallbackAddToCart)
		button.Reset()
		return res, err
	}
	if !res.Success {
		p.showResult(res.Response)
		button.Reset()
		return res, nil
	}

	p.showResult(res.Response)
	ui.UpdateCartCounter(p.doc, res.CartTotal)
	button.ResetAfter(ui.ButtonResetDelay)
	return res, nil
}

// UpdateCart sets a line quantity from the cart page.
func (p *Page) UpdateCart(ctx context.Context, productID uint, qty int) (CartResult, error) {
	res, err := p.client.UpdateCart(ctx, productID, qty)
	if err != nil {
		p.showFailure(err, FallbackUpdateCart)
		return res, err
	}
	p.showResult(res.Response)
	if res.Success {
		ui.UpdateCartCounter(p.doc, res.CartTotal)
		p.reconciler.Reconcile(res.Payload)
	}
	return res, nil
}

// RemoveFromCart drops the line and switches to the empty state when the
// cart is now empty.
func (p *Page) RemoveFromCart(ctx context.Context, productID uint) (CartResult, error) {
	res, err := p.client.RemoveFromCart(ctx, productID)
	if err != nil {
		p.showFailure(err, FallbackRemoveFromCart)
		return res, err
	}
	p.showResult(res.Response)
	if res.Success {
		ui.UpdateCartCounter(p.doc, res.CartTotal)
		p.reconciler.Reconcile(res.Payload)
		p.doc.Hide(CartItemSelector(productID))
		if res.CartTotal == 0 {
			ui.ShowEmptyCart(p.doc)
		}
	}
	return res, nil
}

func (p *Page) ClearCart(ctx context.Context) (CartResult, error) {
	res, err := p.client.ClearCart(ctx)
	if err != nil {
		p.showFailure(err, FallbackClearCart)
		return res, err
	}
	p.showResult(res.Response)
	if res.Success {
		ui.UpdateCartCounter(p.doc, res.CartTotal)
		ui.ShowEmptyCart(p.doc)
	}
	return res, nil
}

// ApplyCoupon swaps the coupon form for the applied coupon badge.
func (p *Page) ApplyCoupon(ctx context.Context, buttonSelector, code string) (CouponResult, error) {
	button := ui.NewButtonState(p.doc, buttonSelector, p.afterFunc)
	button.MarkSuccess()

	res, err := p.client.ApplyCoupon(ctx, code)
	if err != nil {
		p.showFailure(err, FallbackApplyCoupon)
		button.Reset()
		return res, err
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = invalidCouponMessage
		}
		p.notifier.ShowError(msg)
		button.Reset()
		return res, nil
	}

	p.showResult(res.Response)
	removeURL, _ := p.doc.Attr(CouponSectionSelector, couponRemoveURLAttr)
	p.doc.SetHTML(CouponSectionSelector, CouponBadgeHTML(res, p.formatter, removeURL))
	p.reconciler.Reconcile(res.Payload)
	return res, nil
}

// RemoveCoupon restores the coupon form and refreshes the totals.
func (p *Page) RemoveCoupon(ctx context.Context, buttonSelector string) (CouponResult, error) {
	button := ui.NewButtonState(p.doc, buttonSelector, p.afterFunc)
	button.MarkSuccess()

	res, err := p.client.RemoveCoupon(ctx)
	if err != nil {
		p.showFailure(err, FallbackRemoveCoupon)
		button.Reset()
		return res, err
	}
	if !res.Success {
		p.showResult(res.Response)
		button.Reset()
		return res, nil
	}

	p.showResult(res.Response)
	applyURL, _ := p.doc.Attr(CouponSectionSelector, couponApplyURLAttr)
	p.doc.SetHTML(CouponSectionSelector, CouponFormHTML(applyURL))
	p.reconciler.Reconcile(res.Payload)
	return res, nil
}

// AddFavorite hides the product's favorite form once it is favorited,
// including when it already was.
func (p *Page) AddFavorite(ctx context.Context, productID uint) (FavoriteResult, error) {
	res, err := p.client.AddFavorite(ctx, productID)
	if err != nil {
		p.showFailure(err, FallbackAddFavorite)
		return res, err
	}
	if res.Success || res.AlreadyFavorited {
		p.showResult(res.Response)
		p.doc.Hide(FavoriteFormSelector(productID))
		return res, nil
	}
	p.showResult(res.Response)
	return res, nil
}

// FilterSession builds the catalogue filter for this page.
func (p *Page) FilterSession(history view.History, bounds filter.Bounds, languages []string) (*filter.Session, error) {
	return filter.NewSession(filter.Config{
		Document:  p.doc,
		History:   history,
		Fetcher:   p.client,
		Notifier:  p.notifier,
		Bounds:    bounds,
		Languages: languages,
		OnFavorite: func(ctx context.Context, value string) {
			id, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				return
			}
			_, _ = p.AddFavorite(ctx, uint(id))
		},
		AfterFunc: p.afterFunc,
		Logger:    p.logg,
	})
}

// CouponBadgeHTML renders the applied coupon with its remove form.
func CouponBadgeHTML(res CouponResult, f *price.Formatter, removeURL string) string {
	code, percent := "", 0
	if res.Coupon != nil {
		code, percent = res.Coupon.Code, res.Coupon.Discount
	}
	return fmt.Sprintf(
		`<div class="coupon-badge"><span class="coupon-code">%s</span><span>(%d%% off)</span><div class="discount-amount" id="discount-amount">%s%s</div></div>`+
			`<form method="POST" action="%s" id="coupon-remove-form"><button type="submit" class="delete-btn">Remove Coupon</button></form>`,
		html.EscapeString(code), percent, totals.DiscountPrefix,
		html.EscapeString(f.Format(res.EffectiveDiscount())), html.EscapeString(removeURL),
	)
}

// CouponFormHTML renders the empty coupon form.
func CouponFormHTML(applyURL string) string {
	return fmt.Sprintf(
		`<form action="%s" method="post" class="d-flex gap-2" id="coupon-apply-form">`+
			`<input type="text" name="code" class="form-control" placeholder="Enter coupon code" maxlength="50" required id="id_code">`+
			`<button class="update-btn" type="submit">Apply Coupon</button></form>`,
		html.EscapeString(applyURL),
	)
}

// ShowMessage exposes the banner to callers outside the page handlers.
func (p *Page) ShowMessage(message string, t enums.MessageType) {
	p.notifier.Show(message, t)
}
