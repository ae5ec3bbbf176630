package filter

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/micronstore/storefront/internal/storefront/view"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/micronstore/storefront/pkg/logger"
)

// Page element selectors.
const (
	GridSelector     = "#product-grid"
	MinLabelSelector = "#min_price_label"
	MaxLabelSelector = "#max_price_label"

	// FailureMessage prefixes every filter error shown to the shopper.
	FailureMessage = "Error filtering products"
)

// Result is the products endpoint answer.
type Result struct {
	Success bool   `json:"success"`
	HTML    string `json:"html"`
	Error   string `json:"error"`
}

// Fetcher issues the products request.
type Fetcher interface {
	FilterProducts(ctx context.Context, path string, query Query) (Result, error)
}

// Notifier surfaces errors to the shopper.
type Notifier interface {
	ShowError(message string)
}

// Config wires a Session to its page.
type Config struct {
	Document  view.Document
	History   view.History
	Fetcher   Fetcher
	Notifier  Notifier
	Bounds    Bounds
	Languages []string
	// OnFavorite handles favorite submissions from the grid. Optional.
	OnFavorite Handler
	AfterFunc  view.AfterFunc
	Logger     *logger.Logger
}

// Session is the filter state of one catalogue page. Callbacks are
// serialized; requests may overlap and only the newest one may touch the page.
type Session struct {
	doc        view.Document
	history    view.History
	fetcher    Fetcher
	notifier   Notifier
	languages  []string
	onFavorite Handler
	logg       *logger.Logger

	debouncer *Debouncer
	bindings  *Bindings

	mu       sync.Mutex
	controls *Controls
	issued   uint64
}

// NewSession restores the controls from the current URL and binds the grid handlers.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Document == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter document is required")
	}
	if cfg.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter history is required")
	}
	if cfg.Fetcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter fetcher is required")
	}
	if !cfg.Document.Exists(GridSelector) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "required filter elements not found")
	}
	if cfg.Bounds.Max.IsZero() && cfg.Bounds.Min.IsZero() {
		cfg.Bounds = DefaultBounds()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	s := &Session{
		doc:        cfg.Document,
		history:    cfg.History,
		fetcher:    cfg.Fetcher,
		notifier:   cfg.Notifier,
		languages:  cfg.Languages,
		onFavorite: cfg.OnFavorite,
		logg:       cfg.Logger,
		debouncer:  NewDebouncer(DebounceDelay, cfg.AfterFunc),
		bindings:   NewBindings(),
		controls:   NewControls(cfg.Bounds),
	}
	s.Restore(cfg.History.Location())
	s.rebind()
	return s, nil
}

// Restore rebuilds the controls from location, as after a reload or a
// back/forward navigation. It does not fetch.
func (s *Session) Restore(location string) Criteria {
	_, rawQuery := splitLocation(location)

	s.mu.Lock()
	defer s.mu.Unlock()
	c := ParseCriteria(rawQuery, s.controls.Bounds)
	s.controls.Apply(c)
	s.writeLabels()
	return c
}

// Controls returns a copy of the current control state.
func (s *Session) Controls() Controls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.controls
}

// Bindings exposes the grid handlers so the page can fire them.
func (s *Session) Bindings() *Bindings {
	return s.bindings
}

// OnSliderInput moves a slider, clamps it against the other one and
// schedules a debounced fetch of page one. Unparsable values are ignored.
func (s *Session) OnSliderInput(ctx context.Context, h Handle, raw string) {
	value, ok := parseNumber(raw)

	s.mu.Lock()
	if ok {
		s.controls.Set(h, value)
		s.controls.Clamp(h)
	}
	s.writeLabels()
	s.mu.Unlock()

	s.debouncer.Trigger(func() {
		_ = s.BuildAndApply(ctx, 1)
	})
}

// OnSelectChange is wired to the discount, category and order selects.
func (s *Session) OnSelectChange(ctx context.Context, discount, category, order string) error {
	s.mu.Lock()
	s.controls.Discount = discount
	s.controls.Category = category
	s.controls.Order = order
	s.mu.Unlock()
	return s.BuildAndApply(ctx, 1)
}

// OnReset restores the sidebar defaults and fetches the first page.
func (s *Session) OnReset(ctx context.Context) error {
	s.debouncer.Cancel()

	s.mu.Lock()
	s.controls.Reset()
	s.writeLabels()
	path, rawQuery := splitLocation(s.history.Location())
	s.mu.Unlock()

	// the search term is part of the request, not of the sidebar
	search := searchFrom(rawQuery)
	s.history.Replace(path)
	return s.apply(ctx, 1, search)
}

// OnPageClick fetches the page named by a pagination link's data-page.
// Links without a usable page are ignored.
func (s *Session) OnPageClick(ctx context.Context, raw string) error {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return nil
	}
	return s.BuildAndApply(ctx, page)
}

// BuildAndApply fetches page with the current criteria and swaps the grid.
// On failure the grid and URL are left as they were and the shopper is
// notified. Responses to requests superseded by a newer one are dropped.
func (s *Session) BuildAndApply(ctx context.Context, page int) error {
	s.mu.Lock()
	_, rawQuery := splitLocation(s.history.Location())
	s.mu.Unlock()
	return s.apply(ctx, page, searchFrom(rawQuery))
}

func searchFrom(rawQuery string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	return values.Get(ParamSearchQuery)
}

func (s *Session) apply(ctx context.Context, page int, search string) error {
	s.mu.Lock()
	currentPath, _ := splitLocation(s.history.Location())
	query := BuildQuery(s.controls.Criteria(page, search))
	endpoint := EndpointPath(currentPath, s.languages)
	s.issued++
	seq := s.issued
	s.doc.SetStyle(GridSelector, "opacity", "0.5")
	s.mu.Unlock()

	res, err := s.fetcher.FilterProducts(ctx, endpoint, query)

	s.mu.Lock()
	if latest := s.issued; seq != latest {
		s.mu.Unlock()
		s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
			"seq":    seq,
			"latest": latest,
		}), "filter.response.stale")
		return nil
	}

	if err != nil || !res.Success {
		s.doc.SetStyle(GridSelector, "opacity", "1")
		s.mu.Unlock()
		return s.fail(ctx, res, err)
	}

	s.doc.SetHTML(GridSelector, res.HTML)
	s.doc.SetStyle(GridSelector, "opacity", "1")
	s.history.Replace(currentPath + "?" + query.Encode())
	s.mu.Unlock()

	s.rebind()
	return nil
}

func (s *Session) fail(ctx context.Context, res Result, err error) error {
	detail := res.Error
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			detail = typed.Message()
		} else {
			detail = ""
		}
	} else if detail == "" {
		detail = "Unknown error"
	}

	message := FailureMessage
	if detail != "" && detail != FailureMessage {
		message += ": " + detail
	}

	s.logg.Warn(s.logg.WithField(ctx, "detail", detail), "filter.request.failed")
	if s.notifier != nil {
		s.notifier.ShowError(message)
	}

	if err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message)
}

// rebind reattaches the grid handlers after its content changed.
func (s *Session) rebind() {
	s.bindings.Bind(EventPageClick, func(ctx context.Context, value string) {
		_ = s.OnPageClick(ctx, value)
	})
	if s.onFavorite != nil {
		s.bindings.Bind(EventFavoriteSubmit, s.onFavorite)
	}
}

// writeLabels mirrors the slider values into their captions. Callers hold mu.
func (s *Session) writeLabels() {
	minLabel, maxLabel := s.controls.Labels()
	s.doc.SetText(MinLabelSelector, minLabel)
	s.doc.SetText(MaxLabelSelector, maxLabel)
}

// Issued is the number of requests dispatched so far.
func (s *Session) Issued() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}
