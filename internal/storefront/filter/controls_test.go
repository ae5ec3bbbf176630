package filter

import (
	"context"
	"testing"
	"time"

	"github.com/micronstore/storefront/internal/storefront/view"
	"github.com/shopspring/decimal"
)

func TestClampDraggedHandle(t *testing.T) {
	c := NewControls(DefaultBounds())
	c.Set(HandleMax, decimal.NewFromInt(50))
	c.Set(HandleMin, decimal.NewFromInt(80))
	c.Clamp(HandleMin)
	if !c.MinValue.Equal(decimal.NewFromInt(50)) || !c.MaxValue.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected min clamped to 50, got %s..%s", c.MinValue, c.MaxValue)
	}

	c.Set(HandleMin, decimal.NewFromInt(60))
	c.Set(HandleMax, decimal.NewFromInt(40))
	c.Clamp(HandleMax)
	if !c.MaxValue.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected max clamped to 60, got %s", c.MaxValue)
	}

	q := BuildQuery(c.Criteria(1, ""))
	minP, _ := q.Get(ParamMinPrice)
	maxP, _ := q.Get(ParamMaxPrice)
	if decimal.RequireFromString(minP).GreaterThan(decimal.RequireFromString(maxP)) {
		t.Fatalf("min %s above max %s", minP, maxP)
	}
}

func TestControlsResetAndLabels(t *testing.T) {
	c := NewControls(ParseBounds("10", ""))
	if !c.Bounds.Min.Equal(decimal.NewFromInt(10)) || !c.Bounds.Max.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected bounds %+v", c.Bounds)
	}
	c.Set(HandleMin, decimal.RequireFromString("12.5"))
	c.Discount, c.Category, c.Order = "true", "phones", "-price"

	minLabel, _ := c.Labels()
	if minLabel != "12.50" {
		t.Fatalf("unexpected label %q", minLabel)
	}

	c.Reset()
	if !c.MinValue.Equal(c.Bounds.Min) || c.Discount != "" || c.Category != "" || c.Order != "price" {
		t.Fatalf("unexpected reset state %+v", c)
	}
}

func TestDebouncerKeepsOnlyLastCall(t *testing.T) {
	var timers view.ManualTimers
	d := NewDebouncer(DebounceDelay, timers.AfterFunc)

	var calls []int
	for i := 1; i <= 3; i++ {
		i := i
		d.Trigger(func() { calls = append(calls, i) })
		timers.Advance(100 * time.Millisecond)
	}
	if len(calls) != 0 || !d.Pending() {
		t.Fatalf("expected nothing fired yet, got %v", calls)
	}

	timers.Advance(DebounceDelay)
	if len(calls) != 1 || calls[0] != 3 {
		t.Fatalf("expected only the last call, got %v", calls)
	}
	if d.Pending() {
		t.Fatal("expected no pending call")
	}

	d.Trigger(func() { calls = append(calls, 9) })
	d.Cancel()
	timers.Advance(time.Second)
	if len(calls) != 1 {
		t.Fatalf("expected cancelled call not to fire, got %v", calls)
	}
}

func TestBindingsAreIdempotent(t *testing.T) {
	b := NewBindings()
	var hits int
	for i := 0; i < 3; i++ {
		b.Bind(EventPageClick, func(_ context.Context, _ string) { hits++ })
	}
	if !b.Fire(context.Background(), EventPageClick, "2") {
		t.Fatal("expected bound handler")
	}
	if hits != 1 {
		t.Fatalf("expected one handler run, got %d", hits)
	}
	if b.BindCount(EventPageClick) != 3 {
		t.Fatalf("expected bind count 3, got %d", b.BindCount(EventPageClick))
	}

	b.Unbind(EventPageClick)
	if b.Bound(EventPageClick) || b.Fire(context.Background(), EventPageClick, "2") {
		t.Fatal("expected handler detached")
	}
}
