package coupons

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/micronstore/storefront/pkg/db/models"
	pkgerrors "github.com/micronstore/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo, WithClock(func() time.Time { return testNow }))
	require.NoError(t, err)
	return svc, repo
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) *models.Coupon {
	t.Helper()
	if in.ValidFrom.IsZero() {
		in.ValidFrom = testNow.Add(-24 * time.Hour)
	}
	if in.ValidTo.IsZero() {
		in.ValidTo = testNow.Add(24 * time.Hour)
	}
	c, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	return c
}

func TestRedeemIsCaseInsensitiveAndCountsUse(t *testing.T) {
	svc, repo := newTestService(t)
	created := mustCreate(t, svc, CreateInput{Code: "SPRING10", Discount: 10, Active: true})

	got, err := svc.Redeem(context.Background(), "  spring10 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, got.UsedCount)

	stored, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestRedeemRejectsInvalidCoupons(t *testing.T) {
	svc, _ := newTestService(t)
	mustCreate(t, svc, CreateInput{Code: "OFF", Discount: 10, Active: false})
	mustCreate(t, svc, CreateInput{Code: "OLD", Discount: 10, Active: true, ValidFrom: testNow.Add(-48 * time.Hour), ValidTo: testNow.Add(-24 * time.Hour)})
	mustCreate(t, svc, CreateInput{Code: "SOON", Discount: 10, Active: true, ValidFrom: testNow.Add(time.Hour), ValidTo: testNow.Add(48 * time.Hour)})

	for _, code := range []string{"OFF", "OLD", "SOON", "MISSING"} {
		_, err := svc.Redeem(context.Background(), code)
		require.Error(t, err, code)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), code)
		assert.Equal(t, MsgInvalidCode, pkgerrors.As(err).Message(), code)
	}

	_, err := svc.Redeem(context.Background(), "")
	assert.Equal(t, MsgInvalidForm, pkgerrors.As(err).Message())
	_, err = svc.Redeem(context.Background(), strings.Repeat("x", MaxCodeLength+1))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRedeemHonoursUsageLimit(t *testing.T) {
	svc, _ := newTestService(t)
	limit := 1
	mustCreate(t, svc, CreateInput{Code: "ONCE", Discount: 5, Active: true, MaxUses: &limit})

	_, err := svc.Redeem(context.Background(), "ONCE")
	require.NoError(t, err)

	_, err = svc.Redeem(context.Background(), "once")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, MsgUsageLimit, pkgerrors.As(err).Message())
}

func TestIncrementUsageStopsAtLimit(t *testing.T) {
	svc, repo := newTestService(t)
	limit := 1
	c := mustCreate(t, svc, CreateInput{Code: "RACE", Discount: 5, Active: true, MaxUses: &limit})

	ok, err := repo.IncrementUsage(context.Background(), c.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementUsage(context.Background(), c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := map[string]CreateInput{
		"empty code":     {Code: " ", Discount: 10, ValidFrom: testNow, ValidTo: testNow.Add(time.Hour)},
		"discount range": {Code: "A", Discount: 101, ValidFrom: testNow, ValidTo: testNow.Add(time.Hour)},
		"window order":   {Code: "A", Discount: 10, ValidFrom: testNow, ValidTo: testNow},
	}
	for name, in := range cases {
		_, err := svc.Create(ctx, in)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), name)
	}

	mustCreate(t, svc, CreateInput{Code: "DUP", Discount: 10})
	_, err := svc.Create(ctx, CreateInput{Code: "DUP", Discount: 10, ValidFrom: testNow, ValidTo: testNow.Add(time.Hour)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}
