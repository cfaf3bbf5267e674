package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"

	"github.com/google/uuid"
)

func TestUnitPriceCents_ProductOfferBeatsCategory(t *testing.T) {
	cases := []struct {
		name string
		info PriceInfo
		want int64
	}{
		{"без скидок", PriceInfo{RegularPriceCents: 10000}, 10000},
		{"скидка товара", PriceInfo{RegularPriceCents: 10000, ProductOfferPct: 20}, 8000},
		{"скидка категории", PriceInfo{RegularPriceCents: 10000, CategoryOfferPct: 10}, 9000},
		{"товар приоритетнее категории", PriceInfo{RegularPriceCents: 10000, ProductOfferPct: 20, CategoryOfferPct: 50}, 8000},
		{"скидки не суммируются", PriceInfo{RegularPriceCents: 10000, ProductOfferPct: 30, CategoryOfferPct: 30}, 7000},
		{"скидка выше 100 обрезается", PriceInfo{RegularPriceCents: 10000, ProductOfferPct: 150}, 0},
	}
	for _, tc := range cases {
		if got := tc.info.UnitPriceCents(); got != tc.want {
			t.Errorf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestDeliveryCharge_Threshold(t *testing.T) {
	if got := deliveryCharge(45000); got != 3900 {
		t.Fatalf("below threshold: got %d", got)
	}
	if got := deliveryCharge(49899); got != 3900 {
		t.Fatalf("just below threshold: got %d", got)
	}
	if got := deliveryCharge(49900); got != 0 {
		t.Fatalf("at threshold: got %d", got)
	}
	if got := deliveryCharge(100000); got != 0 {
		t.Fatalf("above threshold: got %d", got)
	}
}

func TestCouponDiscount(t *testing.T) {
	percent := &models.Coupon{DiscountType: models.DiscountPercent, DiscountValue: 20, MaxDiscountCents: 10000}
	if got := couponDiscount(percent, 100000); got != 10000 {
		t.Fatalf("percent capped: got %d", got)
	}
	if got := couponDiscount(percent, 40000); got != 8000 {
		t.Fatalf("percent uncapped: got %d", got)
	}

	flat := &models.Coupon{DiscountType: models.DiscountFlat, DiscountValue: 5000}
	if got := couponDiscount(flat, 100000); got != 5000 {
		t.Fatalf("flat: got %d", got)
	}
	// скидка не может превысить стоимость корзины
	if got := couponDiscount(flat, 3000); got != 3000 {
		t.Fatalf("flat capped at subtotal: got %d", got)
	}
}

type stubPrices map[uuid.UUID]PriceInfo

func (s stubPrices) GetPrice(ctx context.Context, productID uuid.UUID) (PriceInfo, error) {
	info, ok := s[productID]
	if !ok {
		return PriceInfo{}, ErrProductNotFound
	}
	return info, nil
}

type stubCoupons struct {
	byCode map[string]*models.Coupon
	used   int64
}

func (s *stubCoupons) Create(ctx context.Context, c *models.Coupon) error { return nil }
func (s *stubCoupons) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	return s.byCode[code], nil
}
func (s *stubCoupons) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) { return true, nil }
func (s *stubCoupons) CountRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	return s.used, nil
}
func (s *stubCoupons) RecordRedemption(ctx context.Context, couponID, userID, orderID uuid.UUID) error {
	return nil
}

func TestBuildQuote_FinalAmountIdentity(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	prices := stubPrices{
		p1: {RegularPriceCents: 10000, CurrencyCode: "INR"},
		p2: {RegularPriceCents: 25000, ProductOfferPct: 10, CurrencyCode: "INR"},
	}
	items := []CartLine{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	}

	q, err := buildQuote(context.Background(), prices, &stubCoupons{}, uuid.New(), items, nil, time.Now())
	if err != nil {
		t.Fatalf("buildQuote: %v", err)
	}
	// 2*10000 + 22500 = 42500, ниже порога — доставка 3900
	if q.SubtotalCents != 42500 || q.DeliveryChargeCents != 3900 {
		t.Fatalf("quote mismatch: %+v", q)
	}
	if q.FinalAmountCents != q.SubtotalCents-q.DiscountCents+q.DeliveryChargeCents {
		t.Fatalf("final amount identity broken: %+v", q)
	}
}

func TestBuildQuote_ZeroQuantityRejected(t *testing.T) {
	p := uuid.New()
	prices := stubPrices{p: {RegularPriceCents: 10000, CurrencyCode: "INR"}}

	_, err := buildQuote(context.Background(), prices, &stubCoupons{}, uuid.New(), []CartLine{{ProductID: p, Quantity: 0}}, nil, time.Now())
	if !errors.Is(err, ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid got %v", err)
	}
}

func TestBuildQuote_CurrencyMismatchRejected(t *testing.T) {
	p := uuid.New()
	prices := stubPrices{p: {RegularPriceCents: 10000, CurrencyCode: "USD"}}

	_, err := buildQuote(context.Background(), prices, &stubCoupons{}, uuid.New(), []CartLine{{ProductID: p, Quantity: 1}}, nil, time.Now())
	if !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch got %v", err)
	}
}

func TestBuildQuote_CouponValidation(t *testing.T) {
	p := uuid.New()
	prices := stubPrices{p: {RegularPriceCents: 10000, CurrencyCode: "INR"}}
	now := time.Now()
	code := "SAVE"

	expired := &stubCoupons{byCode: map[string]*models.Coupon{
		code: {Code: code, DiscountType: models.DiscountFlat, DiscountValue: 1000,
			ValidFrom: now.Add(-2 * time.Hour), ValidTo: now.Add(-time.Hour), UsageLimit: 1, IsActive: true},
	}}
	_, err := buildQuote(context.Background(), prices, expired, uuid.New(), []CartLine{{ProductID: p, Quantity: 1}}, &code, now)
	if !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("expected ErrCouponExpired got %v", err)
	}

	minPurchase := &stubCoupons{byCode: map[string]*models.Coupon{
		code: {Code: code, DiscountType: models.DiscountFlat, DiscountValue: 1000, MinPurchaseCents: 50000,
			ValidFrom: now.Add(-time.Hour), ValidTo: now.Add(time.Hour), UsageLimit: 1, IsActive: true},
	}}
	_, err = buildQuote(context.Background(), prices, minPurchase, uuid.New(), []CartLine{{ProductID: p, Quantity: 1}}, &code, now)
	if !errors.Is(err, ErrCouponMinPurchase) {
		t.Fatalf("expected ErrCouponMinPurchase got %v", err)
	}

	usedUp := &stubCoupons{
		byCode: map[string]*models.Coupon{
			code: {Code: code, DiscountType: models.DiscountFlat, DiscountValue: 1000,
				ValidFrom: now.Add(-time.Hour), ValidTo: now.Add(time.Hour), UsageLimit: 1, IsActive: true},
		},
		used: 1,
	}
	_, err = buildQuote(context.Background(), prices, usedUp, uuid.New(), []CartLine{{ProductID: p, Quantity: 1}}, &code, now)
	if !errors.Is(err, ErrCouponUsageExceeded) {
		t.Fatalf("expected ErrCouponUsageExceeded got %v", err)
	}
}
