package service

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

const currencyINR = "INR"

// Плоское правило доставки: 39₹ при сумме корзины меньше 499₹.
const (
	deliveryChargeCents        int64 = 3900
	freeDeliveryThresholdCents int64 = 49900
)

type PriceInfo struct {
	RegularPriceCents int64
	ProductOfferPct   int32
	CategoryOfferPct  int32
	CurrencyCode      string
}

// UnitPriceCents применяет лучшую цену: скидка товара имеет приоритет над
// скидкой категории, скидки не суммируются.
func (p PriceInfo) UnitPriceCents() int64 {
	pct := p.CategoryOfferPct
	if p.ProductOfferPct > 0 {
		pct = p.ProductOfferPct
	}
	if pct <= 0 {
		return p.RegularPriceCents
	}
	if pct > 100 {
		pct = 100
	}
	return p.RegularPriceCents * int64(100-pct) / 100
}

type PriceReader interface {
	GetPrice(ctx context.Context, productID uuid.UUID) (PriceInfo, error)
}

// RepoPriceReader читает актуальные цены из products/categories.
type RepoPriceReader struct {
	products repository.ProductRepo
}

func NewRepoPriceReader(products repository.ProductRepo) PriceReader {
	return &RepoPriceReader{products: products}
}

func (r *RepoPriceReader) GetPrice(ctx context.Context, productID uuid.UUID) (PriceInfo, error) {
	p, catPct, err := r.products.GetWithCategoryOffer(ctx, productID)
	if err != nil {
		return PriceInfo{}, err
	}
	if p == nil || !p.IsActive {
		return PriceInfo{}, ErrProductNotFound
	}
	return PriceInfo{
		RegularPriceCents: p.RegularPriceCents,
		ProductOfferPct:   p.OfferPct,
		CategoryOfferPct:  catPct,
		CurrencyCode:      p.CurrencyCode,
	}, nil
}

type CartLine struct {
	ProductID uuid.UUID
	Variant   string
	Quantity  uint32
}

type QuoteLine struct {
	ProductID      uuid.UUID
	Variant        string
	Quantity       uint32
	UnitPriceCents int64
	LineTotalCents int64
}

type Quote struct {
	Lines               []QuoteLine
	SubtotalCents       int64
	DiscountCents       int64
	DeliveryChargeCents int64
	FinalAmountCents    int64
	Coupon              *models.Coupon
}

// buildQuote — единственное место расчёта суммы заказа: живые цены, правило
// доставки и купон. Используется и при оформлении, и при подтверждении оплаты,
// чтобы расчёты не расходились.
func buildQuote(ctx context.Context, prices PriceReader, coupons repository.CouponRepo, userID uuid.UUID, items []CartLine, couponCode *string, now time.Time) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}

	q := Quote{Lines: make([]QuoteLine, 0, len(items))}

	for _, it := range items {
		if it.Quantity == 0 {
			return Quote{}, ErrQuantityInvalid
		}
		info, err := prices.GetPrice(ctx, it.ProductID)
		if err != nil {
			return Quote{}, err
		}
		if info.CurrencyCode != currencyINR {
			return Quote{}, ErrCurrencyMismatch
		}
		unit := info.UnitPriceCents()
		line := unit * int64(it.Quantity)
		q.SubtotalCents += line
		q.Lines = append(q.Lines, QuoteLine{
			ProductID:      it.ProductID,
			Variant:        it.Variant,
			Quantity:       it.Quantity,
			UnitPriceCents: unit,
			LineTotalCents: line,
		})
	}

	if couponCode != nil && *couponCode != "" {
		c, err := coupons.GetByCode(ctx, *couponCode)
		if err != nil {
			return Quote{}, err
		}
		if err := validateCoupon(ctx, coupons, c, userID, q.SubtotalCents, now); err != nil {
			return Quote{}, err
		}
		q.Coupon = c
		q.DiscountCents = couponDiscount(c, q.SubtotalCents)
	}

	q.DeliveryChargeCents = deliveryCharge(q.SubtotalCents)
	q.FinalAmountCents = q.SubtotalCents - q.DiscountCents + q.DeliveryChargeCents
	if q.FinalAmountCents < 0 {
		q.FinalAmountCents = 0
	}
	return q, nil
}

func deliveryCharge(subtotalCents int64) int64 {
	if subtotalCents < freeDeliveryThresholdCents {
		return deliveryChargeCents
	}
	return 0
}

func validateCoupon(ctx context.Context, coupons repository.CouponRepo, c *models.Coupon, userID uuid.UUID, subtotalCents int64, now time.Time) error {
	if c == nil || !c.IsActive {
		return ErrCouponInvalid
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidTo) {
		return ErrCouponExpired
	}
	if subtotalCents < c.MinPurchaseCents {
		return ErrCouponMinPurchase
	}
	used, err := coupons.CountRedemptions(ctx, c.ID, userID)
	if err != nil {
		return err
	}
	if used >= int64(c.UsageLimit) {
		return ErrCouponUsageExceeded
	}
	return nil
}

func couponDiscount(c *models.Coupon, subtotalCents int64) int64 {
	var d int64
	switch c.DiscountType {
	case models.DiscountPercent:
		d = subtotalCents * c.DiscountValue / 100
		if c.MaxDiscountCents > 0 && d > c.MaxDiscountCents {
			d = c.MaxDiscountCents
		}
	case models.DiscountFlat:
		d = c.DiscountValue
	}
	if d > subtotalCents {
		d = subtotalCents
	}
	if d < 0 {
		d = 0
	}
	return d
}
