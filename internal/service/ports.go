package service

import (
	"context"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

type CartSnapshot struct {
	CartID     uuid.UUID
	Items      []CartLine
	CouponCode *string
}

type CartReader interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartSnapshot, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) error
}

type RepoCartReader struct {
	carts repository.CartRepo
}

func NewRepoCartReader(carts repository.CartRepo) CartReader {
	return &RepoCartReader{carts: carts}
}

func (r *RepoCartReader) GetCart(ctx context.Context, userID uuid.UUID) (CartSnapshot, error) {
	cart, err := r.carts.GetByUser(ctx, userID)
	if err != nil {
		return CartSnapshot{}, err
	}
	if cart == nil {
		return CartSnapshot{}, ErrCartNotFound
	}
	snap := CartSnapshot{CartID: cart.ID, CouponCode: cart.CouponCode}
	for _, it := range cart.Items {
		snap.Items = append(snap.Items, CartLine{
			ProductID: it.ProductID,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
		})
	}
	return snap, nil
}

func (r *RepoCartReader) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.carts.Clear(ctx, cartID)
}

// AddressReader проверяет существование адреса; содержимое ядром не
// валидируется, заказ хранит только ссылку.
type AddressReader interface {
	GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error)
}

type RepoAddressReader struct {
	addresses repository.AddressRepo
}

func NewRepoAddressReader(addresses repository.AddressRepo) AddressReader {
	return &RepoAddressReader{addresses: addresses}
}

func (r *RepoAddressReader) GetAddress(ctx context.Context, userID, addressID uuid.UUID) (*models.Address, error) {
	a, err := r.addresses.GetForUser(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrAddressNotFound
	}
	return a, nil
}

// PaymentGateway — внешний платёжный шлюз как непрозрачная способность.
type PaymentGateway interface {
	CreateGatewayOrder(ctx context.Context, amountCents int64, currency string) (string, error)
	VerifySignature(orderRef, paymentRef, signature string) bool
}
