package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	// AddItem суммирует количество при повторном добавлении той же позиции.
	AddItem(ctx context.Context, cartID uuid.UUID, item models.CartItem) error
	SetQuantity(ctx context.Context, cartID, productID uuid.UUID, variant string, qty uint32) (bool, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID, variant string) (bool, error)
	SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error
	Clear(ctx context.Context, cartID uuid.UUID) error
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Preload("Items").First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cart, err
}

func (r *cartRepo) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	created := models.Cart{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *cartRepo) AddItem(ctx context.Context, cartID uuid.UUID, item models.CartItem) error {
	item.CartID = cartID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "variant"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + ?", item.Quantity),
			}),
		}).
		Create(&item).Error
}

func (r *cartRepo) SetQuantity(ctx context.Context, cartID, productID uuid.UUID, variant string, qty uint32) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ? AND variant = ?", cartID, productID, variant).
		Update("quantity", qty)
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID, variant string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND variant = ?", cartID, productID, variant).
		Delete(&models.CartItem{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) SetCoupon(ctx context.Context, cartID uuid.UUID, code *string) error {
	return r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Update("coupon_code", code).Error
}

func (r *cartRepo) Clear(ctx context.Context, cartID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&models.Cart{}).Where("id = ?", cartID).Update("coupon_code", nil).Error
}
