package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CouponRepo interface {
	Create(ctx context.Context, c *models.Coupon) error
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	CountRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	// RecordRedemption идемпотентен по (coupon, order).
	RecordRedemption(ctx context.Context, couponID, userID, orderID uuid.UUID) error
}

type couponRepo struct{ db *gorm.DB }

func NewCouponRepo(db *gorm.DB) CouponRepo { return &couponRepo{db: db} }

func (r *couponRepo) Create(ctx context.Context, c *models.Coupon) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *couponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var c models.Coupon
	err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *couponRepo) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Update("is_active", false)
	return tx.RowsAffected > 0, tx.Error
}

func (r *couponRepo) CountRedemptions(ctx context.Context, couponID, userID uuid.UUID) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.CouponRedemption{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&cnt).Error
	return cnt, err
}

func (r *couponRepo) RecordRedemption(ctx context.Context, couponID, userID, orderID uuid.UUID) error {
	rec := models.CouponRedemption{CouponID: couponID, UserID: userID, OrderID: orderID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "coupon_id"}, {Name: "order_id"}},
			DoNothing: true,
		}).
		Create(&rec).Error
}
