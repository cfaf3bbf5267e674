package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefundRepo interface {
	Create(ctx context.Context, req *models.RefundRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error)
	// HasActive — есть ли нерешённый запрос по (order, product).
	HasActive(ctx context.Context, orderID, productID uuid.UUID) (bool, error)
	// ResolveFrom переводит запрос REQUESTED→status условно; false при повторе.
	ResolveFrom(ctx context.Context, id uuid.UUID, status models.RefundStatus, rejectionReason *string) (bool, error)
	List(ctx context.Context, status *models.RefundStatus, limit, offset int) ([]models.RefundRequest, int64, error)
}

type refundRepo struct{ db *gorm.DB }

func NewRefundRepo(db *gorm.DB) RefundRepo { return &refundRepo{db: db} }

func (r *refundRepo) Create(ctx context.Context, req *models.RefundRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *refundRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RefundRequest, error) {
	var row models.RefundRequest
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *refundRepo) HasActive(ctx context.Context, orderID, productID uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.RefundRequest{}).
		Where("order_id = ? AND product_id = ? AND status = ?", orderID, productID, models.RefundRequested).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *refundRepo) ResolveFrom(ctx context.Context, id uuid.UUID, status models.RefundStatus, rejectionReason *string) (bool, error) {
	upd := map[string]any{"status": status}
	if rejectionReason != nil {
		upd["rejection_reason"] = rejectionReason
	}
	tx := r.db.WithContext(ctx).Model(&models.RefundRequest{}).
		Where("id = ? AND status = ?", id, models.RefundRequested).
		Updates(upd)
	return tx.RowsAffected > 0, tx.Error
}

func (r *refundRepo) List(ctx context.Context, status *models.RefundStatus, limit, offset int) ([]models.RefundRequest, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.RefundRequest{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []models.RefundRequest
	err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}
