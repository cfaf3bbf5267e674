package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	GetItem(ctx context.Context, orderID, productID uuid.UUID, variant string) (*models.OrderItem, error)
	// UpdateStatusFrom переводит позицию from→to условно и пишет событие истории.
	UpdateStatusFrom(ctx context.Context, itemID uuid.UUID, from, to models.OrderStatus) (bool, error)
	AppendEvent(ctx context.Context, itemID uuid.UUID, status models.OrderStatus) error
	ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var rows []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return rows, err
}

func (r *orderItemRepo) GetItem(ctx context.Context, orderID, productID uuid.UUID, variant string) (*models.OrderItem, error) {
	var row models.OrderItem
	err := r.db.WithContext(ctx).
		First(&row, "order_id = ? AND product_id = ? AND variant = ?", orderID, productID, variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &row, err
}

func (r *orderItemRepo) UpdateStatusFrom(ctx context.Context, itemID uuid.UUID, from, to models.OrderStatus) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("id = ? AND status = ?", itemID, from).
		Update("status", to)
	if tx.Error != nil {
		return false, tx.Error
	}
	if tx.RowsAffected == 0 {
		return false, nil
	}
	return true, r.AppendEvent(ctx, itemID, to)
}

func (r *orderItemRepo) AppendEvent(ctx context.Context, itemID uuid.UUID, status models.OrderStatus) error {
	return r.db.WithContext(ctx).Create(&models.OrderItemEvent{
		OrderItemID: itemID,
		Status:      status,
	}).Error
}

func (r *orderItemRepo) ListStatuses(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatus, error) {
	var statuses []models.OrderStatus
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Pluck("status", &statuses).Error
	return statuses, err
}
