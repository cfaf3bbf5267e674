package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetWithCategoryOffer возвращает товар и процент скидки его категории (0 без категории).
	GetWithCategoryOffer(ctx context.Context, id uuid.UUID) (*models.Product, int32, error)
	BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	CreateCategory(ctx context.Context, c *models.Category) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) ProductRepo { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *productRepo) GetWithCategoryOffer(ctx context.Context, id uuid.UUID) (*models.Product, int32, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, 0, err
	}
	if p.CategoryID == nil {
		return p, 0, nil
	}
	var cat models.Category
	err = r.db.WithContext(ctx).First(&cat, "id = ? AND is_active", *p.CategoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return p, cat.OfferPct, nil
}

func (r *productRepo) BatchGetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *productRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}
