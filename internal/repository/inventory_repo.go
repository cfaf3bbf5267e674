package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepo interface {
	Get(ctx context.Context, productID uuid.UUID, variant string) (*models.Inventory, error)
	Upsert(ctx context.Context, productID uuid.UUID, variant string, available int32) error
	AdjustAvailable(ctx context.Context, productID uuid.UUID, variant string, delta int32) (bool, error)

	// Резервирование атомарно на уровне строки (product_id, variant):
	// TryReserve: if available >= qty then available -= qty; reserved += qty
	TryReserve(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	// Release: reserved -= qty; available += qty (требует reserved >= qty)
	Release(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	// Confirm: reserved -= qty (списываем резерв окончательно)
	Confirm(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
	// Restock: available += qty (возвраты)
	Restock(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepo(db *gorm.DB) InventoryRepo { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Get(ctx context.Context, productID uuid.UUID, variant string) (*models.Inventory, error) {
	var inv models.Inventory
	err := r.db.WithContext(ctx).First(&inv, "product_id = ? AND variant = ?", productID, variant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *inventoryRepo) Upsert(ctx context.Context, productID uuid.UUID, variant string, available int32) error {
	rec := models.Inventory{ProductID: productID, Variant: variant, Available: available}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "variant"}},
			DoUpdates: clause.Assignments(map[string]any{"available": available}),
		}).
		Create(&rec).Error
}

func (r *inventoryRepo) AdjustAvailable(ctx context.Context, productID uuid.UUID, variant string, delta int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET available = available + @delta,
    updated_at = now()
WHERE product_id = @pid
  AND variant = @v
  AND available + @delta >= 0
`, map[string]any{
		"pid":   productID,
		"v":     variant,
		"delta": delta,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) TryReserve(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	// атомарно: available -= qty, reserved += qty, если хватает
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET available = available - @q,
    reserved  = reserved  + @q,
    updated_at = now()
WHERE product_id = @pid
  AND variant = @v
  AND available >= @q
`, map[string]any{
		"pid": productID,
		"v":   variant,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) Release(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET reserved  = reserved  - @q,
    available = available + @q,
    updated_at = now()
WHERE product_id = @pid
  AND variant = @v
  AND reserved >= @q
`, map[string]any{
		"pid": productID,
		"v":   variant,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) Confirm(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET reserved  = reserved  - @q,
    updated_at = now()
WHERE product_id = @pid
  AND variant = @v
  AND reserved >= @q
`, map[string]any{
		"pid": productID,
		"v":   variant,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *inventoryRepo) Restock(ctx context.Context, productID uuid.UUID, variant string, qty int32) (bool, error) {
	tx := r.db.WithContext(ctx).Exec(`
UPDATE inventories
SET available = available + @q,
    updated_at = now()
WHERE product_id = @pid
  AND variant = @v
`, map[string]any{
		"pid": productID,
		"v":   variant,
		"q":   qty,
	})
	return tx.RowsAffected > 0, tx.Error
}
