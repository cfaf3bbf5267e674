package repository

import (
	"context"
	"errors"
	"storefront-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerRepo — append-only: методов изменения или удаления записей нет,
// корректировки оформляются новыми записями.
type LedgerRepo interface {
	AppendCredit(ctx context.Context, e *models.LedgerEntry) error
	// AppendDebit вставляет запись только если выведенный из лога баланс >= суммы.
	// false — средств не хватило, запись не создана.
	AppendDebit(ctx context.Context, e *models.LedgerEntry) (bool, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	// ExistsCompensation — защита от повторного кредита по той же позиции заказа.
	ExistsCompensation(ctx context.Context, orderID uuid.UUID, productID *uuid.UUID, kind models.LedgerKind) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, int64, error)
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepo(db *gorm.DB) LedgerRepo { return &ledgerRepo{db: db} }

func (r *ledgerRepo) AppendCredit(ctx context.Context, e *models.LedgerEntry) error {
	e.Direction = models.DirectionCredit
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ledgerRepo) AppendDebit(ctx context.Context, e *models.LedgerEntry) (bool, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	// Проверка баланса и вставка — одним оператором, чтобы конкурентные дебеты
	// одного пользователя не прошли оба.
	tx := r.db.WithContext(ctx).Exec(`
INSERT INTO ledger_entries (id, user_id, order_id, product_id, amount_cents, direction, kind, transaction_id, currency_code, created_at)
SELECT @id, @uid, @oid, @pid, @amt, 'DEBIT', @kind, @txid, @cur, now()
WHERE (
  SELECT COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount_cents ELSE -amount_cents END), 0)
  FROM ledger_entries
  WHERE user_id = @uid
) >= @amt
`, map[string]any{
		"id":   e.ID,
		"uid":  e.UserID,
		"oid":  e.OrderID,
		"pid":  e.ProductID,
		"amt":  e.AmountCents,
		"kind": e.Kind,
		"txid": e.TransactionID,
		"cur":  e.CurrencyCode,
	})
	return tx.RowsAffected > 0, tx.Error
}

func (r *ledgerRepo) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Select("COALESCE(SUM(CASE WHEN direction = 'CREDIT' THEN amount_cents ELSE -amount_cents END), 0)").
		Where("user_id = ?", userID).
		Scan(&balance).Error
	return balance, err
}

func (r *ledgerRepo) ExistsCompensation(ctx context.Context, orderID uuid.UUID, productID *uuid.UUID, kind models.LedgerKind) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).
		Where("order_id = ? AND kind = ? AND direction = ?", orderID, kind, models.DirectionCredit)
	if productID != nil {
		q = q.Where("product_id = ?", *productID)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt > 0, err
}

func (r *ledgerRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("user_id = ?", userID)

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

	var rows []models.LedgerEntry
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, total, nil
	}
	return rows, total, err
}
