package service

import (
	"context"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WalletService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewWalletService(repo *repository.Repository, log *zap.Logger) *WalletService {
	return &WalletService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Balance всегда выводится свёрткой лога; кэшированного счётчика нет.
func (s *WalletService) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.Ledger.Balance(ctx, userID)
}

func (s *WalletService) TopUp(ctx context.Context, userID uuid.UUID, amountCents int64) (*models.LedgerEntry, error) {
	if amountCents <= 0 {
		return nil, ErrAmountInvalid
	}
	e := &models.LedgerEntry{
		UserID:        userID,
		AmountCents:   amountCents,
		Kind:          models.KindTopUp,
		TransactionID: uuid.New(),
		CurrencyCode:  currencyINR,
	}
	if err := s.repo.Ledger.AppendCredit(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Debit атомарен относительно конкурентных списаний того же пользователя:
// проверка баланса и вставка записи — один условный оператор в сторе.
func (s *WalletService) Debit(ctx context.Context, userID uuid.UUID, amountCents int64, kind models.LedgerKind, orderID *uuid.UUID) (*models.LedgerEntry, error) {
	if amountCents <= 0 {
		return nil, ErrAmountInvalid
	}
	e := &models.LedgerEntry{
		UserID:        userID,
		OrderID:       orderID,
		AmountCents:   amountCents,
		Direction:     models.DirectionDebit,
		Kind:          kind,
		TransactionID: uuid.New(),
		CurrencyCode:  currencyINR,
	}
	ok, err := s.repo.Ledger.AppendDebit(ctx, e)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInsufficientFunds
	}
	return e, nil
}

func (s *WalletService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, int64, error) {
	return s.repo.Ledger.ListByUser(ctx, userID, limit, offset)
}
