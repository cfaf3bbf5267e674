package migrate

import (
	"context"

	"storefront-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, uuid-ossp
	CreateChecks           bool // CHECK-constraint для целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (поверх GORM-constraint)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

func MigrateStorefrontDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных витрины")

	// Расширения
	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
			log.Error("Не удалось включить расширение uuid-ossp", zap.Error(err))
			return err
		}
		log.Info("Расширения PostgreSQL успешно созданы")
	}

	// Таблицы
	log.Info("Создание таблиц витрины")
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Inventory{},
		&models.Cart{},
		&models.CartItem{},
		&models.Address{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemEvent{},
		&models.LedgerEntry{},
		&models.RefundRequest{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}
	log.Info("Таблицы успешно созданы")

	// Триггер updated_at
	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated
BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_inventories_updated ON inventories;
CREATE TRIGGER trg_inventories_updated
BEFORE UPDATE ON inventories
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_refund_requests_updated ON refund_requests;
CREATE TRIGGER trg_refund_requests_updated
BEFORE UPDATE ON refund_requests
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_carts_updated ON carts;
CREATE TRIGGER trg_carts_updated
BEFORE UPDATE ON carts
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("Не удалось создать триггеры updated_at", zap.Error(err))
			return err
		}
		log.Info("Триггеры updated_at успешно созданы")
	}

	// CHECK-constraint
	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Статусы (так как храним TEXT)
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('PENDING','PROCESSING','SHIPPED','OUT_FOR_DELIVERY','DELIVERED','CANCELLED','RETURN_REQUESTED','RETURNED'));

ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_status_allowed;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_status_allowed
  CHECK (status IN ('PENDING','PROCESSING','SHIPPED','OUT_FOR_DELIVERY','DELIVERED','CANCELLED','RETURN_REQUESTED','RETURNED'));

ALTER TABLE refund_requests
  DROP CONSTRAINT IF EXISTS chk_refund_requests_status_allowed;
ALTER TABLE refund_requests
  ADD CONSTRAINT chk_refund_requests_status_allowed
  CHECK (status IN ('REQUESTED','APPROVED','REJECTED'));

ALTER TABLE ledger_entries
  DROP CONSTRAINT IF EXISTS chk_ledger_direction_allowed;
ALTER TABLE ledger_entries
  ADD CONSTRAINT chk_ledger_direction_allowed
  CHECK (direction IN ('CREDIT','DEBIT'));

ALTER TABLE ledger_entries
  DROP CONSTRAINT IF EXISTS chk_ledger_kind_allowed;
ALTER TABLE ledger_entries
  ADD CONSTRAINT chk_ledger_kind_allowed
  CHECK (kind IN ('PURCHASE','REFUND','CANCELLATION','TOPUP'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для статусов", zap.Error(err))
			return err
		}

		// Суммы заказа: итог сходится с компонентами, всё неотрицательное
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_amounts_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_amounts_non_negative
  CHECK (total_price_cents >= 0 AND discount_cents >= 0 AND delivery_charge_cents >= 0 AND final_amount_cents >= 0);

ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_final_amount_consistent;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_final_amount_consistent
  CHECK (final_amount_cents = total_price_cents - discount_cents + delivery_charge_cents);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для сумм заказа", zap.Error(err))
			return err
		}

		// Позиции: количество > 0, цены неотрицательные
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_quantity_gt_zero
  CHECK (quantity > 0);

ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_prices_non_negative
  CHECK (unit_price_cents >= 0 AND line_total_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для order_items", zap.Error(err))
			return err
		}

		// Леджер: сумма строго положительная, знак задаётся направлением
		if err := db.Exec(`
ALTER TABLE ledger_entries
  DROP CONSTRAINT IF EXISTS chk_ledger_amount_positive;
ALTER TABLE ledger_entries
  ADD CONSTRAINT chk_ledger_amount_positive
  CHECK (amount_cents > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для ledger_entries.amount_cents", zap.Error(err))
			return err
		}

		// Остатки не могут уйти в минус
		if err := db.Exec(`
ALTER TABLE inventories
  DROP CONSTRAINT IF EXISTS chk_inventories_non_negative;
ALTER TABLE inventories
  ADD CONSTRAINT chk_inventories_non_negative
  CHECK (available >= 0 AND reserved >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для inventories", zap.Error(err))
			return err
		}

		// Валюта (ровно 3 символа)
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_currency_code_len;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_currency_code_len
  CHECK (char_length(currency_code) = 3);

ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS chk_order_items_currency_code_len;
ALTER TABLE order_items
  ADD CONSTRAINT chk_order_items_currency_code_len
  CHECK (char_length(currency_code) = 3);

ALTER TABLE ledger_entries
  DROP CONSTRAINT IF EXISTS chk_ledger_currency_code_len;
ALTER TABLE ledger_entries
  ADD CONSTRAINT chk_ledger_currency_code_len
  CHECK (char_length(currency_code) = 3);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для currency_code", zap.Error(err))
			return err
		}

		log.Info("CHECK-ограничения успешно созданы")
	}

	// Индексы
	if opt.CreateIndexes {
		log.Info("Создание индексов")

		// Композитный UNIQUE на случай если тегами не создался
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_items_order_product_variant
ON order_items (order_id, product_id, variant);
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_order_items_order_product_variant", zap.Error(err))
			return err
		}

		// Для выборок: заказы пользователя по дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);

CREATE INDEX IF NOT EXISTS ix_orders_status_created
ON orders (status, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индексы заказов", zap.Error(err))
			return err
		}

		// История кошелька по дате
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_ledger_user_created
ON ledger_entries (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_ledger_user_created", zap.Error(err))
			return err
		}

		// Не больше одной активной заявки на возврат по позиции
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_refunds_active_item
ON refund_requests (order_id, product_id, variant)
WHERE status = 'REQUESTED';
`).Error; err != nil {
			log.Error("Не удалось создать частичный индекс ux_refunds_active_item", zap.Error(err))
			return err
		}

		// Не больше одной компенсации по (заказ, позиция, вид);
		// COALESCE сводит NULL к нулевому UUID для компенсаций всего заказа
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_ledger_compensation_once
ON ledger_entries (order_id, COALESCE(product_id, '00000000-0000-0000-0000-000000000000'::uuid), kind)
WHERE direction = 'CREDIT' AND order_id IS NOT NULL;
`).Error; err != nil {
			log.Error("Не удалось создать частичный индекс ux_ledger_compensation_once", zap.Error(err))
			return err
		}

		log.Info("Индексы успешно созданы")
	}

	// Внешние ключи
	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;

ALTER TABLE order_item_events
  DROP CONSTRAINT IF EXISTS fk_order_item_events_item,
  ADD CONSTRAINT fk_order_item_events_item
    FOREIGN KEY (order_item_id) REFERENCES order_items(id) ON DELETE CASCADE;

ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_cart,
  ADD CONSTRAINT fk_cart_items_cart
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE;

ALTER TABLE coupon_redemptions
  DROP CONSTRAINT IF EXISTS fk_coupon_redemptions_coupon,
  ADD CONSTRAINT fk_coupon_redemptions_coupon
    FOREIGN KEY (coupon_id) REFERENCES coupons(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать внешние ключи", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи успешно созданы")
	}

	log.Info("Миграция базы данных витрины успешно завершена")
	return nil
}
