package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema hardening on top of AutoMigrate:
// - Money column types (NUMERIC(12,2))
// - Composite indexes for ledger lookups
// - Foreign key: payment_allocations.student_fee_id → student_fees.id
// - CHECK constraints encoding the ledger invariants
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE fee_schedules       ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE fee_schedules       ALTER COLUMN late_fee_per_day TYPE numeric(12,2)`,
			`ALTER TABLE fee_schedules       ALTER COLUMN max_late_fee     TYPE numeric(12,2)`,
			`ALTER TABLE fee_discounts       ALTER COLUMN value            TYPE numeric(12,2)`,
			`ALTER TABLE student_fees        ALTER COLUMN original_amount  TYPE numeric(12,2)`,
			`ALTER TABLE student_fees        ALTER COLUMN discount_amount  TYPE numeric(12,2)`,
			`ALTER TABLE student_fees        ALTER COLUMN net_amount       TYPE numeric(12,2)`,
			`ALTER TABLE student_fees        ALTER COLUMN paid_amount      TYPE numeric(12,2)`,
			`ALTER TABLE student_fees        ALTER COLUMN late_fee         TYPE numeric(12,2)`,
			`ALTER TABLE fee_payments        ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE payment_allocations ALTER COLUMN amount           TYPE numeric(12,2)`,
			`ALTER TABLE assets              ALTER COLUMN purchase_price   TYPE numeric(12,2)`,
			`ALTER TABLE assets              ALTER COLUMN salvage_value    TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_student_fees_student_schedule_period ON student_fees (student_id, fee_schedule_id, period_no)`,
			`CREATE INDEX IF NOT EXISTS idx_student_fees_status_due_date ON student_fees (status, due_date)`,
			`CREATE INDEX IF NOT EXISTS idx_payment_allocations_payment ON payment_allocations (fee_payment_id)`,
			`CREATE INDEX IF NOT EXISTS idx_payment_allocations_fee ON payment_allocations (student_fee_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign key: payment_allocations.student_fee_id -> student_fees.id (RESTRICT/RESTRICT) ---
		// Obligations referenced by payments are the audit trail; they may not be deleted.
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'payment_allocations'::regclass
		  AND conname  = 'fk_payment_allocations_student_fee'
	) THEN
		ALTER TABLE payment_allocations
		ADD CONSTRAINT fk_payment_allocations_student_fee
		FOREIGN KEY (student_fee_id)
		REFERENCES student_fees(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("foreign key migration failed: %w", err)
		}

		// --- CHECK constraints for the ledger invariants (idempotent) ---
		checks := []string{
			// balance = net + late - paid >= 0, always
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'student_fees'::regclass
					  AND conname  = 'chk_student_fees_paid_within_balance'
				) THEN
					ALTER TABLE student_fees
					ADD CONSTRAINT chk_student_fees_paid_within_balance
					CHECK (paid_amount <= net_amount + late_fee);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'student_fees'::regclass
					  AND conname  = 'chk_student_fees_amounts_nonneg'
				) THEN
					ALTER TABLE student_fees
					ADD CONSTRAINT chk_student_fees_amounts_nonneg
					CHECK (net_amount >= 0 AND paid_amount >= 0 AND late_fee >= 0 AND discount_amount >= 0);
				END IF;
			END $$;`,
			// Payments are strictly positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'fee_payments'::regclass
					  AND conname  = 'chk_fee_payments_amount_positive'
				) THEN
					ALTER TABLE fee_payments
					ADD CONSTRAINT chk_fee_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payment_allocations'::regclass
					  AND conname  = 'chk_payment_allocations_amount_positive'
				) THEN
					ALTER TABLE payment_allocations
					ADD CONSTRAINT chk_payment_allocations_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
