package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const setTenantQuery = `SELECT set_config('app.tenant_id', $1, true)`

// withTenant runs fn inside a transaction scoped to tenantID. The row-level
// security policies read the setting, so every statement in fn only sees and
// writes that tenant's rows; queries still filter on institute_id explicitly.
func withTenant(ctx context.Context, db *sqlx.DB, tenantID string, fn func(tx *sqlx.Tx) error) error {
	if tenantID == "" {
		return fmt.Errorf("tenant scope: empty tenant id")
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tenant tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, setTenantQuery, tenantID); err != nil {
		return fmt.Errorf("set tenant scope: %w", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tenant tx: %w", err)
	}
	committed = true
	return nil
}
