package insurance

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

const documentParentCheck = "documents_single_parent_check"

// Models lists the tables in dependency order.
func Models() []any {
	return []any{
		(*Customer)(nil),
		(*Policy)(nil),
		(*Claim)(nil),
		(*Document)(nil),
	}
}

// CreateSchema creates the tables, constraints and lookup indexes if missing.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*Customer)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create customers: %w", err)
	}

	if _, err := db.NewCreateTable().Model((*Policy)(nil)).IfNotExists().
		ForeignKey(`("customer_id") REFERENCES "customers" ("customer_id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create policies: %w", err)
	}

	if _, err := db.NewCreateTable().Model((*Claim)(nil)).IfNotExists().
		ForeignKey(`("policy_id") REFERENCES "policies" ("policy_id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create claims: %w", err)
	}

	if _, err := db.NewCreateTable().Model((*Document)(nil)).IfNotExists().
		ForeignKey(`("policy_id") REFERENCES "policies" ("policy_id") ON DELETE CASCADE`).
		ForeignKey(`("claim_id") REFERENCES "claims" ("claim_id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("create documents: %w", err)
	}

	if _, err := db.NewRaw("ALTER TABLE documents DROP CONSTRAINT IF EXISTS ?", bun.Ident(documentParentCheck)).Exec(ctx); err != nil {
		return fmt.Errorf("drop documents parent check: %w", err)
	}
	if _, err := db.NewRaw(
		"ALTER TABLE documents ADD CONSTRAINT ? CHECK ((policy_id IS NULL) <> (claim_id IS NULL))",
		bun.Ident(documentParentCheck),
	).Exec(ctx); err != nil {
		return fmt.Errorf("add documents parent check: %w", err)
	}

	indexes := []struct {
		model  any
		name   string
		column string
	}{
		{(*Policy)(nil), "policies_customer_id_idx", "customer_id"},
		{(*Claim)(nil), "claims_policy_id_idx", "policy_id"},
		{(*Document)(nil), "documents_policy_id_idx", "policy_id"},
		{(*Document)(nil), "documents_claim_id_idx", "claim_id"},
	}
	for _, idx := range indexes {
		if _, err := db.NewCreateIndex().Model(idx.model).IfNotExists().Index(idx.name).Column(idx.column).Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// DropSchema drops all four tables.
func DropSchema(ctx context.Context, db bun.IDB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
