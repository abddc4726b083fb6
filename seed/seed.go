package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
	"github.com/uptrace/bun"
)

const insertBatchSize = 500

type Summary struct {
	Customers       int `json:"customers"`
	Policies        int `json:"policies"`
	Claims          int `json:"claims"`
	Documents       int `json:"documents"`
	ClaimDocuments  int `json:"claim_documents"`
	PolicyDocuments int `json:"policy_documents"`
}

func (d *Dataset) Summary() Summary {
	s := Summary{
		Customers: len(d.Customers),
		Policies:  len(d.Policies),
		Claims:    len(d.Claims),
		Documents: len(d.Documents),
	}
	for _, doc := range d.Documents {
		if doc.ClaimID != nil {
			s.ClaimDocuments++
		} else {
			s.PolicyDocuments++
		}
	}
	return s
}

// Run generates a dataset and loads it in a single transaction. Any failure rolls
// back the whole batch.
func Run(ctx context.Context, db *bun.DB, cfg Config) (Summary, error) {
	ds, err := Generate(cfg)
	if err != nil {
		return Summary{}, err
	}

	logger := zerolog.Ctx(ctx)
	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if cfg.Reset {
			logger.Info().Msg("dropping schema")
			if err := insurance.DropSchema(ctx, tx); err != nil {
				return err
			}
		}
		if err := insurance.CreateSchema(ctx, tx); err != nil {
			return err
		}
		return load(ctx, tx, ds)
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seed: %w", err)
	}
	return ds.Summary(), nil
}

func load(ctx context.Context, tx bun.Tx, ds *Dataset) error {
	logger := zerolog.Ctx(ctx)

	if err := insertBatches(ctx, tx, ds.Customers); err != nil {
		return fmt.Errorf("insert customers: %w", err)
	}
	logger.Info().Int("count", len(ds.Customers)).Msg("inserted customers")

	for i := range ds.Policies {
		ds.Policies[i].CustomerID = ds.Customers[ds.PolicyOwners[i]].CustomerID
	}
	if err := insertBatches(ctx, tx, ds.Policies); err != nil {
		return fmt.Errorf("insert policies: %w", err)
	}
	logger.Info().Int("count", len(ds.Policies)).Msg("inserted policies")

	if err := insertBatches(ctx, tx, ds.Claims); err != nil {
		return fmt.Errorf("insert claims: %w", err)
	}
	logger.Info().Int("count", len(ds.Claims)).Msg("inserted claims")

	if err := insertBatches(ctx, tx, ds.Documents); err != nil {
		return fmt.Errorf("insert documents: %w", err)
	}
	logger.Info().Int("count", len(ds.Documents)).Msg("inserted documents")

	return nil
}

func insertBatches[T any](ctx context.Context, db bun.IDB, rows []T) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		end := min(start+insertBatchSize, len(rows))
		batch := rows[start:end]
		if _, err := db.NewInsert().Model(&batch).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
