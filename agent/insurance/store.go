package insurance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("record not found")

//go:generate mockgen -destination=mocks/mock_lookup.go -package=insurance_mocks github.com/tanpawarit/agentic-insurance-assistant/agent/insurance Lookup

// Lookup is the read-only query surface the tools depend on.
type Lookup interface {
	FetchPolicy(ctx context.Context, policyID string) (*PolicyDetails, error)
	FetchClaim(ctx context.Context, claimID string) (*ClaimDetails, error)
	FetchDocuments(ctx context.Context, policyID, claimID string) ([]Document, error)
}

var _ Lookup = (*Store)(nil)

// Store answers lookups against Postgres. It keeps no state between calls.
type Store struct {
	db bun.IDB
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

func (s *Store) FetchPolicy(ctx context.Context, policyID string) (*PolicyDetails, error) {
	policyID = strings.TrimSpace(policyID)
	if policyID == "" {
		return nil, ErrNotFound
	}

	var out PolicyDetails
	if err := policyQuery(s.db, &out, policyID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select policy %s: %w", policyID, err)
	}
	return &out, nil
}

func (s *Store) FetchClaim(ctx context.Context, claimID string) (*ClaimDetails, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return nil, ErrNotFound
	}

	var out ClaimDetails
	if err := claimQuery(s.db, &out, claimID).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select claim %s: %w", claimID, err)
	}
	return &out, nil
}

// FetchDocuments lists documents newest first. A claim id takes precedence over
// a policy id; with neither the result is empty.
func (s *Store) FetchDocuments(ctx context.Context, policyID, claimID string) ([]Document, error) {
	docs := make([]Document, 0)
	q := documentsQuery(s.db, &docs, policyID, claimID)
	if q == nil {
		return docs, nil
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select documents policy=%q claim=%q: %w", policyID, claimID, err)
	}
	return docs, nil
}

func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.NewSelect().ColumnExpr("1").Scan(ctx, &one); err != nil {
		return fmt.Errorf("ping insurance store: %w", err)
	}
	return nil
}

func policyQuery(db bun.IDB, dest *PolicyDetails, policyID string) *bun.SelectQuery {
	return db.NewSelect().
		Model(dest).
		ColumnExpr("p.*").
		ColumnExpr("c.full_name, c.email, c.phone").
		Join("JOIN customers AS c ON c.customer_id = p.customer_id").
		Where("p.policy_id = ?", policyID).
		Limit(1)
}

func claimQuery(db bun.IDB, dest *ClaimDetails, claimID string) *bun.SelectQuery {
	return db.NewSelect().
		Model(dest).
		ColumnExpr("cl.*").
		ColumnExpr("p.product_name, p.status AS policy_status").
		Join("JOIN policies AS p ON p.policy_id = cl.policy_id").
		Where("cl.claim_id = ?", claimID).
		Limit(1)
}

func documentsQuery(db bun.IDB, dest *[]Document, policyID, claimID string) *bun.SelectQuery {
	q := db.NewSelect().Model(dest).OrderExpr("d.uploaded_at DESC").OrderExpr("d.document_id DESC")

	switch {
	case strings.TrimSpace(claimID) != "":
		return q.Where("d.claim_id = ?", strings.TrimSpace(claimID))
	case strings.TrimSpace(policyID) != "":
		return q.Where("d.policy_id = ?", strings.TrimSpace(policyID))
	default:
		return nil
	}
}
