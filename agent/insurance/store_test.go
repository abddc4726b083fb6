package insurance

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// offlineDB formats queries without ever dialing.
func offlineDB(t *testing.T) *bun.DB {
	t.Helper()
	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithAddr("127.0.0.1:1"))), pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPolicyQueryJoinsCustomer(t *testing.T) {
	db := offlineDB(t)

	query := policyQuery(db, new(PolicyDetails), "POL-100005").String()

	assert.Contains(t, query, `FROM "policies" AS "p"`)
	assert.Contains(t, query, "p.*")
	assert.Contains(t, query, "c.full_name, c.email, c.phone")
	assert.Contains(t, query, "JOIN customers AS c ON c.customer_id = p.customer_id")
	assert.Contains(t, query, "(p.policy_id = 'POL-100005')")
	assert.Contains(t, query, "LIMIT 1")
}

func TestClaimQueryCarriesPolicyStatus(t *testing.T) {
	db := offlineDB(t)

	query := claimQuery(db, new(ClaimDetails), "CLM-200010").String()

	assert.Contains(t, query, `FROM "claims" AS "cl"`)
	assert.Contains(t, query, "p.product_name, p.status AS policy_status")
	assert.Contains(t, query, "JOIN policies AS p ON p.policy_id = cl.policy_id")
	assert.Contains(t, query, "(cl.claim_id = 'CLM-200010')")
}

func TestDocumentsQueryClaimTakesPrecedence(t *testing.T) {
	db := offlineDB(t)

	query := documentsQuery(db, new([]Document), "POL-100001", " CLM-200002 ").String()

	assert.Contains(t, query, `FROM "documents" AS "d"`)
	assert.Contains(t, query, "(d.claim_id = 'CLM-200002')")
	assert.NotContains(t, query, "d.policy_id =")
	assert.Contains(t, query, "ORDER BY d.uploaded_at DESC, d.document_id DESC")
}

func TestDocumentsQueryByPolicy(t *testing.T) {
	db := offlineDB(t)

	query := documentsQuery(db, new([]Document), "POL-100001", "  ").String()

	assert.Contains(t, query, "(d.policy_id = 'POL-100001')")
	assert.NotContains(t, query, "d.claim_id =")
}

func TestFetchDocumentsWithoutIDsSkipsQuery(t *testing.T) {
	store := NewStore(offlineDB(t))

	docs, err := store.FetchDocuments(context.Background(), "", "   ")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestFetchBlankIDsAreNotFound(t *testing.T) {
	store := NewStore(offlineDB(t))

	_, err := store.FetchPolicy(context.Background(), "  ")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = store.FetchClaim(context.Background(), "")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClaimStatusPayoutDecision(t *testing.T) {
	assert.True(t, ClaimApproved.HasPayoutDecision())
	assert.True(t, ClaimClosed.HasPayoutDecision())
	assert.False(t, ClaimRejected.HasPayoutDecision())
	assert.False(t, ClaimOpen.HasPayoutDecision())
	assert.False(t, ClaimUnderReview.HasPayoutDecision())
}

func TestTableColumns(t *testing.T) {
	db := offlineDB(t)

	cases := []struct {
		model any
		want  []string
	}{
		{(*Customer)(nil), []string{`"date_of_birth" date`}},
		{(*Policy)(nil), []string{`"sum_insured" numeric(14,2)`, `"annual_premium" numeric(12,2)`}},
		{(*Claim)(nil), []string{`"requested_amount" numeric(14,2)`, `"approved_amount" numeric(14,2)`, `"reason_if_rejected"`}},
	}
	for _, tc := range cases {
		ddl := db.NewCreateTable().Model(tc.model).String()
		for _, col := range tc.want {
			assert.Contains(t, ddl, col)
		}
	}
}
