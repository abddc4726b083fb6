package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/agentic-insurance-assistant/agent/contract"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
)

type PolicyOutput struct {
	Found    bool                     `json:"found"`
	PolicyID string                   `json:"policy_id,omitempty"`
	Policy   *insurance.PolicyDetails `json:"policy,omitempty"`
}

type ClaimOutput struct {
	Found   bool                    `json:"found"`
	ClaimID string                  `json:"claim_id,omitempty"`
	Claim   *insurance.ClaimDetails `json:"claim,omitempty"`
}

type DocumentsOutput struct {
	PolicyID  *string              `json:"policy_id"`
	ClaimID   *string              `json:"claim_id"`
	Documents []insurance.Document `json:"documents"`
}

type lookupTools struct {
	lookup insurance.Lookup
	linker DocumentLinker
}

func (t *lookupTools) getPolicy(ctx context.Context, args map[string]any) (any, error) {
	policyID, err := requiredString(args, "policy_id")
	if err != nil {
		return nil, err
	}

	policy, err := t.lookup.FetchPolicy(ctx, policyID)
	if errors.Is(err, insurance.ErrNotFound) {
		return PolicyOutput{Found: false, PolicyID: policyID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch policy %s: %v", contractx.ErrStoreUnavailable, policyID, err)
	}
	return PolicyOutput{Found: true, Policy: policy}, nil
}

func (t *lookupTools) getClaim(ctx context.Context, args map[string]any) (any, error) {
	claimID, err := requiredString(args, "claim_id")
	if err != nil {
		return nil, err
	}

	claim, err := t.lookup.FetchClaim(ctx, claimID)
	if errors.Is(err, insurance.ErrNotFound) {
		return ClaimOutput{Found: false, ClaimID: claimID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch claim %s: %v", contractx.ErrStoreUnavailable, claimID, err)
	}
	return ClaimOutput{Found: true, Claim: claim}, nil
}

func (t *lookupTools) getDocuments(ctx context.Context, args map[string]any) (any, error) {
	policyID, err := optionalString(args, "policy_id")
	if err != nil {
		return nil, err
	}
	claimID, err := optionalString(args, "claim_id")
	if err != nil {
		return nil, err
	}

	docs, err := t.lookup.FetchDocuments(ctx, policyID, claimID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch documents policy=%q claim=%q: %v", contractx.ErrStoreUnavailable, policyID, claimID, err)
	}
	if docs == nil {
		docs = []insurance.Document{}
	}
	t.attachLinks(ctx, docs)

	return DocumentsOutput{
		PolicyID:  nilIfEmpty(policyID),
		ClaimID:   nilIfEmpty(claimID),
		Documents: docs,
	}, nil
}

func (t *lookupTools) attachLinks(ctx context.Context, docs []insurance.Document) {
	if t.linker == nil {
		return
	}
	for i := range docs {
		if docs[i].StorageSystem != insurance.StorageS3 {
			continue
		}
		url, err := t.linker.DownloadURL(ctx, docs[i].StoragePath)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("document_id", docs[i].DocumentID).Msg("presign document link")
			continue
		}
		docs[i].DownloadURL = url
	}
}

func requiredString(args map[string]any, key string) (string, error) {
	v, err := optionalString(args, key)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", &ArgumentError{Msg: key + " is required"}
	}
	return v, nil
}

func optionalString(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &ArgumentError{Msg: fmt.Sprintf("%s must be a string, got %T", key, raw)}
	}
	return strings.TrimSpace(s), nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
