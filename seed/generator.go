package seed

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/tanpawarit/agentic-insurance-assistant/agent/insurance"
)

const (
	policyIDBase = 100000
	claimIDBase  = 200000
	coverageDays = 365
	currencyINR  = "INR"
)

type product struct {
	Code string
	Name string
}

var products = []product{
	{"HLTH_SILVER", "Health Shield Silver"},
	{"HLTH_GOLD", "Health Shield Gold"},
	{"HLTH_PLATINUM", "Health Shield Platinum"},
	{"MOTOR_BASIC", "Motor Protect Basic"},
	{"MOTOR_COMPRE", "Motor Protect Comprehensive"},
	{"PROP_HOME", "Home Guard Property"},
	{"LIFE_TERM", "Life Term Secure"},
}

var (
	sumInsuredOptions = []int{200000, 300000, 500000, 1000000, 2000000}
	requestedOptions  = []int{25000, 50000, 75000, 100000, 150000, 200000}

	policyStatuses = []any{
		insurance.PolicyActive,
		insurance.PolicyLapsed,
		insurance.PolicyExpired,
		insurance.PolicyCancelled,
	}
	policyStatusWeights = []float32{5, 2, 2, 1}

	claimTypes = []insurance.ClaimType{
		insurance.ClaimHealth,
		insurance.ClaimMotor,
		insurance.ClaimProperty,
		insurance.ClaimLife,
	}
	claimStatuses = []insurance.ClaimStatus{
		insurance.ClaimOpen,
		insurance.ClaimUnderReview,
		insurance.ClaimApproved,
		insurance.ClaimRejected,
		insurance.ClaimClosed,
	}
	rejectionReasons = []string{
		"Policy not active at the time of loss",
		"Non-disclosure of pre-existing condition",
		"Insufficient documentation",
		"Loss event not covered under policy terms",
	}
	docTypes = []insurance.DocumentType{
		insurance.DocKYC,
		insurance.DocHospitalBill,
		insurance.DocDischargeSummary,
		insurance.DocFIR,
		insurance.DocIDProof,
	}
)

// Config controls the size and shape of the synthetic dataset.
type Config struct {
	Customers int
	Policies  int
	Claims    int
	Documents int
	Seed      uint64
	// ClaimShare is the probability that a document is attached to a claim
	// rather than a policy.
	ClaimShare float64
	// Reset drops the schema before loading.
	Reset bool
	// Now anchors all generated dates. Zero means time.Now.
	Now time.Time
}

func DefaultConfig() Config {
	return Config{
		Customers:  300,
		Policies:   500,
		Claims:     1000,
		Documents:  2000,
		Seed:       42,
		ClaimShare: 0.8,
	}
}

func (c Config) Validate() error {
	if c.Customers < 0 || c.Policies < 0 || c.Claims < 0 || c.Documents < 0 {
		return errors.New("seed: counts must be >= 0")
	}
	if c.Policies > 0 && c.Customers == 0 {
		return errors.New("seed: policies need at least one customer")
	}
	if c.Claims > 0 && c.Policies == 0 {
		return errors.New("seed: claims need at least one policy")
	}
	if c.ClaimShare < 0 || c.ClaimShare > 1 {
		return fmt.Errorf("seed: claim share %.2f is outside [0, 1]", c.ClaimShare)
	}
	if c.Documents > 0 {
		if c.Claims == 0 && c.ClaimShare > 0 {
			return errors.New("seed: documents attached to claims need at least one claim")
		}
		if c.Policies == 0 && c.ClaimShare < 1 {
			return errors.New("seed: documents attached to policies need at least one policy")
		}
	}
	return nil
}

// Dataset is a generated batch. PolicyOwners[i] indexes Customers for Policies[i];
// customer ids are only known after insert.
type Dataset struct {
	Customers    []insurance.Customer
	Policies     []insurance.Policy
	PolicyOwners []int
	Claims       []insurance.Claim
	Documents    []insurance.Document
}

type generator struct {
	faker   *gofakeit.Faker
	entropy io.Reader
	today   time.Time
}

// Generate builds a dataset. The same Config always yields the same dataset.
func Generate(cfg Config) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	g := &generator{
		faker:   gofakeit.New(cfg.Seed),
		entropy: rand.New(rand.NewSource(int64(cfg.Seed))),
		today:   truncateDay(now),
	}

	ds := &Dataset{}
	ds.Customers = g.customers(cfg.Customers)
	ds.Policies, ds.PolicyOwners = g.policies(cfg.Policies, len(ds.Customers))
	ds.Claims = g.claims(cfg.Claims, ds.Policies)
	docs, err := g.documents(cfg.Documents, cfg.ClaimShare, ds.Policies, ds.Claims)
	if err != nil {
		return nil, err
	}
	ds.Documents = docs
	return ds, nil
}

func (g *generator) customers(n int) []insurance.Customer {
	out := make([]insurance.Customer, 0, n)
	for range n {
		out = append(out, insurance.Customer{
			FullName:    g.faker.Name(),
			Email:       strings.ToLower(g.faker.Email()),
			Phone:       g.faker.Phone(),
			DateOfBirth: g.dayBetween(g.today.AddDate(-60, 0, 0), g.today.AddDate(-20, 0, 0)),
			City:        g.faker.City(),
			State:       g.faker.State(),
		})
	}
	return out
}

func (g *generator) policies(n, customers int) ([]insurance.Policy, []int) {
	out := make([]insurance.Policy, 0, n)
	owners := make([]int, 0, n)
	for i := range n {
		p := products[g.faker.IntRange(0, len(products)-1)]
		start := g.dayBetween(g.today.AddDate(-3, 0, 0), g.today)
		sum := g.faker.RandomInt(sumInsuredOptions)

		status, err := g.faker.Weighted(policyStatuses, policyStatusWeights)
		if err != nil {
			status = insurance.PolicyActive
		}

		owners = append(owners, g.faker.IntRange(0, customers-1))
		out = append(out, insurance.Policy{
			PolicyID:      fmt.Sprintf("POL-%d", policyIDBase+i),
			ProductCode:   p.Code,
			ProductName:   p.Name,
			StartDate:     start,
			EndDate:       start.AddDate(0, 0, coverageDays),
			Status:        status.(insurance.PolicyStatus),
			SumInsured:    float64(sum),
			AnnualPremium: round2(float64(sum) * g.faker.Float64Range(0.02, 0.06)),
		})
	}
	return out, owners
}

func (g *generator) claims(n int, policies []insurance.Policy) []insurance.Claim {
	out := make([]insurance.Claim, 0, n)
	for i := range n {
		policy := policies[g.faker.IntRange(0, len(policies)-1)]
		reported := g.dayBetween(g.today.AddDate(-2, 0, 0), g.today)
		requested := float64(g.faker.RandomInt(requestedOptions))
		status := claimStatuses[g.faker.IntRange(0, len(claimStatuses)-1)]

		c := insurance.Claim{
			ClaimID:         fmt.Sprintf("CLM-%d", claimIDBase+i),
			PolicyID:        policy.PolicyID,
			ClaimType:       claimTypes[g.faker.IntRange(0, len(claimTypes)-1)],
			Status:          status,
			ReportedDate:    reported,
			LossDate:        reported.AddDate(0, 0, -g.faker.IntRange(0, 10)),
			RequestedAmount: requested,
			Currency:        currencyINR,
		}

		switch status {
		case insurance.ClaimApproved:
			c.ApprovedAmount = ptr(approvedAmount(requested, g.faker.Float64Range(0.6, 1.0)))
		case insurance.ClaimClosed:
			c.ApprovedAmount = ptr(approvedAmount(requested, g.faker.Float64Range(0.3, 1.0)))
		case insurance.ClaimRejected:
			c.ReasonIfRejected = ptr(g.faker.RandomString(rejectionReasons))
		}
		out = append(out, c)
	}
	return out
}

func (g *generator) documents(n int, claimShare float64, policies []insurance.Policy, claims []insurance.Claim) ([]insurance.Document, error) {
	out := make([]insurance.Document, 0, n)
	for range n {
		var d insurance.Document
		if g.faker.Float64() < claimShare {
			d.ClaimID = ptr(claims[g.faker.IntRange(0, len(claims)-1)].ClaimID)
		} else {
			d.PolicyID = ptr(policies[g.faker.IntRange(0, len(policies)-1)].PolicyID)
		}

		d.DocType = docTypes[g.faker.IntRange(0, len(docTypes)-1)]
		d.StorageSystem = insurance.StorageS3
		if g.faker.Bool() {
			d.StorageSystem = insurance.StorageSharePoint
		}

		fileID, err := uuid.NewRandomFromReader(g.entropy)
		if err != nil {
			return nil, fmt.Errorf("seed: document file id: %w", err)
		}
		d.StoragePath = storagePath(d.StorageSystem, d.DocType, fileID)

		d.UploadedAt = g.faker.DateRange(g.today.AddDate(-2, 0, 0), g.today).UTC()
		id, err := ulid.New(ulid.Timestamp(d.UploadedAt), g.entropy)
		if err != nil {
			return nil, fmt.Errorf("seed: document id: %w", err)
		}
		d.DocumentID = id.String()

		out = append(out, d)
	}
	return out, nil
}

func storagePath(system insurance.StorageSystem, docType insurance.DocumentType, fileID uuid.UUID) string {
	folder := strings.ToLower(string(docType))
	if system == insurance.StorageS3 {
		return fmt.Sprintf("s3://insurance-bucket/%s/%s.pdf", folder, fileID)
	}
	return fmt.Sprintf("https://sharepoint.example.com/docs/%s/%s.pdf", folder, fileID)
}

func (g *generator) dayBetween(start, end time.Time) time.Time {
	return truncateDay(g.faker.DateRange(start, end))
}

// approvedAmount never exceeds the requested amount after rounding.
func approvedAmount(requested, ratio float64) float64 {
	return math.Min(round2(requested*ratio), requested)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T { return &v }
