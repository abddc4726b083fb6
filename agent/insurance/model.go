package insurance

import (
	"time"

	"github.com/uptrace/bun"
)

type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "ACTIVE"
	PolicyLapsed    PolicyStatus = "LAPSED"
	PolicyExpired   PolicyStatus = "EXPIRED"
	PolicyCancelled PolicyStatus = "CANCELLED"
)

type ClaimStatus string

const (
	ClaimOpen        ClaimStatus = "OPEN"
	ClaimUnderReview ClaimStatus = "UNDER_REVIEW"
	ClaimApproved    ClaimStatus = "APPROVED"
	ClaimRejected    ClaimStatus = "REJECTED"
	ClaimClosed      ClaimStatus = "CLOSED"
)

// HasPayoutDecision reports whether an approved amount is recorded for the status.
func (s ClaimStatus) HasPayoutDecision() bool {
	return s == ClaimApproved || s == ClaimClosed
}

type ClaimType string

const (
	ClaimHealth   ClaimType = "HEALTH"
	ClaimMotor    ClaimType = "MOTOR"
	ClaimProperty ClaimType = "PROPERTY"
	ClaimLife     ClaimType = "LIFE"
)

type DocumentType string

const (
	DocKYC              DocumentType = "KYC"
	DocHospitalBill     DocumentType = "HOSPITAL_BILL"
	DocDischargeSummary DocumentType = "DISCHARGE_SUMMARY"
	DocFIR              DocumentType = "FIR"
	DocIDProof          DocumentType = "ID_PROOF"
)

type StorageSystem string

const (
	StorageS3         StorageSystem = "S3"
	StorageSharePoint StorageSystem = "SHAREPOINT"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:c"`

	CustomerID  int64     `bun:"customer_id,pk,autoincrement" json:"customer_id"`
	FullName    string    `bun:"full_name,notnull" json:"full_name"`
	Email       string    `bun:"email" json:"email"`
	Phone       string    `bun:"phone" json:"phone"`
	DateOfBirth time.Time `bun:"date_of_birth,type:date" json:"date_of_birth"`
	City        string    `bun:"city" json:"city"`
	State       string    `bun:"state" json:"state"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Policy struct {
	bun.BaseModel `bun:"table:policies,alias:p"`

	PolicyID      string       `bun:"policy_id,pk" json:"policy_id"`
	CustomerID    int64        `bun:"customer_id,notnull" json:"customer_id"`
	ProductCode   string       `bun:"product_code,notnull" json:"product_code"`
	ProductName   string       `bun:"product_name,notnull" json:"product_name"`
	StartDate     time.Time    `bun:"start_date,type:date,notnull" json:"start_date"`
	EndDate       time.Time    `bun:"end_date,type:date,notnull" json:"end_date"`
	Status        PolicyStatus `bun:"status,notnull" json:"status"`
	SumInsured    float64      `bun:"sum_insured,type:numeric(14,2),notnull" json:"sum_insured"`
	AnnualPremium float64      `bun:"annual_premium,type:numeric(12,2),notnull" json:"annual_premium"`
}

type Claim struct {
	bun.BaseModel `bun:"table:claims,alias:cl"`

	ClaimID          string      `bun:"claim_id,pk" json:"claim_id"`
	PolicyID         string      `bun:"policy_id,notnull" json:"policy_id"`
	ClaimType        ClaimType   `bun:"claim_type,notnull" json:"claim_type"`
	Status           ClaimStatus `bun:"status,notnull" json:"status"`
	ReportedDate     time.Time   `bun:"reported_date,type:date,notnull" json:"reported_date"`
	LossDate         time.Time   `bun:"loss_date,type:date,notnull" json:"loss_date"`
	RequestedAmount  float64     `bun:"requested_amount,type:numeric(14,2),notnull" json:"requested_amount"`
	ApprovedAmount   *float64    `bun:"approved_amount,type:numeric(14,2)" json:"approved_amount"`
	ReasonIfRejected *string     `bun:"reason_if_rejected" json:"reason_if_rejected"`
	Currency         string      `bun:"currency,notnull,default:'INR'" json:"currency"`
}

// Document belongs to exactly one of a policy or a claim.
type Document struct {
	bun.BaseModel `bun:"table:documents,alias:d"`

	DocumentID    string        `bun:"document_id,pk" json:"document_id"`
	PolicyID      *string       `bun:"policy_id" json:"policy_id"`
	ClaimID       *string       `bun:"claim_id" json:"claim_id"`
	DocType       DocumentType  `bun:"doc_type,notnull" json:"doc_type"`
	StorageSystem StorageSystem `bun:"storage_system,notnull" json:"storage_system"`
	StoragePath   string        `bun:"storage_path,notnull" json:"storage_path"`
	UploadedAt    time.Time     `bun:"uploaded_at,nullzero,notnull,default:current_timestamp" json:"uploaded_at"`

	DownloadURL string `bun:"-" json:"download_url,omitempty"`
}

// PolicyDetails is a policy flattened with its owner's contact fields.
type PolicyDetails struct {
	Policy `bun:",extend"`

	FullName string `bun:"full_name" json:"full_name"`
	Email    string `bun:"email" json:"email"`
	Phone    string `bun:"phone" json:"phone"`
}

// ClaimDetails is a claim with the product name and current status of its policy.
type ClaimDetails struct {
	Claim `bun:",extend"`

	ProductName  string       `bun:"product_name" json:"product_name"`
	PolicyStatus PolicyStatus `bun:"policy_status" json:"policy_status"`
}
