package models

import (
	"time"

	"github.com/lib/pq"
)

type (
	TenderStatus      string
	ApplicationStatus string
)

const (
	TenderDraft     TenderStatus = "draft"
	TenderPublished TenderStatus = "published"
	TenderClosed    TenderStatus = "closed"
	TenderAwarded   TenderStatus = "awarded"

	ApplicationSubmitted   ApplicationStatus = "submitted"
	ApplicationUnderReview ApplicationStatus = "under_review"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationRejected    ApplicationStatus = "rejected"
)

func ValidTenderStatus(s TenderStatus) bool {
	switch s {
	case TenderDraft, TenderPublished, TenderClosed, TenderAwarded:
		return true
	default:
		return false
	}
}

// CanTransitionTender reports whether a tender may move between the two
// statuses. Transitions are forward-only; a closed or awarded tender never
// returns to published.
func CanTransitionTender(from, to TenderStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case TenderDraft:
		return to == TenderPublished
	case TenderPublished:
		return to == TenderClosed || to == TenderAwarded
	case TenderClosed:
		return to == TenderAwarded
	default:
		return false
	}
}

func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationSubmitted, ApplicationUnderReview, ApplicationShortlisted,
		ApplicationAccepted, ApplicationRejected:
		return true
	default:
		return false
	}
}

// Account holds the credential record. The password hash never leaves the
// server.
type Account struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// Organization is the unit of ownership for tenders and applications. Each
// account owns at most one organization (unique account_id).
type Organization struct {
	ID           int       `db:"id" json:"id"`
	AccountID    int       `db:"account_id" json:"-"`
	Name         string    `db:"name" json:"name"`
	Industry     string    `db:"industry" json:"industry"`
	Description  string    `db:"description" json:"description"`
	ContactEmail string    `db:"contact_email" json:"contactEmail"`
	ContactPhone string    `db:"contact_phone" json:"contactPhone"`
	Address      string    `db:"address" json:"address"`
	LogoURL      string    `db:"logo_url" json:"logoUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

type Tender struct {
	ID             int          `db:"id" json:"id"`
	OrganizationID int          `db:"organization_id" json:"organizationId"`
	Title          string       `db:"title" json:"title"`
	Description    string       `db:"description" json:"description"`
	Requirements   string       `db:"requirements" json:"requirements"`
	BudgetMin      *int64       `db:"budget_min" json:"budgetMin"`
	BudgetMax      *int64       `db:"budget_max" json:"budgetMax"`
	Deadline       time.Time    `db:"deadline" json:"deadline"`
	Status         TenderStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time    `db:"updated_at" json:"-"`
}

// TenderDetail embeds the bid count for the single-tender view.
type TenderDetail struct {
	Tender
	ApplicationCount int `db:"application_count" json:"applicationCount"`
}

type Application struct {
	ID             int               `db:"id" json:"id"`
	TenderID       int               `db:"tender_id" json:"tenderId"`
	OrganizationID int               `db:"organization_id" json:"organizationId"`
	Proposal       string            `db:"proposal" json:"proposal"`
	QuotedPrice    *int64            `db:"quoted_price" json:"quotedPrice"`
	Status         ApplicationStatus `db:"status" json:"status"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"-"`
}

type GoodsService struct {
	ID             int            `db:"id" json:"id"`
	OrganizationID int            `db:"organization_id" json:"-"`
	Name           string         `db:"name" json:"name"`
	Description    string         `db:"description" json:"description"`
	Category       string         `db:"category" json:"category"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"-"`
}
