package models

import "time"

// CertificateStatus enumerates the lifecycle states of an issued certificate.
type CertificateStatus string

const (
	CertificateStatusActive  CertificateStatus = "active"
	CertificateStatusRevoked CertificateStatus = "revoked"
)

// Certificate represents an internship certificate keyed by its intern ID.
// The dates are stored in their canonical DD-MM-YYYY text form so they render
// back exactly as issued, with no timezone drift.
type Certificate struct {
	ID             string            `db:"id" json:"id"`
	InternID       string            `db:"intern_id" json:"internId"`
	Name           string            `db:"name" json:"name"`
	Domain         string            `db:"domain" json:"domain"`
	Duration       int               `db:"duration" json:"duration"`
	StartingDate   string            `db:"starting_date" json:"startingDate"`
	CompletionDate string            `db:"completion_date" json:"completionDate"`
	Email          string            `db:"email" json:"email,omitempty"`
	Status         CertificateStatus `db:"status" json:"status"`
	MentorName     *string           `db:"mentor_name" json:"mentorName,omitempty"`
	MentorEmail    *string           `db:"mentor_email" json:"mentorEmail,omitempty"`
	MentorContact  *string           `db:"mentor_contact" json:"mentorContact,omitempty"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
}

// CertificateFilter captures search parameters for listing certificates.
type CertificateFilter struct {
	Search    string
	Domain    string
	Status    *CertificateStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
