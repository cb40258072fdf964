package dto

// VerificationSuccess is the lookup payload for a valid certificate. The
// JSON keys are the literal display labels consumed by existing clients and
// must be preserved exactly.
type VerificationSuccess struct {
	Valid          bool   `json:"valid"`
	Name           string `json:"Name"`
	Domain         string `json:"Domain"`
	Duration       int    `json:"Duration"`
	InternID       string `json:"Intern ID"`
	StartingDate   string `json:"Starting Date"`
	CompletionDate string `json:"Completion Date"`
}

// VerificationFailure is the lookup payload when no valid certificate exists.
type VerificationFailure struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// CertificateCreatedData is the summary echoed after a single-record insert.
type CertificateCreatedData struct {
	InternID string `json:"internId"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Duration int    `json:"duration"`
}

// CertificateCreated is the single-insert success payload.
type CertificateCreated struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    CertificateCreatedData `json:"data"`
}

// CertificateRejection is the single-insert failure payload.
type CertificateRejection struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}
