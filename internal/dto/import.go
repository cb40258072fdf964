package dto

import "fmt"

// BulkImportRequest is the bulk submission envelope. Rows are kept as raw
// maps because source keys and date encodings vary; the importer package
// resolves them onto the canonical shape.
type BulkImportRequest struct {
	Certificates []map[string]interface{} `json:"certificates"`
}

// ImportSuccess identifies a row that was persisted.
type ImportSuccess struct {
	Index    int    `json:"index"`
	InternID string `json:"internId"`
	Name     string `json:"name"`
}

// ImportFailure identifies a row rejected with its full defect list.
type ImportFailure struct {
	Index    int      `json:"index"`
	InternID string   `json:"internId"`
	Errors   []string `json:"errors"`
}

// ImportSkip identifies a row whose intern ID already exists.
type ImportSkip struct {
	Index    int    `json:"index"`
	InternID string `json:"internId"`
	Reason   string `json:"reason"`
}

// ImportCounts summarises the tri-partition outcome of a batch.
type ImportCounts struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}

// ImportReport is the full outcome of one batch run. The index on every
// entry is the 1-based position in the original input so callers can trace
// each outcome back to its source row.
type ImportReport struct {
	Counts     ImportCounts
	Successful []ImportSuccess
	Failed     []ImportFailure
	Skipped    []ImportSkip
}

// AllFailed reports whether no row in a non-empty batch was persisted or skipped.
func (r *ImportReport) AllFailed() bool {
	return r.Counts.Total > 0 && r.Counts.Failed == r.Counts.Total
}

// Clean reports whether every row was persisted.
func (r *ImportReport) Clean() bool {
	return r.Counts.Successful == r.Counts.Total
}

// Message renders the human-readable batch summary.
func (r *ImportReport) Message() string {
	return fmt.Sprintf("Processed %d certificates. %d successful, %d failed, %d skipped.",
		r.Counts.Total, r.Counts.Successful, r.Counts.Failed, r.Counts.Skipped)
}

// ImportDetails enumerates per-row outcomes; present in responses only when
// at least one row failed or was skipped.
type ImportDetails struct {
	Successful []ImportSuccess `json:"successful"`
	Failed     []ImportFailure `json:"failed"`
	Skipped    []ImportSkip    `json:"skipped"`
}

// BulkImportResponse is the wire shape of the bulk endpoint.
type BulkImportResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Results ImportCounts   `json:"results"`
	Details *ImportDetails `json:"details,omitempty"`
}

// Response assembles the wire payload from a report. Success is false only
// when every row failed; details are attached only when something failed or
// was skipped.
func (r *ImportReport) Response() BulkImportResponse {
	resp := BulkImportResponse{
		Success: !r.AllFailed(),
		Message: r.Message(),
		Results: r.Counts,
	}
	if r.Counts.Failed > 0 || r.Counts.Skipped > 0 {
		resp.Details = &ImportDetails{
			Successful: r.Successful,
			Failed:     r.Failed,
			Skipped:    r.Skipped,
		}
	}
	return resp
}

// ExampleCertificatePayload guides callers who send a malformed envelope.
var ExampleCertificatePayload = map[string]interface{}{
	"certificates": []map[string]interface{}{
		{
			"internId":       "ITID00001",
			"name":           "Jane Doe",
			"domain":         "Web Development",
			"duration":       6,
			"startingDate":   "01-01-2024",
			"completionDate": "01-07-2024",
			"email":          "jane.doe@example.com",
		},
	},
}
