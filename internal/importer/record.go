// Package importer normalizes loosely-structured certificate rows into the
// canonical record shape used by the issuance pipeline. Rows arrive from JSON
// uploads and spreadsheet conversions, so field names, casing and date
// encodings all vary between sources.
package importer

// Record is the canonical, post-normalization shape of one certificate row.
// Dates hold the canonical DD-MM-YYYY form when the source value parsed, or
// the raw input unchanged when it did not, so the validator can report the
// offending value instead of a silent drop.
type Record struct {
	InternID       string
	Name           string
	Domain         string
	Duration       *int
	StartingDate   string
	CompletionDate string
	Email          string
	Status         string
	Mentor         *Mentor
}

// Mentor is the optional nested mentor block present in some sources.
type Mentor struct {
	Name      string
	Email     string
	ContactNo string
}
