package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// CertificateDocument carries the fields printed on a certificate PDF.
type CertificateDocument struct {
	InternID       string
	Name           string
	Domain         string
	DurationMonths int
	StartingDate   string
	CompletionDate string
	MentorName     string
}

// PDFExporter renders certificate documents and tabular rosters.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderCertificate produces a landscape single-page certificate document.
func (e *PDFExporter) RenderCertificate(doc CertificateDocument) ([]byte, error) {
	if doc.InternID == "" {
		return nil, fmt.Errorf("certificate requires an intern id")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 26)
	pdf.CellFormat(0, 14, "CERTIFICATE OF COMPLETION", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, doc.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	body := fmt.Sprintf("has successfully completed an internship in %s over %d months, from %s to %s.",
		doc.Domain, doc.DurationMonths, doc.StartingDate, doc.CompletionDate)
	pdf.MultiCell(0, 8, body, "", "C", false)
	pdf.Ln(8)

	if doc.MentorName != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Mentor: %s", doc.MentorName), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 8, fmt.Sprintf("Certificate ID: %s", doc.InternID), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTable creates a tabular PDF with an optional title, used for roster exports.
func (e *PDFExporter) RenderTable(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
