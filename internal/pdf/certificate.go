// Package pdf renders issued certificates as printable A4 documents.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// certTitle maps a certificate type to its printed heading.
func certTitle(certType string) string {
	switch certType {
	case model.CertBirth:
		return "Birth Certificate"
	case model.CertDeath:
		return "Death Certificate"
	case model.CertMarriage:
		return "Marriage Certificate"
	case model.CertIncome:
		return "Income Certificate"
	case model.CertCaste:
		return "Caste Certificate"
	case model.CertResidence:
		return "Residence Certificate"
	}
	return "Certificate"
}

// RenderCertificate writes the certificate as a PDF to w.  The layout
// is a simple office form: letterhead, title, a field table, and a
// signature block.  The caller is responsible for only rendering
// certificates in the ISSUED state.
func RenderCertificate(w io.Writer, cert model.Certificate) error {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(certTitle(cert.CertType), false)
	doc.AddPage()

	// Letterhead
	doc.SetFont("Times", "B", 18)
	doc.CellFormat(0, 10, "Office of the Gram Panchayat", "", 1, "C", false, 0, "")
	doc.SetFont("Times", "", 11)
	doc.CellFormat(0, 6, "Digital e-Gram Panchayat Portal", "", 1, "C", false, 0, "")
	doc.Ln(4)
	doc.SetLineWidth(0.5)
	doc.Line(20, doc.GetY(), 190, doc.GetY())
	doc.Ln(8)

	// Title
	doc.SetFont("Times", "B", 16)
	doc.CellFormat(0, 10, certTitle(cert.CertType), "", 1, "C", false, 0, "")
	doc.SetFont("Times", "I", 10)
	doc.CellFormat(0, 6, "Reference No: "+cert.RefNo, "", 1, "C", false, 0, "")
	doc.Ln(8)

	// Field table
	fields := [][2]string{
		{"Name", cert.ApplicantName},
	}
	if cert.FatherName != "" {
		fields = append(fields, [2]string{"Father's / Husband's Name", cert.FatherName})
	}
	if cert.EventDate != "" {
		fields = append(fields, [2]string{"Date of Event", cert.EventDate})
	}
	if cert.EventPlace != "" {
		fields = append(fields, [2]string{"Place", cert.EventPlace})
	}
	if cert.Details != "" {
		fields = append(fields, [2]string{"Particulars", cert.Details})
	}

	doc.SetFont("Times", "", 12)
	for _, f := range fields {
		doc.SetFont("Times", "B", 12)
		doc.CellFormat(60, 9, f[0], "1", 0, "L", false, 0, "")
		doc.SetFont("Times", "", 12)
		doc.MultiCell(110, 9, f[1], "1", "L", false)
	}
	doc.Ln(8)

	// Attestation
	issued := time.Now().UTC()
	if cert.IssuedAt != nil {
		issued = cert.IssuedAt.UTC()
	}
	doc.SetFont("Times", "", 12)
	attestation := fmt.Sprintf(
		"This is to certify that the particulars stated above have been verified against the records "+
			"of this office and found correct. This %s is issued on %s on the applicant's request.",
		strings.ToLower(certTitle(cert.CertType)), issued.Format("2 January 2006"))
	doc.MultiCell(170, 7, attestation, "", "L", false)
	doc.Ln(20)

	// Signature block
	doc.SetFont("Times", "", 12)
	doc.CellFormat(100, 7, "", "", 0, "L", false, 0, "")
	doc.CellFormat(70, 7, "_______________________", "", 1, "C", false, 0, "")
	doc.CellFormat(100, 7, "", "", 0, "L", false, 0, "")
	doc.CellFormat(70, 7, "Panchayat Officer", "", 1, "C", false, 0, "")

	return doc.Output(w)
}
