package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CertificateData carries the redacted fields printed on a certificate.
type CertificateData struct {
	CertificateID string
	StudentName   string
	CourseTitle   string
	Instructor    string
	CompletedAt   time.Time
}

// CertificateRenderer produces completion certificates as PDF documents.
type CertificateRenderer struct {
	siteName string
}

// NewCertificateRenderer constructs a renderer branded with the site name.
func NewCertificateRenderer(siteName string) *CertificateRenderer {
	if siteName == "" {
		siteName = "AulaMarket"
	}
	return &CertificateRenderer{siteName: siteName}
}

// Render creates a landscape A4 certificate document.
func (r *CertificateRenderer) Render(data CertificateData) ([]byte, error) {
	if data.StudentName == "" || data.CourseTitle == "" {
		return nil, fmt.Errorf("certificate requires student and course")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 25, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, strings.ToUpper(r.siteName), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 26)
	pdf.CellFormat(0, 14, "Certificado de Finalizacion", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "Se certifica que", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, data.StudentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, "completo satisfactoriamente el curso", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, data.CourseTitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Instructor: %s", data.Instructor), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Fecha: %s", data.CompletedAt.Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Verificable con el identificador %s", data.CertificateID), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate: %w", err)
	}
	return buf.Bytes(), nil
}
