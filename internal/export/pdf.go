package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/velonis/field-reports/internal/report"
)

var pdfWidths = []float64{28, 20, 34, 30, 24, 24, 18, 22, 18, 34, 0, 0}

// WritePDF renders the given view to a landscape A4 table, mirroring the
// spreadsheet layout. Greek appointment labels go through the cp1253
// translator since the core fonts are not unicode.
func WritePDF(w io.Writer, views []report.View, totals report.Totals) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("greek")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Employee Reports", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Attachments and Created At are dropped from the PDF; the page is
	// not wide enough and the spreadsheet carries them.
	headers := columns[:10]

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(44, 62, 80)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(pdfWidths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for _, v := range views {
		cells := []string{
			v.Name,
			v.Date.Format("02/01/06"),
			v.Address,
			v.AppointmentType,
			deref(v.RouterSerial),
			deref(v.OntSerial),
			v.InesLength,
			v.Prizakia,
			spiralText(v.SpiralMeters),
			v.Notes,
		}
		for i, c := range cells {
			pdf.CellFormat(pdfWidths[i], 6, tr(clip(c, 40)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	summary := []string{
		fmt.Sprintf("Total Appointments: %d", totals.Appointments),
		fmt.Sprintf("Total Spiral Meters Used: %.2fm", totals.SpiralMeters),
		fmt.Sprintf("Total Oto Huawei: %d", totals.OtoHuawei),
		fmt.Sprintf("Total Oto Classic: %d", totals.OtoClassic),
		fmt.Sprintf("Total Routers: %d", totals.Routers),
		fmt.Sprintf("Total ONT Devices: %d", totals.OntDevices),
	}
	for _, line := range summary {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	return pdf.Output(w)
}

func spiralText(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func clip(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max-1]) + "…"
}
