package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/velonis/field-reports/internal/report"
)

const sheetName = "Reports"

var columns = []string{
	"Employee",
	"Date",
	"Address",
	"Appointment Type",
	"Router Serial",
	"ONT Serial",
	"INES Length",
	"Prizakia",
	"Spiral Meters",
	"Notes",
	"Attachments",
	"Created At",
}

// WriteXLSX renders the given view to a spreadsheet with a totals block
// under the table.
func WriteXLSX(w io.Writer, views []report.View, totals report.Totals) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}

	for rowIdx, v := range views {
		values := []interface{}{
			v.Name,
			v.Date.Format("02/01/2006"),
			v.Address,
			v.AppointmentType,
			deref(v.RouterSerial),
			deref(v.OntSerial),
			v.InesLength,
			v.Prizakia,
			spiral(v.SpiralMeters),
			v.Notes,
			strings.Join(v.Attachments, ", "),
			v.CreatedAt.Format("02/01/2006 15:04"),
		}
		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
		}
	}

	summaryRow := len(views) + 3
	summary := []string{
		fmt.Sprintf("Total Appointments: %d", totals.Appointments),
		fmt.Sprintf("Total Spiral Meters Used: %.2fm", totals.SpiralMeters),
		fmt.Sprintf("Total Oto Huawei: %d", totals.OtoHuawei),
		fmt.Sprintf("Total Oto Classic: %d", totals.OtoClassic),
		fmt.Sprintf("Total Routers: %d", totals.Routers),
		fmt.Sprintf("Total ONT Devices: %d", totals.OntDevices),
	}
	for i, line := range summary {
		cell, err := excelize.CoordinatesToCellName(1, summaryRow+i)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, line); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func spiral(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
