package report

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/velonis/field-reports/internal"
)

const dateLayout = "2006-01-02"

// SubmitReportDTO carries the technician form fields. The include flags
// mirror the form's collapsible sections: a serial or measurement is only
// meaningful when its section was opened.
type SubmitReportDTO struct {
	Date            string
	Address         string
	AppointmentType string
	IncludeRouter   bool
	RouterSerial    string
	IncludeOnt      bool
	OntSerial       string
	InesLength      string
	Prizakia        string
	IncludeSpiral   bool
	SpiralMeters    string
	Notes           string
}

// SubmitDTOFromForm reads the multipart form values.
func SubmitDTOFromForm(form url.Values) SubmitReportDTO {
	return SubmitReportDTO{
		Date:            strings.TrimSpace(form.Get("date")),
		Address:         strings.TrimSpace(form.Get("address")),
		AppointmentType: strings.TrimSpace(form.Get("appointment_type")),
		IncludeRouter:   parseFlag(form.Get("include_router")),
		RouterSerial:    strings.TrimSpace(form.Get("router_serial")),
		IncludeOnt:      parseFlag(form.Get("include_ont")),
		OntSerial:       strings.TrimSpace(form.Get("ont_serial")),
		InesLength:      strings.TrimSpace(form.Get("ines_length")),
		Prizakia:        strings.TrimSpace(form.Get("prizakia")),
		IncludeSpiral:   parseFlag(form.Get("include_spiral")),
		SpiralMeters:    strings.TrimSpace(form.Get("spiral_meters")),
		Notes:           strings.TrimSpace(form.Get("notes")),
	}
}

func parseFlag(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// Validate checks the unconditional and conditional field requirements.
// now anchors the future-date check; the comparison is calendar-day based
// so a report dated today is always valid regardless of time of day.
func (dto SubmitReportDTO) Validate(now time.Time) error {
	date, err := time.Parse(dateLayout, dto.Date)
	if err != nil {
		return internal.NewValidationError("date is required in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	today := now.Format(dateLayout)
	if date.Format(dateLayout) > today {
		return internal.NewValidationError("report date cannot be in the future", internal.ErrCodeInvalidDate)
	}

	if dto.Address == "" {
		return internal.NewValidationError("address is required", internal.ErrCodeValidationFailed)
	}
	if !validAppointmentType(dto.AppointmentType) {
		return internal.NewValidationError("invalid appointment type", internal.ErrCodeInvalidEnum)
	}
	if !validInesLength(dto.InesLength) {
		return internal.NewValidationError("invalid INES length", internal.ErrCodeInvalidEnum)
	}
	if !validPrizakia(dto.Prizakia) {
		return internal.NewValidationError("invalid prizakia value", internal.ErrCodeInvalidEnum)
	}

	if dto.IncludeRouter && dto.RouterSerial == "" {
		return internal.NewValidationError("router serial is required when a router is included", internal.ErrCodeValidationFailed)
	}
	if dto.IncludeOnt && dto.OntSerial == "" {
		return internal.NewValidationError("ONT serial is required when an ONT is included", internal.ErrCodeValidationFailed)
	}
	if dto.IncludeSpiral {
		meters, err := strconv.ParseFloat(dto.SpiralMeters, 64)
		if err != nil || meters < 0 {
			return internal.NewValidationError("spiral meters must be a non-negative number", internal.ErrCodeValidationFailed)
		}
	}

	return nil
}

// ToReport builds the row to insert. Values behind a closed section are
// dropped even when the client sent them.
func (dto SubmitReportDTO) ToReport(userID int64, employeeName string, attachments []string, now time.Time) *Report {
	date, _ := time.Parse(dateLayout, dto.Date)

	r := &Report{
		UserID:          &userID,
		EmployeeName:    employeeName,
		Date:            date,
		Address:         dto.Address,
		AppointmentType: dto.AppointmentType,
		InesLength:      dto.InesLength,
		Prizakia:        dto.Prizakia,
		Notes:           dto.Notes,
		CreatedAt:       now,
	}

	if dto.IncludeRouter {
		serial := dto.RouterSerial
		r.RouterSerial = &serial
	}
	if dto.IncludeOnt {
		serial := dto.OntSerial
		r.OntSerial = &serial
	}
	if dto.IncludeSpiral {
		if meters, err := strconv.ParseFloat(dto.SpiralMeters, 64); err == nil {
			r.SpiralMeters = &meters
		}
	}

	r.SetAttachments(attachments)
	return r
}
