package report

import (
	"strings"
	"time"
)

// Appointment types as they appear on the technician form. Four Greek
// labels plus one ASCII label; stored verbatim.
const (
	AppointmentCompleted    = "ΟΛΟΚΛΗΡΩΜΕΝΟ"
	AppointmentConstruction = "ΚΑΤΑΣΚΕΥΗ"
	AppointmentActivation   = "ΕΝΕΡΓΟΠΟΙΗΣΗ"
	AppointmentSpiral       = "ΣΠΙΡΑΛ"
	AppointmentBepOto       = "BEP-OTO"
)

var AppointmentTypes = []string{
	AppointmentCompleted,
	AppointmentConstruction,
	AppointmentActivation,
	AppointmentSpiral,
	AppointmentBepOto,
}

// Prizakia is a two-valued equipment-type classification.
const (
	PrizakiaOtoHuawei  = "Oto Huawei"
	PrizakiaOtoClassic = "Oto Classic"
)

var PrizakiaValues = []string{PrizakiaOtoHuawei, PrizakiaOtoClassic}

// INES cable-length categories selectable on the form.
var InesLengths = []string{"15m", "20m", "30m", "40m", "50m"}

// DeletedSuffix decorates snapshot names whose owning account is gone. The
// suffix lives only in views, never in the stored snapshot, so it can never
// be applied twice.
const DeletedSuffix = " (Deleted)"

const attachmentSeparator = ", "

// Report is a stored daily job report. Rows are inserted once and never
// mutated. UserID is a weak reference: it survives as NULL after the owning
// account is deleted, and EmployeeName stays authoritative for display.
type Report struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	UserID          *int64    `json:"user_id" gorm:"column:user_id"`
	EmployeeName    string    `json:"employee_name" gorm:"column:employee_name;not null"`
	Date            time.Time `json:"date" gorm:"column:date;type:date"`
	Address         string    `json:"address" gorm:"column:address;not null"`
	AppointmentType string    `json:"appointment_type" gorm:"column:appointment_type;not null"`
	RouterSerial    *string   `json:"router_serial" gorm:"column:router_serial"`
	OntSerial       *string   `json:"ont_serial" gorm:"column:ont_serial"`
	InesLength      string    `json:"ines_length" gorm:"column:ines_length;not null"`
	Prizakia        string    `json:"prizakia" gorm:"column:prizakia;not null"`
	SpiralMeters    *float64  `json:"spiral_meters" gorm:"column:spiral_meters"`
	Notes           string    `json:"notes" gorm:"column:notes"`
	Attachments     string    `json:"-" gorm:"column:attachments"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// AttachmentList splits the delimited attachments column into filenames.
func (r *Report) AttachmentList() []string {
	if r.Attachments == "" {
		return nil
	}
	parts := strings.Split(r.Attachments, attachmentSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r *Report) SetAttachments(names []string) {
	r.Attachments = strings.Join(names, attachmentSeparator)
}

// View is a report row as the admin panel sees it: decorated employee name
// and attachments split into a list.
type View struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"user_id,omitempty"`
	Name            string    `json:"name"`
	Date            time.Time `json:"date"`
	Address         string    `json:"address"`
	AppointmentType string    `json:"appointment_type"`
	RouterSerial    *string   `json:"router_serial"`
	OntSerial       *string   `json:"ont_serial"`
	InesLength      string    `json:"ines_length"`
	Prizakia        string    `json:"prizakia"`
	SpiralMeters    *float64  `json:"spiral_meters"`
	Notes           string    `json:"notes"`
	Attachments     []string  `json:"attachments"`
	CreatedAt       time.Time `json:"created_at"`
}

// ViewFor builds the admin view of a report. The "(Deleted)" suffix is
// applied when the owning account no longer exists among active users.
func (r *Report) ViewFor(activeUserIDs map[int64]bool) View {
	name := r.EmployeeName
	if r.UserID == nil || !activeUserIDs[*r.UserID] {
		name += DeletedSuffix
	}

	return View{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            name,
		Date:            r.Date,
		Address:         r.Address,
		AppointmentType: r.AppointmentType,
		RouterSerial:    r.RouterSerial,
		OntSerial:       r.OntSerial,
		InesLength:      r.InesLength,
		Prizakia:        r.Prizakia,
		SpiralMeters:    r.SpiralMeters,
		Notes:           r.Notes,
		Attachments:     r.AttachmentList(),
		CreatedAt:       r.CreatedAt,
	}
}

// BaseName strips the "(Deleted)" decoration for comparisons.
func BaseName(name string) string {
	return strings.TrimSuffix(name, DeletedSuffix)
}

func validAppointmentType(v string) bool {
	for _, t := range AppointmentTypes {
		if v == t {
			return true
		}
	}
	return false
}

func validInesLength(v string) bool {
	for _, l := range InesLengths {
		if v == l {
			return true
		}
	}
	return false
}

func validPrizakia(v string) bool {
	return v == PrizakiaOtoHuawei || v == PrizakiaOtoClassic
}
