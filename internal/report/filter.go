package report

import (
	"sort"
	"strings"
	"time"
)

// EquipmentFilter selects rows by equipment presence.
type EquipmentFilter string

const (
	EquipmentAny    EquipmentFilter = ""
	EquipmentRouter EquipmentFilter = "router"
	EquipmentOnt    EquipmentFilter = "ont"
)

// Criteria is an immutable filter description. The zero value matches
// everything.
type Criteria struct {
	AppointmentType string
	From            *time.Time
	To              *time.Time
	Employee        string
	Address         string
	Equipment       EquipmentFilter
}

// Matches reports whether a single view row passes every criterion.
func (c Criteria) Matches(v View) bool {
	if c.AppointmentType != "" && v.AppointmentType != c.AppointmentType {
		return false
	}

	if c.From != nil && v.Date.Before(*c.From) {
		return false
	}
	if c.To != nil && v.Date.After(*c.To) {
		return false
	}

	if c.Employee != "" && BaseName(v.Name) != BaseName(c.Employee) {
		return false
	}

	if c.Address != "" && !strings.Contains(strings.ToLower(v.Address), strings.ToLower(c.Address)) {
		return false
	}

	switch c.Equipment {
	case EquipmentRouter:
		if v.RouterSerial == nil || *v.RouterSerial == "" {
			return false
		}
	case EquipmentOnt:
		if v.OntSerial == nil || *v.OntSerial == "" {
			return false
		}
	}

	return true
}

// Apply filters a view slice, preserving order.
func Apply(views []View, c Criteria) []View {
	out := make([]View, 0, len(views))
	for _, v := range views {
		if c.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}

// Totals are the derived counts shown under the admin table and on exports.
type Totals struct {
	Appointments int     `json:"appointments"`
	SpiralMeters float64 `json:"spiral_meters"`
	Routers      int     `json:"routers"`
	OntDevices   int     `json:"ont_devices"`
	OtoHuawei    int     `json:"oto_huawei"`
	OtoClassic   int     `json:"oto_classic"`
}

// Aggregate derives totals over a view slice. Absent spiral values count
// as zero rather than erroring.
func Aggregate(views []View) Totals {
	t := Totals{Appointments: len(views)}
	for _, v := range views {
		if v.SpiralMeters != nil {
			t.SpiralMeters += *v.SpiralMeters
		}
		if v.RouterSerial != nil && *v.RouterSerial != "" {
			t.Routers++
		}
		if v.OntSerial != nil && *v.OntSerial != "" {
			t.OntDevices++
		}
		switch v.Prizakia {
		case PrizakiaOtoHuawei:
			t.OtoHuawei++
		case PrizakiaOtoClassic:
			t.OtoClassic++
		}
	}
	return t
}

// SortByDate orders views by date, ties broken by id so the order is
// deterministic regardless of input order.
func SortByDate(views []View, ascending bool) {
	sort.SliceStable(views, func(i, j int) bool {
		if !views[i].Date.Equal(views[j].Date) {
			if ascending {
				return views[i].Date.Before(views[j].Date)
			}
			return views[i].Date.After(views[j].Date)
		}
		if ascending {
			return views[i].ID < views[j].ID
		}
		return views[i].ID > views[j].ID
	})
}

// PageSizes are the limits the admin view offers.
var PageSizes = []int{10, 20, 50, 100}

// ValidPageSize reports whether n is one of the offered limits.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if n == s {
			return true
		}
	}
	return false
}

// Paginate keeps the first limit rows. Zero or negative means no limit.
func Paginate(views []View, limit int) []View {
	if limit <= 0 || limit >= len(views) {
		return views
	}
	return views[:limit]
}

// EmployeeOptions builds the employee selector: every name appearing in a
// report snapshot (decorated when its account is gone), plus active
// employees who have not submitted anything yet. Sorted for stable UI.
func EmployeeOptions(views []View, activeNames []string) []string {
	seen := make(map[string]bool)
	var options []string

	for _, v := range views {
		if !seen[v.Name] {
			seen[v.Name] = true
			options = append(options, v.Name)
		}
	}

	for _, name := range activeNames {
		hasReport := false
		for _, v := range views {
			if BaseName(v.Name) == name {
				hasReport = true
				break
			}
		}
		if !hasReport && !seen[name] {
			seen[name] = true
			options = append(options, name)
		}
	}

	sort.Strings(options)
	return options
}
