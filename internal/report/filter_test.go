package report

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestReport(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Report Module Suite")
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func int64Ptr(i int64) *int64     { return &i }
func day(s string) time.Time      { d, _ := time.Parse("2006-01-02", s); return d }
func dayPtr(s string) *time.Time  { d := day(s); return &d }

var _ = ginkgo.Describe("Criteria", func() {
	var views []View

	ginkgo.BeforeEach(func() {
		views = []View{
			{
				ID:              1,
				Name:            "Maria Papadopoulou",
				Date:            day("2025-03-10"),
				Address:         "Ermou 12, Athens",
				AppointmentType: AppointmentActivation,
				RouterSerial:    strPtr("RTR-001"),
				Prizakia:        PrizakiaOtoHuawei,
			},
			{
				ID:              2,
				Name:            "Nikos Georgiou (Deleted)",
				Date:            day("2025-03-11"),
				Address:         "Tsimiski 45, Thessaloniki",
				AppointmentType: AppointmentSpiral,
				OntSerial:       strPtr("ONT-002"),
				SpiralMeters:    floatPtr(35),
				Prizakia:        PrizakiaOtoClassic,
			},
			{
				ID:              3,
				Name:            "Maria Papadopoulou",
				Date:            day("2025-03-12"),
				Address:         "Ermou 80, Athens",
				AppointmentType: AppointmentActivation,
				Prizakia:        PrizakiaOtoHuawei,
			},
		}
	})

	ginkgo.Describe("Matches", func() {
		ginkgo.It("matches everything with the zero value", func() {
			gomega.Expect(Apply(views, Criteria{})).To(gomega.HaveLen(3))
		})

		ginkgo.It("filters by appointment type exactly", func() {
			out := Apply(views, Criteria{AppointmentType: AppointmentActivation})
			gomega.Expect(out).To(gomega.HaveLen(2))
			gomega.Expect(out[0].ID).To(gomega.Equal(int64(1)))
			gomega.Expect(out[1].ID).To(gomega.Equal(int64(3)))
		})

		ginkgo.It("filters by inclusive date range", func() {
			out := Apply(views, Criteria{From: dayPtr("2025-03-11"), To: dayPtr("2025-03-12")})
			gomega.Expect(out).To(gomega.HaveLen(2))

			// Bounds are inclusive on both ends.
			single := Apply(views, Criteria{From: dayPtr("2025-03-10"), To: dayPtr("2025-03-10")})
			gomega.Expect(single).To(gomega.HaveLen(1))
			gomega.Expect(single[0].ID).To(gomega.Equal(int64(1)))
		})

		ginkgo.It("matches an employee ignoring the deleted decoration", func() {
			// A filter for the plain name finds the deleted account's reports.
			out := Apply(views, Criteria{Employee: "Nikos Georgiou"})
			gomega.Expect(out).To(gomega.HaveLen(1))
			gomega.Expect(out[0].ID).To(gomega.Equal(int64(2)))

			// And the decorated name matches the same rows.
			decorated := Apply(views, Criteria{Employee: "Nikos Georgiou (Deleted)"})
			gomega.Expect(decorated).To(gomega.Equal(out))
		})

		ginkgo.It("matches address as a case-insensitive substring", func() {
			out := Apply(views, Criteria{Address: "ermou"})
			gomega.Expect(out).To(gomega.HaveLen(2))

			none := Apply(views, Criteria{Address: "patras"})
			gomega.Expect(none).To(gomega.BeEmpty())
		})

		ginkgo.It("filters by equipment presence", func() {
			routers := Apply(views, Criteria{Equipment: EquipmentRouter})
			gomega.Expect(routers).To(gomega.HaveLen(1))
			gomega.Expect(routers[0].ID).To(gomega.Equal(int64(1)))

			onts := Apply(views, Criteria{Equipment: EquipmentOnt})
			gomega.Expect(onts).To(gomega.HaveLen(1))
			gomega.Expect(onts[0].ID).To(gomega.Equal(int64(2)))
		})

		ginkgo.It("requires every criterion to pass", func() {
			out := Apply(views, Criteria{
				AppointmentType: AppointmentActivation,
				Address:         "thessaloniki",
			})
			gomega.Expect(out).To(gomega.BeEmpty())
		})
	})
})

var _ = ginkgo.Describe("Aggregate", func() {
	ginkgo.It("returns zero totals for no rows", func() {
		gomega.Expect(Aggregate(nil)).To(gomega.Equal(Totals{}))
	})

	ginkgo.It("counts appointments, equipment and prizakia and sums spiral meters", func() {
		views := []View{
			{SpiralMeters: floatPtr(20), RouterSerial: strPtr("R1"), Prizakia: PrizakiaOtoHuawei},
			{SpiralMeters: floatPtr(15.5), OntSerial: strPtr("O1"), Prizakia: PrizakiaOtoClassic},
			{RouterSerial: strPtr("R2"), OntSerial: strPtr("O2"), Prizakia: PrizakiaOtoHuawei},
		}

		t := Aggregate(views)

		gomega.Expect(t.Appointments).To(gomega.Equal(3))
		gomega.Expect(t.SpiralMeters).To(gomega.Equal(35.5))
		gomega.Expect(t.Routers).To(gomega.Equal(2))
		gomega.Expect(t.OntDevices).To(gomega.Equal(2))
		gomega.Expect(t.OtoHuawei).To(gomega.Equal(2))
		gomega.Expect(t.OtoClassic).To(gomega.Equal(1))
	})

	ginkgo.It("treats an absent spiral measurement as zero", func() {
		views := []View{
			{SpiralMeters: floatPtr(10)},
			{SpiralMeters: nil},
		}

		t := Aggregate(views)

		gomega.Expect(t.Appointments).To(gomega.Equal(2))
		gomega.Expect(t.SpiralMeters).To(gomega.Equal(10.0))
	})

	ginkgo.It("never decreases the spiral sum when rows are added", func() {
		views := []View{
			{SpiralMeters: floatPtr(5)},
			{SpiralMeters: nil},
			{SpiralMeters: floatPtr(12.5)},
		}

		prev := 0.0
		for i := range views {
			sum := Aggregate(views[:i+1]).SpiralMeters
			gomega.Expect(sum).To(gomega.BeNumerically(">=", prev))
			prev = sum
		}
	})
})

var _ = ginkgo.Describe("SortByDate", func() {
	ginkgo.It("orders descending by default semantics with id as tiebreak", func() {
		views := []View{
			{ID: 1, Date: day("2025-03-10")},
			{ID: 3, Date: day("2025-03-11")},
			{ID: 2, Date: day("2025-03-11")},
		}

		SortByDate(views, false)

		gomega.Expect(views[0].ID).To(gomega.Equal(int64(3)))
		gomega.Expect(views[1].ID).To(gomega.Equal(int64(2)))
		gomega.Expect(views[2].ID).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("orders ascending with id as tiebreak", func() {
		views := []View{
			{ID: 3, Date: day("2025-03-11")},
			{ID: 1, Date: day("2025-03-10")},
			{ID: 2, Date: day("2025-03-11")},
		}

		SortByDate(views, true)

		gomega.Expect(views[0].ID).To(gomega.Equal(int64(1)))
		gomega.Expect(views[1].ID).To(gomega.Equal(int64(2)))
		gomega.Expect(views[2].ID).To(gomega.Equal(int64(3)))
	})

	ginkgo.It("is deterministic regardless of input order", func() {
		a := []View{
			{ID: 1, Date: day("2025-03-10")},
			{ID: 2, Date: day("2025-03-11")},
			{ID: 3, Date: day("2025-03-11")},
		}
		b := []View{a[2], a[0], a[1]}

		SortByDate(a, false)
		SortByDate(b, false)

		gomega.Expect(a).To(gomega.Equal(b))
	})
})

var _ = ginkgo.Describe("Paginate", func() {
	views := []View{{ID: 1}, {ID: 2}, {ID: 3}}

	ginkgo.It("keeps the first n rows", func() {
		out := Paginate(views, 2)
		gomega.Expect(out).To(gomega.HaveLen(2))
		gomega.Expect(out[0].ID).To(gomega.Equal(int64(1)))
	})

	ginkgo.It("returns everything when the limit is zero or exceeds the set", func() {
		gomega.Expect(Paginate(views, 0)).To(gomega.HaveLen(3))
		gomega.Expect(Paginate(views, 100)).To(gomega.HaveLen(3))
	})

	ginkgo.It("only offers the fixed page sizes", func() {
		gomega.Expect(ValidPageSize(10)).To(gomega.BeTrue())
		gomega.Expect(ValidPageSize(100)).To(gomega.BeTrue())
		gomega.Expect(ValidPageSize(25)).To(gomega.BeFalse())
		gomega.Expect(ValidPageSize(0)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("EmployeeOptions", func() {
	ginkgo.It("unions report names with active employees who have no reports", func() {
		views := []View{
			{Name: "Maria Papadopoulou"},
			{Name: "Nikos Georgiou (Deleted)"},
			{Name: "Maria Papadopoulou"},
		}
		active := []string{"Maria Papadopoulou", "Eleni Kosta"}

		options := EmployeeOptions(views, active)

		gomega.Expect(options).To(gomega.Equal([]string{
			"Eleni Kosta",
			"Maria Papadopoulou",
			"Nikos Georgiou (Deleted)",
		}))
	})

	ginkgo.It("does not list an active employee twice when they have reports", func() {
		views := []View{{Name: "Maria Papadopoulou"}}
		active := []string{"Maria Papadopoulou"}

		options := EmployeeOptions(views, active)

		gomega.Expect(options).To(gomega.Equal([]string{"Maria Papadopoulou"}))
	})

	ginkgo.It("is empty with no reports and no employees", func() {
		gomega.Expect(EmployeeOptions(nil, nil)).To(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("Report views", func() {
	ginkgo.It("decorates the name when the owning account is gone", func() {
		r := &Report{ID: 1, UserID: nil, EmployeeName: "Nikos Georgiou"}

		v := r.ViewFor(map[int64]bool{})

		gomega.Expect(v.Name).To(gomega.Equal("Nikos Georgiou (Deleted)"))
	})

	ginkgo.It("decorates the name when the user id is not among active accounts", func() {
		r := &Report{ID: 1, UserID: int64Ptr(7), EmployeeName: "Nikos Georgiou"}

		v := r.ViewFor(map[int64]bool{3: true})

		gomega.Expect(v.Name).To(gomega.Equal("Nikos Georgiou (Deleted)"))
	})

	ginkgo.It("keeps the plain name for an active account", func() {
		r := &Report{ID: 1, UserID: int64Ptr(7), EmployeeName: "Maria Papadopoulou"}

		v := r.ViewFor(map[int64]bool{7: true})

		gomega.Expect(v.Name).To(gomega.Equal("Maria Papadopoulou"))
	})

	ginkgo.It("splits the attachments column into a list", func() {
		r := &Report{}
		r.SetAttachments([]string{"a.jpg", "b.mp4"})

		gomega.Expect(r.AttachmentList()).To(gomega.Equal([]string{"a.jpg", "b.mp4"}))

		empty := &Report{}
		gomega.Expect(empty.AttachmentList()).To(gomega.BeEmpty())
	})
})
