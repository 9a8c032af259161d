package report

import (
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/user"
)

// Mock report repository for testing
type mockReportRepository struct {
	reports       []*Report
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockReportRepository() *mockReportRepository {
	return &mockReportRepository{nextID: 1}
}

func (m *mockReportRepository) Create(r *Report) error {
	if m.returnError {
		return m.errorToReturn
	}
	r.ID = m.nextID
	m.nextID++
	m.reports = append(m.reports, r)
	return nil
}

func (m *mockReportRepository) List() ([]*Report, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.reports, nil
}

func (m *mockReportRepository) Delete(id int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	for i, r := range m.reports {
		if r.ID == id {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return internal.ErrReportNotFound
}

// Mock attachment store for testing
type mockAttachmentStore struct {
	stored        []string
	saveCalls     int
	returnError   bool
	errorToReturn error
}

func (m *mockAttachmentStore) Save(files []*multipart.FileHeader) ([]string, error) {
	m.saveCalls++
	if m.returnError {
		return nil, m.errorToReturn
	}
	names := make([]string, len(files))
	for i := range files {
		names[i] = files[i].Filename
	}
	m.stored = names
	return names, nil
}

// Mock employee directory for testing
type mockEmployeeDirectory struct {
	users map[int64]*user.User
}

func newMockEmployeeDirectory() *mockEmployeeDirectory {
	return &mockEmployeeDirectory{
		users: map[int64]*user.User{
			2: {ID: 2, Name: "Maria Papadopoulou", Username: "maria", Role: internal.RoleEmployee},
			3: {ID: 3, Name: "Nikos Georgiou", Username: "nikos", Role: internal.RoleEmployee},
		},
	}
}

func (m *mockEmployeeDirectory) GetByID(id int64) (*user.User, error) {
	if u, exists := m.users[id]; exists {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockEmployeeDirectory) ListEmployees() ([]*user.User, error) {
	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func validDTO() SubmitReportDTO {
	return SubmitReportDTO{
		Date:            "2025-03-10",
		Address:         "Ermou 12, Athens",
		AppointmentType: AppointmentActivation,
		InesLength:      "30m",
		Prizakia:        PrizakiaOtoHuawei,
	}
}

var _ = ginkgo.Describe("ReportService", func() {
	var (
		service   *Service
		mockRepo  *mockReportRepository
		mockFiles *mockAttachmentStore
		mockUsers *mockEmployeeDirectory
		fixedNow  time.Time
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockReportRepository()
		mockFiles = &mockAttachmentStore{}
		mockUsers = newMockEmployeeDirectory()
		service = NewService(mockRepo, mockFiles, mockUsers, slog.Default())
		fixedNow = day("2025-03-15")
		service.now = func() time.Time { return fixedNow }
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.Context("when the report is valid", func() {
			ginkgo.It("should snapshot the submitter's name onto the row", func() {
				// When
				r, err := service.Submit(2, validDTO(), nil)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(r.EmployeeName).To(gomega.Equal("Maria Papadopoulou"))
				gomega.Expect(*r.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(mockRepo.reports).To(gomega.HaveLen(1))
			})

			ginkgo.It("should drop serials behind a closed section even when supplied", func() {
				// Given
				dto := validDTO()
				dto.IncludeRouter = false
				dto.RouterSerial = "RTR-SHOULD-BE-DROPPED"
				dto.IncludeSpiral = false
				dto.SpiralMeters = "99"

				// When
				r, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(r.RouterSerial).To(gomega.BeNil())
				gomega.Expect(r.SpiralMeters).To(gomega.BeNil())
			})

			ginkgo.It("should store serials and spiral meters from opened sections", func() {
				// Given
				dto := validDTO()
				dto.IncludeRouter = true
				dto.RouterSerial = "RTR-001"
				dto.IncludeSpiral = true
				dto.SpiralMeters = "42.5"

				// When
				r, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(*r.RouterSerial).To(gomega.Equal("RTR-001"))
				gomega.Expect(*r.SpiralMeters).To(gomega.Equal(42.5))
			})
		})

		ginkgo.Context("when validation fails", func() {
			ginkgo.It("should reject a future-dated report without touching storage", func() {
				// Given
				dto := validDTO()
				dto.Date = "2025-03-16"

				// When
				_, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("future"))
				gomega.Expect(mockFiles.saveCalls).To(gomega.Equal(0))
				gomega.Expect(mockRepo.reports).To(gomega.BeEmpty())
			})

			ginkgo.It("should accept a report dated today", func() {
				// Given
				dto := validDTO()
				dto.Date = "2025-03-15"

				// When
				_, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			})

			ginkgo.It("should reject an unknown appointment type", func() {
				// Given
				dto := validDTO()
				dto.AppointmentType = "INSTALLATION"

				// When
				_, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockRepo.reports).To(gomega.BeEmpty())
			})

			ginkgo.It("should require a serial when the router section is open", func() {
				// Given
				dto := validDTO()
				dto.IncludeRouter = true
				dto.RouterSerial = ""

				// When
				_, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("router serial"))
			})

			ginkgo.It("should reject a negative spiral measurement", func() {
				// Given
				dto := validDTO()
				dto.IncludeSpiral = true
				dto.SpiralMeters = "-5"

				// When
				_, err := service.Submit(2, dto, nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})

		ginkgo.Context("when attachment intake fails", func() {
			ginkgo.It("should not insert the row", func() {
				// Given
				mockFiles.returnError = true
				mockFiles.errorToReturn = internal.NewValidationError("too many attachments", internal.ErrCodeAttachmentCount)

				// When
				_, err := service.Submit(2, validDTO(), nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(mockRepo.reports).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the submitter does not exist", func() {
			ginkgo.It("should return user not found", func() {
				// When
				_, err := service.Submit(999, validDTO(), nil)

				// Then
				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
			})
		})
	})

	ginkgo.Describe("View", func() {
		ginkgo.BeforeEach(func() {
			// Two reports by Maria (active) and one by a deleted account.
			for _, d := range []string{"2025-03-10", "2025-03-12"} {
				dto := validDTO()
				dto.Date = d
				_, err := service.Submit(2, dto, nil)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
			}
			orphan := &Report{
				EmployeeName:    "Old Technician",
				Date:            day("2025-03-11"),
				Address:         "Somewhere 1",
				AppointmentType: AppointmentSpiral,
				InesLength:      "20m",
				Prizakia:        PrizakiaOtoClassic,
				SpiralMeters:    floatPtr(25),
			}
			gomega.Expect(mockRepo.Create(orphan)).To(gomega.Succeed())
		})

		ginkgo.It("should decorate reports whose account is gone", func() {
			// When
			view, err := service.View(Criteria{}, false, 0)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Reports).To(gomega.HaveLen(3))

			names := make(map[string]bool)
			for _, v := range view.Reports {
				names[v.Name] = true
			}
			gomega.Expect(names).To(gomega.HaveKey("Maria Papadopoulou"))
			gomega.Expect(names).To(gomega.HaveKey("Old Technician (Deleted)"))
		})

		ginkgo.It("should sort newest first by default", func() {
			// When
			view, err := service.View(Criteria{}, false, 0)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Reports[0].Date).To(gomega.Equal(day("2025-03-12")))
			gomega.Expect(view.Reports[2].Date).To(gomega.Equal(day("2025-03-10")))
		})

		ginkgo.It("should aggregate totals over the filtered set, not the page", func() {
			// When
			view, err := service.View(Criteria{}, false, 0)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Totals.Appointments).To(gomega.Equal(3))
			gomega.Expect(view.Totals.SpiralMeters).To(gomega.Equal(25.0))
			gomega.Expect(view.Totals.OtoHuawei).To(gomega.Equal(2))
			gomega.Expect(view.Totals.OtoClassic).To(gomega.Equal(1))
		})

		ginkgo.It("should offer every snapshot name plus reportless active employees", func() {
			// When
			view, err := service.View(Criteria{}, false, 0)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Employees).To(gomega.ConsistOf(
				"Maria Papadopoulou",
				"Nikos Georgiou",
				"Old Technician (Deleted)",
			))
		})

		ginkgo.It("should keep employee options unfiltered while reports are filtered", func() {
			// When
			view, err := service.View(Criteria{Employee: "Maria Papadopoulou"}, false, 0)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.Reports).To(gomega.HaveLen(2))
			gomega.Expect(view.Employees).To(gomega.ContainElement("Old Technician (Deleted)"))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove an existing report", func() {
			// Given
			r, err := service.Submit(2, validDTO(), nil)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// When
			err = service.Delete(r.ID)

			// Then
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.reports).To(gomega.BeEmpty())
		})

		ginkgo.It("should surface not found for a missing id", func() {
			// When
			err := service.Delete(12345)

			// Then
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err).To(gomega.Equal(internal.ErrReportNotFound))
		})
	})
})

var _ = ginkgo.Describe("SubmitReportDTO", func() {
	now := day("2025-03-15")

	ginkgo.Describe("Validate", func() {
		ginkgo.It("accepts a minimal valid form", func() {
			gomega.Expect(validDTO().Validate(now)).To(gomega.Succeed())
		})

		ginkgo.It("rejects a missing or malformed date", func() {
			dto := validDTO()
			dto.Date = ""
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())

			dto.Date = "10/03/2025"
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a missing address", func() {
			dto := validDTO()
			dto.Address = ""
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects values outside the INES and prizakia enums", func() {
			dto := validDTO()
			dto.InesLength = "60m"
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())

			dto = validDTO()
			dto.Prizakia = "Oto Something"
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())
		})

		ginkgo.It("requires an ONT serial only when the section is open", func() {
			dto := validDTO()
			dto.IncludeOnt = true
			dto.OntSerial = ""
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())

			dto.OntSerial = "ONT-001"
			gomega.Expect(dto.Validate(now)).To(gomega.Succeed())
		})

		ginkgo.It("requires spiral meters to parse as a non-negative number", func() {
			dto := validDTO()
			dto.IncludeSpiral = true
			dto.SpiralMeters = "abc"
			gomega.Expect(dto.Validate(now)).To(gomega.HaveOccurred())

			dto.SpiralMeters = "0"
			gomega.Expect(dto.Validate(now)).To(gomega.Succeed())
		})
	})
})
