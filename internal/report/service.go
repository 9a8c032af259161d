package report

import (
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/velonis/field-reports/internal/user"
)

// Repository is the data access surface for reports.
type Repository interface {
	Create(r *Report) error
	List() ([]*Report, error)
	Delete(id int64) error
}

// AttachmentStore persists uploaded media and returns stored filenames.
type AttachmentStore interface {
	Save(files []*multipart.FileHeader) ([]string, error)
}

// EmployeeDirectory resolves account data needed for snapshots and the
// admin view. Lookup only; reports never depend on it for correctness.
type EmployeeDirectory interface {
	GetByID(id int64) (*user.User, error)
	ListEmployees() ([]*user.User, error)
}

type Service struct {
	repo   Repository
	files  AttachmentStore
	users  EmployeeDirectory
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, files AttachmentStore, users EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		files:  files,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates a technician's report, stores the uploads and inserts
// the row with the caller's current display name snapshotted onto it.
// Files are written before the insert; a failed insert leaves them on disk.
func (s *Service) Submit(userID int64, dto SubmitReportDTO, files []*multipart.FileHeader) (*Report, error) {
	if err := dto.Validate(s.now()); err != nil {
		s.logger.Warn("report validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	u, err := s.users.GetByID(userID)
	if err != nil {
		s.logger.Error("submitting user not found", "error", err, "user_id", userID)
		return nil, err
	}

	stored, err := s.files.Save(files)
	if err != nil {
		s.logger.Warn("attachment intake failed", "error", err, "user_id", userID)
		return nil, err
	}

	r := dto.ToReport(userID, u.Name, stored, s.now())
	if err := s.repo.Create(r); err != nil {
		s.logger.Error("failed to insert report", "error", err, "user_id", userID, "orphaned_files", len(stored))
		return nil, err
	}

	s.logger.Info("report submitted",
		"report_id", r.ID,
		"user_id", userID,
		"appointment_type", r.AppointmentType,
		"attachments", len(stored))

	return r, nil
}

// AdminView holds everything the admin panel renders for one fetch.
type AdminView struct {
	Reports   []View   `json:"reports"`
	Totals    Totals   `json:"totals"`
	Employees []string `json:"employees"`
}

// View assembles the admin view: full report set decorated against active
// accounts, filtered, sorted and limited by the given criteria.
func (s *Service) View(c Criteria, ascending bool, limit int) (*AdminView, error) {
	reports, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		return nil, err
	}

	employees, err := s.users.ListEmployees()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}

	activeIDs := make(map[int64]bool, len(employees))
	activeNames := make([]string, 0, len(employees))
	for _, e := range employees {
		activeIDs[e.ID] = true
		activeNames = append(activeNames, e.Name)
	}

	views := make([]View, 0, len(reports))
	for _, r := range reports {
		views = append(views, r.ViewFor(activeIDs))
	}

	filtered := Apply(views, c)
	SortByDate(filtered, ascending)
	totals := Aggregate(filtered)

	return &AdminView{
		Reports:   Paginate(filtered, limit),
		Totals:    totals,
		Employees: EmployeeOptions(views, activeNames),
	}, nil
}

// Delete hard-deletes one report. Reports own nothing, so nothing cascades.
func (s *Service) Delete(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete report", "error", err, "report_id", id)
		return err
	}

	s.logger.Info("report deleted", "report_id", id)
	return nil
}
