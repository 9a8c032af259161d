package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/velonis/field-reports/internal"
)

type Repository interface {
	Create(u *User) error
	GetByID(id int64) (*User, error)
	ListByRole(role string) ([]*User, error)
	// DeleteWithDetach nulls report ownership for the user and removes the
	// account in one transaction. Reports survive; their name snapshot is
	// the durable display name.
	DeleteWithDetach(id int64) error
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateEmployee hashes the password and stores a new employee account.
// Admin accounts are only ever created by the seed command.
func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("create employee validation failed", "error", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         dto.Name,
		Username:     dto.Username,
		PasswordHash: string(hash),
		Role:         internal.RoleEmployee,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create employee", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("employee created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	return s.repo.GetByID(id)
}

// ListEmployees returns active employee accounts only; the admin account
// never shows up in the panel.
func (s *Service) ListEmployees() ([]*User, error) {
	return s.repo.ListByRole(internal.RoleEmployee)
}

// DeleteEmployee detaches the user's reports and deletes the account.
func (s *Service) DeleteEmployee(id int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	if err := s.repo.DeleteWithDetach(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("employee deleted", "user_id", id)
	return nil
}
