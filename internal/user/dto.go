package user

import (
	"strings"

	"github.com/velonis/field-reports/internal"
)

type CreateEmployeeDTO struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Username) == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 6 {
		return internal.NewValidationError("password must be at least 6 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreatedResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}
