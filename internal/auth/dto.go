package auth

import (
	"strings"

	"github.com/velonis/field-reports/internal"
)

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Username) == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}
