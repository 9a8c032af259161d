package auth

import (
	"encoding/json"
	"net/http"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/transport"
	"github.com/velonis/field-reports/pkg/logger"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (LoginResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "username", dto.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("login succeeded", "user_id", resp.UserID, "role", resp.Role)
	h.WriteJSON(w, http.StatusOK, resp)
}

// Middleware rejects requests without a structurally valid, signed,
// unexpired bearer token and stores the session on the request context.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		session := &internal.Session{
			UserID: claims.UserID,
			Role:   claims.Role,
		}
		next.ServeHTTP(w, r.WithContext(internal.ContextWithSession(r.Context(), session)))
	})
}

// RequireRole fails with access-denied when the session role does not match.
func (h *Handler) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := internal.SessionFromContext(r.Context())
			if !ok {
				h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}
			if session.Role != role {
				h.Logger.Warn("access denied", "user_id", session.UserID, "role", session.Role, "required", role)
				h.WriteError(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
