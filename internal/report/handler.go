package report

import (
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/transport"
	"github.com/velonis/field-reports/pkg/logger"
)

// multipartMemory is the in-memory threshold for form parsing; larger
// uploads spill to temp files.
const multipartMemory = 32 << 20

type ServiceAPI interface {
	Submit(userID int64, dto SubmitReportDTO, files []*multipart.FileHeader) (*Report, error)
	View(c Criteria, ascending bool, limit int) (*AdminView, error)
	Delete(id int64) error
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

// Submit handles POST /submit-report (multipart form, employee token).
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	session, ok := internal.SessionFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.Logger.Warn("invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid upload form")
		return
	}

	dto := SubmitDTOFromForm(r.MultipartForm.Value)
	files := r.MultipartForm.File["attachments"]

	created, err := h.Service.Submit(session.UserID, dto, files)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /admin/reports. With no query parameters it returns the
// full decorated report set; the filter parameters select the same view the
// admin panel computes.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	criteria, ascending, limit, err := CriteriaFromQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	view, err := h.Service.View(criteria, ascending, limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

// Delete handles DELETE /admin/delete-report/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid report ID")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "report deleted"})
}

// CriteriaFromQuery maps list/export query parameters onto a Criteria.
// sort defaults to descending, matching the panel's initial view; limit is
// only honored when it is one of the offered page sizes.
func CriteriaFromQuery(q url.Values) (Criteria, bool, int, error) {
	c := Criteria{
		AppointmentType: q.Get("type"),
		Employee:        q.Get("employee"),
		Address:         q.Get("address"),
	}

	switch q.Get("equipment") {
	case "":
		c.Equipment = EquipmentAny
	case string(EquipmentRouter):
		c.Equipment = EquipmentRouter
	case string(EquipmentOnt):
		c.Equipment = EquipmentOnt
	default:
		return c, false, 0, internal.NewValidationError("invalid equipment filter", internal.ErrCodeInvalidEnum)
	}

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c, false, 0, internal.NewValidationError("invalid start_date", internal.ErrCodeInvalidDate)
		}
		c.From = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c, false, 0, internal.NewValidationError("invalid end_date", internal.ErrCodeInvalidDate)
		}
		c.To = &t
	}

	ascending := q.Get("sort") == "asc"

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || !ValidPageSize(n) {
			return c, false, 0, internal.NewValidationError("invalid limit", internal.ErrCodeValidationFailed)
		}
		limit = n
	}

	return c, ascending, limit, nil
}
