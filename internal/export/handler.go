package export

import (
	"net/http"

	"github.com/velonis/field-reports/internal/report"
	"github.com/velonis/field-reports/internal/transport"
	"github.com/velonis/field-reports/pkg/logger"
)

type ReportViewer interface {
	View(c report.Criteria, ascending bool, limit int) (*report.AdminView, error)
}

// Handler renders report exports. The same query parameters as the list
// endpoint select the exported view; no parameters exports the full set.
// Exports are never limited by the page size.
type Handler struct {
	*transport.BaseHandler
	Reports ReportViewer
}

func NewHandler(reports ReportViewer) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Reports:     reports,
	}
}

// XLSX handles GET /admin/reports/export.xlsx
func (h *Handler) XLSX(w http.ResponseWriter, r *http.Request) {
	view, ok := h.selectView(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="Employee_Reports.xlsx"`)

	if err := WriteXLSX(w, view.Reports, view.Totals); err != nil {
		h.Logger.Error("xlsx export failed", "error", err)
	}
}

// PDF handles GET /admin/reports/export.pdf
func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	view, ok := h.selectView(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="Employee_Reports.pdf"`)

	if err := WritePDF(w, view.Reports, view.Totals); err != nil {
		h.Logger.Error("pdf export failed", "error", err)
	}
}

func (h *Handler) selectView(w http.ResponseWriter, r *http.Request) (*report.AdminView, bool) {
	criteria, ascending, _, err := report.CriteriaFromQuery(r.URL.Query())
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}

	view, err := h.Reports.View(criteria, ascending, 0)
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}
	return view, true
}
