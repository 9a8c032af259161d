package postgres

import (
	"gorm.io/gorm"

	"github.com/velonis/field-reports/internal"
	"github.com/velonis/field-reports/internal/report"
)

// ReportRepository implements report.Repository using GORM
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(rep *report.Report) error {
	if err := r.db.Create(rep).Error; err != nil {
		return internal.NewInternalError("failed to insert report", err)
	}
	return nil
}

// List returns the full report set, newest work first. The admin view
// re-sorts in memory; this order is just a sane default.
func (r *ReportRepository) List() ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.Order("date DESC, id DESC").Find(&reports).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list reports", err)
	}
	return reports, nil
}

func (r *ReportRepository) Delete(id int64) error {
	res := r.db.Delete(&report.Report{}, id)
	if res.Error != nil {
		return internal.NewInternalError("failed to delete report", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrReportNotFound
	}
	return nil
}
