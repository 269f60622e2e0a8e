package mysql

import (
	"context"

	"Lee_Forum/internal/model"

	"gorm.io/gorm"
)

// ReportQuery 举报查询条件，零值表示不过滤，条件之间是 AND
type ReportQuery struct {
	ID         uint64
	Status     model.ReportStatus
	TargetType model.TargetType
	TargetID   uint64
	ReporterID uint64
	Ascending  bool
	Offset     int
	Limit      int
}

type ReportRepository struct {
	DB *gorm.DB
}

func (r *ReportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.DB.WithContext(ctx).Create(report).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id uint64) (*model.Report, error) {
	var report model.Report
	err := r.DB.WithContext(ctx).First(&report, id).Error
	return &report, err
}

func (r *ReportRepository) List(ctx context.Context, q ReportQuery) ([]model.Report, error) {
	tx := r.DB.WithContext(ctx).Model(&model.Report{})
	if q.ID != 0 {
		tx = tx.Where("id = ?", q.ID)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.TargetType != "" {
		tx = tx.Where("target_type = ?", q.TargetType)
	}
	if q.TargetID != 0 {
		tx = tx.Where("target_id = ?", q.TargetID)
	}
	if q.ReporterID != 0 {
		tx = tx.Where("reporter_id = ?", q.ReporterID)
	}
	if q.Ascending {
		tx = tx.Order("created_at ASC, id ASC")
	} else {
		tx = tx.Order("created_at DESC, id DESC")
	}
	if q.Limit > 0 {
		tx = tx.Offset(q.Offset).Limit(q.Limit)
	}
	list := make([]model.Report, 0)
	err := tx.Find(&list).Error
	return list, err
}

// UpdateStatus 任意状态之间都允许切换，返回影响行数
func (r *ReportRepository) UpdateStatus(ctx context.Context, id uint64, status model.ReportStatus) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Report{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected, res.Error
}
