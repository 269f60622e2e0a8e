package service

import (
	"context"
	"errors"
	"strings"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"gorm.io/gorm"
)

type FileReportReq struct {
	TargetType model.TargetType `json:"target_type" validate:"required,oneof=post comment user"`
	TargetID   uint64           `json:"target_id" validate:"required"`
	ReporterID uint64           `json:"reporter_id" validate:"required"`
	Reason     string           `json:"reason" validate:"required,max=500"`
}

// ReportFilter Order 取 asc 或 desc，默认 desc
type ReportFilter struct {
	ID         uint64
	Status     model.ReportStatus
	TargetType model.TargetType
	TargetID   uint64
	ReporterID uint64
	Order      string
	Offset     int
	Limit      int
}

type ReportService struct {
	reports  *mysql.ReportRepository
	posts    *mysql.PostRepository
	comments *mysql.CommentRepository
	audit    *AuditService
}

func NewReportService(db *gorm.DB, audit *AuditService) *ReportService {
	return &ReportService{
		reports:  &mysql.ReportRepository{DB: db},
		posts:    &mysql.PostRepository{DB: db},
		comments: &mysql.CommentRepository{DB: db},
		audit:    audit,
	}
}

// File 提交举报，同一目标允许重复举报
func (s *ReportService) File(ctx context.Context, req FileReportReq) (*model.Report, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, req.TargetType, req.TargetID); err != nil {
		return nil, err
	}
	report := &model.Report{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		ReporterID: req.ReporterID,
		Reason:     req.Reason,
		Status:     model.ReportOpen,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// checkTarget 帖子和评论必须存在且未删除，用户目标不校验
func (s *ReportService) checkTarget(ctx context.Context, t model.TargetType, id uint64) error {
	var err error
	switch t {
	case model.TargetPost:
		_, err = s.posts.FindByID(ctx, id)
	case model.TargetComment:
		_, err = s.comments.FindByID(ctx, id)
	default:
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTargetNotFound
	}
	return err
}

func (s *ReportService) Get(ctx context.Context, id uint64) (*model.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) List(ctx context.Context, f ReportFilter) ([]model.Report, error) {
	if f.Status != "" && !validReportStatus(f.Status) {
		return nil, invalid("status", "must be one of [open dismissed actioned]")
	}
	var asc bool
	switch strings.ToLower(f.Order) {
	case "", "desc":
	case "asc":
		asc = true
	default:
		return nil, invalid("order", "must be one of [asc desc]")
	}
	return s.reports.List(ctx, mysql.ReportQuery{
		ID:         f.ID,
		Status:     f.Status,
		TargetType: f.TargetType,
		TargetID:   f.TargetID,
		ReporterID: f.ReporterID,
		Ascending:  asc,
		Offset:     f.Offset,
		Limit:      f.Limit,
	})
}

// Transition 状态之间任意切换，不写审计
func (s *ReportService) Transition(ctx context.Context, id uint64, status model.ReportStatus) (*model.Report, error) {
	if !validReportStatus(status) {
		return nil, invalid("status", "must be one of [open dismissed actioned]")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.reports.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Resolve 管理员处理举报，额外记一条 report_action
func (s *ReportService) Resolve(ctx context.Context, actorID, id uint64, status model.ReportStatus) (*model.Report, error) {
	if !validReportStatus(status) {
		return nil, invalid("status", "must be one of [open dismissed actioned]")
	}
	before, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.Transition(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if _, err := s.audit.Record(ctx, actorID, model.TargetReport, id, model.ActionReportAction, map[string]any{
		"from": before.Status,
		"to":   after.Status,
	}); err != nil {
		return nil, err
	}
	return after, nil
}

func validReportStatus(s model.ReportStatus) bool {
	switch s {
	case model.ReportOpen, model.ReportDismissed, model.ReportActioned:
		return true
	}
	return false
}
