package service

import (
	"context"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"go.uber.org/zap"
)

// attemptCascadeDelete 删除封禁关联举报指向的内容。任何失败只记日志，返回 nil
func (s *BanService) attemptCascadeDelete(ctx context.Context, ban *model.Ban) *DeletedContent {
	log := s.log.With(zap.Uint64("ban_id", ban.ID), zap.Uint64("report_id", *ban.RelatedReportID))

	report, err := s.reports.Get(ctx, *ban.RelatedReportID)
	if err != nil {
		log.Warn("cascade: load report failed", zap.Error(err))
		pkg.CascadeOutcomes.WithLabelValues("failed").Inc()
		return nil
	}

	switch report.TargetType {
	case model.TargetPost:
		if _, err := s.posts.DeleteByID(ctx, report.TargetID); err != nil {
			log.Warn("cascade: delete post failed", zap.Uint64("post_id", report.TargetID), zap.Error(err))
			pkg.CascadeOutcomes.WithLabelValues("failed").Inc()
			return nil
		}
	case model.TargetComment:
		ok, err := s.comments.DeleteByID(ctx, report.TargetID, mysql.ActingAs{UserID: ban.CreatedBy, Admin: true})
		if err != nil || !ok {
			log.Warn("cascade: delete comment failed", zap.Uint64("comment_id", report.TargetID), zap.Bool("deleted", ok), zap.Error(err))
			pkg.CascadeOutcomes.WithLabelValues("failed").Inc()
			return nil
		}
	default:
		pkg.CascadeOutcomes.WithLabelValues("skipped").Inc()
		return nil
	}

	deleted := &DeletedContent{TargetType: report.TargetType, TargetID: report.TargetID}
	pkg.CascadeOutcomes.WithLabelValues("deleted").Inc()

	if _, err := s.reports.Transition(ctx, report.ID, model.ReportActioned); err != nil {
		log.Warn("cascade: mark report actioned failed", zap.Error(err))
	}
	if _, err := s.audit.Record(ctx, ban.CreatedBy, report.TargetType, report.TargetID, model.ActionDeleteContent, map[string]any{
		"ban_id":    ban.ID,
		"report_id": report.ID,
		"via_ban":   true,
	}); err != nil {
		log.Warn("cascade: record delete_content failed", zap.Error(err))
	}
	return deleted
}
