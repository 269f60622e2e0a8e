package service

import (
	"context"
	"errors"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
	"Lee_Forum/internal/repository/mysql"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateBanReq struct {
	UserID          uint64        `json:"user_id" validate:"required"`
	BanType         model.BanType `json:"ban_type" validate:"required,oneof=suspend post_ban comment_ban vote_ban shadowban"`
	ReasonAdmin     string        `json:"reason_admin"`
	ReasonUser      string        `json:"reason_user" validate:"max=500"`
	StartAt         *time.Time    `json:"start_at"`
	EndAt           *time.Time    `json:"end_at"`
	RelatedReportID *uint64       `json:"related_report_id"`
	CreatedBy       uint64        `json:"created_by" validate:"required"`
}

// UpdateBanReq 只修改传了的字段；ClearEndAt 把封禁改成永久
type UpdateBanReq struct {
	BanType     *model.BanType `json:"ban_type" validate:"omitempty,oneof=suspend post_ban comment_ban vote_ban shadowban"`
	ReasonAdmin *string        `json:"reason_admin"`
	ReasonUser  *string        `json:"reason_user" validate:"omitempty,max=500"`
	EndAt       *time.Time     `json:"end_at"`
	ClearEndAt  bool           `json:"clear_end_at"`
}

// BanFilter Status 为空表示不按推导状态过滤
type BanFilter struct {
	mysql.BanQuery
	Status model.BanStatus
	Offset int
	Limit  int
}

type DeletedContent struct {
	TargetType model.TargetType `json:"target_type"`
	TargetID   uint64           `json:"target_id"`
}

type CreateBanResult struct {
	Ban            *model.Ban      `json:"ban"`
	ContentDeleted *DeletedContent `json:"content_deleted,omitempty"`
}

// PublicBan 对外展示的封禁，不含管理员原因和撤销信息
type PublicBan struct {
	BanType    model.BanType `json:"ban_type"`
	ReasonUser string        `json:"reason_user"`
	StartAt    time.Time     `json:"start_at"`
	EndAt      *time.Time    `json:"end_at"`
}

type UserBanStatus struct {
	UserID     uint64      `json:"user_id"`
	IsBanned   bool        `json:"is_banned"`
	ActiveBans []PublicBan `json:"active_bans"`
}

// PostStore 级联删除用到的帖子存储
type PostStore interface {
	DeleteByID(ctx context.Context, id uint64) (*model.Post, error)
}

// CommentStore 级联删除用到的评论存储
type CommentStore interface {
	DeleteByID(ctx context.Context, id uint64, as mysql.ActingAs) (bool, error)
}

type BanService struct {
	db       *gorm.DB
	bans     *mysql.BanRepository
	reports  *ReportService
	audit    *AuditService
	posts    PostStore
	comments CommentStore
	log      *zap.Logger
	now      Clock
}

func NewBanService(db *gorm.DB, reports *ReportService, audit *AuditService, posts PostStore, comments CommentStore, logger *zap.Logger, now Clock) *BanService {
	if now == nil {
		now = utcNow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BanService{
		db:       db,
		bans:     &mysql.BanRepository{DB: db},
		reports:  reports,
		audit:    audit,
		posts:    posts,
		comments: comments,
		log:      logger,
		now:      now,
	}
}

// Create 创建封禁；同一用户同一类型只能有一个生效中的封禁
// 关联了举报时，提交后尝试删除被举报的内容，失败不影响封禁
func (s *BanService) Create(ctx context.Context, req CreateBanReq) (*CreateBanResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	now := s.now()
	start := now
	if req.StartAt != nil {
		start = req.StartAt.UTC()
	}
	var end *time.Time
	if req.EndAt != nil {
		e := req.EndAt.UTC()
		if !e.After(start) {
			return nil, invalid("end_at", "must be after start_at")
		}
		end = &e
	}

	ban := &model.Ban{
		UserID:          req.UserID,
		BanType:         req.BanType,
		ReasonAdmin:     req.ReasonAdmin,
		ReasonUser:      req.ReasonUser,
		StartAt:         start,
		EndAt:           end,
		CreatedBy:       req.CreatedBy,
		RelatedReportID: req.RelatedReportID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &mysql.BanRepository{DB: tx}
		existing, err := repo.ListUnrevoked(ctx, req.UserID, req.BanType)
		if err != nil {
			return err
		}
		if active := activeAt(existing, now); len(active) > 0 {
			return &DuplicateActiveBanError{Existing: active}
		}
		if err := repo.Create(ctx, ban); err != nil {
			return err
		}
		_, err = s.audit.RecordTx(ctx, tx, req.CreatedBy, model.TargetUser, ban.UserID, model.ActionBanCreate, map[string]any{
			"ban_id":            ban.ID,
			"ban_type":          ban.BanType,
			"start_at":          ban.StartAt,
			"end_at":            ban.EndAt,
			"related_report_id": ban.RelatedReportID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	pkg.BansCreated.WithLabelValues(string(ban.BanType)).Inc()

	result := &CreateBanResult{Ban: ban}
	if ban.RelatedReportID != nil {
		result.ContentDeleted = s.attemptCascadeDelete(ctx, ban)
	}
	return result, nil
}

func (s *BanService) Get(ctx context.Context, id uint64) (*model.Ban, error) {
	ban, err := s.bans.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBanNotFound
	}
	if err != nil {
		return nil, err
	}
	return ban, nil
}

func (s *BanService) Update(ctx context.Context, actorID, id uint64, req UpdateBanReq) (*model.Ban, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.EndAt != nil && req.ClearEndAt {
		return nil, invalid("end_at", "cannot be combined with clear_end_at")
	}
	ban, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ban.RevokedAt != nil {
		return nil, ErrBanRevoked
	}

	fields := map[string]any{}
	var changed []string
	if req.BanType != nil {
		fields["ban_type"] = *req.BanType
		changed = append(changed, "ban_type")
	}
	if req.ReasonAdmin != nil {
		fields["reason_admin"] = *req.ReasonAdmin
		changed = append(changed, "reason_admin")
	}
	if req.ReasonUser != nil {
		fields["reason_user"] = *req.ReasonUser
		changed = append(changed, "reason_user")
	}
	if req.EndAt != nil {
		e := req.EndAt.UTC()
		if !e.After(ban.StartAt) {
			return nil, invalid("end_at", "must be after start_at")
		}
		fields["end_at"] = e
		changed = append(changed, "end_at")
	}
	if req.ClearEndAt {
		fields["end_at"] = nil
		changed = append(changed, "end_at")
	}
	if len(fields) == 0 {
		return ban, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := (&mysql.BanRepository{DB: tx}).UpdateUnrevoked(ctx, id, fields)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrBanRevoked
		}
		_, err = s.audit.RecordTx(ctx, tx, actorID, model.TargetUser, ban.UserID, model.ActionBanUpdate, map[string]any{
			"ban_id":  id,
			"changed": changed,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Revoke 撤销封禁，重复撤销返回 ErrBanRevoked
func (s *BanService) Revoke(ctx context.Context, id, revokedBy uint64, reasonAdmin *string) (*model.Ban, error) {
	ban, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ban.RevokedAt != nil {
		return nil, ErrBanRevoked
	}
	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := (&mysql.BanRepository{DB: tx}).Revoke(ctx, id, revokedBy, now, reasonAdmin)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrBanRevoked
		}
		details := map[string]any{"ban_id": id, "ban_type": ban.BanType}
		if reasonAdmin != nil {
			details["reason"] = *reasonAdmin
		}
		_, err = s.audit.RecordTx(ctx, tx, revokedBy, model.TargetUser, ban.UserID, model.ActionBanRevoke, details)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// ListActive 每次都重新查库并按当前时间推导，banType 为空表示全部类型
func (s *BanService) ListActive(ctx context.Context, userID uint64, banType model.BanType) ([]model.Ban, error) {
	list, err := s.bans.ListUnrevoked(ctx, userID, banType)
	if err != nil {
		return nil, err
	}
	return activeAt(list, s.now()), nil
}

func (s *BanService) List(ctx context.Context, f BanFilter) ([]model.Ban, error) {
	switch f.Status {
	case "", model.BanScheduled, model.BanActive, model.BanExpired, model.BanRevoked:
	default:
		return nil, invalid("status", "must be one of [scheduled active expired revoked]")
	}
	list, err := s.bans.List(ctx, f.BanQuery)
	if err != nil {
		return nil, err
	}
	if f.Status != "" {
		now := s.now()
		filtered := make([]model.Ban, 0, len(list))
		for _, b := range list {
			if b.StatusAt(now) == f.Status {
				filtered = append(filtered, b)
			}
		}
		list = filtered
	}
	return paginate(list, f.Offset, f.Limit), nil
}

// Status 公开的封禁状态，不暴露影子封禁
func (s *BanService) Status(ctx context.Context, userID uint64) (*UserBanStatus, error) {
	active, err := s.ListActive(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	out := &UserBanStatus{UserID: userID, ActiveBans: make([]PublicBan, 0, len(active))}
	for _, b := range active {
		if b.BanType == model.BanShadowban {
			continue
		}
		out.ActiveBans = append(out.ActiveBans, PublicBan{
			BanType:    b.BanType,
			ReasonUser: b.ReasonUser,
			StartAt:    b.StartAt,
			EndAt:      b.EndAt,
		})
	}
	out.IsBanned = len(out.ActiveBans) > 0
	return out, nil
}

func activeAt(list []model.Ban, now time.Time) []model.Ban {
	out := make([]model.Ban, 0, len(list))
	for _, b := range list {
		if b.IsActiveAt(now) {
			out = append(out, b)
		}
	}
	return out
}

func paginate[T any](list []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
