package service

import (
	"context"
	"fmt"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"
)

// Action 需要经过门禁的用户操作
type Action string

const (
	ActionPost    Action = "post"
	ActionComment Action = "comment"
	ActionVote    Action = "vote"
)

var actionBanTypes = map[Action]model.BanType{
	ActionPost:    model.BanPost,
	ActionComment: model.BanComment,
	ActionVote:    model.BanVote,
}

// ActiveBanLister 门禁只依赖查询生效封禁
type ActiveBanLister interface {
	ListActive(ctx context.Context, userID uint64, banType model.BanType) ([]model.Ban, error)
}

type Gate struct {
	bans ActiveBanLister
}

func NewGate(bans ActiveBanLister) *Gate {
	return &Gate{bans: bans}
}

// Check 判断用户能否执行操作。suspend 优先，其次是操作对应的封禁类型，影子封禁不拦截
func (g *Gate) Check(ctx context.Context, actorID uint64, action Action) error {
	required, ok := actionBanTypes[action]
	if !ok {
		return fmt.Errorf("unknown gated action %q", action)
	}
	active, err := g.bans.ListActive(ctx, actorID, "")
	if err != nil {
		pkg.GateDecisions.WithLabelValues(string(action), "error", "").Inc()
		return err
	}
	for _, t := range []model.BanType{model.BanSuspend, required} {
		if b := pickBan(active, t); b != nil {
			pkg.GateDecisions.WithLabelValues(string(action), "deny", string(t)).Inc()
			return &BanDeniedError{
				Action:     action,
				BanType:    b.BanType,
				ReasonUser: b.ReasonUser,
				EndAt:      b.EndAt,
			}
		}
	}
	pkg.GateDecisions.WithLabelValues(string(action), "allow", "").Inc()
	return nil
}

// pickBan 同类型多条时取结束最晚的，永久封禁最晚，再按 id 取最大
func pickBan(list []model.Ban, t model.BanType) *model.Ban {
	var best *model.Ban
	for i := range list {
		b := &list[i]
		if b.BanType != t {
			continue
		}
		if best == nil || endsLater(b, best) {
			best = b
		}
	}
	return best
}

func endsLater(a, b *model.Ban) bool {
	switch {
	case a.EndAt == nil && b.EndAt == nil:
		return a.ID > b.ID
	case a.EndAt == nil:
		return true
	case b.EndAt == nil:
		return false
	case a.EndAt.Equal(*b.EndAt):
		return a.ID > b.ID
	default:
		return a.EndAt.After(*b.EndAt)
	}
}
