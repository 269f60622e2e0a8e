package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanCreate_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	past := e.clock.Now().Add(-time.Hour)

	tests := []struct {
		name  string
		req   CreateBanReq
		field string
	}{
		{"bad type", CreateBanReq{UserID: 2, BanType: "mute", CreatedBy: 1}, "ban_type"},
		{"missing user", CreateBanReq{BanType: model.BanPost, CreatedBy: 1}, "user_id"},
		{"reason too long", CreateBanReq{UserID: 2, BanType: model.BanPost, ReasonUser: strings.Repeat("x", 501), CreatedBy: 1}, "reason_user"},
		{"end before start", CreateBanReq{UserID: 2, BanType: model.BanPost, EndAt: &past, CreatedBy: 1}, "end_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.bans.Create(ctx, tt.req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Fields)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
		})
	}

	var n int64
	require.NoError(t, e.db.Model(&model.Ban{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestBanCreate_DefaultsStartToNow(t *testing.T) {
	e := newTestEnv(t)
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanVote})
	assert.True(t, res.Ban.StartAt.Equal(e.clock.Now()))
	assert.Nil(t, res.Ban.EndAt)
	assert.Nil(t, res.ContentDeleted)
	assert.Equal(t, model.BanActive, res.Ban.StatusAt(e.clock.Now()))
}

func TestBanCreate_DuplicateActive(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	first := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanComment})

	_, err := e.bans.Create(ctx, CreateBanReq{UserID: 2, BanType: model.BanComment, CreatedBy: 1})
	var dup *DuplicateActiveBanError
	require.ErrorAs(t, err, &dup)
	require.Len(t, dup.Existing, 1)
	assert.Equal(t, first.Ban.ID, dup.Existing[0].ID)

	// 其他类型和其他用户不受影响
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost})
	e.ban(t, CreateBanReq{UserID: 3, BanType: model.BanComment})

	_, err = e.bans.Revoke(ctx, first.Ban.ID, 1, nil)
	require.NoError(t, err)
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanComment})
}

func TestBanCreate_AfterExpiry(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	end := e.clock.Now().Add(time.Hour)
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost, EndAt: &end})

	_, err := e.bans.Create(ctx, CreateBanReq{UserID: 2, BanType: model.BanPost, CreatedBy: 1})
	require.Error(t, err)

	e.clock.Advance(2 * time.Hour)
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost})
}

func TestBanCreate_ScheduledIsNotDuplicate(t *testing.T) {
	e := newTestEnv(t)
	start := e.clock.Now().Add(24 * time.Hour)
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanSuspend, StartAt: &start})
	assert.Equal(t, model.BanScheduled, res.Ban.StatusAt(e.clock.Now()))

	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanSuspend})
}

func TestBanCreate_RecordsAudit(t *testing.T) {
	e := newTestEnv(t)
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost, CreatedBy: 9})

	list := e.actions(t, ActionFilter{ActionType: model.ActionBanCreate})
	require.Len(t, list, 1)
	a := list[0]
	assert.Equal(t, uint64(9), a.ActorID)
	assert.Equal(t, model.TargetUser, a.TargetType)
	assert.Equal(t, uint64(2), a.TargetID)
	assert.EqualValues(t, res.Ban.ID, a.Details["ban_id"])
	assert.Equal(t, "post_ban", a.Details["ban_type"])
}

func TestBanStatus_ExpiresWithClock(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	end := e.clock.Now().Add(7 * 24 * time.Hour)
	e.ban(t, CreateBanReq{UserID: 5, BanType: model.BanPost, ReasonUser: "spam", ReasonAdmin: "bot ring", EndAt: &end})

	st, err := e.bans.Status(ctx, 5)
	require.NoError(t, err)
	assert.True(t, st.IsBanned)
	require.Len(t, st.ActiveBans, 1)
	assert.Equal(t, model.BanPost, st.ActiveBans[0].BanType)
	assert.Equal(t, "spam", st.ActiveBans[0].ReasonUser)

	e.clock.Advance(7*24*time.Hour + time.Second)
	st, err = e.bans.Status(ctx, 5)
	require.NoError(t, err)
	assert.False(t, st.IsBanned)
	assert.Empty(t, st.ActiveBans)
}

func TestBanStatus_HidesShadowban(t *testing.T) {
	e := newTestEnv(t)
	e.ban(t, CreateBanReq{UserID: 5, BanType: model.BanShadowban})

	st, err := e.bans.Status(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, st.IsBanned)
	assert.NotNil(t, st.ActiveBans)
	assert.Empty(t, st.ActiveBans)
}

func TestBanRevoke(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanVote})

	e.clock.Advance(time.Minute)
	got, err := e.bans.Revoke(ctx, res.Ban.ID, 8, ptr("appeal accepted"))
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	require.NotNil(t, got.RevokedBy)
	assert.Equal(t, uint64(8), *got.RevokedBy)
	assert.Equal(t, "appeal accepted", got.ReasonAdmin)
	assert.Equal(t, model.BanRevoked, got.StatusAt(e.clock.Now()))

	_, err = e.bans.Revoke(ctx, res.Ban.ID, 8, nil)
	assert.ErrorIs(t, err, ErrBanRevoked)
	assert.ErrorIs(t, err, ErrBanNotFound)

	_, err = e.bans.Revoke(ctx, 404, 8, nil)
	assert.ErrorIs(t, err, ErrBanNotFound)
	assert.False(t, errors.Is(err, ErrBanRevoked))

	list := e.actions(t, ActionFilter{ActionType: model.ActionBanRevoke})
	require.Len(t, list, 1)
	assert.Equal(t, "appeal accepted", list[0].Details["reason"])
}

func TestBanUpdate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost, ReasonUser: "old"})

	end := e.clock.Now().Add(48 * time.Hour)
	got, err := e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{ReasonUser: ptr("new"), EndAt: &end})
	require.NoError(t, err)
	assert.Equal(t, "new", got.ReasonUser)
	require.NotNil(t, got.EndAt)
	assert.True(t, got.EndAt.Equal(end))
	assert.Equal(t, model.BanPost, got.BanType)

	list := e.actions(t, ActionFilter{ActionType: model.ActionBanUpdate})
	require.Len(t, list, 1)
	assert.ElementsMatch(t, []any{"reason_user", "end_at"}, list[0].Details["changed"])

	got, err = e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{ClearEndAt: true})
	require.NoError(t, err)
	assert.Nil(t, got.EndAt)

	// 没有字段时不写审计
	_, err = e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{})
	require.NoError(t, err)
	assert.Len(t, e.actions(t, ActionFilter{ActionType: model.ActionBanUpdate}), 2)
}

func TestBanUpdate_Rejects(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	res := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost})

	bad := model.BanType("mute")
	_, err := e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{BanType: &bad})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	before := e.clock.Now().Add(-time.Hour)
	_, err = e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{EndAt: &before})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "end_at", ve.Fields[0].Field)

	_, err = e.bans.Update(ctx, 1, 404, UpdateBanReq{ReasonUser: ptr("x")})
	assert.ErrorIs(t, err, ErrBanNotFound)

	_, err = e.bans.Revoke(ctx, res.Ban.ID, 1, nil)
	require.NoError(t, err)
	_, err = e.bans.Update(ctx, 1, res.Ban.ID, UpdateBanReq{ReasonUser: ptr("x")})
	assert.ErrorIs(t, err, ErrBanRevoked)
}

func TestBanList_StatusFilter(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	now := e.clock.Now()
	start := now.Add(-2 * time.Hour)
	ended := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	active := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost})
	expired := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanVote, StartAt: &start, EndAt: &ended})
	scheduled := e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanComment, StartAt: &future})
	revoked := e.ban(t, CreateBanReq{UserID: 3, BanType: model.BanPost})
	_, err := e.bans.Revoke(ctx, revoked.Ban.ID, 1, nil)
	require.NoError(t, err)

	tests := []struct {
		status model.BanStatus
		want   uint64
	}{
		{model.BanActive, active.Ban.ID},
		{model.BanExpired, expired.Ban.ID},
		{model.BanScheduled, scheduled.Ban.ID},
		{model.BanRevoked, revoked.Ban.ID},
	}
	for _, tt := range tests {
		list, err := e.bans.List(ctx, BanFilter{Status: tt.status})
		require.NoError(t, err)
		require.Len(t, list, 1, tt.status)
		assert.Equal(t, tt.want, list[0].ID, tt.status)
	}

	list, err := e.bans.List(ctx, BanFilter{BanQuery: mysql.BanQuery{UserID: 2}})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = e.bans.List(ctx, BanFilter{BanQuery: mysql.BanQuery{UserID: 2}, Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = e.bans.List(ctx, BanFilter{Status: "gone"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestBanListActive_FreshEveryCall(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	end := e.clock.Now().Add(time.Minute)
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanPost, EndAt: &end})
	e.ban(t, CreateBanReq{UserID: 2, BanType: model.BanVote})

	list, err := e.bans.ListActive(ctx, 2, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = e.bans.ListActive(ctx, 2, model.BanVote)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.BanVote, list[0].BanType)

	e.clock.Advance(time.Minute)
	list, err = e.bans.ListActive(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.BanVote, list[0].BanType)
}
