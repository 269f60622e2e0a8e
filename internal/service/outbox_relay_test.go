package service

import (
	"context"
	"errors"
	"testing"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys []string
	fail bool
}

func (p *recordingPublisher) Send(ctx context.Context, key string, value []byte) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, key)
	return nil
}

func outboxStatuses(t *testing.T, e *testEnv) []model.ModerationOutbox {
	t.Helper()
	var rows []model.ModerationOutbox
	require.NoError(t, e.db.Order("id ASC").Find(&rows).Error)
	return rows
}

func TestOutboxRelayer_DrainOnce(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	a1, err := e.audit.Record(ctx, 1, model.TargetUser, 2, model.ActionBanCreate, nil)
	require.NoError(t, err)
	_, err = e.audit.Record(ctx, 1, model.TargetUser, 2, model.ActionBanRevoke, nil)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	r := NewOutboxRelayer(e.db, pub, 10, 3, 0, nil)
	sent, err := r.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, pub.keys, 2)
	assert.Equal(t, "ban_create:"+pkg.MakeKeyFromID(a1.ID), pub.keys[0])

	for _, row := range outboxStatuses(t, e) {
		assert.EqualValues(t, model.OutboxSent, row.Status)
	}

	sent, err = r.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestOutboxRelayer_RetriesUntilLimit(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, err := e.audit.Record(ctx, 1, model.TargetUser, 2, model.ActionBanCreate, nil)
	require.NoError(t, err)

	pub := &recordingPublisher{fail: true}
	r := NewOutboxRelayer(e.db, pub, 10, 2, 0, nil)
	for i := 0; i < 3; i++ {
		sent, err := r.DrainOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	}
	rows := outboxStatuses(t, e)
	require.Len(t, rows, 1)
	assert.EqualValues(t, model.OutboxFailed, rows[0].Status)
	assert.Equal(t, 2, rows[0].Retry)

	// 超过重试次数后不再投递
	pub.fail = false
	sent, err := r.DrainOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
	assert.Empty(t, pub.keys)
}
