package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"Lee_Forum/internal/model"
	"Lee_Forum/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "forum.db")), mysql.Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

type testEnv struct {
	db           *gorm.DB
	clock        *fakeClock
	audit        *AuditService
	reports      *ReportService
	bans         *BanService
	gate         *Gate
	posts        *PostService
	comments     *CommentService
	postVotes    *VoteService
	commentVotes *VoteService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	clock := newFakeClock()
	audit := NewAuditService(db, clock.Now)
	reports := NewReportService(db, audit)
	bans := NewBanService(db, reports, audit, &mysql.PostRepository{DB: db}, &mysql.CommentRepository{DB: db}, nil, clock.Now)
	return &testEnv{
		db:           db,
		clock:        clock,
		audit:        audit,
		reports:      reports,
		bans:         bans,
		gate:         NewGate(bans),
		posts:        NewPostService(db, clock.Now),
		comments:     NewCommentService(db),
		postVotes:    NewPostVoteService(db),
		commentVotes: NewCommentVoteService(db),
	}
}

func (e *testEnv) post(t *testing.T, authorID uint64) *model.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), authorID, 1, "title", "body")
	require.NoError(t, err)
	return p
}

func (e *testEnv) comment(t *testing.T, authorID, postID uint64) *model.Comment {
	t.Helper()
	c, err := e.comments.CreateComment(context.Background(), authorID, postID, "nice")
	require.NoError(t, err)
	return c
}

func (e *testEnv) report(t *testing.T, tt model.TargetType, targetID uint64) *model.Report {
	t.Helper()
	r, err := e.reports.File(context.Background(), FileReportReq{TargetType: tt, TargetID: targetID, ReporterID: 77, Reason: "spam"})
	require.NoError(t, err)
	return r
}

func (e *testEnv) ban(t *testing.T, req CreateBanReq) *CreateBanResult {
	t.Helper()
	if req.CreatedBy == 0 {
		req.CreatedBy = 1
	}
	res, err := e.bans.Create(context.Background(), req)
	require.NoError(t, err)
	return res
}

func (e *testEnv) actions(t *testing.T, f ActionFilter) []model.ModerationAction {
	t.Helper()
	list, err := e.audit.Query(context.Background(), f)
	require.NoError(t, err)
	return list
}

func ptr[T any](v T) *T { return &v }
