package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zachkp/portfolio/internal/portfolio"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func openTestStore(t *testing.T, opts ...Option) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clock.Now), WithLogger(zaptest.NewLogger(t))}, opts...)
	s, err := Open(":memory:", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "portfolio.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordVisit(context.Background(), "1.2.3.4", "ua", "/"))
	require.NoError(t, s.Close())

	// Reopening keeps the data and re-applies the schema without error.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	stats, err := s.VisitorStats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVisitors)
}

func TestJournal_RecordAndList(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	st := portfolio.Reduce(nil, portfolio.LoadTriggered{Seq: 1})
	require.NoError(t, s.RecordAction(ctx, st, portfolio.LoadTriggered{Seq: 1}))

	clock.Advance(time.Second)
	st = portfolio.Reduce(st, portfolio.LoadFailed{Seq: 1, Message: "boom"})
	s.Observe(st, portfolio.LoadFailed{Seq: 1, Message: "boom"})

	entries, err := s.RecentActions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, portfolio.TypeLoadFailed, entries[0].Type)
	assert.Equal(t, "boom", entries[0].Error)
	assert.False(t, entries[0].Loading)
	assert.JSONEq(t, `{"seq":1,"error":"boom"}`, entries[0].Payload)
	assert.True(t, clock.now.Equal(entries[0].RecordedAt))

	assert.Equal(t, portfolio.TypeLoadTriggered, entries[1].Type)
	assert.True(t, entries[1].Loading)
}

func TestJournal_KeepsNewestEntries(t *testing.T) {
	s, _ := openTestStore(t, WithJournalSize(3))
	ctx := context.Background()

	st := portfolio.InitialState()
	for i := 0; i < 5; i++ {
		a := portfolio.SkillAdded{Skill: portfolio.Skill{ID: string(rune('a' + i))}}
		st = portfolio.Reduce(st, a)
		require.NoError(t, s.RecordAction(ctx, st, a))
	}

	entries, err := s.RecentActions(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 5, entries[0].Skills)
	assert.Equal(t, 3, entries[2].Skills)
}

func TestVisitors_Stats(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "ua", "/"))
	clock.Advance(-3 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.2", "ua", "/about"))
	clock.Advance(-30 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "ua", "/"))
	clock.Advance(33 * 24 * time.Hour)

	stats, err := s.VisitorStats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalVisitors)
	assert.Equal(t, int64(2), stats.UniqueVisitors)
	assert.Equal(t, int64(1), stats.VisitorsToday)
	assert.Equal(t, int64(2), stats.VisitorsThisWeek)
	require.Len(t, stats.RecentVisitors, 2)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
	assert.Equal(t, "/about", stats.RecentVisitors[1].Path)
}

func TestVisitors_HashIP(t *testing.T) {
	s, _ := openTestStore(t)
	h := s.HashIP("192.168.1.1")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("192.168.1.1"))
	assert.NotEqual(t, h, s.HashIP("192.168.1.2"))
}

func TestVisitors_Cleanup(t *testing.T) {
	s, clock := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordVisit(ctx, "10.0.0.1", "ua", "/"))
	clock.Advance(400 * 24 * time.Hour)
	require.NoError(t, s.RecordVisit(ctx, "10.0.0.2", "ua", "/"))

	n, err := s.CleanupOldVisits(ctx, 365*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stats, err := s.VisitorStats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalVisitors)
}
