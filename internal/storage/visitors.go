package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
)

// Privacy-conscious visitor tracking record
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	VisitedAt time.Time `json:"visited_at"`
}

type VisitorStats struct {
	TotalVisitors    int64   `json:"total_visitors"`
	UniqueVisitors   int64   `json:"unique_visitors"`
	VisitorsToday    int64   `json:"visitors_today"`
	VisitorsThisWeek int64   `json:"visitors_this_week"`
	RecentVisitors   []Visit `json:"recent_visitors"`
}

// HashIP hashes ip with the per-process salt (consistent per IP).
func (s *Store) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + s.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?)
	`, s.HashIP(ip), userAgent, path, s.now().UnixMilli())
	return errors.Wrap(err, "failed to record visit")
}

func (s *Store) VisitorStats(ctx context.Context, recent int) (*VisitorStats, error) {
	stats := &VisitorStats{}
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	week := now.Add(-7 * 24 * time.Hour)

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors").Scan(&stats.TotalVisitors)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count visitors")
	}

	// Unique visitors (by hashed IP)
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(DISTINCT hashed_ip) FROM visitors").Scan(&stats.UniqueVisitors)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count unique visitors")
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors WHERE visited_at >= ?", today.UnixMilli()).Scan(&stats.VisitorsToday)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count today's visitors")
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM visitors WHERE visited_at >= ?", week.UnixMilli()).Scan(&stats.VisitorsThisWeek)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count this week's visitors")
	}

	if recent <= 0 {
		recent = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?
	`, recent)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query recent visitors")
	}
	defer rows.Close()

	for rows.Next() {
		var v Visit
		var visitedAt int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &visitedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan visitor")
		}
		v.VisitedAt = time.UnixMilli(visitedAt).UTC()
		stats.RecentVisitors = append(stats.RecentVisitors, v)
	}
	return stats, errors.Wrap(rows.Err(), "failed to read visitors")
}

// CleanupOldVisits removes visits older than retention and reports how
// many were deleted.
func (s *Store) CleanupOldVisits(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).UnixMilli()
	result, err := s.db.ExecContext(ctx, "DELETE FROM visitors WHERE visited_at < ?", cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to clean up old visits")
	}
	n, _ := result.RowsAffected()
	return n, nil
}
