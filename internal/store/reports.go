package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DashboardCounts are the headline numbers of the admin dashboard.
type DashboardCounts struct {
	Artists           int64 `json:"artists"`
	Artworks          int64 `json:"artworks"`
	PublishedArtworks int64 `json:"published_artworks"`
	Events            int64 `json:"events"`
	UpcomingEvents    int64 `json:"upcoming_events"`
	Exhibitions       int64 `json:"exhibitions"`
	Documents         int64 `json:"documents"`
	TotalDownloads    int64 `json:"total_downloads"`
	Members           int64 `json:"members"`
	PaidDuesKRW       int64 `json:"paid_dues_krw"`
}

// Reports runs read-only aggregate SQL over the same pool as the Store.
type Reports struct {
	db *sqlx.DB
}

// Reports wraps the store's *sql.DB for sqlx.
func (s *Store) Reports() (*Reports, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "underlying sql db")
	}
	return &Reports{db: sqlx.NewDb(sqlDB, "postgres")}, nil
}

func NewReports(db *sqlx.DB) *Reports {
	return &Reports{db: db}
}

// DashboardCounts runs every count concurrently; the first failure cancels
// the rest.
func (r *Reports) DashboardCounts(ctx context.Context, now time.Time) (DashboardCounts, error) {
	var out DashboardCounts

	queries := []struct {
		dest  *int64
		query string
		args  []interface{}
	}{
		{&out.Artists, `SELECT COUNT(*) FROM artists`, nil},
		{&out.Artworks, `SELECT COUNT(*) FROM artworks`, nil},
		{&out.PublishedArtworks, `SELECT COUNT(*) FROM artworks WHERE published`, nil},
		{&out.Events, `SELECT COUNT(*) FROM events`, nil},
		{&out.UpcomingEvents, `SELECT COUNT(*) FROM events WHERE start_at > $1`, []interface{}{now}},
		{&out.Exhibitions, `SELECT COUNT(*) FROM exhibitions`, nil},
		{&out.Documents, `SELECT COUNT(*) FROM documents`, nil},
		{&out.TotalDownloads, `SELECT COALESCE(SUM(download_count), 0) FROM documents`, nil},
		{&out.Members, `SELECT COUNT(*) FROM member_profiles`, nil},
		{&out.PaidDuesKRW, `SELECT COALESCE(SUM(amount_krw), 0) FROM payments WHERE status = 'paid'`, nil},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			if err := r.db.GetContext(gctx, q.dest, q.query, q.args...); err != nil {
				return errors.Wrapf(err, "dashboard: %s", q.query)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardCounts{}, err
	}
	return out, nil
}
