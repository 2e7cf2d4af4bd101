package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/tendant/itembank/pkg/itembank/repo/sqlstore"
)

type adminService struct {
	db sqlstore.DB
}

func (s *adminService) GetStatistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		Drafts:    DraftStatistics{ByStatus: map[string]int64{}, ByItemType: map[string]int64{}},
		Published: PublishedStatistics{ByItemType: map[string]int64{}},
	}

	counts := []struct {
		table string
		dst   *int64
	}{
		{"items_draft", &stats.Drafts.TotalCount},
		{"items_prod", &stats.Published.TotalCount},
		{"concepts", &stats.Concepts},
		{"tags", &stats.Tags},
		{"media_assets", &stats.MediaAssets},
		{"users", &stats.Users},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(ctx, "SELECT COUNT(1) FROM "+c.table, nil).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", c.table, err)
		}
	}

	breakdowns := []struct {
		query string
		dst   map[string]int64
	}{
		{"SELECT status, COUNT(1) FROM items_draft GROUP BY status", stats.Drafts.ByStatus},
		{"SELECT item_type, COUNT(1) FROM items_draft GROUP BY item_type", stats.Drafts.ByItemType},
		{"SELECT item_type, COUNT(1) FROM items_prod GROUP BY item_type", stats.Published.ByItemType},
	}
	for _, b := range breakdowns {
		err := s.db.Query(ctx, b.query, nil, func(r sqlstore.Row) error {
			var key string
			var n int64
			if err := r.Scan(&key, &n); err != nil {
				return err
			}
			b.dst[key] = n
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("statistics breakdown: %w", err)
		}
	}

	var err error
	if stats.Drafts.NewestUpdate, err = s.newest(ctx, "SELECT MAX(updated_at) FROM items_draft"); err != nil {
		return nil, err
	}
	if stats.Published.NewestPublished, err = s.newest(ctx, "SELECT MAX(published_at) FROM items_prod"); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) newest(ctx context.Context, query string) (*time.Time, error) {
	var t time.Time
	if err := s.db.QueryRow(ctx, query, nil).Scan(sqlstore.ScanTime(&t)); err != nil {
		return nil, fmt.Errorf("newest timestamp: %w", err)
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}
