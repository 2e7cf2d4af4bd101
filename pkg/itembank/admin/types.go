package admin

import "time"

// DraftStatistics summarizes draft items
type DraftStatistics struct {
	TotalCount   int64            `json:"total_count"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByItemType   map[string]int64 `json:"by_item_type"`
	NewestUpdate *time.Time       `json:"newest_update,omitempty"`
}

// PublishedStatistics summarizes published items
type PublishedStatistics struct {
	TotalCount      int64            `json:"total_count"`
	ByItemType      map[string]int64 `json:"by_item_type"`
	NewestPublished *time.Time       `json:"newest_published,omitempty"`
}

// Statistics provides aggregated counts across the item bank
type Statistics struct {
	Drafts      DraftStatistics     `json:"drafts"`
	Published   PublishedStatistics `json:"published"`
	Concepts    int64               `json:"concepts"`
	Tags        int64               `json:"tags"`
	MediaAssets int64               `json:"media_assets"`
	Users       int64               `json:"users"`
}
