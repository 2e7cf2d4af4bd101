package mediaurl

import (
	"context"
	"fmt"
	"strings"

	"github.com/tendant/itembank/pkg/itembank"
)

// CDNStrategy generates URLs that point directly to a CDN
type CDNStrategy struct {
	CDNBaseURL string // e.g., "https://cdn.example.com"
}

// NewCDNStrategy creates a new CDN URL strategy
func NewCDNStrategy(cdnBaseURL string) *CDNStrategy {
	return &CDNStrategy{CDNBaseURL: strings.TrimSuffix(cdnBaseURL, "/")}
}

// DownloadURL joins the CDN base URL and the asset's object key
func (s *CDNStrategy) DownloadURL(ctx context.Context, asset *itembank.MediaAsset) (string, error) {
	if s.CDNBaseURL == "" {
		return "", fmt.Errorf("CDN base URL not configured")
	}
	key, err := ObjectKey(asset.S3URL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.CDNBaseURL, key), nil
}
