// Package mediaurl builds download URLs for media assets.
package mediaurl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tendant/itembank/pkg/itembank"
)

// ErrNoLocation is returned for an asset without a stored location.
var ErrNoLocation = errors.New("media asset has no location")

// Strategy names accepted by New.
const (
	StrategyPassthrough = "passthrough"
	StrategyCDN         = "cdn"
	StrategyS3          = "s3"
)

var (
	_ itembank.MediaURLStrategy = Passthrough{}
	_ itembank.MediaURLStrategy = (*CDNStrategy)(nil)
	_ itembank.MediaURLStrategy = (*S3Presigner)(nil)
)

// Passthrough returns the stored location unchanged.
type Passthrough struct{}

func (Passthrough) DownloadURL(ctx context.Context, asset *itembank.MediaAsset) (string, error) {
	if asset.S3URL == "" {
		return "", ErrNoLocation
	}
	return asset.S3URL, nil
}

// ParseLocation splits a stored location into bucket and object key. It
// accepts s3://bucket/key, virtual-hosted https://bucket.s3.../key,
// path-style https://host/bucket/key when the first segment equals
// defaultBucket, and bare keys.
func ParseLocation(raw, defaultBucket string) (bucket, key string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", ErrNoLocation
	}
	if !strings.Contains(raw, "://") {
		return defaultBucket, strings.TrimPrefix(raw, "/"), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid media location %q: %w", raw, err)
	}
	path := strings.TrimPrefix(u.Path, "/")

	switch u.Scheme {
	case "s3":
		bucket, key = u.Host, path
	case "http", "https":
		if i := strings.Index(u.Host, ".s3"); i > 0 {
			bucket, key = u.Host[:i], path
		} else if defaultBucket != "" && strings.HasPrefix(path, defaultBucket+"/") {
			bucket, key = defaultBucket, strings.TrimPrefix(path, defaultBucket+"/")
		} else {
			bucket, key = defaultBucket, path
		}
	default:
		return "", "", fmt.Errorf("unsupported media location scheme %q", u.Scheme)
	}

	if key == "" {
		return "", "", fmt.Errorf("media location %q has no object key", raw)
	}
	return bucket, key, nil
}

// ObjectKey is the key part of a stored location.
func ObjectKey(raw string) (string, error) {
	_, key, err := ParseLocation(raw, "")
	return key, err
}
