package mediaurl

import (
	"context"
	"fmt"

	"github.com/tendant/itembank/pkg/itembank"
)

// Config selects and configures a strategy.
type Config struct {
	Strategy   string
	CDNBaseURL string
	S3         S3Config
}

// New builds the strategy named by c.Strategy. An empty name means
// passthrough.
func New(ctx context.Context, c Config) (itembank.MediaURLStrategy, error) {
	switch c.Strategy {
	case "", StrategyPassthrough:
		return Passthrough{}, nil
	case StrategyCDN:
		if c.CDNBaseURL == "" {
			return nil, fmt.Errorf("cdn strategy requires a base URL")
		}
		return NewCDNStrategy(c.CDNBaseURL), nil
	case StrategyS3:
		return NewS3Presigner(ctx, c.S3)
	}
	return nil, fmt.Errorf("unknown media URL strategy %q", c.Strategy)
}
