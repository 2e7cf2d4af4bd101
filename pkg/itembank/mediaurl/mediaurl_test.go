package mediaurl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/itembank/pkg/itembank"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		defBucket  string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3 scheme", "s3://media/images/a.png", "", "media", "images/a.png", false},
		{"virtual hosted", "https://media.s3.amazonaws.com/images/a.png", "", "media", "images/a.png", false},
		{"regional virtual hosted", "https://media.s3.eu-west-1.amazonaws.com/a.png", "", "media", "a.png", false},
		{"path style with default bucket", "http://localhost:9000/media/images/a.png", "media", "media", "images/a.png", false},
		{"other host uses default bucket", "https://files.example.com/images/a.png", "media", "media", "images/a.png", false},
		{"bare key", "/images/a.png", "media", "media", "images/a.png", false},
		{"empty", "  ", "media", "", "", true},
		{"no key", "s3://media/", "", "", "", true},
		{"unsupported scheme", "ftp://media/a.png", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, err := ParseLocation(tt.raw, tt.defBucket)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestPassthrough(t *testing.T) {
	url, err := Passthrough{}.DownloadURL(context.Background(), &itembank.MediaAsset{S3URL: "s3://media/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "s3://media/a.png", url)

	_, err = Passthrough{}.DownloadURL(context.Background(), &itembank.MediaAsset{})
	assert.ErrorIs(t, err, ErrNoLocation)
}

func TestCDNStrategy(t *testing.T) {
	s := NewCDNStrategy("https://cdn.example.com/")

	url, err := s.DownloadURL(context.Background(), &itembank.MediaAsset{S3URL: "s3://media/images/a.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/images/a.png", url)

	_, err = (&CDNStrategy{}).DownloadURL(context.Background(), &itembank.MediaAsset{S3URL: "s3://media/a.png"})
	assert.Error(t, err)
}

func TestS3Presigner(t *testing.T) {
	p, err := NewS3Presigner(context.Background(), S3Config{
		Region:          "us-east-1",
		Bucket:          "media",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignDuration: 600,
	})
	require.NoError(t, err)

	url, err := p.DownloadURL(context.Background(), &itembank.MediaAsset{S3URL: "s3://media/images/a.png"})
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/media/images/a.png")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=600")

	noBucket, err := NewS3Presigner(context.Background(), S3Config{AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	_, err = noBucket.DownloadURL(context.Background(), &itembank.MediaAsset{S3URL: "images/a.png"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), Config{})
	require.NoError(t, err)
	assert.IsType(t, Passthrough{}, s)

	s, err = New(context.Background(), Config{Strategy: StrategyCDN, CDNBaseURL: "https://cdn.example.com"})
	require.NoError(t, err)
	assert.IsType(t, &CDNStrategy{}, s)

	_, err = New(context.Background(), Config{Strategy: StrategyCDN})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Strategy: "ftp"})
	assert.Error(t, err)
}
