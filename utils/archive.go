package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"matchup-game-system/models"
)

// R2Archive writes winners snapshots to an S3-compatible bucket (Cloudflare
// R2) so cleared sessions leave a durable record for the event team.
type R2Archive struct {
	client *s3.Client
	bucket string
}

// NewR2Archive builds the archive client from the environment. Returns
// (nil, nil) when no bucket is configured; archiving is optional.
func NewR2Archive() (*R2Archive, error) {
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return nil, nil
	}

	accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID")
	accessKeyID := os.Getenv("R2_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID),
				}, nil
			}),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	return &R2Archive{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// ArchiveWinners uploads the winners snapshot as a timestamped JSON object.
func (a *R2Archive) ArchiveWinners(ctx context.Context, winners []models.GameScore, clearedAt time.Time) error {
	payload, err := json.MarshalIndent(struct {
		ClearedAt time.Time          `json:"cleared_at"`
		Winners   []models.GameScore `json:"winners"`
	}{clearedAt, winners}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal winners snapshot: %w", err)
	}

	key := fmt.Sprintf("winners/%s.json", clearedAt.Format("2006-01-02T15-04-05"))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload winners snapshot: %w", err)
	}
	return nil
}
