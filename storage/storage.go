package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"yt-brief/models"
)

// Archiver persists completed records to long-term storage. A nil *Client is
// a valid no-op archiver, used when storage is not configured.
type Archiver interface {
	Archive(ctx context.Context, video *models.Video) error
}

type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// Client archives transcript and summary documents to an S3-compatible bucket.
type Client struct {
	client *s3.Client
	bucket string
}

func NewClient(cfg Config) (*Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			if cfg.Endpoint != "" {
				return aws.Endpoint{URL: cfg.Endpoint}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	return &Client{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
	}, nil
}

type archiveDocument struct {
	VideoID      string    `json:"video_id"`
	URL          string    `json:"url"`
	Title        string    `json:"title,omitempty"`
	Transcript   string    `json:"transcript"`
	Source       string    `json:"source"`
	Summary      string    `json:"summary,omitempty"`
	SummaryStyle string    `json:"summary_style,omitempty"`
	ArchivedAt   time.Time `json:"archived_at"`
}

func (c *Client) Archive(ctx context.Context, video *models.Video) error {
	if c == nil {
		return nil
	}

	doc := archiveDocument{
		VideoID:      video.VideoID,
		URL:          video.URL,
		Title:        video.Title,
		Transcript:   video.Transcript,
		Source:       string(video.Source),
		Summary:      video.Summary,
		SummaryStyle: video.SummaryStyle,
		ArchivedAt:   time.Now().UTC(),
	}

	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal archive document: %v", err)
	}

	key := fmt.Sprintf("transcripts/%s.json", video.VideoID)
	_, err = c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(jsonData),
	})
	if err != nil {
		return fmt.Errorf("failed to archive record: %v", err)
	}

	return nil
}
