package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const siteCatalogKey = "sites.json"

// S3SiteCatalog stores the list of monitored sites as a JSON object in S3
type S3SiteCatalog struct {
	client     S3Client
	bucketName string
	clock      clock.Clock
}

// SiteCatalogRecord is the stored catalog document
type SiteCatalogRecord struct {
	Sites       []models.Site `json:"sites"`
	LastUpdated int64         `json:"lastUpdated"`
}

// SiteCatalogProvider loads and stores the site catalog
type SiteCatalogProvider interface {
	GetSites(ctx context.Context) ([]models.Site, error)
	SaveSites(ctx context.Context, sites []models.Site) error
}

func NewS3SiteCatalog(client S3Client, bucketName string, clk clock.Clock) *S3SiteCatalog {
	if clk == nil {
		clk = clock.System()
	}
	return &S3SiteCatalog{
		client:     client,
		bucketName: bucketName,
		clock:      clk,
	}
}

// GetSites reads the catalog. A missing object yields nil sites and no error.
func (c *S3SiteCatalog) GetSites(ctx context.Context) ([]models.Site, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(siteCatalogKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			log.Debug().Str("bucket", c.bucketName).Msg("No site catalog in bucket")
			return nil, nil
		}
		return nil, fmt.Errorf("getting site catalog: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record SiteCatalogRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding site catalog: %w", err)
	}

	return record.Sites, nil
}

// SaveSites replaces the catalog
func (c *S3SiteCatalog) SaveSites(ctx context.Context, sites []models.Site) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	record := SiteCatalogRecord{
		Sites:       sites,
		LastUpdated: c.clock.Now().Unix(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding site catalog: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(siteCatalogKey),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("site_count", len(sites)).Msg("Saved site catalog to S3")
	return nil
}
