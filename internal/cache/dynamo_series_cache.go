package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/models"
)

const seriesTableName = "tide-series-cache"

// DynamoSeriesCache persists fetched sample series in DynamoDB
type DynamoSeriesCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock.Clock
	sleep  func(time.Duration)
}

func NewDynamoSeriesCache(client DynamoDBClient, cacheConfig *config.CacheConfig, clk clock.Clock) *DynamoSeriesCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &DynamoSeriesCache{
		client: client,
		config: cacheConfig,
		clock:  clk,
		sleep:  time.Sleep,
	}
}

// GetSeries retrieves the stored series for a site and date, however old it is.
// A nil record with a nil error means nothing is stored.
func (c *DynamoSeriesCache) GetSeries(ctx context.Context, siteName, date string) (*models.SeriesRecord, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(seriesTableName),
		Key: map[string]types.AttributeValue{
			"siteName": &types.AttributeValueMemberS{Value: siteName},
			"date":     &types.AttributeValueMemberS{Value: date},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting series from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.SeriesRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling series record: %w", err)
	}

	return &record, nil
}

// SaveSeries stamps the record's expiry and writes it
func (c *DynamoSeriesCache) SaveSeries(ctx context.Context, record models.SeriesRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid series record: %w", err)
	}

	record.TTL = c.clock.Now().Add(c.config.GetDynamoTTL()).Unix()

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling series record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(seriesTableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting series in DynamoDB: %w", err)
	}

	log.Debug().
		Str("site", record.SiteName).
		Str("date", record.Date).
		Int("samples", len(record.Samples)).
		Msg("Saved series to cache")

	return nil
}

// SaveSeriesBatch writes many records, BatchSize at a time
func (c *DynamoSeriesCache) SaveSeriesBatch(ctx context.Context, records []models.SeriesRecord) error {
	// Validate all records first
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid series record: %w", err)
		}
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = 25
	}

	expires := c.clock.Now().Add(c.config.GetDynamoTTL()).Unix()

	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))

		var writeRequests []types.WriteRequest
		for _, record := range records[i:end] {
			record.TTL = expires

			item, err := attributevalue.MarshalMap(record)
			if err != nil {
				return fmt.Errorf("marshaling series record: %w", err)
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: item,
				},
			})
		}

		var lastErr error
		for retry := 0; retry < c.config.MaxBatchRetries; retry++ {
			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					seriesTableName: writeRequests,
				},
			}

			out, err := c.client.BatchWriteItem(ctx, input)
			if err != nil {
				lastErr = err
				c.sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}

			// Throttled writes come back unprocessed and are retried on their own
			if pending := out.UnprocessedItems[seriesTableName]; len(pending) > 0 {
				writeRequests = pending
				lastErr = fmt.Errorf("%d unprocessed items", len(pending))
				c.sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}

			lastErr = nil
			break
		}
		if lastErr != nil {
			return fmt.Errorf("batch writing series after %d retries: %w",
				c.config.MaxBatchRetries, lastErr)
		}
	}

	return nil
}
