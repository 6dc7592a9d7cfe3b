package cache

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/cliffcheck/beachable/internal/config"
	"github.com/cliffcheck/beachable/internal/models"
)

var (
	_ DynamoDBClient = (*mockDynamoDBClient)(nil)
	_ S3Client       = (*mockS3Client)(nil)
)

// mockDynamoDBClient implements a mock DynamoDB client for testing
type mockDynamoDBClient struct {
	getItemFunc        func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	putItemFunc        func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	batchWriteItemFunc func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFunc != nil {
		return m.getItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFunc != nil {
		return m.putItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	if m.batchWriteItemFunc != nil {
		return m.batchWriteItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.BatchWriteItemOutput{}, nil
}

// mockS3Client implements a mock S3 client for testing
type mockS3Client struct {
	getObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	putObjectFunc func(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if m.getObjectFunc != nil {
		return m.getObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{}, nil
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putObjectFunc != nil {
		return m.putObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

func testCacheConfig() *config.CacheConfig {
	return &config.CacheConfig{
		SeriesLRUSize:        10,
		SeriesFreshnessHours: 6,
		SeriesDynamoTTLDays:  2,
		SiteListTTLHours:     24,
		BatchSize:            2,
		MaxBatchRetries:      3,
		EnableLRUCache:       true,
		EnableDynamoCache:    true,
	}
}

var testNow = time.Date(2024, 6, 13, 15, 0, 0, 0, time.UTC)

func createTestRecord(site string, fetchedAt time.Time) models.SeriesRecord {
	return models.SeriesRecord{
		SiteName: site,
		Date:     "2024-06-13",
		Samples: []models.Sample{
			{Time: fetchedAt.Add(-time.Hour), Height: 0.4},
			{Time: fetchedAt, Height: 0.5},
		},
		FetchedAt: fetchedAt.Unix(),
	}
}
