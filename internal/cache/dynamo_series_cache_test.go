package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliffcheck/beachable/internal/clock"
	"github.com/cliffcheck/beachable/internal/models"
)

func newTestDynamoCache(client *mockDynamoDBClient) *DynamoSeriesCache {
	c := NewDynamoSeriesCache(client, testCacheConfig(), clock.NewFake(testNow))
	c.sleep = func(time.Duration) {}
	return c
}

func TestDynamoGetSeries(t *testing.T) {
	record := createTestRecord("New Break", testNow.Add(-10*time.Hour))
	item, err := attributevalue.MarshalMap(record)
	require.NoError(t, err)

	tests := []struct {
		name    string
		getItem func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
		want    *models.SeriesRecord
		wantErr bool
	}{
		{
			name: "stored record is returned even when old",
			getItem: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				assert.Equal(t, seriesTableName, *params.TableName)
				assert.Equal(t, &types.AttributeValueMemberS{Value: "New Break"}, params.Key["siteName"])
				assert.Equal(t, &types.AttributeValueMemberS{Value: "2024-06-13"}, params.Key["date"])
				return &dynamodb.GetItemOutput{Item: item}, nil
			},
			want: &record,
		},
		{
			name: "missing item",
			getItem: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				return &dynamodb.GetItemOutput{}, nil
			},
		},
		{
			name: "dynamo error",
			getItem: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
				return nil, errors.New("throttled")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestDynamoCache(&mockDynamoDBClient{getItemFunc: tt.getItem})

			got, err := c.GetSeries(context.Background(), "New Break", "2024-06-13")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.SiteName, got.SiteName)
			assert.Equal(t, tt.want.FetchedAt, got.FetchedAt)
			require.Len(t, got.Samples, len(tt.want.Samples))
			assert.True(t, tt.want.Samples[0].Time.Equal(got.Samples[0].Time))
		})
	}
}

func TestDynamoSaveSeriesSetsTTL(t *testing.T) {
	var saved models.SeriesRecord
	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			require.NoError(t, attributevalue.UnmarshalMap(params.Item, &saved))
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	c := newTestDynamoCache(client)
	err := c.SaveSeries(context.Background(), createTestRecord("New Break", testNow))
	require.NoError(t, err)

	assert.Equal(t, testNow.Add(48*time.Hour).Unix(), saved.TTL)
}

func TestDynamoSaveSeriesRejectsInvalid(t *testing.T) {
	called := false
	client := &mockDynamoDBClient{
		putItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			called = true
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	err := newTestDynamoCache(client).SaveSeries(context.Background(), models.SeriesRecord{SiteName: "New Break"})
	require.Error(t, err)
	assert.False(t, called)
}

func TestDynamoSaveSeriesBatch(t *testing.T) {
	records := []models.SeriesRecord{
		createTestRecord("A", testNow),
		createTestRecord("B", testNow),
		createTestRecord("C", testNow),
	}

	t.Run("splits into batches", func(t *testing.T) {
		var sizes []int
		client := &mockDynamoDBClient{
			batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
				sizes = append(sizes, len(params.RequestItems[seriesTableName]))
				return &dynamodb.BatchWriteItemOutput{}, nil
			},
		}

		require.NoError(t, newTestDynamoCache(client).SaveSeriesBatch(context.Background(), records))
		assert.Equal(t, []int{2, 1}, sizes)
	})

	t.Run("retries unprocessed items", func(t *testing.T) {
		calls := 0
		client := &mockDynamoDBClient{
			batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
				calls++
				pending := params.RequestItems[seriesTableName]
				if calls == 1 && len(pending) > 1 {
					return &dynamodb.BatchWriteItemOutput{
						UnprocessedItems: map[string][]types.WriteRequest{seriesTableName: pending[1:]},
					}, nil
				}
				return &dynamodb.BatchWriteItemOutput{}, nil
			},
		}

		require.NoError(t, newTestDynamoCache(client).SaveSeriesBatch(context.Background(), records))
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		client := &mockDynamoDBClient{
			batchWriteItemFunc: func(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
				calls++
				return nil, errors.New("unavailable")
			},
		}

		err := newTestDynamoCache(client).SaveSeriesBatch(context.Background(), records)
		require.Error(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestNewDynamoClient(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{name: "local development setup", endpoint: "http://localhost:8000"},
		{name: "production setup", endpoint: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DYNAMODB_ENDPOINT", tt.endpoint)

			client, err := NewDynamoClient(context.Background())
			require.NoError(t, err)
			require.NotNil(t, client)
		})
	}
}
