package util

import (
	"context"
	"testing"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/pkg/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestRedis(t *testing.T) *RedisClient {
	t.Helper()

	mr := miniredis.RunT(t)

	client, err := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}

func TestRedisClient_MissThenHit(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	cached, err := client.GetRecentReviews(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), BikeName: "Royal Enfield", ModelName: "Himalayan", Rating: 5},
		{ID: primitive.NewObjectID(), BikeName: "KTM", ModelName: "Duke 390", Rating: 4},
	}
	require.NoError(t, client.SetRecentReviews(ctx, reviews))

	cached, err = client.GetRecentReviews(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, reviews[0].ID, cached[0].ID)
	assert.Equal(t, "Royal Enfield", cached[0].BikeName)
}

func TestRedisClient_Invalidate(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()

	reviews := []entity.Review{{ID: primitive.NewObjectID(), BikeName: "Honda"}}
	require.NoError(t, client.SetRecentReviews(ctx, reviews))

	// До первого Del гистограмма времени операций не знает метку del
	before := testutil.CollectAndCount(metrics.RedisOperationDuration)

	require.NoError(t, client.InvalidateRecentReviews(ctx))

	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.RedisOperationDuration))

	cached, err := client.GetRecentReviews(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}

func TestNewRedisClient_BadAddr(t *testing.T) {
	_, err := NewRedisClient("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
