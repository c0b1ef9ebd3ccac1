package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	recentReviewsCacheKey = "reviews:recent"
	recentReviewsCacheTTL = 5 * time.Minute
)

// RedisClient кеширует список свежих отзывов
// Кеш сбрасывается при создании нового отзыва
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

func (r *RedisClient) SetRecentReviews(ctx context.Context, reviews []entity.Review) error {
	timer := metrics.NewRedisTimer("bike-reviews", metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal reviews: %w", err)
	}

	if err := r.client.Set(ctx, recentReviewsCacheKey, data, recentReviewsCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("bike-reviews", metrics.RedisOpSet)
		return fmt.Errorf("failed to set reviews in cache: %w", err)
	}

	return nil
}

// GetRecentReviews возвращает (nil, nil) при промахе кеша
func (r *RedisClient) GetRecentReviews(ctx context.Context) ([]entity.Review, error) {
	timer := metrics.NewRedisTimer("bike-reviews", metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, recentReviewsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("bike-reviews", "reviews")
			return nil, nil
		}
		metrics.RecordRedisError("bike-reviews", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get reviews from cache: %w", err)
	}

	var reviews []entity.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reviews: %w", err)
	}

	metrics.RecordCacheHit("bike-reviews", "reviews")
	return reviews, nil
}

func (r *RedisClient) InvalidateRecentReviews(ctx context.Context) error {
	timer := metrics.NewRedisTimer("bike-reviews", metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, recentReviewsCacheKey).Err(); err != nil {
		metrics.RecordRedisError("bike-reviews", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete reviews from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
