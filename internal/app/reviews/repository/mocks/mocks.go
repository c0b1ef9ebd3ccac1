package mocks

import (
	"context"

	"bikereviews/internal/app/reviews/entity"

	"github.com/stretchr/testify/mock"
)

// MockReviewRepository мок для ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ListRecent(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) Search(ctx context.Context, query string) ([]entity.Review, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockReviewBroadcaster мок для WebSocket брокастера
type MockReviewBroadcaster struct {
	mock.Mock
	Broadcasts []*entity.Review
}

func (m *MockReviewBroadcaster) BroadcastNewReview(review *entity.Review) {
	m.Broadcasts = append(m.Broadcasts, review)
	m.Called(review)
}

// MockReviewCache мок для Redis-кеша списка отзывов
type MockReviewCache struct {
	mock.Mock
}

func (m *MockReviewCache) GetRecentReviews(ctx context.Context) ([]entity.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockReviewCache) SetRecentReviews(ctx context.Context, reviews []entity.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockReviewCache) InvalidateRecentReviews(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockImageStore мок для хранилища изображений
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Store(ctx context.Context, groupKey string, data []byte, ext string) (string, error) {
	args := m.Called(ctx, groupKey, data, ext)
	return args.String(0), args.Error(1)
}
