package service

import (
	"context"

	"bikereviews/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	Submit(ctx context.Context, req *entity.CreateReviewRequest, images []entity.ImageUpload) (*entity.Review, error)
	ListRecent(ctx context.Context) ([]entity.Review, error)
	Search(ctx context.Context, query string) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
}

// ReviewCache кеширует список свежих отзывов (Redis)
// Реализация опциональна: при nil сервис всегда ходит в MongoDB
type ReviewCache interface {
	GetRecentReviews(ctx context.Context) ([]entity.Review, error)
	SetRecentReviews(ctx context.Context, reviews []entity.Review) error
	InvalidateRecentReviews(ctx context.Context) error
}

// ImageNormalizer приводит изображение к единому виду (рамка 1200x900, JPEG)
type ImageNormalizer interface {
	Normalize(data []byte) ([]byte, error)
}
