package repository

import (
	"context"

	"bikereviews/internal/app/reviews/entity"
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
// Отзывы неизменяемы, поэтому операций Update/Delete нет
type ReviewRepository interface {
	Insert(ctx context.Context, review *entity.Review) error
	ListRecent(ctx context.Context) ([]entity.Review, error)
	Search(ctx context.Context, query string) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
}
