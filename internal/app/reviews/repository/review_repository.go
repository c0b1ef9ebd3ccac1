package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
)

// Максимум результатов поиска по названию
const searchLimit = 10

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository создает новый репозиторий отзывов
// Автоматически создает индекс по created_at для выборки по свежести
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	collection := db.Collection("reviews")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "created_at", Value: -1},
		},
		Options: options.Index().SetName("created_at_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		logger.Warn().Err(err).Msg("Failed to create index on created_at")
	}

	// Индекс по bike_name для ускорения поиска по названию
	bikeIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "bike_name", Value: 1},
		},
		Options: options.Index().SetName("bike_name_idx"),
	}

	_, err = collection.Indexes().CreateOne(ctx, bikeIndexModel)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to create index on bike_name")
	}

	return &reviewRepository{
		collection: collection,
	}
}

// Insert создает новый отзыв в MongoDB
// Проставляет created_at и идентификатор из результата вставки
func (r *reviewRepository) Insert(ctx context.Context, review *entity.Review) error {
	review.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// ListRecent получает все отзывы, новые первыми
// Использует индекс created_at_idx
func (r *reviewRepository) ListRecent(ctx context.Context) ([]entity.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// Search ищет отзывы по подстроке в bike_name или model_name
// Регистронезависимо, новые первыми, не больше searchLimit результатов
func (r *reviewRepository) Search(ctx context.Context, query string) ([]entity.Review, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"$or": []bson.M{
			{"bike_name": pattern},
			{"model_name": pattern},
		},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(searchLimit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []entity.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// Невалидный hex неотличим от несуществующего документа для клиента
		return nil, ErrReviewNotFound
	}

	filter := bson.M{"_id": objectID}

	var review entity.Review
	err = r.collection.FindOne(ctx, filter).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return &review, nil
}
