package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/internal/app/reviews/infrastructure"
	"bikereviews/internal/app/reviews/repository"
	"bikereviews/pkg/logger"
	"bikereviews/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// Ограничения на пакет изображений при создании отзыва
const (
	MinImages    = 3
	MaxImages    = 5
	MaxImageSize = 5 << 20 // 5 MiB
)

// Допустимые заявленные типы загружаемых изображений
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// ReviewService обрабатывает бизнес-логику отзывов:
// валидация, нормализация и сохранение изображений, запись в MongoDB,
// рассылка события подключенным клиентам
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	imageStore    infrastructure.ImageStore
	normalizer    ImageNormalizer
	broadcaster   infrastructure.ReviewBroadcaster
	kafkaProducer infrastructure.MessagePublisher // nil, если Kafka не сконфигурирована
	cache         ReviewCache                     // nil, если Redis не сконфигурирован
	validator     *validator.Validate
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	imageStore infrastructure.ImageStore,
	normalizer ImageNormalizer,
	broadcaster infrastructure.ReviewBroadcaster,
	kafkaProducer infrastructure.MessagePublisher,
	cache ReviewCache,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		imageStore:    imageStore,
		normalizer:    normalizer,
		broadcaster:   broadcaster,
		kafkaProducer: kafkaProducer,
		cache:         cache,
		validator:     validator.New(),
	}
}

// Submit создает новый отзыв
// 1. Валидирует поля формы и пакет изображений единым этапом
// 2. Нормализует и сохраняет изображения под ключом группировки, сохраняя порядок
// 3. Записывает отзыв в MongoDB
// 4. Рассылает newReview подключенным WebSocket клиентам
// 5. Отправляет событие REVIEW_CREATED в Kafka (некритично при ошибке)
//
// Запись изображений и вставка в базу не атомарны: сбой между ними
// оставляет осиротевшие файлы без записи. Компенсирующей очистки нет.
func (s *ReviewService) Submit(ctx context.Context, req *entity.CreateReviewRequest, images []entity.ImageUpload) (*entity.Review, error) {
	if err := s.validate(req, images); err != nil {
		return nil, err
	}

	if req.WorthTheCost == "" {
		req.WorthTheCost = entity.WorthYes
	}

	groupKey := GroupKey(req.BikeName, req.ModelName)

	urls := make([]string, 0, len(images))
	for i, img := range images {
		start := time.Now()

		normalized, err := s.normalizer.Normalize(img.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize image %d: %w", i+1, err)
		}

		url, err := s.imageStore.Store(ctx, groupKey, normalized, ".jpg")
		if err != nil {
			return nil, fmt.Errorf("failed to store image %d: %w", i+1, err)
		}

		metrics.ImagesStored.Inc()
		metrics.ImageProcessingDuration.Observe(time.Since(start).Seconds())
		urls = append(urls, url)
	}

	review := &entity.Review{
		RiderName:      req.RiderName,
		BikeName:       req.BikeName,
		ModelName:      req.ModelName,
		PurchaseYear:   req.PurchaseYear,
		TotalKM:        req.TotalKM,
		BikeCost:       req.BikeCost,
		CostPerService: req.CostPerService,
		Review:         req.Review,
		Rating:         req.Rating,
		WorthTheCost:   req.WorthTheCost,
		Images:         urls,
	}

	if err := s.reviewRepo.Insert(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	// Список свежих отзывов изменился - сбрасываем кеш
	if s.cache != nil {
		if err := s.cache.InvalidateRecentReviews(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate reviews cache")
		}
	}

	// Отправляем событие REVIEW_CREATED в Kafka
	// Отзыв уже создан, проблемы с Kafka не критичны
	if s.kafkaProducer != nil {
		event := entity.ReviewEvent{
			EventType: "REVIEW_CREATED",
			ReviewID:  review.ID.Hex(),
			BikeName:  review.BikeName,
			ModelName: review.ModelName,
			Rating:    review.Rating,
			Timestamp: time.Now(),
		}
		if err := s.publishReviewEvent(ctx, event); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish review created event")
		}
	}

	// Рассылаем отзыв подключенным клиентам
	s.broadcaster.BroadcastNewReview(review)

	return review, nil
}

// ListRecent получает все отзывы, новые первыми
// Сначала пробует кеш, при промахе читает MongoDB и наполняет кеш
func (s *ReviewService) ListRecent(ctx context.Context) ([]entity.Review, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRecentReviews(ctx)
		if err != nil {
			// Проблемы с Redis не должны ломать чтение
			logger.Warn().Err(err).Msg("Failed to read reviews cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	reviews, err := s.reviewRepo.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	if s.cache != nil && len(reviews) > 0 {
		if err := s.cache.SetRecentReviews(ctx, reviews); err != nil {
			logger.Warn().Err(err).Msg("Failed to fill reviews cache")
		}
	}

	return reviews, nil
}

// Search ищет отзывы по подстроке в названии мотоцикла или модели
func (s *ReviewService) Search(ctx context.Context, query string) ([]entity.Review, error) {
	if query == "" {
		return nil, NewValidationError("search query is required")
	}

	reviews, err := s.reviewRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search reviews: %w", err)
	}

	return reviews, nil
}

// GetByID получает отзыв по ID
func (s *ReviewService) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// validate проверяет поля формы и пакет изображений единым этапом
// Любое нарушение дает ValidationError и ответ 400
func (s *ReviewService) validate(req *entity.CreateReviewRequest, images []entity.ImageUpload) error {
	if err := s.validator.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				return NewValidationError("%s is %s", fieldError.Field(), fieldError.Tag())
			}
		}
		return NewValidationError("validation failed")
	}

	if len(images) < MinImages || len(images) > MaxImages {
		return NewValidationError("between %d and %d images are required, got %d", MinImages, MaxImages, len(images))
	}

	for i, img := range images {
		if _, ok := allowedImageTypes[img.ContentType]; !ok {
			return NewValidationError("image %d has unsupported type %q", i+1, img.ContentType)
		}
		if img.Size > MaxImageSize || int64(len(img.Data)) > MaxImageSize {
			return NewValidationError("image %d exceeds the %d MiB limit", i+1, MaxImageSize>>20)
		}
	}

	return nil
}

// publishReviewEvent отправляет событие об отзыве в Kafka
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	// Ключ = ReviewID для партиционирования
	if err := s.kafkaProducer.PublishMessage(ctx, event.ReviewID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
