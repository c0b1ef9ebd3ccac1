package infrastructure

import (
	"context"

	"bikereviews/internal/app/reviews/entity"
)

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
// Используется для dependency injection и упрощения тестирования
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ReviewBroadcaster интерфейс realtime-канала
// Сервис отдает созданный отзыв, хаб рассылает его всем подключенным клиентам
type ReviewBroadcaster interface {
	BroadcastNewReview(review *entity.Review)
}

// ImageStore интерфейс хранилища изображений
// groupKey - ключ группировки (имя мотоцикла + модель без пробелов),
// возвращается локатор: путь /uploads/... или публичный URL объекта
type ImageStore interface {
	Store(ctx context.Context, groupKey string, data []byte, ext string) (string, error)
}
