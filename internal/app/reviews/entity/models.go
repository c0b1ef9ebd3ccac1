package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Допустимые значения для поля WorthTheCost
const (
	WorthYes           = "Yes"
	WorthDefinitelyYes = "Definitely Yes"
	WorthNo            = "No"
)

// Review - отзыв владельца о мотоцикле
// После создания не изменяется и не удаляется
type Review struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RiderName      string             `json:"riderName" bson:"rider_name"`
	BikeName       string             `json:"bikeName" bson:"bike_name"`
	ModelName      string             `json:"modelName" bson:"model_name"`
	PurchaseYear   int                `json:"purchaseYear" bson:"purchase_year"`
	TotalKM        float64            `json:"totalKM" bson:"total_km"`
	BikeCost       float64            `json:"bikeCost" bson:"bike_cost"`
	CostPerService float64            `json:"costPerService" bson:"cost_per_service"`
	Review         string             `json:"review" bson:"review"`
	Rating         int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	WorthTheCost   string             `json:"worthTheCost" bson:"worth_the_cost"`
	Images         []string           `json:"images" bson:"images"` // 3-5 ссылок, порядок загрузки сохраняется
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
}

// ReviewEvent - событие REVIEW_CREATED для Kafka
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED
	ReviewID  string    `json:"review_id"`
	BikeName  string    `json:"bike_name"`
	ModelName string    `json:"model_name"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationEvent - конверт сообщения для WebSocket клиентов
type NotificationEvent struct {
	Event string  `json:"event"` // newReview
	Data  *Review `json:"data"`
}
