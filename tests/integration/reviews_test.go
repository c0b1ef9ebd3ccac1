//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/internal/app/reviews/handler"
	"bikereviews/internal/app/reviews/infrastructure/imaging"
	"bikereviews/internal/app/reviews/infrastructure/realtime"
	"bikereviews/internal/app/reviews/infrastructure/storage"
	"bikereviews/internal/app/reviews/repository"
	"bikereviews/internal/app/reviews/service"
	"bikereviews/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockKafkaProducer struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockKafkaProducer) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	return nil
}

func (m *MockKafkaProducer) Close() error { return nil }

type ReviewsIntegrationTestSuite struct {
	suite.Suite
	client        *mongo.Client
	db            *mongo.Database
	router        *gin.Engine
	hub           *realtime.Hub
	kafkaProducer *MockKafkaProducer
	uploadsDir    string
}

func TestReviewsIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ReviewsIntegrationTestSuite))
}

func (s *ReviewsIntegrationTestSuite) SetupSuite() {
	logger.InitWithWriter("bike-reviews-test", "error", io.Discard)
	gin.SetMode(gin.TestMode)

	mongoURI := getEnv("TEST_MONGODB_URI", "mongodb://localhost:27017")
	dbName := getEnv("TEST_MONGODB_DATABASE", "bike_reviews_test")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	s.client, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	s.Require().NoError(err)
	s.Require().NoError(s.client.Ping(ctx, nil))

	s.db = s.client.Database(dbName)

	s.uploadsDir, err = os.MkdirTemp("", "bike-reviews-uploads-*")
	s.Require().NoError(err)

	imageStore, err := storage.NewLocalStore(s.uploadsDir)
	s.Require().NoError(err)

	s.hub = realtime.NewHub()
	go s.hub.Run()

	s.kafkaProducer = &MockKafkaProducer{Messages: make([][]byte, 0)}

	reviewRepo := repository.NewReviewRepository(s.db)
	reviewService := service.NewReviewService(
		reviewRepo,
		imageStore,
		imaging.NewProcessor(imaging.DefaultQuality),
		s.hub,
		s.kafkaProducer,
		nil,
	)

	reviewHandler := handler.NewReviewHandler(reviewService)
	s.router = handler.SetupRoutes(reviewHandler, s.hub, s.uploadsDir)
}

func (s *ReviewsIntegrationTestSuite) TearDownSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.db.Collection("reviews").Drop(ctx)
	s.client.Disconnect(ctx)
	os.RemoveAll(s.uploadsDir)
}

func (s *ReviewsIntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.db.Collection("reviews").DeleteMany(ctx, map[string]interface{}{})
	s.Require().NoError(err)
}

func (s *ReviewsIntegrationTestSuite) submitReview(fields map[string]string, imageCount int) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		s.Require().NoError(writer.WriteField(key, value))
	}

	for i := 0; i < imageCount; i++ {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="bikeImages"; filename="photo-%d.png"`, i))
		header.Set("Content-Type", "image/png")

		part, err := writer.CreatePart(header)
		s.Require().NoError(err)
		_, err = part.Write(s.pngBytes(64, 48))
		s.Require().NoError(err)
	}

	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bikes/add", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ReviewsIntegrationTestSuite) pngBytes(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 50, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	s.Require().NoError(png.Encode(&buf, img))
	return buf.Bytes()
}

func reviewFields() map[string]string {
	return map[string]string{
		"riderName":      "Asha",
		"bikeName":       "Royal Enfield",
		"modelName":      "Himalayan",
		"purchaseYear":   "2020",
		"totalKM":        "15000",
		"bikeCost":       "250000",
		"costPerService": "3000",
		"review":         "Reliable tourer",
		"rating":         "5",
		"worthTheCost":   "Definitely Yes",
	}
}

func (s *ReviewsIntegrationTestSuite) TestSubmitAndGetByID() {
	w := s.submitReview(reviewFields(), 3)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created entity.Review
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.False(created.ID.IsZero())
	s.Len(created.Images, 3)
	s.Contains(created.Images[0], "/uploads/RoyalEnfield-Himalayan/compressed-")
	s.Equal("Definitely Yes", created.WorthTheCost)
	s.False(created.CreatedAt.IsZero())

	// Файлы реально записаны и отдаются статикой
	staticReq := httptest.NewRequest(http.MethodGet, created.Images[0], nil)
	staticW := httptest.NewRecorder()
	s.router.ServeHTTP(staticW, staticReq)
	s.Equal(http.StatusOK, staticW.Code)

	// Round-trip через GET /api/bikes/:id
	getReq := httptest.NewRequest(http.MethodGet, "/api/bikes/"+created.ID.Hex(), nil)
	getW := httptest.NewRecorder()
	s.router.ServeHTTP(getW, getReq)
	s.Require().Equal(http.StatusOK, getW.Code)

	var fetched entity.Review
	s.Require().NoError(json.Unmarshal(getW.Body.Bytes(), &fetched))
	s.Equal(created.ID, fetched.ID)
	s.Equal(created.RiderName, fetched.RiderName)
	s.Equal(created.Images, fetched.Images)
	s.Equal(created.Rating, fetched.Rating)
	s.Equal(created.BikeCost, fetched.BikeCost)
}

func (s *ReviewsIntegrationTestSuite) TestSubmitTooFewImages() {
	w := s.submitReview(reviewFields(), 2)
	s.Equal(http.StatusBadRequest, w.Code)

	// Запись не создана
	listReq := httptest.NewRequest(http.MethodGet, "/api/bikes", nil)
	listW := httptest.NewRecorder()
	s.router.ServeHTTP(listW, listReq)

	var resp entity.ReviewListResponse
	s.Require().NoError(json.Unmarshal(listW.Body.Bytes(), &resp))
	s.Equal(0, resp.Total)
}

func (s *ReviewsIntegrationTestSuite) TestListNewestFirst() {
	first := reviewFields()
	first["bikeName"] = "Honda"
	first["modelName"] = "CB350"
	s.Require().Equal(http.StatusCreated, s.submitReview(first, 3).Code)

	second := reviewFields()
	second["bikeName"] = "KTM"
	second["modelName"] = "Duke 390"
	s.Require().Equal(http.StatusCreated, s.submitReview(second, 3).Code)

	listReq := httptest.NewRequest(http.MethodGet, "/api/bikes", nil)
	listW := httptest.NewRecorder()
	s.router.ServeHTTP(listW, listReq)
	s.Require().Equal(http.StatusOK, listW.Code)

	var resp entity.ReviewListResponse
	s.Require().NoError(json.Unmarshal(listW.Body.Bytes(), &resp))
	s.Require().Equal(2, resp.Total)
	s.Equal("KTM", resp.Reviews[0].BikeName)
	s.Equal("Honda", resp.Reviews[1].BikeName)
}

func (s *ReviewsIntegrationTestSuite) TestSearchCaseInsensitive() {
	s.Require().Equal(http.StatusCreated, s.submitReview(reviewFields(), 3).Code)

	other := reviewFields()
	other["bikeName"] = "KTM"
	other["modelName"] = "Duke 390"
	s.Require().Equal(http.StatusCreated, s.submitReview(other, 3).Code)

	searchReq := httptest.NewRequest(http.MethodGet, "/api/bikes/search?query=royal", nil)
	searchW := httptest.NewRecorder()
	s.router.ServeHTTP(searchW, searchReq)
	s.Require().Equal(http.StatusOK, searchW.Code)

	var resp entity.ReviewListResponse
	s.Require().NoError(json.Unmarshal(searchW.Body.Bytes(), &resp))
	s.Require().Equal(1, resp.Total)
	s.Equal("Royal Enfield", resp.Reviews[0].BikeName)
}

func (s *ReviewsIntegrationTestSuite) TestSearchCapsAtTenNewestFirst() {
	model := "Meteor" + primitive.NewObjectID().Hex()

	for i := 1; i <= 12; i++ {
		fields := reviewFields()
		fields["bikeName"] = fmt.Sprintf("Bike %02d", i)
		fields["modelName"] = model
		s.Require().Equal(http.StatusCreated, s.submitReview(fields, 3).Code)
		// BSON datetime хранит миллисекунды, разносим created_at соседних отзывов
		time.Sleep(2 * time.Millisecond)
	}

	searchReq := httptest.NewRequest(http.MethodGet, "/api/bikes/search?query="+model, nil)
	searchW := httptest.NewRecorder()
	s.router.ServeHTTP(searchW, searchReq)
	s.Require().Equal(http.StatusOK, searchW.Code)

	var resp entity.ReviewListResponse
	s.Require().NoError(json.Unmarshal(searchW.Body.Bytes(), &resp))

	// 12 совпадений, отдаются только 10 самых свежих
	s.Require().Equal(10, resp.Total)
	s.Equal("Bike 12", resp.Reviews[0].BikeName)
	s.Equal("Bike 03", resp.Reviews[9].BikeName)
	for _, review := range resp.Reviews {
		s.NotEqual("Bike 01", review.BikeName)
		s.NotEqual("Bike 02", review.BikeName)
	}
}

func (s *ReviewsIntegrationTestSuite) TestSearchMissingQuery() {
	searchReq := httptest.NewRequest(http.MethodGet, "/api/bikes/search", nil)
	searchW := httptest.NewRecorder()
	s.router.ServeHTTP(searchW, searchReq)
	s.Equal(http.StatusBadRequest, searchW.Code)
}

func (s *ReviewsIntegrationTestSuite) TestGetByIDNotFound() {
	getReq := httptest.NewRequest(http.MethodGet, "/api/bikes/65f000000000000000000000", nil)
	getW := httptest.NewRecorder()
	s.router.ServeHTTP(getW, getReq)
	s.Equal(http.StatusNotFound, getW.Code)
}

func (s *ReviewsIntegrationTestSuite) TestSubmitPublishesKafkaEvent() {
	before := len(s.kafkaProducer.Messages)

	w := s.submitReview(reviewFields(), 3)
	s.Require().Equal(http.StatusCreated, w.Code)

	s.Require().Len(s.kafkaProducer.Messages, before+1)

	var event entity.ReviewEvent
	s.Require().NoError(json.Unmarshal(s.kafkaProducer.Messages[before], &event))
	s.Equal("REVIEW_CREATED", event.EventType)
	s.Equal("Royal Enfield", event.BikeName)
	s.Equal(5, event.Rating)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
