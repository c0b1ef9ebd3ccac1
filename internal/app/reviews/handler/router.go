package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bikereviews/internal/app/reviews/infrastructure/realtime"
	"bikereviews/pkg/logger"
	"bikereviews/pkg/metrics"
)

// SetupRoutes собирает роутер сервиса
// uploadsDir - каталог для раздачи статики в local-варианте хранилища,
// пустая строка отключает маршрут /uploads
func SetupRoutes(reviewHandler *ReviewHandler, hub *realtime.Hub, uploadsDir string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("bike-reviews"))

	// Загрузка идет напрямую из браузера
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "bike-reviews",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	bikes := router.Group("/api/bikes")
	{
		bikes.GET("", reviewHandler.ListReviews)
		bikes.GET("/search", reviewHandler.SearchReviews)
		bikes.GET("/:id", reviewHandler.GetReview)
		bikes.POST("/add", BodySizeLimit(MaxUploadBody), reviewHandler.CreateReview)
	}

	router.GET("/ws", hub.ServeWS)

	if uploadsDir != "" {
		router.Static("/uploads", uploadsDir)
	}

	return router
}
