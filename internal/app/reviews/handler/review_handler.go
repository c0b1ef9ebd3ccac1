package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"bikereviews/internal/app/reviews/entity"
	"bikereviews/internal/app/reviews/service"
	"bikereviews/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Имя поля с файлами в multipart форме
const imagesFormField = "bikeImages"

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// ListReviews возвращает все отзывы, новые первыми
// GET /api/bikes
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListRecent(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list reviews")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// SearchReviews ищет отзывы по подстроке в названии мотоцикла или модели
// GET /api/bikes/search?query=...
func (h *ReviewHandler) SearchReviews(c *gin.Context) {
	query := c.Query("query")

	reviews, err := h.reviewService.Search(c.Request.Context(), query)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()})
			return
		}
		logger.Error().Err(err).Str("query", query).Msg("Failed to search reviews")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to search reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

// GetReview возвращает отзыв по ID
// GET /api/bikes/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id := c.Param("id")

	review, err := h.reviewService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Message: "Review not found"})
			return
		}
		logger.Error().Err(err).Str("id", id).Msg("Failed to get review")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to get review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// CreateReview принимает multipart форму с полями отзыва
// и 3-5 изображениями в поле bikeImages
// POST /api/bikes/add
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Invalid request body"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: "Multipart form is required"})
		return
	}

	images, err := readUploads(form.File[imagesFormField])
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read uploaded files")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to read uploaded files"})
		return
	}

	review, err := h.reviewService.Submit(c.Request.Context(), &req, images)
	if err != nil {
		if service.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Message: err.Error()})
			return
		}
		logger.Error().Err(err).Msg("Failed to create review")
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Message: "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// readUploads вычитывает файлы формы в память, сохраняя порядок загрузки
func readUploads(files []*multipart.FileHeader) ([]entity.ImageUpload, error) {
	images := make([]entity.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		images = append(images, entity.ImageUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		})
	}
	return images, nil
}
