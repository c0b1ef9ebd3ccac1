package handler

import (
	"net/http"

	"bikereviews/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
)

// MaxUploadBody - предел тела запроса на загрузку:
// пять изображений по 5 MiB плюс запас на поля формы и границы multipart
const MaxUploadBody = int64(service.MaxImages*service.MaxImageSize) + 1<<20

// BodySizeLimit обрезает тело запроса на заданном пределе.
// Превышение проявляется как ошибка чтения формы и дает ответ 400,
// не дожидаясь вычитывания всего тела
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
