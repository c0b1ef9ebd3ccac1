package entity

// ImageUpload - один загруженный файл из multipart формы
// Тело файла уже вычитано в память, ContentType - заявленный тип из заголовка части
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// CreateReviewRequest - поля формы при создании отзыва
// Числовые поля приходят строками из multipart и биндятся через form-теги
type CreateReviewRequest struct {
	RiderName      string  `form:"riderName" validate:"required"`
	BikeName       string  `form:"bikeName" validate:"required"`
	ModelName      string  `form:"modelName" validate:"required"`
	PurchaseYear   int     `form:"purchaseYear" validate:"required"`
	TotalKM        float64 `form:"totalKM"`
	BikeCost       float64 `form:"bikeCost" validate:"required"`
	CostPerService float64 `form:"costPerService"`
	Review         string  `form:"review" validate:"required"`
	Rating         int     `form:"rating" validate:"required,min=1,max=5"`
	WorthTheCost   string  `form:"worthTheCost" validate:"omitempty,oneof=Yes 'Definitely Yes' No"`
}

// ErrorResponse - стандартный ответ об ошибке
type ErrorResponse struct {
	Message string `json:"message"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}
