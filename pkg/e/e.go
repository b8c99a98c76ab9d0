package e

import "fmt"

var (
	// Ошибки внешних бэкендов (эмбеддер, векторный индекс)
	ErrBackendUnavailable = fmt.Errorf("backend unavailable")
	ErrEmptyVector        = fmt.Errorf("empty embedding vector")

	// Фатальные ошибки конфигурации
	ErrVectorSizeMismatch   = fmt.Errorf("vector size mismatch between embedder and collection")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 400 Bad Request
	ErrInvalidRequest           = fmt.Errorf("invalid request")
	ErrInvalidTopK              = fmt.Errorf("top_k must be positive")
	ErrTopKTooLarge             = fmt.Errorf("top_k exceeds the configured cap")
	ErrInvalidPriceRange        = fmt.Errorf("price_min must not exceed price_max")
	ErrInvalidPrice             = fmt.Errorf("invalid price")
	ErrQueryRequired            = fmt.Errorf("query is required")
	ErrCategoryRequired         = fmt.Errorf("category is required")
	ErrUnsupportedProjection    = fmt.Errorf("unsupported projection method")
	ErrUnsupportedDatasetFormat = fmt.Errorf("unsupported dataset format, use CSV or JSON")
	ErrMissingColumns           = fmt.Errorf("dataset is missing required columns")
	ErrEmptyDataset             = fmt.Errorf("dataset contains no records")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
