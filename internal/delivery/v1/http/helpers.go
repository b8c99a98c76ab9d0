package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ProductResponse — представление товара в ответах API. Поля похожести
// заполняются только в рекомендательных выдачах.
type ProductResponse struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	Category             string   `json:"category"`
	Price                float64  `json:"price"`
	Description          string   `json:"description"`
	ImageURL             string   `json:"image_url,omitempty"`
	Brand                string   `json:"brand,omitempty"`
	Material             string   `json:"material,omitempty"`
	Color                string   `json:"color,omitempty"`
	SimilarityScore      *float32 `json:"similarity_score,omitempty"`
	RecommendationReason string   `json:"recommendation_reason,omitempty"`
}

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Brand:       p.Brand,
		Material:    p.Material,
		Color:       p.Color,
	}
}

func toRecommendationResponses(recs []domain.Recommendation) []ProductResponse {
	result := make([]ProductResponse, 0, len(recs))
	for _, rec := range recs {
		pr := toProductResponse(rec.Product)
		score := rec.Score
		pr.SimilarityScore = &score
		pr.RecommendationReason = rec.Reason
		result = append(result, pr)
	}

	return result
}

// ToHTTPResponse транслирует доменную ошибку в статус-код и сообщение.
// Сообщения — только sentinel-тексты, детали обёрток наружу не утекают.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrInvalidTopK):
		return http.StatusBadRequest, e.ErrInvalidTopK.Error()
	case errors.Is(err, e.ErrTopKTooLarge):
		return http.StatusBadRequest, e.ErrTopKTooLarge.Error()
	case errors.Is(err, e.ErrInvalidPriceRange):
		return http.StatusBadRequest, e.ErrInvalidPriceRange.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrQueryRequired):
		return http.StatusBadRequest, e.ErrQueryRequired.Error()
	case errors.Is(err, e.ErrCategoryRequired):
		return http.StatusBadRequest, e.ErrCategoryRequired.Error()
	case errors.Is(err, e.ErrUnsupportedProjection):
		return http.StatusBadRequest, e.ErrUnsupportedProjection.Error()
	case errors.Is(err, e.ErrUnsupportedDatasetFormat):
		return http.StatusBadRequest, e.ErrUnsupportedDatasetFormat.Error()
	case errors.Is(err, e.ErrMissingColumns):
		return http.StatusBadRequest, e.ErrMissingColumns.Error()
	case errors.Is(err, e.ErrEmptyDataset):
		return http.StatusBadRequest, e.ErrEmptyDataset.Error()
	case errors.Is(err, e.ErrInvalidRequest):
		return http.StatusBadRequest, e.ErrInvalidRequest.Error()
	case errors.Is(err, e.ErrBackendUnavailable):
		return http.StatusServiceUnavailable, e.ErrBackendUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseIntQuery возвращает int-параметр запроса или значение по умолчанию.
func parseIntQuery(r *http.Request, key string, defaultValue int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return 0, e.Wrap(key, e.ErrInvalidRequest)
	}

	return intValue, nil
}

// parseFloatQuery возвращает указатель на float-параметр запроса,
// nil — если параметр не задан.
func parseFloatQuery(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}

	floatValue, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, e.Wrap(key, e.ErrInvalidRequest)
	}

	return &floatValue, nil
}

func parseBoolQuery(r *http.Request, key string, defaultValue bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidRequest)
	}

	// битое multipart-тело — это ошибка клиента, не сервера
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidRequest)
	}

	return nil
}

func readDatasetFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrInvalidRequest)
	}

	return data, nil
}
