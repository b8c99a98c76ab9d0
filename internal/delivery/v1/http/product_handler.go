package http

import (
	"encoding/json"
	"net/http"

	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewProductHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// uploadDataset
//
//	@Summary		Загрузка датасета товаров
//	@Description	Принимает CSV или JSON файл каталога, векторизует и сохраняет товары в индекс
//	@Tags			products
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file					true	"Файл датасета (.csv или .json)"
//	@Success		200		{object}	map[string]interface{}	"Результат обработки"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse			"Бэкенд недоступен"
//	@Router			/products/upload [post]
func (p *ProductHandler) uploadDataset(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 100 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		p.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrInvalidRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		p.logger.Warnf("%d dataset file is missing", http.StatusBadRequest)
		WriteError(w, e.ErrInvalidRequest)
		return
	}

	data, err := readDatasetFile(files[0], maxTotalRequestSize)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := p.catalogUsecase.IngestDataset(r.Context(), usecase.NewIngestDatasetReq(files[0].Filename, data))
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message":            "Dataset uploaded and processed successfully",
		"filename":           files[0].Filename,
		"products_processed": res.ProductsProcessed,
		"archive_key":        res.ArchiveKey,
	})
}

// listProducts
//
//	@Summary	Список товаров с пагинацией
//	@Tags		products
//	@Produce	json
//	@Param		limit	query		int						false	"Максимум записей (default 100)"
//	@Param		offset	query		int						false	"Смещение (default 0)"
//	@Success	200		{object}	map[string]interface{}	"Страница каталога"
//	@Failure	400		{object}	ErrorResponse			"Некорректные параметры"
//	@Router		/products/all [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntQuery(r, "limit", 100)
	if err != nil {
		WriteError(w, err)
		return
	}

	offset, err := parseIntQuery(r, "offset", 0)
	if err != nil {
		WriteError(w, err)
		return
	}

	products, err := p.catalogUsecase.ListProducts(r.Context(), limit, offset)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"products": responses,
		"total":    len(responses),
		"limit":    limit,
		"offset":   offset,
	})
}

// getProduct
//
//	@Summary	Товар по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		string			true	"ID товара из каталога"
//	@Success	200	{object}	ProductResponse	"Карточка товара"
//	@Failure	404	{object}	ErrorResponse	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := p.catalogUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*product))
}

type generateDescriptionRequest struct {
	ProductID       string `json:"product_id"`
	EnhanceExisting bool   `json:"enhance_existing"`
}

type generateDescriptionResponse struct {
	ProductID            string `json:"product_id"`
	OriginalDescription  string `json:"original_description"`
	GeneratedDescription string `json:"generated_description"`
	EnhancementType      string `json:"enhancement_type"`
}

// generateDescription
//
//	@Summary	Генерация маркетингового описания товара
//	@Tags		products
//	@Accept		json
//	@Produce	json
//	@Param		request	body		generateDescriptionRequest	true	"Параметры генерации"
//	@Success	200		{object}	generateDescriptionResponse	"Сгенерированное описание"
//	@Failure	404		{object}	ErrorResponse				"Товар не найден"
//	@Router		/products/generate-description [post]
func (p *ProductHandler) generateDescription(w http.ResponseWriter, r *http.Request) {
	var req generateDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		WriteError(w, e.ErrInvalidRequest)
		return
	}

	res, err := p.catalogUsecase.GenerateDescription(r.Context(), &usecase.GenerateDescriptionReq{
		ProductID:       req.ProductID,
		EnhanceExisting: req.EnhanceExisting,
	})
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, generateDescriptionResponse{
		ProductID:            res.ProductID,
		OriginalDescription:  res.OriginalDescription,
		GeneratedDescription: res.GeneratedDescription,
		EnhancementType:      res.EnhancementType,
	})
}
