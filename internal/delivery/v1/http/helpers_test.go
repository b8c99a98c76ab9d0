package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "not found", err: e.ErrProductNotFound, wantCode: http.StatusNotFound, wantMsg: "product not found"},
		{name: "invalid top_k", err: e.ErrInvalidTopK, wantCode: http.StatusBadRequest, wantMsg: "top_k must be positive"},
		{name: "price range", err: e.ErrInvalidPriceRange, wantCode: http.StatusBadRequest, wantMsg: "price_min must not exceed price_max"},
		{name: "backend down", err: e.ErrBackendUnavailable, wantCode: http.StatusServiceUnavailable, wantMsg: "backend unavailable"},
		{name: "unknown maps to 500", err: errors.New("boom"), wantCode: http.StatusInternalServerError, wantMsg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := ToHTTPResponse(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestToHTTPResponse_UnwrapsChain(t *testing.T) {
	wrapped := e.Wrap("RecommendationUseCase.GetRecommendations", e.Wrap("dial tcp", e.ErrBackendUnavailable))

	code, msg := ToHTTPResponse(wrapped)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	// детали обёрток наружу не утекают
	assert.Equal(t, "backend unavailable", msg)
}

func TestToRecommendationResponses(t *testing.T) {
	recs := []domain.Recommendation{
		domain.NewRecommendation(domain.Product{ID: "p1", Name: "Sofa", Price: 400}, 0.87, "Very similar to your search"),
	}

	responses := toRecommendationResponses(recs)
	require.Len(t, responses, 1)

	require.NotNil(t, responses[0].SimilarityScore)
	assert.Equal(t, float32(0.87), *responses[0].SimilarityScore)
	assert.Equal(t, "Very similar to your search", responses[0].RecommendationReason)
}

func TestEnsureMultipartForm_Malformed(t *testing.T) {
	// не-multipart запрос
	r := httptest.NewRequest(http.MethodPost, "/products/upload", strings.NewReader("plain body"))
	r.Header.Set("Content-Type", "application/json")

	err := ensureMultipartForm(r, 1<<20)
	require.ErrorIs(t, err, e.ErrInvalidRequest)

	// заявленный multipart с битым телом тоже даёт 400, а не 500
	r = httptest.NewRequest(http.MethodPost, "/products/upload", strings.NewReader("not a multipart body"))
	r.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	err = ensureMultipartForm(r, 1<<20)
	require.ErrorIs(t, err, e.ErrInvalidRequest)

	code, _ := ToHTTPResponse(err)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestParseQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products?limit=20&price_min=99.5&exclude_self=false&bad=abc", nil)

	limit, err := parseIntQuery(r, "limit", 100)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	missing, err := parseIntQuery(r, "offset", 0)
	require.NoError(t, err)
	assert.Zero(t, missing)

	_, err = parseIntQuery(r, "bad", 0)
	assert.ErrorIs(t, err, e.ErrInvalidRequest)

	priceMin, err := parseFloatQuery(r, "price_min")
	require.NoError(t, err)
	require.NotNil(t, priceMin)
	assert.Equal(t, 99.5, *priceMin)

	priceMax, err := parseFloatQuery(r, "price_max")
	require.NoError(t, err)
	assert.Nil(t, priceMax)

	assert.False(t, parseBoolQuery(r, "exclude_self", true))
	assert.True(t, parseBoolQuery(r, "absent", true))
	assert.True(t, parseBoolQuery(r, "bad", true))
}
