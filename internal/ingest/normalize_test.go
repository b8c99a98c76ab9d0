package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "dollar with thousands separator", raw: "$1,299.99", want: 1299.99},
		{name: "plain integer", raw: "600", want: 600},
		{name: "surrounding spaces", raw: "  49.90 ", want: 49.90},
		{name: "empty means unknown", raw: "", want: 0},
		{name: "nan means unknown", raw: "NaN", want: 0},
		{name: "none means unknown", raw: "None", want: 0},
		{name: "negative normalized to unknown", raw: "-15", want: 0},
		{name: "garbage normalized to unknown", raw: "call us", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanPrice(tt.raw))
		})
	}
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "python list", raw: "['Chairs', 'Office']", want: "Chairs, Office"},
		{name: "single element list", raw: "['Sofas']", want: "Sofas"},
		{name: "plain string passthrough", raw: "Tables", want: "Tables"},
		{name: "empty means unknown", raw: "", want: "Unknown"},
		{name: "null means unknown", raw: "null", want: "Unknown"},
		{name: "empty list", raw: "[]", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategories(tt.raw))
		})
	}
}

func TestParseImages(t *testing.T) {
	assert.Equal(t, "https://a/1.jpg", ParseImages(`['https://a/1.jpg', 'https://a/2.jpg']`))
	assert.Equal(t, "https://a/1.jpg", ParseImages("https://a/1.jpg"))
	assert.Equal(t, "", ParseImages("[]"))
	assert.Equal(t, "", ParseImages(""))
	assert.Equal(t, "", ParseImages("nan"))
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	product := normalizeRecord(map[string]string{
		"uniq_id":     "",
		"title":       "  ",
		"categories":  "",
		"price":       "nan",
		"description": " solid oak frame ",
	}, 7)

	assert.Equal(t, "unknown_7", product.ID)
	assert.Equal(t, "Unknown Product", product.Name)
	assert.Equal(t, "Unknown", product.Category)
	assert.Zero(t, product.Price)
	assert.Equal(t, "solid oak frame", product.Description)
}
