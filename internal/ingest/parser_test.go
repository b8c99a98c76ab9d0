package ingest

import (
	"testing"

	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvDataset = `uniq_id,title,categories,price,description,brand
p-1,Blue Sofa,"['Sofas', 'Living Room']","$1,299.99",Comfortable three-seater,Acme
p-2,Oak Desk,Desks,600,Solid oak desk,
`

const jsonDataset = `[
  {"uniq_id": "p-1", "title": "Blue Sofa", "categories": "['Sofas']", "price": 1299.99, "description": "Comfortable three-seater"},
  {"uniq_id": "p-2", "title": "Oak Desk", "categories": "Desks", "price": null, "description": "Solid oak desk"}
]`

func TestParseDataset_CSV(t *testing.T) {
	products, err := ParseDataset("catalog.csv", []byte(csvDataset))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p-1", products[0].ID)
	assert.Equal(t, "Blue Sofa", products[0].Name)
	assert.Equal(t, "Sofas, Living Room", products[0].Category)
	assert.Equal(t, 1299.99, products[0].Price)
	assert.Equal(t, "Acme", products[0].Brand)

	assert.Equal(t, "Desks", products[1].Category)
	assert.Equal(t, 600.0, products[1].Price)
}

func TestParseDataset_JSON(t *testing.T) {
	products, err := ParseDataset("catalog.json", []byte(jsonDataset))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Sofas", products[0].Category)
	assert.Equal(t, 1299.99, products[0].Price)

	// null-цена нормализуется в «неизвестно»
	assert.Zero(t, products[1].Price)
}

func TestParseDataset_UnsupportedFormat(t *testing.T) {
	_, err := ParseDataset("catalog.xlsx", []byte("whatever"))
	assert.ErrorIs(t, err, e.ErrUnsupportedDatasetFormat)
}

func TestParseDataset_MissingColumns(t *testing.T) {
	data := "uniq_id,title\np-1,Blue Sofa\n"

	_, err := ParseDataset("catalog.csv", []byte(data))
	require.ErrorIs(t, err, e.ErrMissingColumns)
	assert.Contains(t, err.Error(), "price")
}

func TestParseDataset_Empty(t *testing.T) {
	header := "uniq_id,title,categories,price,description\n"

	_, err := ParseDataset("catalog.csv", []byte(header))
	assert.ErrorIs(t, err, e.ErrEmptyDataset)

	_, err = ParseDataset("catalog.json", []byte("[]"))
	assert.ErrorIs(t, err, e.ErrEmptyDataset)
}

func TestParseDataset_RaggedCSVRow(t *testing.T) {
	data := "uniq_id,title,categories,price,description\np-1,Blue Sofa,Sofas\n"

	products, err := ParseDataset("catalog.csv", []byte(data))
	require.NoError(t, err)
	require.Len(t, products, 1)

	// недостающие поля добиваются значениями по умолчанию
	assert.Zero(t, products[0].Price)
	assert.Empty(t, products[0].Description)
}
