package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// Обязательные колонки датасета; остальные поля опциональны.
var requiredColumns = []string{"uniq_id", "title", "categories", "price", "description"}

// ParseDataset разбирает CSV- или JSON-датасет в типизированные товары.
// Вся грязная работа с форматами цен и списковыми полями происходит
// здесь: движок рекомендаций сырых записей не видит.
func ParseDataset(filename string, data []byte) ([]domain.Product, error) {
	var (
		records []map[string]string
		err     error
	)

	switch {
	case strings.HasSuffix(filename, ".csv"):
		records, err = parseCSV(data)
	case strings.HasSuffix(filename, ".json"):
		records, err = parseJSON(data)
	default:
		return nil, e.ErrUnsupportedDatasetFormat
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, e.ErrEmptyDataset
	}

	products := make([]domain.Product, 0, len(records))
	for i, record := range records {
		products = append(products, normalizeRecord(record, i))
	}

	return products, nil
}

func parseCSV(data []byte) ([]map[string]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // строки с недостающими полями добиваются пустыми значениями

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(rows) < 1 {
		return nil, e.ErrEmptyDataset
	}

	header := rows[0]
	if err := validateColumns(header); err != nil {
		return nil, err
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}

func parseJSON(data []byte) ([]map[string]string, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	records := make([]map[string]string, 0, len(raw))
	for _, item := range raw {
		record := make(map[string]string, len(item))
		for key, value := range item {
			switch v := value.(type) {
			case string:
				record[key] = v
			case float64:
				record[key] = fmt.Sprintf("%g", v)
			case nil:
				record[key] = ""
			default:
				encoded, err := json.Marshal(v)
				if err == nil {
					record[key] = string(encoded)
				}
			}
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		columns := make([]string, 0, len(records[0]))
		for column := range records[0] {
			columns = append(columns, column)
		}
		if err := validateColumns(columns); err != nil {
			return nil, err
		}
	}

	return records, nil
}

func validateColumns(columns []string) error {
	present := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		present[strings.TrimSpace(column)] = struct{}{}
	}

	var missing []string
	for _, column := range requiredColumns {
		if _, ok := present[column]; !ok {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return e.Wrap(strings.Join(missing, ", "), e.ErrMissingColumns)
	}

	return nil
}
