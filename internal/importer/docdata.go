package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bilag-dev/bilag/internal/dates"
	"github.com/bilag-dev/bilag/internal/model"
)

// documentRecord mirrors one entry of the extraction output: candidate
// dates and amounts plus the vendor text lines found in the document.
type documentRecord struct {
	File    string            `json:"file"`
	Dates   []string          `json:"dates"`
	Amounts []json.RawMessage `json:"amounts"`
	Vendors []string          `json:"vendors"`
}

// LoadDocuments reads the document-data JSON file.
func LoadDocuments(path string, log *zap.Logger) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document data: %w", err)
	}
	docs, err := ParseDocuments(data, log)
	if err != nil {
		return nil, fmt.Errorf("parsing document data %s: %w", path, err)
	}
	return docs, nil
}

// ParseDocuments converts the extraction JSON into Documents. Field-level
// noise is expected from OCR output: unparsable dates or amounts are
// dropped per field, never the whole document.
func ParseDocuments(data []byte, log *zap.Logger) ([]model.Document, error) {
	var records []documentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(records))
	for _, rec := range records {
		d := model.Document{ID: rec.File, VendorLines: rec.Vendors}

		for _, s := range rec.Dates {
			t, err := dates.Parse(s)
			if err != nil {
				log.Warn("dropping unparsable document date",
					zap.String("file", rec.File), zap.String("date", s))
				continue
			}
			d.Dates = append(d.Dates, t)
		}

		for _, raw := range rec.Amounts {
			a, err := parseRawAmount(raw)
			if err != nil {
				log.Warn("dropping unparsable document amount",
					zap.String("file", rec.File), zap.String("amount", string(raw)))
				continue
			}
			d.Amounts = append(d.Amounts, a.Round(2))
		}

		docs = append(docs, d)
	}
	return docs, nil
}

// parseRawAmount accepts both JSON numbers and quoted strings; extraction
// output has historically contained either.
func parseRawAmount(raw json.RawMessage) (decimal.Decimal, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Decimal{}, err
	}
	return d, nil
}
