// Package catalog loads the creditor catalog and provides in-memory
// lookup over it.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bilag-dev/bilag/internal/dates"
	"github.com/bilag-dev/bilag/internal/model"
)

// Service provides in-memory lookup over the creditor catalog.
type Service struct {
	creditors []model.Creditor
	byID      map[int]model.Creditor
}

// NewService creates a Service from a slice of creditors.
func NewService(creditors []model.Creditor) *Service {
	byID := make(map[int]model.Creditor, len(creditors))
	for _, c := range creditors {
		byID[c.ID] = c
	}
	return &Service{creditors: creditors, byID: byID}
}

// Load reads a creditors JSON file and returns a Service.
func Load(path string) (*Service, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading creditors: %w", err)
	}

	creditors, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing creditors %s: %w", path, err)
	}
	return NewService(creditors), nil
}

// All returns all creditors.
func (s *Service) All() []model.Creditor {
	return s.creditors
}

// Get returns a creditor by ID.
func (s *Service) Get(id int) (model.Creditor, bool) {
	c, ok := s.byID[id]
	return c, ok
}

// Exists reports whether a creditor ID exists.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// creditorRecord mirrors one creditor object on disk.
type creditorRecord struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	SingleVoucher bool          `json:"single_voucher"`
	Aliases       []aliasRecord `json:"aliases"`
}

type aliasRecord struct {
	Prefix        string `json:"prefix"`
	Postfix       string `json:"postfix"`
	DebitAccount  string `json:"debit_account"`
	CreditAccount string `json:"credit_account"`
	Override      string `json:"override"`
	Frequency     string `json:"frequency"`
	StartDate     string `json:"start_date"`
}

// Parse converts the creditors JSON array into model records. An alias
// whose start date does not parse loses its schedule but keeps working as
// a plain text pattern; one bad field must not take the creditor down.
func Parse(data []byte) ([]model.Creditor, error) {
	var records []creditorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	creditors := make([]model.Creditor, 0, len(records))
	for _, rec := range records {
		c := model.Creditor{
			ID:            rec.ID,
			Name:          rec.Name,
			SingleVoucher: rec.SingleVoucher,
		}
		for _, ar := range rec.Aliases {
			a := model.Alias{
				Prefix:        ar.Prefix,
				Postfix:       ar.Postfix,
				DebitAccount:  ar.DebitAccount,
				CreditAccount: ar.CreditAccount,
				Override:      ar.Override,
				Frequency:     model.Frequency(ar.Frequency),
			}
			if ar.StartDate != "" {
				if start, err := dates.Parse(ar.StartDate); err == nil {
					a.StartDate = start
				}
			}
			c.Aliases = append(c.Aliases, a)
		}
		creditors = append(creditors, c)
	}
	return creditors, nil
}
