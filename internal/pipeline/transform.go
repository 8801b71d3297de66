package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/imodoiepale/kra-tools-sub000/internal/registry"
)

// recordFromObject converts one parsed model object into its document index
// and an ExtractionRecord. Only document_index is required; every other
// field degrades to absence.
func recordFromObject(obj map[string]interface{}) (int, *ExtractionRecord, error) {
	index, err := getIntField(obj, "document_index", true)
	if err != nil {
		return 0, nil, fmt.Errorf("recordFromObject: %w", err)
	}

	record := &ExtractionRecord{
		BankName:        getOptionalString(obj, "bank_name"),
		CompanyName:     getOptionalString(obj, "company_name"),
		AccountNumber:   getOptionalString(obj, "account_number"),
		Currency:        registry.NormalizeCurrency(getOptionalString(obj, "currency")),
		StatementPeriod: getOptionalString(obj, "statement_period"),
	}

	if balancesAny, ok := obj["monthly_balances"]; ok {
		if balances, ok := balancesAny.([]interface{}); ok {
			for _, item := range balances {
				entry, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				balance, ok := balanceFromObject(entry)
				if !ok {
					continue
				}
				record.MonthlyBalances = append(record.MonthlyBalances, balance)
			}
		}
	}

	return index, record, nil
}

// balanceFromObject builds one MonthlyBalance; entries without a valid
// month in 1-12 and a year are dropped.
func balanceFromObject(obj map[string]interface{}) (MonthlyBalance, bool) {
	month, err := getIntField(obj, "month", true)
	if err != nil || month < 1 || month > 12 {
		return MonthlyBalance{}, false
	}
	year, err := getIntField(obj, "year", true)
	if err != nil || year < 1900 || year > 2200 {
		return MonthlyBalance{}, false
	}

	page, _ := getIntField(obj, "statement_page", false)

	return MonthlyBalance{
		Month:          month,
		Year:           year,
		OpeningBalance: getOptionalAmount(obj, "opening_balance"),
		ClosingBalance: getOptionalAmount(obj, "closing_balance"),
		StatementPage:  page,
	}, true
}

func getOptionalString(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func getIntField(m map[string]interface{}, key string, required bool) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return int(val), nil
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(val), "%d", &n); err != nil {
			return 0, fmt.Errorf("field %q is not a number: %q", key, val)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

// getOptionalAmount reads a monetary field that may arrive as a JSON number,
// a formatted string like "KES 1,234.56", or null. Absent and unparsable
// values stay nil; zero is only ever an explicit zero.
func getOptionalAmount(m map[string]interface{}, key string) *decimal.Decimal {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case float64:
		d := decimal.NewFromFloat(val)
		return &d
	case string:
		return registry.ParseAmount(val)
	default:
		return nil
	}
}
