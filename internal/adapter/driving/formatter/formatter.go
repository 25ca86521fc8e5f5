package formatter

import (
	"fmt"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/diillson/bigrivercalc-go/internal/shared/types"
)

// Formatter renders line items as text.
type Formatter interface {
	// Format renders a flat report. Empty accountID/period omit the header fields.
	Format(items []entity.LineItem, accountID, period string) string
	// FormatByOU renders one section per OU followed by the grand total.
	FormatByOU(results []entity.OUResult, period string) string
}

// New returns the formatter for the given format name.
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", types.FormatMarkdown:
		return NewMarkdown(), nil
	case types.FormatTerminal:
		return NewTerminal(color), nil
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedFormat, format)
	}
}

func formatAmount(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

func headerParts(accountID, period, accountLabel, periodLabel string) []string {
	parts := []string{}
	if accountID != "" {
		parts = append(parts, accountLabel+accountID)
	}
	if period != "" {
		parts = append(parts, periodLabel+period)
	}
	return parts
}

func total(items []entity.LineItem) float64 {
	return service.SumAmounts(items)
}
