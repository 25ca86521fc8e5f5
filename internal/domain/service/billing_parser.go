package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

const (
	blendedCostMetric   = "BlendedCost"
	unblendedCostMetric = "UnblendedCost"
	unknownService      = "Unknown"
	defaultCurrency     = "USD"
)

// ParseCostResponse flattens a Cost Explorer response into line items sorted
// by amount, highest first. Zero and blank amounts are dropped.
func ParseCostResponse(resp *entity.CostResponse) []entity.LineItem {
	lineItems := []entity.LineItem{}
	if resp == nil {
		return lineItems
	}

	for _, result := range resp.ResultsByTime {
		period := formatPeriod(result.TimePeriod)
		for _, group := range result.Groups {
			item, ok := extractLineItem(group, period)
			if !ok || isZeroAmount(item.Amount) {
				continue
			}
			lineItems = append(lineItems, item)
		}
	}

	sort.SliceStable(lineItems, func(i, j int) bool {
		return ParseAmount(lineItems[i].Amount) > ParseAmount(lineItems[j].Amount)
	})
	return lineItems
}

// ParseAmount converte o valor textual em float64; valores inválidos valem 0.
func ParseAmount(amount string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return 0
	}
	return value
}

// SumAmounts returns the float sum of all item amounts.
func SumAmounts(items []entity.LineItem) float64 {
	var total float64
	for _, item := range items {
		total += ParseAmount(item.Amount)
	}
	return total
}

func formatPeriod(interval *entity.DateInterval) string {
	if interval == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if interval.Start != nil {
		parts = append(parts, *interval.Start)
	}
	if interval.End != nil {
		parts = append(parts, *interval.End)
	}
	return strings.Join(parts, " to ")
}

func extractLineItem(group entity.CostGroup, period string) (entity.LineItem, bool) {
	service := unknownService
	if len(group.Keys) > 0 {
		service = group.Keys[0]
	}

	// BlendedCost tem preferência; UnblendedCost é o fallback.
	metric, ok := group.Metrics[blendedCostMetric]
	if !ok {
		metric, ok = group.Metrics[unblendedCostMetric]
	}
	if !ok {
		return entity.LineItem{}, false
	}

	amount := "0"
	if metric.Amount != nil {
		amount = *metric.Amount
	}
	currency := defaultCurrency
	if metric.Unit != nil {
		currency = *metric.Unit
	}

	return entity.LineItem{
		Service:  service,
		Amount:   amount,
		Currency: currency,
		Period:   period,
	}, true
}

func isZeroAmount(amount string) bool {
	return strings.TrimSpace(amount) == "" || ParseAmount(amount) == 0
}
