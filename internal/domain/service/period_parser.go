package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

var monthTokenRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ResolvePeriod converte um token de período ("current", "last-month", "2025-02")
// em um intervalo concreto. Retorna nil quando o token está vazio ou não é
// reconhecido; o chamador usa então o período padrão do gateway.
func ResolvePeriod(token string, now time.Time) *entity.Period {
	normalized := strings.ToLower(strings.TrimSpace(token))
	if normalized == "" {
		return nil
	}

	switch normalized {
	case "current", "month", "mtd":
		p := CurrentMonth(now)
		return &p
	case "last-month", "previous":
		p := LastMonth(now)
		return &p
	}

	if !monthTokenRegex.MatchString(normalized) {
		return nil
	}
	year, _ := strconv.Atoi(normalized[:4])
	month, _ := strconv.Atoi(normalized[5:])
	if month < 1 || month > 12 {
		return nil
	}
	p := entity.MonthPeriod(year, time.Month(month))
	return &p
}

// CurrentMonth returns the UTC calendar month containing now.
func CurrentMonth(now time.Time) entity.Period {
	now = now.UTC()
	return entity.MonthPeriod(now.Year(), now.Month())
}

// LastMonth returns the UTC calendar month before the one containing now.
func LastMonth(now time.Time) entity.Period {
	current := CurrentMonth(now)
	return entity.Period{Start: current.Start.AddDate(0, -1, 0), End: current.Start}
}
