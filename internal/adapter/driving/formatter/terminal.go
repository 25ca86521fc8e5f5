package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/fatih/color"
)

const (
	minServiceWidth = 7
	minAmountWidth  = 6
	// Valores acima deste limite aparecem em vermelho.
	highlightThreshold = 100.0
)

// Terminal renders reports as aligned plain-text tables.
type Terminal struct {
	color bool
	red   *color.Color
}

// NewTerminal creates a Terminal formatter. enableColor must already account
// for whether the destination is an interactive terminal.
func NewTerminal(enableColor bool) *Terminal {
	red := color.New(color.FgRed)
	// Forçamos a cor: a decisão de TTY é do chamador, não da variável global do pacote color.
	red.EnableColor()
	return &Terminal{color: enableColor, red: red}
}

func (t *Terminal) Format(items []entity.LineItem, accountID, period string) string {
	lines := []string{}
	if accountID != "" || period != "" {
		lines = append(lines, strings.Join(headerParts(accountID, period, "Account: ", "Period: "), "  |  "))
	}
	lines = append(lines, t.table(items))
	if len(items) > 0 {
		lines = append(lines, "Total: "+formatAmount(total(items)))
	}
	return strings.Join(lines, "\n")
}

func (t *Terminal) FormatByOU(results []entity.OUResult, period string) string {
	sections := []string{}
	if period != "" {
		sections = append(sections, "Period: "+period)
	}

	grandTotal := 0.0
	for _, result := range results {
		ouTotal := total(result.Items)
		grandTotal += ouTotal

		title := fmt.Sprintf("%s (%s) — %s", result.OU.Name, result.OU.ID, formatAmount(ouTotal))
		section := []string{title, strings.Repeat("=", utf8.RuneCountInString(title))}
		if len(result.Items) > 0 {
			section = append(section, t.table(result.Items))
		} else {
			section = append(section, "(no billing data)")
		}
		sections = append(sections, strings.Join(section, "\n"))
	}

	sections = append(sections, "Grand Total: "+formatAmount(grandTotal))
	return strings.Join(sections, "\n\n")
}

func (t *Terminal) table(items []entity.LineItem) string {
	if len(items) == 0 {
		return ""
	}

	serviceWidth, amountWidth := minServiceWidth, minAmountWidth
	for _, item := range items {
		serviceWidth = max(serviceWidth, utf8.RuneCountInString(item.Service))
		amountWidth = max(amountWidth, utf8.RuneCountInString(item.Amount))
	}

	rows := []string{
		fmt.Sprintf("%-*s  %*s  %s", serviceWidth, "Service", amountWidth, "Amount", "Currency"),
		strings.Repeat("-", serviceWidth+amountWidth+10),
	}
	for _, item := range items {
		amount := fmt.Sprintf("%*s", amountWidth, item.Amount)
		if t.color && service.ParseAmount(item.Amount) > highlightThreshold {
			amount = t.red.Sprint(amount)
		}
		rows = append(rows, fmt.Sprintf("%-*s  %s  %s", serviceWidth, item.Service, amount, item.Currency))
	}
	return strings.Join(rows, "\n")
}
