package formatter

import (
	"fmt"
	"strings"

	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

// Markdown renders reports as GitHub-flavored Markdown tables.
type Markdown struct{}

// NewMarkdown creates a Markdown formatter.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

func (m *Markdown) Format(items []entity.LineItem, accountID, period string) string {
	lines := []string{}
	if accountID != "" || period != "" {
		lines = append(lines, strings.Join(headerParts(accountID, period, "**Account:** ", "**Period:** "), " | "))
	}
	lines = append(lines, m.table(items))
	if len(items) > 0 {
		lines = append(lines, "**Total:** "+formatAmount(total(items)))
	}
	return strings.Join(lines, "\n\n")
}

func (m *Markdown) FormatByOU(results []entity.OUResult, period string) string {
	sections := []string{}
	if period != "" {
		sections = append(sections, "**Period:** "+period)
	}

	grandTotal := 0.0
	for _, result := range results {
		ouTotal := total(result.Items)
		grandTotal += ouTotal

		section := []string{
			fmt.Sprintf("### %s (`%s`) — %s", escapePipes(result.OU.Name), result.OU.ID, formatAmount(ouTotal)),
		}
		if len(result.Items) > 0 {
			section = append(section, m.table(result.Items))
		} else {
			section = append(section, "_No billing data._")
		}
		sections = append(sections, strings.Join(section, "\n\n"))
	}

	sections = append(sections, "---\n\n**Grand Total:** "+formatAmount(grandTotal))
	return strings.Join(sections, "\n\n")
}

func (m *Markdown) table(items []entity.LineItem) string {
	if len(items) == 0 {
		return ""
	}

	rows := []string{
		"| Service | Amount | Currency |",
		"| --- | --- | --- |",
	}
	for _, item := range items {
		rows = append(rows, fmt.Sprintf("| %s | %s | %s |", escapePipes(item.Service), item.Amount, item.Currency))
	}
	return strings.Join(rows, "\n")
}

func escapePipes(text string) string {
	return strings.ReplaceAll(text, "|", `\|`)
}
