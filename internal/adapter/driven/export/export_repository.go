package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/diillson/bigrivercalc-go/internal/domain/repository"
	"github.com/diillson/bigrivercalc-go/internal/domain/service"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	clock clock.Clock
}

// NewExportRepository cria uma nova implementação do ExportRepository.
// O clock define o timestamp dos nomes de arquivo; nil usa o relógio real.
func NewExportRepository(clk clock.Clock) repository.ExportRepository {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &ExportRepositoryImpl{clock: clk}
}

var (
	flatHeaders    = []string{"Service", "Amount", "Currency", "Period"}
	groupedHeaders = []string{"OU ID", "OU Name", "Service", "Amount", "Currency", "Period"}
)

// ExportToCSV grava uma linha por serviço. Relatórios por OU ganham as colunas da OU.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.BillingReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if report.IsGrouped() {
		err = writeGroupedCSV(writer, report.ByOU)
	} else {
		err = writeFlatCSV(writer, report.Items)
	}
	if err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func writeFlatCSV(writer *csv.Writer, items []entity.LineItem) error {
	if err := writer.Write(flatHeaders); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{stripANSI(item.Service), item.Amount, item.Currency, item.Period}); err != nil {
			return err
		}
	}
	return writer.Write([]string{"Total", fmt.Sprintf("%.2f", service.SumAmounts(items)), "", ""})
}

func writeGroupedCSV(writer *csv.Writer, results []entity.OUResult) error {
	if err := writer.Write(groupedHeaders); err != nil {
		return err
	}
	grandTotal := 0.0
	for _, result := range results {
		for _, item := range result.Items {
			record := []string{result.OU.ID, result.OU.Name, stripANSI(item.Service), item.Amount, item.Currency, item.Period}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		grandTotal += service.SumAmounts(result.Items)
	}
	return writer.Write([]string{"", "Grand Total", "", fmt.Sprintf("%.2f", grandTotal), "", ""})
}

// ExportToJSON grava o relatório inteiro, indentado.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.BillingReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF gera um PDF A4 com uma tabela por escopo (conta ou OU).
func (r *ExportRepositoryImpl) ExportToPDF(report entity.BillingReport, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generatedAt := r.clock.Now().Format("2006-01-02")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Generated by bigriver | "+generatedAt), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFillColor(40, 40, 40)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  AWS Billing Report"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(50, 50, 50)
	for _, line := range reportSubtitle(report) {
		pdf.CellFormat(0, 8, tr("  "+line), "", 1, "L", true, 0, "")
	}
	pdf.Ln(8)

	if report.IsGrouped() {
		grandTotal := 0.0
		for _, result := range report.ByOU {
			ouTotal := service.SumAmounts(result.Items)
			grandTotal += ouTotal
			title := fmt.Sprintf("%s (%s) - %.2f", result.OU.Name, result.OU.ID, ouTotal)
			drawItemsTable(pdf, tr, title, result.Items)
		}
		drawTotal(pdf, "Grand Total", grandTotal)
	} else {
		drawItemsTable(pdf, tr, "Cost By Service", report.Items)
		drawTotal(pdf, "Total", service.SumAmounts(report.Items))
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func reportSubtitle(report entity.BillingReport) []string {
	lines := []string{}
	if report.AccountID != "" {
		lines = append(lines, "Account: "+report.AccountID)
	}
	if report.OUID != "" {
		lines = append(lines, "Organizational Unit: "+report.OUID)
	}
	if report.Period != "" {
		lines = append(lines, "Period: "+report.Period)
	}
	return lines
}

func drawItemsTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, items []entity.LineItem) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(7)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)

	if len(items) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.Cell(0, 6, "No billing data.")
		pdf.Ln(10)
		return
	}

	widths := []float64{120, 40, 30}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(50, 50, 50)
	for i, header := range []string{"Service", "Amount", "Currency"} {
		align := "L"
		if i == 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, header, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, item := range items {
		// Valores acima de 100 ficam em vermelho, como no terminal.
		if service.ParseAmount(item.Amount) > 100 {
			pdf.SetTextColor(192, 0, 0)
		} else {
			pdf.SetTextColor(50, 50, 50)
		}
		pdf.CellFormat(widths[0], 6, tr(stripANSI(item.Service)), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, item.Amount, "", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, item.Currency, "", 1, "L", false, 0, "")
	}
	pdf.SetTextColor(50, 50, 50)
	pdf.Ln(6)
}

func drawTotal(pdf *gofpdf.Fpdf, label string, amount float64) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s: %.2f", label, amount), "T", 1, "R", false, 0, "")
}

func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.clock.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, timestamp, ext)), nil
}

var ansiRegex = regexp.MustCompile(`\x1B\[[0-9;]*[A-Za-z]`)

// stripANSI remove sequências ANSI de cor/estilo.
func stripANSI(text string) string {
	return ansiRegex.ReplaceAllString(text, "")
}
