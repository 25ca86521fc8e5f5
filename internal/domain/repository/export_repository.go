package repository

import (
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report entity.BillingReport, filename string, outputDir string) (string, error)
	ExportToJSON(report entity.BillingReport, filename string, outputDir string) (string, error)
	ExportToPDF(report entity.BillingReport, filename string, outputDir string) (string, error)
}
