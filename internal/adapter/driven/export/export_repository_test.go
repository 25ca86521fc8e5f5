package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diillson/bigrivercalc-go/internal/clock"
	"github.com/diillson/bigrivercalc-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = clock.Fixed(time.Date(2025, time.March, 1, 14, 30, 5, 0, time.UTC))

func flatReport() entity.BillingReport {
	return entity.BillingReport{
		AccountID: "123456789012",
		Period:    "2025-02-01 to 2025-03-01",
		Items: []entity.LineItem{
			{Service: "Amazon EC2", Amount: "150.00", Currency: "USD", Period: "2025-02-01 to 2025-03-01"},
			{Service: "\x1b[31mAmazon S3\x1b[0m", Amount: "2.30", Currency: "USD", Period: "2025-02-01 to 2025-03-01"},
		},
	}
}

func groupedReport() entity.BillingReport {
	return entity.BillingReport{
		Period: "2025-02-01 to 2025-03-01",
		ByOU: []entity.OUResult{
			{OU: entity.OrgUnitInfo{ID: "ou-1", Name: "Engineering"}, Items: []entity.LineItem{
				{Service: "Amazon EC2", Amount: "12.50", Currency: "USD"},
			}},
			{OU: entity.OrgUnitInfo{ID: "ou-2", Name: "Marketing"}, Items: []entity.LineItem{}},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

func TestGenerateFilename(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	repo := &ExportRepositoryImpl{clock: fixedNow}

	name, err := repo.generateFilename("billing", dir, "csv")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "billing_20250301_143005.csv"), name)
	assert.DirExists(t, dir)
}

func TestExportToCSV_Flat(t *testing.T) {
	path, err := NewExportRepository(fixedNow).ExportToCSV(flatReport(), "billing", t.TempDir())
	require.NoError(t, err)

	records := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"Service", "Amount", "Currency", "Period"},
		{"Amazon EC2", "150.00", "USD", "2025-02-01 to 2025-03-01"},
		{"Amazon S3", "2.30", "USD", "2025-02-01 to 2025-03-01"},
		{"Total", "152.30", "", ""},
	}, records)
}

func TestExportToCSV_Grouped(t *testing.T) {
	path, err := NewExportRepository(fixedNow).ExportToCSV(groupedReport(), "billing", t.TempDir())
	require.NoError(t, err)

	records := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"OU ID", "OU Name", "Service", "Amount", "Currency", "Period"},
		{"ou-1", "Engineering", "Amazon EC2", "12.50", "USD", ""},
		{"", "Grand Total", "", "12.50", "", ""},
	}, records)
}

func TestExportToJSON(t *testing.T) {
	path, err := NewExportRepository(fixedNow).ExportToJSON(groupedReport(), "billing", t.TempDir())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded entity.BillingReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.IsGrouped())
	require.Len(t, decoded.ByOU, 2)
	assert.Equal(t, "Marketing", decoded.ByOU[1].OU.Name)
	assert.Empty(t, decoded.ByOU[1].Items)
}

func TestExportToPDF(t *testing.T) {
	for name, report := range map[string]entity.BillingReport{"flat": flatReport(), "grouped": groupedReport()} {
		t.Run(name, func(t *testing.T) {
			path, err := NewExportRepository(fixedNow).ExportToPDF(report, "billing", t.TempDir())
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "%PDF", string(data[:4]))
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "Amazon S3", stripANSI("\x1b[31mAmazon S3\x1b[0m"))
	assert.Equal(t, "plain", stripANSI("plain"))
}
