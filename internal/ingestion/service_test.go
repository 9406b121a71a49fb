package ingestion

import (
	"context"
	"testing"

	"opps-backend/internal/models"
	"opps-backend/internal/opportunities"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupImporter(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Opportunity{},
		&models.OpportunityRevision{},
		&models.ForecastRevision{},
	))
	return &Service{Opportunities: &opportunities.Service{DB: db}}, db
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestImportXLSX(t *testing.T) {
	svc, db := setupImporter(t)

	payload := buildWorkbook(t, [][]interface{}{
		{"Project Name", "Client", "Final Amt", "Mystery Column"},
		{"Alpha", "Acme", "1,000", "ignored"},
		{"", "", "", ""},
		{"Beta", "Globex", "", "also ignored"},
	})

	by := "importer@example.com"
	result, err := svc.ImportXLSX(context.Background(), payload, &by)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	var opps []models.Opportunity
	require.NoError(t, db.Order("project_name ASC").Find(&opps).Error)
	require.Len(t, opps, 2)
	assert.Equal(t, "Alpha", *opps[0].ProjectName)
	assert.Equal(t, "Acme", *opps[0].Client)
	assert.Equal(t, "1,000", *opps[0].FinalAmt)
	assert.NotEmpty(t, opps[0].UID)

	// Each imported row gets its initial revision, attributed to the importer.
	var revs []models.OpportunityRevision
	require.NoError(t, db.Find(&revs).Error)
	require.Len(t, revs, 2)
	assert.Equal(t, by, *revs[0].ChangedBy)
}

func TestImportXLSXSkipsUnmappedRows(t *testing.T) {
	svc, _ := setupImporter(t)

	payload := buildWorkbook(t, [][]interface{}{
		{"Unknown A", "Unknown B"},
		{"x", "y"},
	})

	result, err := svc.ImportXLSX(context.Background(), payload, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
}

func TestImportXLSXRejectsGarbage(t *testing.T) {
	svc, _ := setupImporter(t)
	_, err := svc.ImportXLSX(context.Background(), []byte("not a workbook"), nil)
	require.Error(t, err)
}
