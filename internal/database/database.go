package database

import (
	"opps-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// when running behind connection poolers (PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate creates the opportunity table, both ledgers and the Users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Opportunity{},
		&models.OpportunityRevision{},
		&models.ForecastRevision{},
		&models.User{},
	)
}
