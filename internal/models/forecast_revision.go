package models

import "time"

// ForecastRevision is one append-only row of the forecast-change ledger:
// written whenever forecast_date actually changes to a non-empty value,
// independent of the revision counter. No upsert, no dedup.
type ForecastRevision struct {
	ID              int64     `gorm:"column:id;primaryKey" json:"id"`
	OpportunityUID  string    `gorm:"column:opportunity_uid;not null;index" json:"opportunity_uid"`
	OldForecastDate *string   `gorm:"column:old_forecast_date" json:"old_forecast_date"`
	NewForecastDate string    `gorm:"column:new_forecast_date;not null" json:"new_forecast_date"`
	ChangedBy       *string   `gorm:"column:changed_by" json:"changed_by"`
	ChangedAt       time.Time `gorm:"column:changed_at;not null" json:"changed_at"`
	Comment         *string   `gorm:"column:comment" json:"comment"`
}

func (ForecastRevision) TableName() string {
	return "forecast_revisions"
}
