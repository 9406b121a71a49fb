package models

import (
	"time"

	"gorm.io/datatypes"
)

// OpportunityRevision is one logical entry of the revision ledger, keyed by
// (opportunity_uid, revision_number). The current revision's row is upserted
// on every update; a past revision's row is sealed with insert-if-absent and
// never touched again.
//
// changed_fields and full_snapshot both carry the fixed-field snapshot, the
// same way the original wrote them.
type OpportunityRevision struct {
	ID             uint              `gorm:"column:id;primaryKey" json:"-"`
	OpportunityUID string            `gorm:"column:opportunity_uid;not null;uniqueIndex:idx_opp_revision" json:"opportunity_uid"`
	RevisionNumber int               `gorm:"column:revision_number;not null;uniqueIndex:idx_opp_revision" json:"revision_number"`
	ChangedBy      *string           `gorm:"column:changed_by" json:"changed_by"`
	ChangedAt      time.Time         `gorm:"column:changed_at;not null" json:"changed_at"`
	ChangedFields  datatypes.JSONMap `gorm:"column:changed_fields" json:"changed_fields"`
	FullSnapshot   datatypes.JSONMap `gorm:"column:full_snapshot" json:"full_snapshot"`
}

func (OpportunityRevision) TableName() string {
	return "opportunity_revisions"
}
