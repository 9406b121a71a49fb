package opportunities

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"opps-backend/internal/models"
	"opps-backend/internal/pkg/fieldmap"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when the target uid does not exist. No side
	// effects have happened when it surfaces.
	ErrNotFound = errors.New("Opportunity not found.")
	// ErrNoFields is returned when an update carries no usable fields after
	// stripping reserved keys. Rejected before any transaction opens.
	ErrNoFields = errors.New("No data provided for update.")
)

// revisionKey is the composite ledger identity for upserts.
var revisionKey = []clause.Column{{Name: "opportunity_uid"}, {Name: "revision_number"}}

type Service struct {
	DB *gorm.DB
}

// GetAllOpportunities returns every record in the grid table.
func (s *Service) GetAllOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	if err := s.DB.WithContext(ctx).Find(&opps).Error; err != nil {
		return nil, err
	}
	return opps, nil
}

// CreateOpportunity inserts a new record with a server-generated uid and,
// atomically with it, the single revision-ledger row for the revision number
// the payload implies (0 when rev is absent or non-numeric).
func (s *Service) CreateOpportunity(ctx context.Context, fields map[string]interface{}, changedBy *string) (map[string]interface{}, error) {
	clean := sanitizeFields(fields)
	uid := uuid.New().String()
	clean["uid"] = uid

	var created map[string]interface{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Opportunity{}).Create(clean).Error; err != nil {
			return err
		}
		created = map[string]interface{}{}
		if err := tx.Model(&models.Opportunity{}).Where("uid = ?", uid).Take(&created).Error; err != nil {
			return err
		}

		revNum, _ := revisionNumber(created["rev"])
		snap := datatypes.JSONMap(buildSnapshot(created))
		return tx.Create(&models.OpportunityRevision{
			OpportunityUID: uid,
			RevisionNumber: revNum,
			ChangedBy:      changedBy,
			ChangedAt:      time.Now().UTC(),
			ChangedFields:  snap,
			FullSnapshot:   snap,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateOpportunity applies a partial field update and maintains both
// ledgers inside one transaction holding a write lock on the record:
//
//  1. load current row (lock),
//  2. log a forecast_date change before the main update so the old value is
//     guaranteed to be the pre-update one,
//  3. derive old/new revision numbers from the caller-controlled rev field,
//  4. update exactly the supplied columns,
//  5. if the revision number changed, seal the previous revision's snapshot
//     with insert-if-absent — a sealed revision is never overwritten,
//  6. upsert the current revision's row with the post-update snapshot.
//
// Any failure rolls the whole thing back: no partial ledger writes, no
// half-applied field updates.
func (s *Service) UpdateOpportunity(ctx context.Context, uid string, fields map[string]interface{}, changedBy *string) (map[string]interface{}, error) {
	clean := sanitizeFields(fields)
	if len(clean) == 0 {
		return nil, ErrNoFields
	}

	var updated map[string]interface{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := lockRow(tx, uid)
		if err != nil {
			return err
		}

		oldForecast := asString(current["forecast_date"])
		newForecast := ""
		if v, ok := clean["forecast_date"]; ok {
			newForecast = asString(v)
		}
		if newForecast != "" && newForecast != oldForecast {
			fr := models.ForecastRevision{
				OpportunityUID:  uid,
				NewForecastDate: newForecast,
				ChangedBy:       changedBy,
				ChangedAt:       time.Now().UTC(),
			}
			if oldForecast != "" {
				fr.OldForecastDate = &oldForecast
			}
			if err := tx.Create(&fr).Error; err != nil {
				return err
			}
		}

		oldRev, _ := revisionNumber(current["rev"])
		newRev := oldRev
		if v, ok := clean["rev"]; ok {
			if n, numeric := revisionNumber(v); numeric {
				newRev = n
			}
		}

		prevSnapshot := datatypes.JSONMap(buildSnapshot(current))

		if err := tx.Model(&models.Opportunity{}).Where("uid = ?", uid).Updates(clean).Error; err != nil {
			return err
		}
		updated = map[string]interface{}{}
		if err := tx.Model(&models.Opportunity{}).Where("uid = ?", uid).Take(&updated).Error; err != nil {
			return err
		}
		updatedSnapshot := datatypes.JSONMap(buildSnapshot(updated))

		now := time.Now().UTC()
		if newRev != oldRev {
			// Seal the pre-update state under the old number. Insert-if-absent:
			// a retried or concurrent write must not clobber a snapshot another
			// successful write already sealed for the same revision.
			sealed := models.OpportunityRevision{
				OpportunityUID: uid,
				RevisionNumber: oldRev,
				ChangedBy:      changedBy,
				ChangedAt:      now,
				ChangedFields:  prevSnapshot,
				FullSnapshot:   prevSnapshot,
			}
			if err := tx.Clauses(clause.OnConflict{Columns: revisionKey, DoNothing: true}).Create(&sealed).Error; err != nil {
				return err
			}
		}

		// The current revision's row always reflects the latest state within
		// that revision.
		currentRow := models.OpportunityRevision{
			OpportunityUID: uid,
			RevisionNumber: newRev,
			ChangedBy:      changedBy,
			ChangedAt:      now,
			ChangedFields:  updatedSnapshot,
			FullSnapshot:   updatedSnapshot,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   revisionKey,
			DoUpdates: clause.AssignmentColumns([]string{"changed_by", "changed_at", "changed_fields", "full_snapshot"}),
		}).Create(&currentRow).Error
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOpportunity removes the record and both ledgers' rows for it in one
// transaction. The cascade is enforced here, not by foreign keys.
func (s *Service) DeleteOpportunity(ctx context.Context, uid string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_uid = ?", uid).Delete(&models.OpportunityRevision{}).Error; err != nil {
			return err
		}
		if err := tx.Where("opportunity_uid = ?", uid).Delete(&models.ForecastRevision{}).Error; err != nil {
			return err
		}
		res := tx.Where("uid = ?", uid).Delete(&models.Opportunity{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Rolls back the ledger deletes above.
			return ErrNotFound
		}
		return nil
	})
}

// GetRevisions returns the revision ledger for one record, oldest first.
func (s *Service) GetRevisions(ctx context.Context, uid string) ([]models.OpportunityRevision, error) {
	var revs []models.OpportunityRevision
	if err := s.DB.WithContext(ctx).
		Where("opportunity_uid = ?", uid).
		Order("revision_number ASC, changed_at ASC").
		Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

// GetForecastRevisions returns the forecast-change ledger for one record in
// write order.
func (s *Service) GetForecastRevisions(ctx context.Context, uid string) ([]models.ForecastRevision, error) {
	var revs []models.ForecastRevision
	if err := s.DB.WithContext(ctx).
		Where("opportunity_uid = ?", uid).
		Order("changed_at ASC, id ASC").
		Find(&revs).Error; err != nil {
		return nil, err
	}
	return revs, nil
}

// lockRow loads the record with a write-intent lock so concurrent updates to
// the same uid serialize behind each other. SQLite (the test driver) rejects
// FOR UPDATE and serializes writers on its own, so the clause is
// postgres-only.
func lockRow(tx *gorm.DB, uid string) (map[string]interface{}, error) {
	q := tx.Model(&models.Opportunity{})
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	row := map[string]interface{}{}
	if err := q.Where("uid = ?", uid).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

// sanitizeFields strips the reserved keys (uid in any casing, changed_by) and
// normalizes values for the text columns: empty or whitespace-only strings
// become nil, other scalars become strings.
func sanitizeFields(fields map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch fieldmap.Normalize(k) {
		case "uid", "changedby":
			continue
		}
		clean[k] = normalizeValue(v)
	}
	return clean
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return v
	}
}

// revisionNumber parses a rev value. Non-numeric is not an error: updates
// fall back to the previous revision number and creation falls back to 0.
// Rows scanned through the model carry *string values, payloads plain
// scalars; both arrive here.
func revisionNumber(v interface{}) (int, bool) {
	switch t := v.(type) {
	case *string:
		if t == nil {
			return 0, false
		}
		return revisionNumber(*t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	default:
		return 0, false
	}
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}
