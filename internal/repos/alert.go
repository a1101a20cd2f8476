package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type AlertFilter struct {
	Status   string
	RoomID   string
	Severity string
	Limit    int
}

type AlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Alert, error)
	List(ctx context.Context, tx *gorm.DB, filter AlertFilter) ([]*types.Alert, error)
	Acknowledge(ctx context.Context, tx *gorm.DB, id uuid.UUID, staffName string, notes *string) error
	Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, staffName string, notes *string) error
	CountHelpSince(ctx context.Context, tx *gorm.DB, roomID string, since time.Time) (int64, error)
	CountActive(ctx context.Context, tx *gorm.DB, roomID string) (int64, error)
	LatestActiveSeverity(ctx context.Context, tx *gorm.DB, roomID string) (string, error)
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return &alertRepo{db: db, log: baseLog.With("repo", "AlertRepo")}
}

func (r *alertRepo) Create(ctx context.Context, tx *gorm.DB, alert *types.Alert) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	if alert.Status == "" {
		alert.Status = types.AlertStatusNew
	}

	if err := transaction.WithContext(ctx).Create(alert).Error; err != nil {
		return nil, err
	}
	return alert, nil
}

func (r *alertRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var alert types.Alert
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) List(ctx context.Context, tx *gorm.DB, filter AlertFilter) ([]*types.Alert, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).Model(&types.Alert{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.RoomID != "" {
		q = q.Where("room_id = ?", filter.RoomID)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var results []*types.Alert
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Acknowledge transitions new -> ack. Acknowledging an alert that has already
// left the new state is a no-op, so two nurses racing on the same alert do
// not clobber each other's attribution.
func (r *alertRepo) Acknowledge(ctx context.Context, tx *gorm.DB, id uuid.UUID, staffName string, notes *string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":          types.AlertStatusAck,
		"acknowledged_at": now,
		"acknowledged_by": staffName,
	}
	if notes != nil && *notes != "" {
		updates["notes"] = *notes
	}

	return transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("id = ? AND status = ?", id, types.AlertStatusNew).
		Updates(updates).Error
}

func (r *alertRepo) Resolve(ctx context.Context, tx *gorm.DB, id uuid.UUID, staffName string, notes *string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var alert types.Alert
		if err := txn.Where("id = ?", id).First(&alert).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":      types.AlertStatusResolved,
			"resolved_at": now,
			"resolved_by": staffName,
		}
		if notes != nil && *notes != "" {
			merged := *notes
			if alert.Notes != nil && *alert.Notes != "" {
				merged = *alert.Notes + "\n" + merged
			}
			updates["notes"] = merged
		}

		return txn.Model(&types.Alert{}).Where("id = ?", id).Updates(updates).Error
	})
}

func (r *alertRepo) CountHelpSince(ctx context.Context, tx *gorm.DB, roomID string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("room_id = ? AND type = ? AND created_at >= ?", roomID, types.AlertTypeHelp, since).
		Count(&count).Error
	return count, err
}

func (r *alertRepo) CountActive(ctx context.Context, tx *gorm.DB, roomID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Alert{}).
		Where("room_id = ? AND status != ?", roomID, types.AlertStatusResolved).
		Count(&count).Error
	return count, err
}

func (r *alertRepo) LatestActiveSeverity(ctx context.Context, tx *gorm.DB, roomID string) (string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var alert types.Alert
	err := transaction.WithContext(ctx).
		Where("room_id = ? AND status != ?", roomID, types.AlertStatusResolved).
		Order("created_at DESC").
		First(&alert).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}
	return alert.Severity, nil
}
