package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type StaffUpdate struct {
	DisplayName  *string
	Role         *string
	PasswordHash *string
	IsActive     *bool
}

type StaffRepo interface {
	Create(ctx context.Context, tx *gorm.DB, staff *types.Staff) (*types.Staff, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.Staff, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Staff, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Staff, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, update StaffUpdate) error
	TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type staffRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStaffRepo(db *gorm.DB, baseLog *logger.Logger) StaffRepo {
	return &staffRepo{db: db, log: baseLog.With("repo", "StaffRepo")}
}

func (r *staffRepo) Create(ctx context.Context, tx *gorm.DB, staff *types.Staff) (*types.Staff, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = time.Now().UTC()
	}

	if err := transaction.WithContext(ctx).Create(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *staffRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*types.Staff, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var staff types.Staff
	if err := transaction.WithContext(ctx).
		Where("username = ?", username).
		First(&staff).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Staff, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var staff types.Staff
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&staff).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Staff, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Staff
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *staffRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, update StaffUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{}
	if update.DisplayName != nil {
		updates["display_name"] = *update.DisplayName
	}
	if update.Role != nil {
		updates["role"] = *update.Role
	}
	if update.PasswordHash != nil {
		updates["password_hash"] = *update.PasswordHash
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.Staff{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *staffRepo) TouchLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.Staff{}).
		Where("id = ?", id).
		Update("last_login_at", now).Error
}
