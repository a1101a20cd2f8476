package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type RoomRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, roomID string) (*types.Room, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Room, error)
	Update(ctx context.Context, tx *gorm.DB, roomID string, residentName string, mode string) error
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, baseLog *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: baseLog.With("repo", "RoomRepo")}
}

func (r *roomRepo) GetByID(ctx context.Context, tx *gorm.DB, roomID string) (*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var room types.Room
	if err := transaction.WithContext(ctx).
		Where("room_id = ?", roomID).
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Room
	if err := transaction.WithContext(ctx).
		Order("room_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roomRepo) Update(ctx context.Context, tx *gorm.DB, roomID string, residentName string, mode string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Model(&types.Room{}).
		Where("room_id = ?", roomID).
		Updates(map[string]interface{}{
			"resident_name": residentName,
			"mode":          mode,
		}).Error
}
