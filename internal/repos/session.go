package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error)
	GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.Session, error)
	Delete(ctx context.Context, tx *gorm.DB, token string) error
	DeleteByStaffID(ctx context.Context, tx *gorm.DB, staffID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx *gorm.DB) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *sessionRepo) GetByToken(ctx context.Context, tx *gorm.DB, token string) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var session types.Session
	if err := transaction.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) Delete(ctx context.Context, tx *gorm.DB, token string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("token = ?", token).
		Delete(&types.Session{}).Error
}

func (r *sessionRepo) DeleteByStaffID(ctx context.Context, tx *gorm.DB, staffID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Delete(&types.Session{}).Error
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&types.Session{}).Error
}
