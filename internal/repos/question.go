package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error)
	ListByRoom(ctx context.Context, tx *gorm.DB, roomID string, limit int) ([]*types.Question, error)
	CountOrientationSince(ctx context.Context, tx *gorm.DB, roomID string, since time.Time) (int64, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, question *types.Question) (*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now().UTC()
	}

	if err := transaction.WithContext(ctx).Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

func (r *questionRepo) ListByRoom(ctx context.Context, tx *gorm.DB, roomID string, limit int) ([]*types.Question, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var results []*types.Question
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountOrientationSince counts recent questions that look like orientation
// checks (where am I, what time, what day). A rising count is an early signal
// of confusion that staff review on the dashboard.
func (r *questionRepo) CountOrientationSince(ctx context.Context, tx *gorm.DB, roomID string, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Question{}).
		Where("room_id = ? AND created_at >= ?", roomID, since).
		Where("lower(question) LIKE ? OR lower(question) LIKE ? OR lower(question) LIKE ?",
			"%where am i%", "%what time%", "%what day%").
		Count(&count).Error
	return count, err
}
