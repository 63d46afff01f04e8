package repository

import (
	"context"
	"time"

	"signrecipes/internal/model"

	"gorm.io/gorm"
)

// SessionRepository covers the chat-layer tables the engine touches: it writes
// session/usage rows alongside recipe proposals and the sweeper deletes them.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *model.ChatSession) error
	CreateUsage(ctx context.Context, u *model.UsageLog) error
	CountSessions(ctx context.Context) (int64, error)
	CountSessionsSince(ctx context.Context, since time.Time) (int64, error)

	// DeleteSessionsBefore removes sessions created strictly before cutoff.
	DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteOrphanUsage removes usage rows whose session no longer exists.
	DeleteOrphanUsage(ctx context.Context) (int64, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) CreateSession(ctx context.Context, s *model.ChatSession) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *sessionRepo) CreateUsage(ctx context.Context, u *model.UsageLog) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *sessionRepo) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.ChatSession{}).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *sessionRepo) CountSessionsSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.ChatSession{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (r *sessionRepo) DeleteSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.ChatSession{})
	return res.RowsAffected, translate(res.Error)
}

func (r *sessionRepo) DeleteOrphanUsage(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("session_id NOT IN (?)", r.db.Model(&model.ChatSession{}).Select("session_id")).
		Delete(&model.UsageLog{})
	return res.RowsAffected, translate(res.Error)
}
