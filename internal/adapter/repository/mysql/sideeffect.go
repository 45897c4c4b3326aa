package mysql

import (
	"context"

	"gorm.io/gorm"

	"microlend/internal/emitter"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *emitter.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, rec *emitter.AuditRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}
