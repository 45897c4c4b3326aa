// Package emitter produces the best-effort side effects that follow a
// committed state transition: a notification to the affected client and an
// audit record. Callers invoke it after their own write has committed;
// failures here are logged and never reach the caller.
package emitter

import (
	"context"
	"log/slog"
	"time"

	"microlend/pkg/id"
)

type Notification struct {
	ID             uint64    `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string    `gorm:"column:notification_id;size:32;uniqueIndex:ux_notifications_public_id" json:"notificationId"`
	UserID         string    `gorm:"column:user_id;size:32;index:idx_notifications_user" json:"userId"`
	Message        string    `gorm:"column:message;type:text" json:"message"`
	Category       string    `gorm:"column:category;size:32" json:"category"`
	RelatedLoanID  string    `gorm:"column:related_loan_id;size:32" json:"relatedLoanId,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string { return "notifications" }

type AuditRecord struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActorID   string    `gorm:"column:actor_id;size:32;index:idx_audit_actor" json:"actorId"`
	Action    string    `gorm:"column:action;size:64" json:"action"`
	Details   string    `gorm:"column:details;type:text" json:"details"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AuditRecord) TableName() string { return "audit_records" }

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}

type AuditRepository interface {
	Create(ctx context.Context, rec *AuditRecord) error
}

// Emitter is what the workflow usecases depend on.
type Emitter interface {
	Notify(userID, message, category, relatedLoanID string)
	Audit(actorID, action, details string)
}

type Service struct {
	notifications NotificationRepository
	audits        AuditRepository
	log           *slog.Logger
	timeout       time.Duration
}

func NewService(n NotificationRepository, a AuditRepository, log *slog.Logger) *Service {
	return &Service{notifications: n, audits: a, log: log, timeout: 2 * time.Second}
}

// Notify writes a notification record. It runs on a detached, time-bounded
// context: the triggering transition has already committed, so a dead store
// here must not fail the caller.
func (s *Service) Notify(userID, message, category, relatedLoanID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	n := &Notification{
		NotificationID: id.NewID32(),
		UserID:         userID,
		Message:        message,
		Category:       category,
		RelatedLoanID:  relatedLoanID,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.log.Error("notification emit failed", "user_id", userID, "category", category, "err", err)
	}
}

// Audit writes an audit record, same failure semantics as Notify.
func (s *Service) Audit(actorID, action, details string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	rec := &AuditRecord{ActorID: actorID, Action: action, Details: details}
	if err := s.audits.Create(ctx, rec); err != nil {
		s.log.Error("audit emit failed", "actor_id", actorID, "action", action, "err", err)
	}
}
