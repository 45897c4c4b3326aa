package emitter

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type notifRepoMock struct {
	createFn func(ctx context.Context, n *Notification) error
}

func (m *notifRepoMock) Create(ctx context.Context, n *Notification) error {
	return m.createFn(ctx, n)
}

type auditRepoMock struct {
	createFn func(ctx context.Context, rec *AuditRecord) error
}

func (m *auditRepoMock) Create(ctx context.Context, rec *AuditRecord) error {
	return m.createFn(ctx, rec)
}

func TestNotify_WritesRecord(t *testing.T) {
	var got *Notification
	svc := NewService(
		&notifRepoMock{createFn: func(_ context.Context, n *Notification) error { got = n; return nil }},
		&auditRepoMock{createFn: func(context.Context, *AuditRecord) error { return nil }},
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	)

	svc.Notify("user-1", "your loan was approved", "loan.decision", "loan-1")

	if got == nil {
		t.Fatal("notification was not created")
	}
	if got.UserID != "user-1" || got.Category != "loan.decision" || got.RelatedLoanID != "loan-1" {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if len(got.NotificationID) != 32 {
		t.Fatalf("notification id = %q, want 32-char id", got.NotificationID)
	}
}

func TestNotify_FailureIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(
		&notifRepoMock{createFn: func(context.Context, *Notification) error { return errors.New("store down") }},
		&auditRepoMock{createFn: func(context.Context, *AuditRecord) error { return nil }},
		slog.New(slog.NewTextHandler(&buf, nil)),
	)

	// Must not panic or surface the error in any way.
	svc.Notify("user-1", "msg", "loan.decision", "loan-1")

	if !strings.Contains(buf.String(), "notification emit failed") {
		t.Fatalf("expected failure log, got: %s", buf.String())
	}
}

func TestAudit_WritesRecord(t *testing.T) {
	var got *AuditRecord
	svc := NewService(
		&notifRepoMock{createFn: func(context.Context, *Notification) error { return nil }},
		&auditRepoMock{createFn: func(_ context.Context, rec *AuditRecord) error { got = rec; return nil }},
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	)

	svc.Audit("reviewer-1", "loan.decision", `{"decision":"approved"}`)

	if got == nil {
		t.Fatal("audit record was not created")
	}
	if got.ActorID != "reviewer-1" || got.Action != "loan.decision" {
		t.Fatalf("unexpected audit record: %+v", got)
	}
}

func TestAudit_FailureIsLoggedNotPropagated(t *testing.T) {
	var buf bytes.Buffer
	svc := NewService(
		&notifRepoMock{createFn: func(context.Context, *Notification) error { return nil }},
		&auditRepoMock{createFn: func(context.Context, *AuditRecord) error { return errors.New("store down") }},
		slog.New(slog.NewTextHandler(&buf, nil)),
	)

	svc.Audit("reviewer-1", "loan.decision", "{}")

	if !strings.Contains(buf.String(), "audit emit failed") {
		t.Fatalf("expected failure log, got: %s", buf.String())
	}
}
