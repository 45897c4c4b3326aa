package emittermock

import "sync"

type NotifyCall struct {
	UserID, Message, Category, RelatedLoanID string
}

type AuditCall struct {
	ActorID, Action, Details string
}

// Emitter records every call; safe for concurrent use.
type Emitter struct {
	mu      sync.Mutex
	Notifys []NotifyCall
	Audits  []AuditCall
}

func (m *Emitter) Notify(userID, message, category, relatedLoanID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notifys = append(m.Notifys, NotifyCall{userID, message, category, relatedLoanID})
}

func (m *Emitter) Audit(actorID, action, details string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Audits = append(m.Audits, AuditCall{actorID, action, details})
}

func (m *Emitter) NotifyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notifys)
}

func (m *Emitter) AuditCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Audits)
}
