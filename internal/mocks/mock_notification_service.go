package mocks

import (
	"context"
	"sync"

	"github.com/kunalkv2000/reset-password/domain"
)

// SentEmail is one message captured by MockNotificationService
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// MockNotificationService implements domain.NotificationService interface for testing.
// Every message is recorded, including ones SendEmailFunc rejects.
type MockNotificationService struct {
	SendEmailFunc func(ctx context.Context, to, subject, body string) error

	mu   sync.Mutex
	sent []SentEmail
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendEmail sends an email message
func (m *MockNotificationService) SendEmail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, Body: body})
	m.mu.Unlock()

	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	// Default behavior: success (no actual email sent in tests)
	return nil
}

// Sent returns a copy of every captured message
func (m *MockNotificationService) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent message sent to the recipient
func (m *MockNotificationService) Last(to string) (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == to {
			return m.sent[i], true
		}
	}
	return SentEmail{}, false
}

// Compile-time interface compliance verification
var _ domain.NotificationService = (*MockNotificationService)(nil)
