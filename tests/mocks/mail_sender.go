package mocks

import (
	"context"
	"strings"
	"sync"
	"testing"

	"gitlab.com/signupd/signup-backend/internal/domain/valueobject/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
	failErr   error
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failErr != nil {
		return m.failErr
	}

	m.sentMails = append(m.sentMails, mails.Payload{
		To:      payload.To,
		Subject: payload.Subject,
		Body:    payload.Body,
	})
	return nil
}

// FailWith makes every subsequent SendMail return err. Pass nil to
// restore normal delivery.
func (m *MockMailSender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failErr = err
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
	m.failErr = nil
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()

	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("no mail to %q with subject containing %q was sent", email, subject)
}

func (m *MockMailSender) AssertNoMailSent(t *testing.T) {
	t.Helper()

	if sent := m.GetSentMails(); len(sent) != 0 {
		t.Errorf("expected no mails to be sent, but got %d", len(sent))
	}
}
