package mailevent

import (
	"errors"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	signupd "gitlab.com/signupd/signup-backend"
	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/event"
	"gitlab.com/signupd/signup-backend/tests/integration/fixtures"
	"gitlab.com/signupd/signup-backend/tests/mocks"
)

const (
	testActivationBaseURL = "http://localhost:5173/activate"
	testSiteName          = "signupd"
)

type MailSuite struct {
	Handler    *MailEventHandler
	MailSender *mocks.MockMailSender
}

func NewMailSuite(t *testing.T) *MailSuite {
	t.Helper()

	subjectTmpl, err := template.ParseFS(signupd.Templates, "templates/activation_subject.tmpl")
	require.NoError(t, err)
	bodyTmpl, err := template.ParseFS(signupd.Templates, "templates/activation_body.tmpl")
	require.NoError(t, err)

	mailsender := mocks.NewMockMailSender()
	handler := NewMailEventHandler(MailEventHandlerArgs{
		Mailsender:        mailsender,
		ActivationBaseURL: testActivationBaseURL,
		SiteName:          testSiteName,
		ActivationWindow:  3 * 24 * time.Hour,
		SubjectTemplate:   subjectTmpl,
		BodyTemplate:      bodyTmpl,
	})

	return &MailSuite{
		Handler:    handler,
		MailSender: mailsender,
	}
}

func accountRegisteredEvent() *account.AccountRegistered {
	return &account.AccountRegistered{
		Header:        event.NewEventHeader(),
		AccountID:     fixtures.TestAccount.ID,
		Email:         fixtures.TestAccount.Email,
		FirstName:     fixtures.TestAccount.FirstName,
		LastName:      fixtures.TestAccount.LastName,
		ActivationKey: fixtures.ValidActivationKey,
	}
}

func TestHandleAccountRegistered_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)

	err := s.Handler.HandleAccountRegistered(t.Context(), accountRegisteredEvent())
	require.NoError(t, err)

	sent := s.MailSender.GetSentMails()
	require.Len(t, sent, 1)

	assert.Equal(t, fixtures.TestAccount.Email, sent[0].To)
	assert.Equal(t, "Activate your signupd account", sent[0].Subject)

	assert.Contains(t, sent[0].Body, "Hello Jane Doe")
	assert.Contains(t, sent[0].Body, testActivationBaseURL+"/"+fixtures.ValidActivationKey)
	assert.Contains(t, sent[0].Body, fixtures.ValidActivationKey)
	assert.Contains(t, sent[0].Body, "within 3 days")
}

func TestHandleAccountRegistered_NilEvent(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)

	err := s.Handler.HandleAccountRegistered(t.Context(), nil)
	require.NoError(t, err)

	s.MailSender.AssertNoMailSent(t)
}

func TestHandleAccountRegistered_InvalidEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*account.AccountRegistered)
	}{
		{
			name:   "Missing Email",
			mutate: func(e *account.AccountRegistered) { e.Email = "" },
		},
		{
			name:   "Malformed Email",
			mutate: func(e *account.AccountRegistered) { e.Email = fixtures.InvalidEmail },
		},
		{
			name:   "Missing Activation Key",
			mutate: func(e *account.AccountRegistered) { e.ActivationKey = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewMailSuite(t)
			e := accountRegisteredEvent()
			tt.mutate(e)

			err := s.Handler.HandleAccountRegistered(t.Context(), e)
			require.Error(t, err)

			s.MailSender.AssertNoMailSent(t)
		})
	}
}

func TestHandleAccountRegistered_SenderFailure(t *testing.T) {
	t.Parallel()

	s := NewMailSuite(t)
	smtpErr := errors.New("smtp connection refused")
	s.MailSender.FailWith(smtpErr)

	// The error must reach the message router so delivery is retried.
	err := s.Handler.HandleAccountRegistered(t.Context(), accountRegisteredEvent())
	require.ErrorIs(t, err, smtpErr)
}

func TestHandleAccountRegistered_SubjectStaysSingleLine(t *testing.T) {
	t.Parallel()

	subjectTmpl := template.Must(template.New("subject").Parse("Activate\nyour {{.SiteName}}\naccount\n"))
	bodyTmpl := template.Must(template.New("body").Parse("{{.ActivationURL}}"))

	mailsender := mocks.NewMockMailSender()
	handler := NewMailEventHandler(MailEventHandlerArgs{
		Mailsender:        mailsender,
		ActivationBaseURL: testActivationBaseURL,
		SiteName:          testSiteName,
		ActivationWindow:  3 * 24 * time.Hour,
		SubjectTemplate:   subjectTmpl,
		BodyTemplate:      bodyTmpl,
	})

	err := handler.HandleAccountRegistered(t.Context(), accountRegisteredEvent())
	require.NoError(t, err)

	sent := mailsender.GetSentMails()
	require.Len(t, sent, 1)
	assert.Equal(t, "Activate your signupd account", sent[0].Subject)
}

func TestActivationURL(t *testing.T) {
	t.Parallel()

	key := fixtures.ValidActivationKey

	assert.Equal(t, "http://localhost:5173/activate/"+key, ActivationURL("http://localhost:5173/activate", key))
	assert.Equal(t, "http://localhost:5173/activate/"+key, ActivationURL("http://localhost:5173/activate/", key))
}
