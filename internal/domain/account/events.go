package account

import "gitlab.com/signupd/signup-backend/internal/domain/event"

const EventStreamName = "accounts"

// AccountRegistered is recorded when a new inactive account is created.
// It carries the activation key so the mail consumer can compose the
// activation email without reading the store.
type AccountRegistered struct {
	event.Header
	event.Otel
	AccountID     ID     `json:"account_id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ActivationKey string `json:"activation_key"`
}

func (e *AccountRegistered) GetStreamName() string {
	return EventStreamName
}

// AccountActivated is recorded when an account flips to active. Nothing in
// this service consumes it; it is published for downstream systems.
type AccountActivated struct {
	event.Header
	event.Otel
	AccountID ID     `json:"account_id"`
	Email     string `json:"email"`
}

func (e *AccountActivated) GetStreamName() string {
	return EventStreamName
}
