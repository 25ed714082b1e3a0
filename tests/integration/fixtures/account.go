package fixtures

import (
	"strings"

	"github.com/google/uuid"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
)

// Test emails
const (
	ValidAccountEmail  = "jane.doe@test.com"
	ValidAccount2Email = "john.roe@test.com"
	ValidAccount3Email = "ada.byron@test.com"
	ValidAccount4Email = "alan.turing@test.com"
	ValidExternalEmail = "external@gmail.com"
	InvalidEmail       = "notanemail"
	BannedDomainEmail  = "spam@mailinator.com"
)

// Test activation keys, 40 lowercase hex characters like issued ones
const (
	ValidActivationKey     = "f3a9c0d1e2b4a5968778695a4b3c2d1e0f9a8b7c"
	ValidActivation2Key    = "0123456789abcdef0123456789abcdef01234567"
	UnknownActivationKey   = "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	MalformedActivationKey = "not-a-valid-activation-key"
)

var (
	InvalidLongFirstName = strings.Repeat("A", account.MaxNameLen+1)
	InvalidLongLastName  = strings.Repeat("B", account.MaxNameLen+1)
)

// Test accounts
var (
	TestAccount = struct {
		ID        account.ID
		Email     string
		FirstName string
		LastName  string
		Password  string
	}{
		ID:        account.ID(uuid.MustParse("990e8400-e29b-41d4-a716-446655440000")),
		Email:     ValidAccountEmail,
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "SecurePass123!",
	}

	TestAccount2 = struct {
		ID        account.ID
		Email     string
		FirstName string
		LastName  string
		Password  string
	}{
		ID:        account.ID(uuid.MustParse("990e8400-e29b-41d4-a716-446655440001")),
		Email:     ValidAccount2Email,
		FirstName: "John",
		LastName:  "Roe",
		Password:  "AnotherPass123!",
	}
)
