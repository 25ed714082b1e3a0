package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/signupd/signup-backend/internal/domain/event"
)

const PasswordCostFactor = 12 // Future-proofing; default is 10 in 2025.08.18

const (
	MaxNameLen  = 30
	MaxEmailLen = 254
)

type ID uuid.UUID

func NewID() ID {
	return ID(uuid.New())
}

func ParseID(s string) (ID, error) {
	uid, err := uuid.Parse(s)
	if err != nil {
		return ID(uuid.Nil), fmt.Errorf("failed to parse account id: %w", err)
	}
	return ID(uid), nil
}

func (id ID) String() string {
	return uuid.UUID(id).String()
}

func (id ID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uuid.UUID(id).String())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	uid, err := uuid.Parse(s)
	if err != nil {
		return err
	}

	*id = ID(uid)
	return nil
}

// Account is a registered user. It starts inactive and becomes active only
// through activation; until then it cannot be treated as verified.
type Account struct {
	event.Recorder
	id        ID
	email     string
	firstName string
	lastName  string
	passHash  []byte
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

type NewAccountArgs struct {
	ID            ID
	Email         string
	FirstName     string
	LastName      string
	PassHash      []byte
	ActivationKey string
}

// NewAccount creates an inactive account and records AccountRegistered.
// The caller is expected to pass an already normalized email and a
// freshly generated activation key.
func NewAccount(p NewAccountArgs) (*Account, error) {
	if p.ID.IsZero() {
		return nil, ErrMissingID
	}
	if p.Email == "" {
		return nil, ErrMissingEmail
	}
	if len(p.Email) > MaxEmailLen {
		return nil, ErrEmailTooLong
	}
	if len(p.PassHash) == 0 {
		return nil, ErrMissingPassHash
	}
	if p.FirstName == "" {
		return nil, ErrMissingFirstName
	}
	if len([]rune(p.FirstName)) > MaxNameLen {
		return nil, ErrFirstNameTooLong
	}
	if p.LastName == "" {
		return nil, ErrMissingLastName
	}
	if len([]rune(p.LastName)) > MaxNameLen {
		return nil, ErrLastNameTooLong
	}
	if p.ActivationKey == "" {
		return nil, ErrMissingActivationKey
	}

	now := time.Now().UTC()

	acc := &Account{
		id:        p.ID,
		email:     p.Email,
		firstName: p.FirstName,
		lastName:  p.LastName,
		passHash:  p.PassHash,
		active:    false,
		createdAt: now,
		updatedAt: now,
	}

	acc.AddEvent(&AccountRegistered{
		Header:        event.NewEventHeader(),
		AccountID:     p.ID,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		ActivationKey: p.ActivationKey,
	})

	return acc, nil
}

type RehydrateArgs struct {
	ID        ID
	Email     string
	FirstName string
	LastName  string
	PassHash  []byte
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Rehydrate(p RehydrateArgs) *Account {
	return &Account{
		id:        p.ID,
		email:     p.Email,
		firstName: p.FirstName,
		lastName:  p.LastName,
		passHash:  p.PassHash,
		active:    p.Active,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}
}

// Activate flips the account to active exactly once and records
// AccountActivated. A second call fails with ErrAlreadyActivated.
func (a *Account) Activate() error {
	if a == nil {
		return errors.New("account is nil")
	}
	if a.active {
		return ErrAlreadyActivated
	}

	a.active = true
	a.updatedAt = time.Now().UTC()

	a.AddEvent(&AccountActivated{
		Header:    event.NewEventHeader(),
		AccountID: a.id,
		Email:     a.email,
	})

	return nil
}

func (a *Account) ComparePassword(password string) error {
	if a == nil {
		return errors.New("account is nil")
	}
	return bcrypt.CompareHashAndPassword(a.passHash, []byte(password))
}

func (a *Account) ID() ID {
	if a == nil {
		return ID(uuid.Nil)
	}

	return a.id
}

func (a *Account) Email() string {
	if a == nil {
		return ""
	}

	return a.email
}

func (a *Account) FirstName() string {
	if a == nil {
		return ""
	}

	return a.firstName
}

func (a *Account) LastName() string {
	if a == nil {
		return ""
	}

	return a.lastName
}

func (a *Account) PassHash() []byte {
	if a == nil {
		return nil
	}

	return a.passHash
}

func (a *Account) IsActive() bool {
	if a == nil {
		return false
	}

	return a.active
}

func (a *Account) CreatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.createdAt
}

func (a *Account) UpdatedAt() time.Time {
	if a == nil {
		return time.Time{}
	}

	return a.updatedAt
}

func NewPasswordHash(password string) ([]byte, error) {
	passhash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCostFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password hash from password: %w", err)
	}
	return passhash, nil
}
