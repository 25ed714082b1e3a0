package postgres

import (
	"time"

	"github.com/google/uuid"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/internal/domain/activation"
)

type AccountDTO struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	PassHash  []byte
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func DomainToAccountDTO(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:        uuid.UUID(a.ID()),
		Email:     a.Email(),
		FirstName: a.FirstName(),
		LastName:  a.LastName(),
		PassHash:  a.PassHash(),
		IsActive:  a.IsActive(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func AccountToDomain(dto AccountDTO) *account.Account {
	return account.Rehydrate(account.RehydrateArgs{
		ID:        account.ID(dto.ID),
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		PassHash:  dto.PassHash,
		Active:    dto.IsActive,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}

type ActivationRecordDTO struct {
	AccountID     uuid.UUID
	ActivationKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func DomainToActivationRecordDTO(r *activation.Record) ActivationRecordDTO {
	return ActivationRecordDTO{
		AccountID:     uuid.UUID(r.AccountID()),
		ActivationKey: r.Key(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func ActivationRecordToDomain(dto ActivationRecordDTO) *activation.Record {
	return activation.Rehydrate(activation.RehydrateArgs{
		AccountID: account.ID(dto.AccountID),
		Key:       dto.ActivationKey,
		CreatedAt: dto.CreatedAt,
		UpdatedAt: dto.UpdatedAt,
	})
}
