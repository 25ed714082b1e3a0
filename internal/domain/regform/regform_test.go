package regform

import (
	"context"
	"errors"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/pkg/env"
	"gitlab.com/signupd/signup-backend/pkg/i18nx"
)

type stubChecker struct {
	taken     bool
	err       error
	calls     int
	lastEmail string
}

func (c *stubChecker) IsEmailTaken(_ context.Context, email string) (bool, error) {
	c.calls++
	c.lastEmail = email
	return c.taken, c.err
}

func validSubmission() Submission {
	return Submission{
		Email:           "jane.doe@example.com",
		Password:        "Sw0rdfish!",
		PasswordConfirm: "Sw0rdfish!",
		FirstName:       "Jane",
		LastName:        "Doe",
	}
}

func testForm(checker EmailChecker) *Form {
	return New(DefaultConfig(env.Test), checker)
}

// fieldCode digs the violation for field out of err and returns its code.
func fieldCode(t *testing.T, err error, field string) string {
	t.Helper()
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	fieldErr, ok := verrs[field]
	require.True(t, ok, "expected a violation for field %q, got %v", field, verrs)

	var verr validation.Error
	require.ErrorAs(t, fieldErr, &verr)
	return verr.Code()
}

func TestForm_Validate(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		checker := &stubChecker{}
		data, err := testForm(checker).Validate(context.Background(), validSubmission())
		require.NoError(t, err)

		assert.Equal(t, "jane.doe@example.com", data.Email)
		assert.Equal(t, "Sw0rdfish!", data.Password)
		assert.Equal(t, "Jane", data.FirstName)
		assert.Equal(t, "Doe", data.LastName)
		assert.Equal(t, 1, checker.calls)
	})

	t.Run("normalizes before validating", func(t *testing.T) {
		checker := &stubChecker{}
		sub := validSubmission()
		sub.Email = "  Jane.DOE@Example.COM "
		sub.FirstName = "  Jane\t"
		sub.LastName = " Doe "

		data, err := testForm(checker).Validate(context.Background(), sub)
		require.NoError(t, err)

		assert.Equal(t, "jane.doe@example.com", data.Email)
		assert.Equal(t, "Jane", data.FirstName)
		assert.Equal(t, "Doe", data.LastName)
		assert.Equal(t, "jane.doe@example.com", checker.lastEmail, "uniqueness lookup must see the normalized address")
	})

	t.Run("collects every violation at once", func(t *testing.T) {
		sub := Submission{
			Email:           "not-an-email",
			Password:        "short",
			PasswordConfirm: "",
			FirstName:       "",
			LastName:        strings.Repeat("a", account.MaxNameLen+1),
		}

		_, err := testForm(&stubChecker{}).Validate(context.Background(), sub)
		require.Error(t, err)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 5)
		assert.Contains(t, verrs, i18nx.FieldEmail)
		assert.Contains(t, verrs, i18nx.FieldPassword)
		assert.Contains(t, verrs, i18nx.FieldPasswordConfirm)
		assert.Contains(t, verrs, i18nx.FieldFirstName)
		assert.Contains(t, verrs, i18nx.FieldLastName)
	})
}

func TestForm_Validate_FieldRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Submission)
		field    string
		wantCode string
	}{
		{
			name:     "empty email",
			mutate:   func(s *Submission) { s.Email = "" },
			field:    i18nx.FieldEmail,
			wantCode: validation.ErrRequired.Code(),
		},
		{
			name:     "email without at sign",
			mutate:   func(s *Submission) { s.Email = "janedoe.example.com" },
			field:    i18nx.FieldEmail,
			wantCode: is.ErrEmail.Code(),
		},
		{
			name:     "email without dotted domain",
			mutate:   func(s *Submission) { s.Email = "jane@localhost" },
			field:    i18nx.FieldEmail,
			wantCode: is.ErrEmail.Code(),
		},
		{
			name:     "email too long",
			mutate:   func(s *Submission) { s.Email = strings.Repeat("a", 250) + "@example.com" },
			field:    i18nx.FieldEmail,
			wantCode: validation.ErrLengthOutOfRange.Code(),
		},
		{
			name:     "empty password",
			mutate:   func(s *Submission) { s.Password, s.PasswordConfirm = "", "" },
			field:    i18nx.FieldPassword,
			wantCode: validation.ErrRequired.Code(),
		},
		{
			name:     "password too short",
			mutate:   func(s *Submission) { s.Password, s.PasswordConfirm = "Sh0rt!", "Sh0rt!" },
			field:    i18nx.FieldPassword,
			wantCode: validation.ErrLengthOutOfRange.Code(),
		},
		{
			name:     "password without uppercase",
			mutate:   func(s *Submission) { s.Password, s.PasswordConfirm = "sw0rdfish!", "sw0rdfish!" },
			field:    i18nx.FieldPassword,
			wantCode: "validation_is_password",
		},
		{
			name:     "missing password confirmation",
			mutate:   func(s *Submission) { s.PasswordConfirm = "" },
			field:    i18nx.FieldPasswordConfirm,
			wantCode: validation.ErrRequired.Code(),
		},
		{
			name:     "empty first name",
			mutate:   func(s *Submission) { s.FirstName = "   " },
			field:    i18nx.FieldFirstName,
			wantCode: validation.ErrRequired.Code(),
		},
		{
			name:     "first name with digits",
			mutate:   func(s *Submission) { s.FirstName = "J4ne" },
			field:    i18nx.FieldFirstName,
			wantCode: "validation_is_name",
		},
		{
			name:     "last name too long",
			mutate:   func(s *Submission) { s.LastName = strings.Repeat("a", account.MaxNameLen+1) },
			field:    i18nx.FieldLastName,
			wantCode: validation.ErrLengthOutOfRange.Code(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			_, err := testForm(&stubChecker{}).Validate(context.Background(), sub)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, fieldCode(t, err, tt.field))
		})
	}
}

func TestForm_Validate_PasswordMismatch(t *testing.T) {
	t.Run("mismatch is a whole-form violation", func(t *testing.T) {
		sub := validSubmission()
		sub.PasswordConfirm = "Different1!"

		_, err := testForm(&stubChecker{}).Validate(context.Background(), sub)
		require.Error(t, err)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs, 1)
		assert.Equal(t, i18nx.KeyPasswordMismatch, fieldCode(t, err, i18nx.NonFieldKey))
		assert.NotContains(t, verrs, i18nx.FieldPassword)
	})

	t.Run("no mismatch when confirmation is missing", func(t *testing.T) {
		sub := validSubmission()
		sub.PasswordConfirm = ""

		_, err := testForm(&stubChecker{}).Validate(context.Background(), sub)
		require.Error(t, err)

		var verrs validation.Errors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs, i18nx.FieldPasswordConfirm)
		assert.NotContains(t, verrs, i18nx.NonFieldKey)
	})
}

func TestForm_Validate_EmailTaken(t *testing.T) {
	t.Run("taken address is a field violation", func(t *testing.T) {
		checker := &stubChecker{taken: true}

		_, err := testForm(checker).Validate(context.Background(), validSubmission())
		require.Error(t, err)
		assert.Equal(t, i18nx.KeyEmailNotAvailable, fieldCode(t, err, i18nx.FieldEmail))
	})

	t.Run("lookup error is not a validation verdict", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		checker := &stubChecker{err: dbErr}

		_, err := testForm(checker).Validate(context.Background(), validSubmission())
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)

		var verrs validation.Errors
		assert.False(t, errors.As(err, &verrs))
	})

	t.Run("skips lookup when the address is already invalid", func(t *testing.T) {
		checker := &stubChecker{taken: true}
		sub := validSubmission()
		sub.Email = "not-an-email"

		_, err := testForm(checker).Validate(context.Background(), sub)
		require.Error(t, err)
		assert.Equal(t, 0, checker.calls)
		assert.Equal(t, is.ErrEmail.Code(), fieldCode(t, err, i18nx.FieldEmail))
	})

	t.Run("skips lookup when uniqueness is not required", func(t *testing.T) {
		checker := &stubChecker{taken: true}
		cfg := DefaultConfig(env.Test)
		cfg.RequireUniqueEmail = false

		_, err := New(cfg, checker).Validate(context.Background(), validSubmission())
		require.NoError(t, err)
		assert.Equal(t, 0, checker.calls)
	})

	t.Run("nil checker skips lookup", func(t *testing.T) {
		_, err := testForm(nil).Validate(context.Background(), validSubmission())
		assert.NoError(t, err)
	})
}

func TestForm_Validate_RealTLD(t *testing.T) {
	tests := []struct {
		name    string
		mode    env.Mode
		email   string
		wantErr bool
	}{
		{name: "real tld in dev mode", mode: env.Dev, email: "jane@gmail.com", wantErr: false},
		{name: "fake tld in dev mode", mode: env.Dev, email: "jane@example.invalid", wantErr: true},
		{name: "fake tld in prod mode", mode: env.Prod, email: "jane@example.invalid", wantErr: true},
		{name: "bare public suffix in dev mode", mode: env.Dev, email: "jane@co.uk", wantErr: true},
		{name: "fake tld in test mode", mode: env.Test, email: "jane@example.invalid", wantErr: false},
		{name: "fake tld in local mode", mode: env.Local, email: "jane@example.invalid", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			sub.Email = tt.email

			_, err := New(DefaultConfig(tt.mode), &stubChecker{}).Validate(context.Background(), sub)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, is.ErrEmail.Code(), fieldCode(t, err, i18nx.FieldEmail))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestForm_Validate_BannedDomains(t *testing.T) {
	cfg := DefaultConfig(env.Test)
	cfg.BannedEmailDomains = []string{"Mailinator.COM", "tempmail.org"}
	form := New(cfg, &stubChecker{})

	t.Run("banned domain rejected regardless of case", func(t *testing.T) {
		sub := validSubmission()
		sub.Email = "jane@MAILINATOR.com"

		_, err := form.Validate(context.Background(), sub)
		require.Error(t, err)
		assert.Equal(t, i18nx.KeyEmailDomainBanned, fieldCode(t, err, i18nx.FieldEmail))
	})

	t.Run("other domains pass", func(t *testing.T) {
		_, err := form.Validate(context.Background(), validSubmission())
		assert.NoError(t, err)
	})
}

func TestForm_Validate_Terms(t *testing.T) {
	cfg := DefaultConfig(env.Test)
	cfg.RequireTermsAccepted = true
	form := New(cfg, &stubChecker{})

	t.Run("rejects when not accepted", func(t *testing.T) {
		_, err := form.Validate(context.Background(), validSubmission())
		require.Error(t, err)
		assert.Equal(t, i18nx.KeyTermsNotAccepted, fieldCode(t, err, i18nx.FieldTerms))
	})

	t.Run("passes when accepted", func(t *testing.T) {
		sub := validSubmission()
		sub.TermsAccepted = true

		_, err := form.Validate(context.Background(), sub)
		assert.NoError(t, err)
	})
}

func TestForm_Validate_OptionalNames(t *testing.T) {
	cfg := DefaultConfig(env.Test)
	cfg.RequireNames = false

	sub := validSubmission()
	sub.FirstName = ""
	sub.LastName = ""

	data, err := New(cfg, &stubChecker{}).Validate(context.Background(), sub)
	require.NoError(t, err)
	assert.Empty(t, data.FirstName)
	assert.Empty(t, data.LastName)
}

func TestNew_DefaultsNameMaxLen(t *testing.T) {
	form := New(Config{Mode: env.Test, RequireNames: true}, nil)
	assert.Equal(t, account.MaxNameLen, form.cfg.NameMaxLen)

	sub := validSubmission()
	sub.FirstName = strings.Repeat("a", account.MaxNameLen)
	_, err := form.Validate(context.Background(), sub)
	assert.NoError(t, err)
}
