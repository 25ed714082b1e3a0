package regform

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/net/publicsuffix"

	"gitlab.com/signupd/signup-backend/internal/domain/account"
	"gitlab.com/signupd/signup-backend/pkg/env"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/i18nx"
	"gitlab.com/signupd/signup-backend/pkg/sanitizex"
	"gitlab.com/signupd/signup-backend/pkg/validationx"
)

// Config controls which rules the form applies. The zero value is not
// usable; build one with DefaultConfig and override as needed.
type Config struct {
	Mode env.Mode

	// RequireUniqueEmail runs the advisory taken-email lookup during
	// validation. The storage unique constraint stays authoritative
	// either way; this only turns races into earlier field errors.
	RequireUniqueEmail bool

	RequireNames bool
	NameMaxLen   int

	// BannedEmailDomains rejects submissions whose address domain is on
	// the list (case-insensitive, exact match).
	BannedEmailDomains []string

	RequireTermsAccepted bool
}

func DefaultConfig(mode env.Mode) Config {
	return Config{
		Mode:               mode,
		RequireUniqueEmail: true,
		RequireNames:       true,
		NameMaxLen:         account.MaxNameLen,
	}
}

// Submission is the raw user input.
type Submission struct {
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
	TermsAccepted   bool
}

// Data is the validated, normalized output of a successful Validate.
type Data struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// EmailChecker answers whether an address already belongs to an account.
type EmailChecker interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
}

// Form validates registration submissions. All rule violations are
// collected into a single validation.Errors keyed by field name, with
// whole-submission violations under i18nx.NonFieldKey.
type Form struct {
	cfg     Config
	checker EmailChecker
}

func New(cfg Config, checker EmailChecker) *Form {
	if cfg.NameMaxLen <= 0 {
		cfg.NameMaxLen = account.MaxNameLen
	}
	return &Form{cfg: cfg, checker: checker}
}

// Validate normalizes sub, applies every configured rule, and returns the
// normalized data. The email comes back trimmed and lowercased. Rule
// violations are returned together as validation.Errors; an EmailChecker
// failure is returned as-is since it is an infrastructure error, not a
// verdict on the input.
func (f *Form) Validate(ctx context.Context, sub Submission) (Data, error) {
	const op = "regform.Form.Validate"

	data := Data{
		Email:     sanitizex.NormalizeEmail(sub.Email),
		Password:  sub.Password,
		FirstName: sanitizex.CleanSingleLine(sub.FirstName),
		LastName:  sanitizex.CleanSingleLine(sub.LastName),
	}

	errs := validation.Errors{}

	if err := validation.Validate(data.Email, f.emailRules()...); err != nil {
		errs[i18nx.FieldEmail] = err
	} else if f.cfg.RequireUniqueEmail && f.checker != nil {
		taken, err := f.checker.IsEmailTaken(ctx, data.Email)
		if err != nil {
			return Data{}, errorx.Wrap(err, op)
		}
		if taken {
			errs[i18nx.FieldEmail] = validation.NewError(i18nx.KeyEmailNotAvailable, "this email address is already in use")
		}
	}

	if err := validation.Validate(data.Password, validationx.PasswordRules...); err != nil {
		errs[i18nx.FieldPassword] = err
	}
	if err := validation.Validate(sub.PasswordConfirm, validation.Required); err != nil {
		errs[i18nx.FieldPasswordConfirm] = err
	}
	if sub.Password != "" && sub.PasswordConfirm != "" && sub.Password != sub.PasswordConfirm {
		errs[i18nx.NonFieldKey] = validation.NewError(i18nx.KeyPasswordMismatch, "the two password fields didn't match")
	}

	if f.cfg.RequireNames {
		nameRules := []validation.Rule{
			validation.Required,
			validation.RuneLength(1, f.cfg.NameMaxLen),
			validationx.IsPersonName,
		}
		if err := validation.Validate(data.FirstName, nameRules...); err != nil {
			errs[i18nx.FieldFirstName] = err
		}
		if err := validation.Validate(data.LastName, nameRules...); err != nil {
			errs[i18nx.FieldLastName] = err
		}
	}

	if f.cfg.RequireTermsAccepted && !sub.TermsAccepted {
		errs[i18nx.FieldTerms] = validation.NewError(i18nx.KeyTermsNotAccepted, "the terms of service must be accepted")
	}

	if len(errs) > 0 {
		return Data{}, errs
	}

	return data, nil
}

func (f *Form) emailRules() []validation.Rule {
	rules := make([]validation.Rule, 0, len(validationx.EmailRules)+2)
	rules = append(rules, validationx.EmailRules...)

	if f.cfg.Mode == env.Dev || f.cfg.Mode == env.Prod {
		rules = append(rules, validation.By(realTLD))
	}
	if len(f.cfg.BannedEmailDomains) > 0 {
		rules = append(rules, validation.By(f.allowedDomain))
	}

	return rules
}

func (f *Form) allowedDomain(value any) error {
	addr, _ := value.(string)
	domain := emailDomain(addr)
	if domain == "" {
		return nil // syntax rules already rejected it
	}
	for _, banned := range f.cfg.BannedEmailDomains {
		if strings.EqualFold(domain, banned) {
			return validation.NewError(i18nx.KeyEmailDomainBanned, "registration with this email domain is not allowed")
		}
	}
	return nil
}

// realTLD rejects addresses whose domain has no ICANN-managed public
// suffix, so "user@localhost" and friends cannot register outside of
// local and test modes.
func realTLD(value any) error {
	addr, _ := value.(string)
	domain := emailDomain(addr)
	if domain == "" {
		return nil
	}

	suffix, icann := publicsuffix.PublicSuffix(domain)
	if !icann || suffix == domain {
		return validation.NewError(i18nx.ValidationIsEmail, "must be a valid email address")
	}
	return nil
}

func emailDomain(addr string) string {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return ""
	}
	at := strings.LastIndexByte(parsed.Address, '@')
	if at < 0 {
		return ""
	}
	return parsed.Address[at+1:]
}

// String renders the active configuration for startup logging.
func (c Config) String() string {
	return fmt.Sprintf("regform.Config{Mode: %s, RequireUniqueEmail: %t, RequireNames: %t, NameMaxLen: %d, BannedEmailDomains: %d, RequireTermsAccepted: %t}",
		c.Mode, c.RequireUniqueEmail, c.RequireNames, c.NameMaxLen, len(c.BannedEmailDomains), c.RequireTermsAccepted)
}
