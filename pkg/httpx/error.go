package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	signupd "gitlab.com/signupd/signup-backend"
	"gitlab.com/signupd/signup-backend/pkg/apperr"
	"gitlab.com/signupd/signup-backend/pkg/errorx"
	"gitlab.com/signupd/signup-backend/pkg/otelx"
)

type ErrorHandler struct {
	bundle *i18n.Bundle
	enloc  *i18n.Localizer
	kkloc  *i18n.Localizer
	ruloc  *i18n.Localizer
}

func NewErrorHandler() *ErrorHandler {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	// Load translation files
	bundle.LoadMessageFileFS(signupd.Locales, "locales/en.toml")
	bundle.LoadMessageFileFS(signupd.Locales, "locales/kk.toml")
	bundle.LoadMessageFileFS(signupd.Locales, "locales/ru.toml")

	// Load validation files
	bundle.LoadMessageFileFS(signupd.Locales, "locales/validation.en.toml")
	bundle.LoadMessageFileFS(signupd.Locales, "locales/validation.kk.toml")
	bundle.LoadMessageFileFS(signupd.Locales, "locales/validation.ru.toml")

	return &ErrorHandler{
		bundle: bundle,
		enloc:  i18n.NewLocalizer(bundle, "en"),
		kkloc:  i18n.NewLocalizer(bundle, "kk"),
		ruloc:  i18n.NewLocalizer(bundle, "ru"),
	}
}

func (h *ErrorHandler) Localizer(lang string) *i18n.Localizer {
	switch lang {
	case "kk":
		return h.kkloc
	case "ru":
		return h.ruloc
	default:
		return h.enloc
	}
}

// HandleError records err on the span, logs it with msg, and writes the
// localized JSON error envelope. Unrecognized errors are masked as internal.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, span trace.Span, err error, msg string) {
	otelx.RecordSpanError(span, err, msg)
	slog.ErrorContext(r.Context(), msg, "error", err.Error())

	lang := r.Header.Get("Accept-Language")
	localizer := h.Localizer(lang)

	var i18nErr *errorx.I18nError
	if errors.As(err, &i18nErr) {
		writeError(w, r,
			string(i18nErr.Code),
			i18nErr.Localize(localizer),
			nil,
			i18nErr.HTTPStatusCode(),
		)
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		writeError(w, r,
			string(appErr.Code),
			appErr.Message,
			nil,
			appErr.HTTPStatusCode(),
		)
		return
	}

	var valErrs validation.Errors
	if errors.As(err, &valErrs) {
		details := make(Envelope, len(valErrs))
		for field, fieldErr := range valErrs {
			details[field] = localizeValidationError(localizer, fieldErr)
		}
		writeError(w, r,
			string(errorx.CodeValidationFailed),
			localizer.MustLocalize(&i18n.LocalizeConfig{MessageID: "validation_failed"}),
			details,
			http.StatusUnprocessableEntity,
		)
		return
	}

	var valErr validation.Error
	if errors.As(err, &valErr) {
		writeError(w, r,
			string(errorx.CodeValidationFailed),
			localizeValidationError(localizer, valErr),
			nil,
			http.StatusUnprocessableEntity,
		)
		return
	}

	slog.ErrorContext(r.Context(), "unhandled error type", "error", err)
	internalErr := errorx.NewInternalError().WithCause(err)
	writeError(w, r,
		string(internalErr.Code),
		internalErr.Localize(localizer),
		nil,
		internalErr.HTTPStatusCode(),
	)
}

// localizeValidationError renders one ozzo validation error in the request
// language, falling back to the raw message for rules without a code.
func localizeValidationError(localizer *i18n.Localizer, err error) string {
	var valErr validation.Error
	if !errors.As(err, &valErr) {
		return err.Error()
	}
	localized, lerr := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    valErr.Code(),
		TemplateData: valErr.Params(),
	})
	if lerr != nil {
		return valErr.Error()
	}
	return localized
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	slog.ErrorContext(r.Context(), "bad request", "message", message)
	writeError(w, r,
		string(errorx.CodeInvalid),
		message,
		nil,
		http.StatusBadRequest,
	)
}

func writeError(w http.ResponseWriter, r *http.Request,
	code string,
	message string,
	details Envelope,
	status int,
) {
	response := Envelope{
		"code":    code,
		"message": message,
		"success": false,
	}
	if len(details) > 0 {
		response["details"] = details
	}

	err := WriteJSON(w, status, response, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
