package mail

import (
	"fmt"
	"text/template"
	"time"

	signupd "gitlab.com/signupd/signup-backend"
	mailevent "gitlab.com/signupd/signup-backend/internal/application/mail/event"
)

// Template names resolved against the embedded templates directory.
const (
	DefaultSubjectTemplate = "activation_subject.tmpl"
	DefaultBodyTemplate    = "activation_body.tmpl"
)

type App struct {
	Event *mailevent.MailEventHandler
}

type Args struct {
	Mailsender          mailevent.MailSender
	ActivationBaseURL   string
	SiteName            string
	ActivationWindow    time.Duration
	SubjectTemplateName string
	BodyTemplateName    string
}

func NewApp(args Args) (*App, error) {
	if args.SubjectTemplateName == "" {
		args.SubjectTemplateName = DefaultSubjectTemplate
	}
	if args.BodyTemplateName == "" {
		args.BodyTemplateName = DefaultBodyTemplate
	}

	subjectTmpl, err := template.ParseFS(signupd.Templates, "templates/"+args.SubjectTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse activation subject template %q: %w", args.SubjectTemplateName, err)
	}

	bodyTmpl, err := template.ParseFS(signupd.Templates, "templates/"+args.BodyTemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse activation body template %q: %w", args.BodyTemplateName, err)
	}

	return &App{
		Event: mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
			Mailsender:        args.Mailsender,
			ActivationBaseURL: args.ActivationBaseURL,
			SiteName:          args.SiteName,
			ActivationWindow:  args.ActivationWindow,
			SubjectTemplate:   subjectTmpl,
			BodyTemplate:      bodyTmpl,
		}),
	}, nil
}
