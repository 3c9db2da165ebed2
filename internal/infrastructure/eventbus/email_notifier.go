package eventbus

import (
	"context"

	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	"github.com/oksasatya/go-ddd-identity/internal/domain/shared"
	"github.com/oksasatya/go-ddd-identity/pkg/mailer"
	mailtpl "github.com/oksasatya/go-ddd-identity/pkg/mailer/templates"
)

// JobPublisher puts a message on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier turns user lifecycle events into email jobs for the worker.
type EmailNotifier struct {
	publisher JobPublisher
	branding  mailtpl.Branding
}

func NewEmailNotifier(publisher JobPublisher, branding mailtpl.Branding) *EmailNotifier {
	return &EmailNotifier{publisher: publisher, branding: branding}
}

func (h *EmailNotifier) Handle(ctx context.Context, ev shared.DomainEvent) error {
	var job mailer.EmailJob
	switch e := ev.(type) {
	case entity.UserRegistered:
		job = mailer.EmailJob{
			To:       e.Email,
			Template: mailtpl.Welcome,
			Data: mailtpl.NewWelcomeData(h.branding, e.FullName, e.Email,
				mailtpl.WithRole(string(e.Role)), mailtpl.WithTime(e.OccurredOn())),
		}
	case entity.UserDeactivated:
		job = mailer.EmailJob{
			To:       e.Email,
			Template: mailtpl.AccountDeactivated,
			Data: mailtpl.NewAccountDeactivatedData(h.branding, "", e.Email, e.Reason,
				mailtpl.WithTime(e.OccurredOn())),
		}
	default:
		return nil
	}
	return h.publisher.PublishJSON(ctx, job)
}
