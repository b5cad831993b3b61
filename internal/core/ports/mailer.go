package ports

import "context"

// Mailer is the outbound email collaborator. Delivery failures are surfaced
// so that flows issuing ephemeral tokens can roll them back.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

// EmailJob is a queued, non-critical message handed to the MailDispatcher.
type EmailJob struct {
	Recipient string
	Subject   string
	HTMLBody  string
}

// MailDispatcher delivers non-critical mail asynchronously. Enqueue never
// blocks the caller beyond channel capacity and never reports delivery
// failure; anything whose failure must alter state goes through Mailer
// directly instead.
type MailDispatcher interface {
	Enqueue(job EmailJob)
}
