package port

import "context"

// EmailSender defines the contract for delivering report summaries.
type EmailSender interface {
	SendSummary(ctx context.Context, toEmail, subject, body string) error
}
