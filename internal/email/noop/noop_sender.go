package noop

import (
	"context"
	"log"

	"fretenota/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs summaries to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendSummary(_ context.Context, toEmail, subject, body string) error {
	log.Printf("[NOOP EMAIL] %q to %s (%d bytes)", subject, toEmail, len(body))
	return nil
}
