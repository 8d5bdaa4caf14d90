package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"

	"portal/internal/adapters/email"
	"portal/internal/domain/registration"
)

// ErrNoRecipient reports a receipt with no email address to send to.
var ErrNoRecipient = errors.New("no recipient address")

// SendReceiptInput describes a completed registration to confirm by email.
type SendReceiptInput struct {
	Recipient    string
	FeatureName  string
	Confirmation registration.Confirmation
}

// SendReceiptDeps holds dependencies for SendReceipt.
type SendReceiptDeps struct {
	Sender email.Sender
	From   string
}

// ExecuteSendReceipt emails a registration receipt. Callers treat failures
// as non-fatal: the registration has already succeeded.
func ExecuteSendReceipt(ctx context.Context, input SendReceiptInput, deps SendReceiptDeps) error {
	if input.Recipient == "" {
		return ErrNoRecipient
	}

	body := fmt.Sprintf(
		"<p>Pendaftaran Anda untuk <strong>%s</strong> telah kami terima.</p>"+
			"<p>Nomor pendaftaran: <strong>%s</strong></p>"+
			"<p>%s</p>",
		html.EscapeString(input.FeatureName),
		html.EscapeString(input.Confirmation.SubmissionID),
		html.EscapeString(input.Confirmation.Message),
	)
	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.Recipient},
		From:    deps.From,
		Subject: fmt.Sprintf("Pendaftaran berhasil: %s", input.FeatureName),
		HTML:    body,
	})
	return err
}
