package worker

// email_worker.go
// Processes welcome jobs from QueueEmail: renders the purchase receipt and
// mails it to the new member.

import (
	"context"
	"encoding/json"
	"fmt"

	"gymdesk/internal/infra"

	"github.com/rs/zerolog/log"
)

// BienvenidaPayload is the job body enqueued after a membership purchase.
type BienvenidaPayload struct {
	ToEmail string       `json:"to_email"`
	Nombre  string       `json:"nombre"`
	Recibo  infra.Recibo `json:"recibo"`
}

// Sender delivers one email; infra.Mailer implements it.
type Sender interface {
	Send(to, subject, body, pdfPath string) error
}

// EmailWorker renders receipts and sends them.
type EmailWorker struct {
	sender      Sender
	storagePath string
}

// NewEmailWorker creates an EmailWorker writing PDFs under storagePath.
func NewEmailWorker(sender Sender, storagePath string) *EmailWorker {
	return &EmailWorker{sender: sender, storagePath: storagePath}
}

// Process sends the welcome email with the receipt attached.
func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload BienvenidaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%w: invalid payload: %v", ErrPermanent, err)
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	pdfPath, err := infra.GenerateReciboPDF(payload.Recibo, w.storagePath)
	if err != nil {
		return fmt.Errorf("email_worker: render receipt: %w", err)
	}

	subject := "Bienvenido/a a gymdesk"
	body := fmt.Sprintf(
		"Hola %s,\n\nTu membresía %s quedó activa hasta el %s.\nTu código de licencia es %s.\n\nAdjuntamos el comprobante de pago.\n",
		payload.Nombre, payload.Recibo.Plan,
		payload.Recibo.VigenciaHasta.Format("02/01/2006"), payload.Recibo.CodigoBarras,
	)
	if err := w.sender.Send(payload.ToEmail, subject, body, pdfPath); err != nil {
		return fmt.Errorf("email_worker: send: %w", err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: bienvenida sent")
	return nil
}
