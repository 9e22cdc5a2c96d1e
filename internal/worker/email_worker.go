package worker

// email_worker.go
// Processes email jobs from QueueEmail through the SMTP mailer. Sends are
// guarded by a circuit breaker so a dead relay fails fast; the pool retries
// the job later.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gimnasio/internal/infra"

	"github.com/rs/zerolog/log"
)

// EmailJob is the payload sent to QueueEmail.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// Sender is satisfied by *infra.Mailer.
type Sender interface {
	Send(to, subject, text, html string) error
}

type EmailWorker struct {
	sender Sender
	cb     *infra.CircuitBreaker
}

func NewEmailWorker(sender Sender, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{sender: sender, cb: cb}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var job EmailJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("email_worker: payload invalido: %w", ErrPermanente)
	}
	if job.To == "" {
		return fmt.Errorf("email_worker: destinatario vacio: %w", ErrPermanente)
	}

	err := w.cb.Execute(func() error {
		return w.sender.Send(job.To, job.Subject, job.Text, job.HTML)
	})
	if errors.Is(err, infra.ErrMailerDisabled) {
		log.Warn().Str("to", job.To).Msg("email_worker: SMTP not configured, email dropped")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str("to", job.To).Str("subject", job.Subject).Msg("email_worker: email sent")
	return nil
}

// EmailBienvenida builds the welcome message sent after self-registration.
func EmailBienvenida(to, nombre, username string) EmailJob {
	return EmailJob{
		To:      to,
		Subject: "Bienvenido al gimnasio",
		Text: fmt.Sprintf("Hola %s,\n\nTu cuenta fue creada correctamente. Tu usuario es: %s\n\n"+
			"Ya podes registrar tu asistencia escaneando el codigo QR de la entrada.\n", nombre, username),
		HTML: fmt.Sprintf("<p>Hola <strong>%s</strong>,</p><p>Tu cuenta fue creada correctamente. "+
			"Tu usuario es: <code>%s</code></p><p>Ya podes registrar tu asistencia escaneando el codigo QR de la entrada.</p>",
			nombre, username),
	}
}
