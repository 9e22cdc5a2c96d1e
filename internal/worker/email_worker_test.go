package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gimnasio/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	err  error
	sent []EmailJob
}

func (s *stubSender) Send(to, subject, text, html string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, EmailJob{To: to, Subject: subject, Text: text, HTML: html})
	return nil
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestEmailWorker_Sends(t *testing.T) {
	s := &stubSender{}
	w := NewEmailWorker(s, infra.NewCircuitBreaker(infra.MailerCBConfig()))

	err := w.Process(context.Background(), mustJSON(t, EmailBienvenida("ana@example.com", "Ana", "ana")))
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "ana@example.com", s.sent[0].To)
	assert.Contains(t, s.sent[0].Text, "ana")
}

func TestEmailWorker_InvalidPayloadIsPermanent(t *testing.T) {
	w := NewEmailWorker(&stubSender{}, infra.NewCircuitBreaker(infra.MailerCBConfig()))

	err := w.Process(context.Background(), json.RawMessage(`[1,2]`))
	assert.ErrorIs(t, err, ErrPermanente)

	err = w.Process(context.Background(), mustJSON(t, EmailJob{Subject: "sin destinatario"}))
	assert.ErrorIs(t, err, ErrPermanente)
}

func TestEmailWorker_MailerDisabledDrops(t *testing.T) {
	w := NewEmailWorker(&stubSender{err: infra.ErrMailerDisabled}, infra.NewCircuitBreaker(infra.MailerCBConfig()))
	assert.NoError(t, w.Process(context.Background(), mustJSON(t, EmailJob{To: "a@b.c"})))
}

func TestEmailWorker_BreakerOpensAfterFailures(t *testing.T) {
	s := &stubSender{err: errors.New("dial tcp: connection refused")}
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 2, SuccessThreshold: 1, Cooldown: time.Hour})
	w := NewEmailWorker(s, cb)
	payload := mustJSON(t, EmailJob{To: "a@b.c"})

	assert.Error(t, w.Process(context.Background(), payload))
	assert.Error(t, w.Process(context.Background(), payload))
	assert.Equal(t, infra.CBOpen, cb.State())

	err := w.Process(context.Background(), payload)
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}
