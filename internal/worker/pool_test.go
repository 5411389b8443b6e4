package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"gymdesk/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiguientePaso(t *testing.T) {
	boom := errors.New("smtp down")
	tests := []struct {
		name     string
		attempts int
		err      error
		want     paso
	}{
		{"success", 0, nil, pasoListo},
		{"first failure retries", 0, boom, pasoReintentar},
		{"second failure retries", 1, boom, pasoReintentar},
		{"last attempt goes to dlq", MaxAttempts - 1, boom, pasoDLQ},
		{"permanent skips retries", 0, ErrPermanent, pasoDLQ},
		{"wrapped permanent", 0, errors.Join(ErrPermanent, boom), pasoDLQ},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, siguientePaso(Job{Attempts: tt.attempts}, tt.err))
		})
	}
}

type stubSender struct {
	to, subject, body, pdf string
	err                    error
}

func (s *stubSender) Send(to, subject, body, pdfPath string) error {
	s.to, s.subject, s.body, s.pdf = to, subject, body, pdfPath
	return s.err
}

func bienvenida(t *testing.T, to string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(BienvenidaPayload{
		ToEmail: to,
		Nombre:  "Ana",
		Recibo: infra.Recibo{
			Numero:        "0001",
			Fecha:         time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
			Miembro:       "Ana Gómez",
			DNI:           "30111222",
			Plan:          "Mensual",
			Monto:         decimal.NewFromInt(100),
			MetodoPago:    "online",
			VigenciaDesde: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			VigenciaHasta: time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
			CodigoBarras:  "2000301112227",
		},
	})
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_SendsReceipt(t *testing.T) {
	sender := &stubSender{}
	w := NewEmailWorker(sender, t.TempDir())

	require.NoError(t, w.Process(context.Background(), bienvenida(t, "ana@example.com")))

	assert.Equal(t, "ana@example.com", sender.to)
	assert.Contains(t, sender.body, "Mensual")
	assert.Contains(t, sender.body, "14/02/2026")
	_, err := os.Stat(sender.pdf)
	assert.NoError(t, err, "receipt PDF is written before sending")
}

func TestEmailWorker_SkipsMissingAddress(t *testing.T) {
	sender := &stubSender{}
	w := NewEmailWorker(sender, t.TempDir())

	require.NoError(t, w.Process(context.Background(), bienvenida(t, "")))
	assert.Empty(t, sender.to)
}

func TestEmailWorker_Failures(t *testing.T) {
	w := NewEmailWorker(&stubSender{err: errors.New("relay refused")}, t.TempDir())
	err := w.Process(context.Background(), bienvenida(t, "ana@example.com"))
	require.Error(t, err)
	assert.Equal(t, pasoReintentar, siguientePaso(Job{}, err))

	err = w.Process(context.Background(), json.RawMessage(`{"to_email":`))
	assert.ErrorIs(t, err, ErrPermanent)
}

func TestNuevaEntradaDLQ(t *testing.T) {
	raw, err := json.Marshal(BienvenidaPayload{
		ToEmail: "ana@example.com", Nombre: "Ana Perez", Recibo: infra.Recibo{Numero: "R-0007"},
	})
	require.NoError(t, err)
	at := time.Date(2026, 2, 14, 9, 0, 0, 0, time.FixedZone("ART", -3*60*60))

	e := nuevaEntradaDLQ(QueueEmail, Job{Type: JobBienvenida, Payload: raw}, "smtp down", MaxAttempts, at)
	assert.Equal(t, "ana@example.com", e.ToEmail)
	assert.Equal(t, "Ana Perez", e.Miembro)
	assert.Equal(t, "R-0007", e.Recibo)
	assert.Equal(t, MaxAttempts, e.Intentos)
	assert.Equal(t, time.UTC, e.FalloEn.Location())
	assert.JSONEq(t, string(raw), string(e.Payload))

	roto := nuevaEntradaDLQ(QueueEmail, Job{Type: JobBienvenida, Payload: json.RawMessage(`"x"`)}, "bad payload", 1, at)
	assert.Empty(t, roto.ToEmail)
	assert.Equal(t, `"x"`, string(roto.Payload), "undecodable payloads are kept as they came")
}

type contadorComandos struct{ n atomic.Int64 }

func (c *contadorComandos) DialHook(next redis.DialHook) redis.DialHook { return next }

func (c *contadorComandos) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		c.n.Add(1)
		return next(ctx, cmd)
	}
}

func (c *contadorComandos) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestPool_BacksOffWhileRedisIsDown(t *testing.T) {
	// Nothing listens on port 1, so every pop fails at once.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	contador := &contadorComandos{}
	rdb.AddHook(contador)

	p := NewPool(rdb)
	p.backoff = 100 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 350*time.Millisecond)
	defer cancel()

	p.run(ctx, 0)

	n := contador.n.Load()
	assert.GreaterOrEqual(t, n, int64(1))
	assert.LessOrEqual(t, n, int64(6), "each failed pop waits for the backoff")
}
