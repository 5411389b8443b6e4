package worker

// dlq.go
// Welcome jobs that fail MaxAttempts times, or fail with ErrPermanent, land
// in dlq:{queue}. Each entry names the member and receipt so staff can resend
// the email by hand without decoding the payload.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry is one dead job plus why it died.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	Tipo     string          `json:"tipo"`
	ToEmail  string          `json:"to_email,omitempty"`
	Miembro  string          `json:"miembro,omitempty"`
	Recibo   string          `json:"recibo,omitempty"`
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	Intentos int             `json:"intentos"`
	FalloEn  time.Time       `json:"fallo_en"`
}

// nuevaEntradaDLQ lifts the recipient and receipt number out of welcome
// payloads. Payloads that do not decode are kept raw.
func nuevaEntradaDLQ(queue string, job Job, motivo string, intentos int, at time.Time) DLQEntry {
	e := DLQEntry{
		Queue:    queue,
		Tipo:     job.Type,
		Payload:  job.Payload,
		Motivo:   motivo,
		Intentos: intentos,
		FalloEn:  at.UTC(),
	}
	if job.Type == JobBienvenida {
		var p BienvenidaPayload
		if json.Unmarshal(job.Payload, &p) == nil {
			e.ToEmail = p.ToEmail
			e.Miembro = p.Nombre
			e.Recibo = p.Recibo.Numero
		}
	}
	return e
}

// SendToDLQ records a dead job. Failures here are only logged.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo string, intentos int) {
	entry := nuevaEntradaDLQ(queue, job, motivo, intentos, time.Now())
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("tipo", entry.Tipo).
		Str("to_email", entry.ToEmail).
		Str("recibo", entry.Recibo).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength is reported by the health endpoint.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
