package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/mail"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// MailWorker consumes the reset-mail queue and delivers emails over SMTP.
type MailWorker struct {
	rdb    *redis.Client
	sender mail.Sender
	log    zerolog.Logger
}

// NewMailWorker creates a new MailWorker.
func NewMailWorker(rdb *redis.Client, sender mail.Sender, log zerolog.Logger) *MailWorker {
	return &MailWorker{
		rdb:    rdb,
		sender: sender,
		log:    log.With().Str("component", "mail_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *MailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *MailWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.RedisKey.ResetMailQueue()).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var msg mail.ResetMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.sender.SendReset(msg); err != nil {
		// Never log the reset URL: it contains the token.
		w.log.Error().Err(err).Str("to", msg.To).Msg("Delivery error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.RedisKey.ResetMailQueue(), result[1])
		time.Sleep(5 * time.Second)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *MailWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.RedisKey.ResetMailQueue()).Result()
		if err != nil {
			break
		}

		var msg mail.ResetMessage
		if err := json.Unmarshal([]byte(result), &msg); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.sender.SendReset(msg); err != nil {
			w.log.Error().Err(err).Msg("Drain delivery error")
			w.rdb.RPush(ctx, config.RedisKey.ResetMailQueue(), result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
