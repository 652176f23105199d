package worker

// email_worker.go
// Processes email jobs from QueueEmail: invoice delivery with PDF attachment
// and low-stock alert notifications. SMTP sends retry with exponential
// backoff; jobs that exhaust their retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fabrictrack/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the invoice-email job envelope.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// LowStockJobPayload is the low-stock alert job envelope.
type LowStockJobPayload struct {
	FabricID       string `json:"fabric_id"`
	FabricName     string `json:"fabric_name"`
	ProductCode    string `json:"product_code"`
	RemainingStock string `json:"remaining_stock"`
}

type EmailWorker struct {
	mailer     *infra.Mailer
	rdb        *redis.Client
	alertEmail string
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client, alertEmail string) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb, alertEmail: alertEmail}
}

// Process sends an invoice email with the PDF attached.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := withRetry(ctx, emailMaxAttempts, func(attempt int) error {
		sendErr := w.mailer.SendInvoice(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
		if sendErr != nil {
			log.Warn().Err(sendErr).Int("attempt", attempt+1).Str("to", payload.ToEmail).
				Msg("email_worker: send attempt failed, retrying")
		}
		return sendErr
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueEmail, JobEmail, raw,
			fmt.Sprintf("send failed after %d attempts: %v", emailMaxAttempts, err), emailMaxAttempts)
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: invoice sent")
}

// ProcessLowStock mails a low-stock alert to the configured recipient.
func (w *EmailWorker) ProcessLowStock(ctx context.Context, raw json.RawMessage) {
	var payload LowStockJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid low-stock payload")
		return
	}
	if w.alertEmail == "" {
		log.Warn().Msg("email_worker: no alert email configured — dropping low-stock alert")
		return
	}

	subject := fmt.Sprintf("Low stock: %s (%s)", payload.FabricName, payload.ProductCode)
	body := fmt.Sprintf("Fabric %s (%s) is down to %s.\nConsider raising a purchase order.",
		payload.FabricName, payload.ProductCode, payload.RemainingStock)

	err := withRetry(ctx, emailMaxAttempts, func(attempt int) error {
		sendErr := w.mailer.SendAlert(w.alertEmail, subject, body)
		if sendErr != nil {
			log.Warn().Err(sendErr).Int("attempt", attempt+1).
				Msg("email_worker: alert attempt failed, retrying")
		}
		return sendErr
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueEmail, JobLowStock, raw,
			fmt.Sprintf("alert failed after %d attempts: %v", emailMaxAttempts, err), emailMaxAttempts)
		return
	}
	log.Info().Str("fabric", payload.FabricName).Msg("email_worker: low-stock alert sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
