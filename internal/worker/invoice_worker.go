package worker

// invoice_worker.go
// Processes invoice jobs from QueueInvoice: renders the PDF for a committed
// sale and, when the customer left an email address, chains an email job.

import (
	"context"
	"encoding/json"
	"fmt"

	"fabrictrack/internal/infra"
	"fabrictrack/internal/repository"

	"github.com/rs/zerolog/log"
)

// InvoiceJobPayload is the job envelope sent to QueueInvoice.
type InvoiceJobPayload struct {
	InvoiceNumber string `json:"invoice_number"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

type InvoiceWorker struct {
	sales          repository.SaleRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewInvoiceWorker(sales repository.SaleRepository, dispatcher *Dispatcher, pdfStoragePath string) *InvoiceWorker {
	return &InvoiceWorker{sales: sales, dispatcher: dispatcher, pdfStoragePath: pdfStoragePath}
}

// Process handles a single invoice job:
//  1. Fetch all sale lines sharing the invoice number
//  2. Render the PDF receipt
//  3. Enqueue an email job when a customer address was captured
func (w *InvoiceWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload InvoiceJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("invoice_worker: invalid payload")
		return
	}
	if payload.InvoiceNumber == "" {
		log.Warn().Msg("invoice_worker: empty invoice_number — skipping")
		return
	}

	sales, err := w.sales.FindByInvoice(ctx, payload.InvoiceNumber)
	if err != nil || len(sales) == 0 {
		log.Error().Err(err).Str("invoice", payload.InvoiceNumber).Msg("invoice_worker: sale lines not found")
		return
	}

	pdfPath, err := infra.GenerateInvoicePDF(sales, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("invoice", payload.InvoiceNumber).Msg("invoice_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("invoice", payload.InvoiceNumber).Msg("invoice_worker: PDF generated")

	if payload.CustomerEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: payload.CustomerEmail,
		Subject: fmt.Sprintf("Your FabricTrack invoice %s", payload.InvoiceNumber),
		Body:    fmt.Sprintf("Please find attached your invoice %s.\nThank you for shopping with us.", payload.InvoiceNumber),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.CustomerEmail).Msg("invoice_worker: failed to enqueue email")
	}
}
