package worker

import (
	"context"
	"fmt"

	"github.com/JamLaMin/rsw-webapp/internal/infra"
	"github.com/JamLaMin/rsw-webapp/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReceiptWorker renders a PDF receipt for a paid sale and, when SMTP is
// configured, mails it to the archive recipient. Everything here is
// best-effort: the payment already committed before the job was enqueued.
type ReceiptWorker struct {
	saleRepo    repository.SaleRepository
	mailer      *infra.Mailer
	storagePath string
	recipient   string
}

func NewReceiptWorker(saleRepo repository.SaleRepository, mailer *infra.Mailer, storagePath, recipient string) *ReceiptWorker {
	return &ReceiptWorker{
		saleRepo:    saleRepo,
		mailer:      mailer,
		storagePath: storagePath,
		recipient:   recipient,
	}
}

func (w *ReceiptWorker) Process(ctx context.Context, payload ReceiptPayload) error {
	sale, err := w.saleRepo.FindByIDExpanded(ctx, payload.SaleID)
	if err != nil {
		return fmt.Errorf("receipt: load sale %d: %w", payload.SaleID, err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Uint("sale_id", sale.ID).Str("path", pdfPath).Msg("receipt generated")

	if w.mailer == nil || w.recipient == "" {
		return nil
	}
	subject := fmt.Sprintf("Receipt for sale #%d", sale.ID)
	body := fmt.Sprintf("Receipt for sale #%d, register %d.", sale.ID, sale.RegisterID)
	if err := w.mailer.SendReceipt(w.recipient, subject, body, pdfPath); err != nil {
		return fmt.Errorf("receipt: mail sale %d: %w", sale.ID, err)
	}
	return nil
}
