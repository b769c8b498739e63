package worker

// order_mail_worker.go
// Processes QueueOrderMail jobs: the order confirmation (with the PDF receipt
// attached and archived) and the status-change notification.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"frozenshop/internal/infra"
	"frozenshop/internal/model"
	"frozenshop/internal/money"
	"frozenshop/internal/repository"
	"frozenshop/internal/service"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MailSender is the subset of infra.Mailer the worker needs.
type MailSender interface {
	Enabled() bool
	Send(to, subject, body string, attachments ...infra.Attachment) error
}

// ReceiptArchiver renders and stores order receipts.
type ReceiptArchiver interface {
	RenderReceipt(o *model.Order, shopName, shopPhone string) ([]byte, error)
	Archive(orderNumber string, data []byte) (string, error)
}

// OrderMailWorker sends customer mails about an order.
type OrderMailWorker struct {
	orders        repository.OrderRepository
	settings      service.SettingsService
	mailer        MailSender
	receipts      ReceiptArchiver
	publicBaseURL string
}

func NewOrderMailWorker(
	orders repository.OrderRepository,
	settings service.SettingsService,
	mailer MailSender,
	receipts ReceiptArchiver,
	publicBaseURL string,
) *OrderMailWorker {
	return &OrderMailWorker{
		orders:        orders,
		settings:      settings,
		mailer:        mailer,
		receipts:      receipts,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// Process handles one order mail job:
//  1. Load the order with items and shipping area
//  2. Confirmation: render the receipt PDF, archive it
//  3. Skip the mail when the customer left no e-mail or SMTP is not configured
//  4. Send; a send error is returned so the job is retried
func (w *OrderMailWorker) Process(ctx context.Context, job Job) error {
	var payload OrderJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("order_mail_worker: invalid payload")
		return nil
	}

	order, err := w.orders.FindByID(ctx, payload.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Uint("order_id", payload.OrderID).Msg("order_mail_worker: order not found, dropping job")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %d: %w", payload.OrderID, err)
	}

	store, err := w.settings.Store(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	var attachments []infra.Attachment
	if job.Type == JobOrderConfirmation {
		pdf, err := w.receipts.RenderReceipt(order, store.SiteName, store.SitePhone)
		if err != nil {
			log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("order_mail_worker: receipt PDF failed")
		} else {
			if path, err := w.receipts.Archive(order.OrderNumber, pdf); err != nil {
				log.Warn().Err(err).Str("order_number", order.OrderNumber).Msg("order_mail_worker: receipt not archived")
			} else {
				log.Info().Str("pdf", path).Str("order_number", order.OrderNumber).Msg("order_mail_worker: receipt archived")
			}
			attachments = append(attachments, infra.Attachment{
				Name:        "nota-" + order.OrderNumber + ".pdf",
				ContentType: "application/pdf",
				Data:        pdf,
			})
		}
	}

	if order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return nil
	}
	if !w.mailer.Enabled() {
		log.Debug().Str("order_number", order.OrderNumber).Msg("order_mail_worker: SMTP disabled, mail skipped")
		return nil
	}

	subject, body := w.compose(job.Type, store.SiteName, order)
	if err := w.mailer.Send(*order.CustomerEmail, subject, body, attachments...); err != nil {
		return fmt.Errorf("send mail for %s: %w", order.OrderNumber, err)
	}
	log.Info().Str("order_number", order.OrderNumber).Str("type", job.Type).Msg("order_mail_worker: mail sent")
	return nil
}

func (w *OrderMailWorker) compose(jobType, siteName string, o *model.Order) (subject, body string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Halo %s,\n\n", o.CustomerName)

	switch jobType {
	case JobOrderStatus:
		subject = fmt.Sprintf("[%s] Status pesanan %s: %s", siteName, o.OrderNumber, o.OrderStatus.Meta().Label)
		fmt.Fprintf(&b, "Status pesanan %s sekarang: %s.\n", o.OrderNumber, o.OrderStatus.Meta().Label)
	default:
		subject = fmt.Sprintf("[%s] Pesanan %s diterima", siteName, o.OrderNumber)
		fmt.Fprintf(&b, "Terima kasih, pesanan %s sudah kami terima.\n\n", o.OrderNumber)
		for _, it := range o.Items {
			fmt.Fprintf(&b, "- %s x%d = %s\n", it.ProductName, it.Quantity, money.Rupiah(it.Subtotal))
		}
		fmt.Fprintf(&b, "\nSubtotal: %s\n", money.Rupiah(o.Subtotal))
		fmt.Fprintf(&b, "Ongkir: %s\n", money.Rupiah(o.ShippingCost))
		fmt.Fprintf(&b, "Total: %s\n", money.Rupiah(o.TotalAmount))
		fmt.Fprintf(&b, "Pembayaran: %s\n", o.PaymentMethod.Meta().Label)
	}

	if w.publicBaseURL != "" {
		fmt.Fprintf(&b, "\nLacak pesanan: %s/track/%s\n", w.publicBaseURL, o.OrderNumber)
	}
	fmt.Fprintf(&b, "\nSalam,\n%s\n", siteName)
	return subject, b.String()
}
