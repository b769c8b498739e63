package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"frozenshop/internal/infra"
	"frozenshop/internal/model"
	"frozenshop/internal/repository"
	"frozenshop/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ── Fakes ────────────────────────────────────────────────────────────────────

type sentMail struct {
	to, subject, body string
	attachments       []infra.Attachment
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []sentMail
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(to, subject, body string, attachments ...infra.Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body, attachments: attachments})
	return nil
}

type fakeReceipts struct {
	archived []string
}

func (r *fakeReceipts) RenderReceipt(o *model.Order, _, _ string) ([]byte, error) {
	return []byte("%PDF " + o.OrderNumber), nil
}

func (r *fakeReceipts) Archive(orderNumber string, _ []byte) (string, error) {
	r.archived = append(r.archived, orderNumber)
	return "/tmp/receipt_" + orderNumber + ".pdf", nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	require.NoError(t, repository.NewSettingRepository(db).SeedDefaults(context.Background()))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, email *string) *model.Order {
	t.Helper()
	area := &model.ShippingArea{AreaName: "Bandung", ShippingCost: decimal.NewFromInt(10000), IsActive: true}
	require.NoError(t, db.Create(area).Error)
	o := &model.Order{
		OrderNumber:     "ORD-20260115-AB12CD",
		CustomerName:    "Siti Rahma",
		CustomerPhone:   "6281234567890",
		CustomerEmail:   email,
		ShippingAreaID:  area.ID,
		ShippingAddress: "Jl. Melati No. 5",
		Subtotal:        decimal.NewFromInt(90000),
		ShippingCost:    decimal.NewFromInt(10000),
		TotalAmount:     decimal.NewFromInt(100000),
		PaymentMethod:   model.PaymentCOD,
		PaymentStatus:   model.PaymentPending,
		OrderStatus:     model.OrderPending,
		Items: []model.OrderItem{{
			ProductName: "Chicken Nugget", ProductSKU: "NGT-1",
			Price: decimal.NewFromInt(45000), Quantity: 2, Subtotal: decimal.NewFromInt(90000),
		}},
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

func orderJob(t *testing.T, jobType string, orderID uint) Job {
	t.Helper()
	payload, err := json.Marshal(OrderJobPayload{OrderID: orderID})
	require.NoError(t, err)
	return Job{ID: "job-1", Type: jobType, Payload: payload, Attempts: 1}
}

func newWorker(db *gorm.DB, mailer MailSender, receipts ReceiptArchiver) *OrderMailWorker {
	settings := service.NewSettingsService(repository.NewSettingRepository(db))
	return NewOrderMailWorker(repository.NewOrderRepository(db), settings, mailer, receipts, "https://shop.example.com/")
}

// ── OrderMailWorker ──────────────────────────────────────────────────────────

func TestOrderMailWorker_ConfirmationAttachesReceipt(t *testing.T) {
	db := newTestDB(t)
	email := "siti@example.com"
	o := seedOrder(t, db, &email)
	mailer := &fakeMailer{enabled: true}
	receipts := &fakeReceipts{}

	err := newWorker(db, mailer, receipts).Process(context.Background(), orderJob(t, JobOrderConfirmation, o.ID))
	require.NoError(t, err)

	assert.Equal(t, []string{o.OrderNumber}, receipts.archived)
	require.Len(t, mailer.sent, 1)
	m := mailer.sent[0]
	assert.Equal(t, email, m.to)
	assert.Contains(t, m.subject, o.OrderNumber)
	assert.Contains(t, m.body, "https://shop.example.com/track/"+o.OrderNumber)
	assert.Contains(t, m.body, "Chicken Nugget x2")
	require.Len(t, m.attachments, 1)
	assert.Equal(t, "application/pdf", m.attachments[0].ContentType)
}

func TestOrderMailWorker_StatusMailHasNoAttachment(t *testing.T) {
	db := newTestDB(t)
	email := "siti@example.com"
	o := seedOrder(t, db, &email)
	mailer := &fakeMailer{enabled: true}
	receipts := &fakeReceipts{}

	err := newWorker(db, mailer, receipts).Process(context.Background(), orderJob(t, JobOrderStatus, o.ID))
	require.NoError(t, err)

	assert.Empty(t, receipts.archived)
	require.Len(t, mailer.sent, 1)
	assert.Empty(t, mailer.sent[0].attachments)
}

func TestOrderMailWorker_SkipsWithoutEmailOrSMTP(t *testing.T) {
	db := newTestDB(t)
	o := seedOrder(t, db, nil)
	mailer := &fakeMailer{enabled: true}
	receipts := &fakeReceipts{}

	require.NoError(t, newWorker(db, mailer, receipts).Process(context.Background(), orderJob(t, JobOrderConfirmation, o.ID)))
	assert.Empty(t, mailer.sent)
	// The receipt is archived even when nobody gets mailed.
	assert.Len(t, receipts.archived, 1)

	email := "siti@example.com"
	require.NoError(t, db.Model(o).Update("customer_email", email).Error)
	disabled := &fakeMailer{enabled: false}
	require.NoError(t, newWorker(db, disabled, receipts).Process(context.Background(), orderJob(t, JobOrderStatus, o.ID)))
	assert.Empty(t, disabled.sent)
}

func TestOrderMailWorker_SendErrorIsRetried(t *testing.T) {
	db := newTestDB(t)
	email := "siti@example.com"
	o := seedOrder(t, db, &email)
	mailer := &fakeMailer{enabled: true, err: infra.ErrCircuitOpen}

	err := newWorker(db, mailer, &fakeReceipts{}).Process(context.Background(), orderJob(t, JobOrderStatus, o.ID))
	assert.ErrorIs(t, err, infra.ErrCircuitOpen)
}

func TestOrderMailWorker_DropsUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	mailer := &fakeMailer{enabled: true}
	err := newWorker(db, mailer, &fakeReceipts{}).Process(context.Background(), orderJob(t, JobOrderStatus, 999))
	assert.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

// ── Pool helpers ─────────────────────────────────────────────────────────────

type panicProcessor struct{}

func (panicProcessor) Process(context.Context, Job) error { panic("boom") }

func TestRunSafely_RecoversPanic(t *testing.T) {
	err := runSafely(context.Background(), panicProcessor{}, Job{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestProcessorFor(t *testing.T) {
	p := &OrderMailWorker{}
	h := &WorkerHandlers{OrderMail: p}
	assert.Equal(t, Processor(p), h.processorFor(JobOrderConfirmation))
	assert.Equal(t, Processor(p), h.processorFor(JobOrderStatus))
	assert.Nil(t, h.processorFor("invoice"))
}

func TestComputeRetryBackoff(t *testing.T) {
	cases := map[int]time.Duration{
		0:  time.Minute,
		1:  time.Minute,
		2:  2 * time.Minute,
		3:  4 * time.Minute,
		5:  16 * time.Minute,
		6:  30 * time.Minute,
		70: 30 * time.Minute,
	}
	for attempts, want := range cases {
		assert.Equal(t, want, computeRetryBackoff(attempts), "attempts=%d", attempts)
	}
}
