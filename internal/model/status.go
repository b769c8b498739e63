package model

// Status enums and their display metadata. Every consumer (storefront
// tracking, admin lists, receipts, e-mails) reads labels and colors from the
// tables below so the two sides never drift apart.

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// OrderTimeline is the ordered happy path shown on the tracking page.
var OrderTimeline = []OrderStatus{OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentTransfer PaymentMethod = "transfer"
)

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// StatusMeta is the display metadata of an enum value.
type StatusMeta struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}

var unknownMeta = StatusMeta{Label: "Tidak diketahui", Color: "secondary"}

var orderStatusMeta = map[OrderStatus]StatusMeta{
	OrderPending:    {Label: "Menunggu Konfirmasi", Color: "warning", Icon: "clock"},
	OrderConfirmed:  {Label: "Dikonfirmasi", Color: "info", Icon: "check-circle"},
	OrderProcessing: {Label: "Diproses", Color: "primary", Icon: "box"},
	OrderShipped:    {Label: "Dikirim", Color: "secondary", Icon: "truck"},
	OrderDelivered:  {Label: "Selesai", Color: "success", Icon: "home"},
	OrderCancelled:  {Label: "Dibatalkan", Color: "danger", Icon: "x-circle"},
}

var paymentStatusMeta = map[PaymentStatus]StatusMeta{
	PaymentPending: {Label: "Belum Dibayar", Color: "warning"},
	PaymentPaid:    {Label: "Lunas", Color: "success"},
	PaymentFailed:  {Label: "Gagal", Color: "danger"},
}

var paymentMethodMeta = map[PaymentMethod]StatusMeta{
	PaymentCOD:      {Label: "Bayar di Tempat (COD)", Color: "secondary", Icon: "cash"},
	PaymentTransfer: {Label: "Transfer Bank", Color: "primary", Icon: "bank"},
}

var movementTypeMeta = map[MovementType]StatusMeta{
	MovementIn:         {Label: "Masuk", Color: "success", Icon: "arrow-down"},
	MovementOut:        {Label: "Keluar", Color: "danger", Icon: "arrow-up"},
	MovementAdjustment: {Label: "Penyesuaian", Color: "info", Icon: "sliders"},
}

func lookup[K comparable](table map[K]StatusMeta, k K) StatusMeta {
	if m, ok := table[k]; ok {
		return m
	}
	return unknownMeta
}

func (s OrderStatus) Meta() StatusMeta   { return lookup(orderStatusMeta, s) }
func (s PaymentStatus) Meta() StatusMeta { return lookup(paymentStatusMeta, s) }
func (m PaymentMethod) Meta() StatusMeta { return lookup(paymentMethodMeta, m) }
func (m MovementType) Meta() StatusMeta  { return lookup(movementTypeMeta, m) }

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusMeta[s]
	return ok
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusMeta[s]
	return ok
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodMeta[m]
	return ok
}

func (m MovementType) Valid() bool {
	_, ok := movementTypeMeta[m]
	return ok
}

// Terminal reports whether no further status change is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// Step returns the position of s in OrderTimeline, -1 for cancelled or unknown.
func (s OrderStatus) Step() int {
	for i, st := range OrderTimeline {
		if st == s {
			return i
		}
	}
	return -1
}
