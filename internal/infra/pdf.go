package infra

// pdf.go: order receipt ("nota pesanan") rendered with go-pdf/fpdf.
// Layout: shop header, order number and date, customer block, item table,
// subtotal / shipping / total, payment method and status footer.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"frozenshop/internal/model"
	"frozenshop/internal/money"

	"github.com/go-pdf/fpdf"
)

// ReceiptRenderer renders order receipts and archives them under storagePath.
type ReceiptRenderer struct {
	storagePath string
}

func NewReceiptRenderer(storagePath string) *ReceiptRenderer {
	return &ReceiptRenderer{storagePath: storagePath}
}

// RenderReceipt returns the PDF bytes of o's receipt. o must have its Items
// loaded; ShippingArea is optional.
func (r *ReceiptRenderer) RenderReceipt(o *model.Order, shopName, shopPhone string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 7, tr(shopName), "", 1, "C", false, 0, "")
	if shopPhone != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 4, "Telp/WA: "+shopPhone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, "Nota Pesanan "+o.OrderNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, o.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Status: "+o.OrderStatus.Meta().Label, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Customer ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Pelanggan", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, tr(o.CustomerName)+"  ("+o.CustomerPhone+")", "", 1, "L", false, 0, "")
	pdf.MultiCell(contentW, 4, tr(o.ShippingAddress), "", "L", false)
	if o.ShippingArea != nil {
		pdf.CellFormat(contentW, 4, "Area: "+tr(o.ShippingArea.AreaName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	colName := contentW * 0.46
	colQty := contentW * 0.12
	colPrice := contentW * 0.20
	colSub := contentW * 0.22

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colName, 6, "Produk", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colPrice, 6, "Harga", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 6, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range o.Items {
		name := item.ProductName
		if len(name) > 34 {
			name = name[:33] + "..."
		}
		pdf.CellFormat(colName, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 5, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 5, money.Rupiah(item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(colSub, 5, money.Rupiah(item.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := colName + colQty + colPrice
	shipping := money.Rupiah(o.ShippingCost)
	if o.ShippingCost.IsZero() {
		shipping = "Gratis"
	}
	pdf.CellFormat(labelW, 5, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 5, money.Rupiah(o.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 5, "Ongkos kirim", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 5, shipping, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelW, 7, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(colSub, 7, money.Rupiah(o.TotalAmount), "", 1, "R", false, 0, "")

	// ── Payment ──────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Pembayaran: "+o.PaymentMethod.Meta().Label+" - "+o.PaymentStatus.Meta().Label, "", 1, "L", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Terima kasih telah berbelanja!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render receipt %s: %w", o.OrderNumber, err)
	}
	return buf.Bytes(), nil
}

// Archive writes data to storagePath/receipt_{order_number}.pdf and returns
// the file path.
func (r *ReceiptRenderer) Archive(orderNumber string, data []byte) (string, error) {
	if err := os.MkdirAll(r.storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(r.storagePath, "receipt_"+orderNumber+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
