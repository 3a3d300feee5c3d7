package invoice

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"zuka-backend/models"
)

// Canonical shipping-label page: A4 width by half A4 height, in
// points.
const (
	pageWidth  = 595.0
	pageHeight = 421.0
	pageMargin = 30.0
)

var ErrInvalidLineItem = errors.New("line item index out of range")

// sender block printed on every label
var senderLines = []string{
	"ZUKA",
	"12/14, Allah Bakhash Street,",
	"Tirupattur - 635601,",
	"Tirupattur District,",
	"Tamil Nadu, India.",
}

// Render produces the shipping-label PDF for one line item of an
// order. The output is fully assembled in memory; on any failure no
// bytes are returned.
func Render(order *models.Order, index int) ([]byte, error) {
	if index < 0 || index >= len(order.Items) {
		return nil, ErrInvalidLineItem
	}
	item := order.Items[index]

	scanCode := EncodeScanCode(order.ID.Hex(), index)
	barcodePNG, err := BarcodePNG(scanCode)
	if err != nil {
		return nil, fmt.Errorf("barcode generation failed: %w", err)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(pageMargin, 20, pageMargin)
	pdf.SetAutoPageBreak(false, 20)
	pdf.AddPage()

	const contentWidth = pageWidth - 2*pageMargin

	darkGreen := func() { pdf.SetTextColor(0, 100, 0) }
	red := func() { pdf.SetTextColor(255, 0, 0) }
	pdf.SetDrawColor(0, 100, 0)

	cell := func(x, y, w float64, align, text string) {
		pdf.SetXY(x, y)
		pdf.CellFormat(w, 12, text, "", 0, align, false, 0, "")
	}

	// Header: logo box on the left, company name and priority band on
	// the right.
	pdf.Rect(pageMargin, 20, contentWidth, 45, "D")
	pdf.Rect(pageMargin+5, 25, 70, 35, "D")
	darkGreen()
	pdf.SetFont("Helvetica", "B", 10)
	cell(pageMargin+5, 37, 70, "CM", "LOGO")

	pdf.Rect(pageMargin+80, 25, contentWidth-85, 35, "D")
	pdf.SetFont("Helvetica", "B", 11)
	cell(pageMargin+80, 28, contentWidth-85, "CM", "ZUKA")
	pdf.Rect(pageMargin+80, 45, contentWidth-85, 15, "D")
	red()
	pdf.SetFont("Helvetica", "B", 9)
	cell(pageMargin+80, 46, contentWidth-85, "CM", "PRIORITY MAIL")

	// Sender and recipient blocks
	yPos := 75.0
	const addressHeight = 75.0
	pdf.Rect(pageMargin, yPos, contentWidth, addressHeight, "D")
	pdf.Rect(pageMargin, yPos, contentWidth/2, addressHeight, "D")

	darkGreen()
	pdf.SetFont("Helvetica", "B", 9)
	cell(pageMargin+5, yPos+3, contentWidth/2-10, "LM", "From :")
	pdf.SetFont("Helvetica", "", 8)
	for i, line := range senderLines {
		cell(pageMargin+5, yPos+14+float64(i)*12, contentWidth/2-10, "LM", line)
	}

	rightX := pageMargin + contentWidth/2
	pdf.SetFont("Helvetica", "B", 9)
	cell(rightX+5, yPos+3, contentWidth/2-10, "LM", "To :")
	pdf.SetFont("Helvetica", "", 8)
	addr := order.ShippingAddress
	recipientLines := []string{
		addr.FullName,
		addr.Address,
		fmt.Sprintf("%s, %s", addr.City, addr.PostalCode),
		addr.Country,
		addr.Phone,
	}
	for i, line := range recipientLines {
		cell(rightX+5, yPos+14+float64(i)*12, contentWidth/2-10, "LM", line)
	}

	// Package details and LOT/REF identifiers
	yPos += addressHeight + 5
	const detailsHeight = 60.0
	pdf.Rect(pageMargin, yPos, contentWidth, detailsHeight, "D")
	pdf.Rect(pageMargin, yPos, contentWidth/2, detailsHeight, "D")

	pdf.SetFont("Helvetica", "B", 9)
	cell(pageMargin+5, yPos+3, contentWidth/2-10, "LM", "Package Details:")
	pdf.SetFont("Helvetica", "", 8)
	cell(pageMargin+5, yPos+16, contentWidth/2-10, "LM", fmt.Sprintf("Weight: %d unit(s)", item.Quantity))
	cell(pageMargin+5, yPos+28, contentWidth/2-10, "LM", fmt.Sprintf("Product: %s", item.Name))
	linePrice := item.UnitPrice * float64(item.Quantity)
	cell(pageMargin+5, yPos+40, contentWidth/2-10, "LM", fmt.Sprintf("Qty: %d | Rs. %.2f", item.Quantity, linePrice))

	pdf.SetFont("Helvetica", "B", 9)
	cell(rightX+5, yPos+3, contentWidth/2-10, "LM", "LOT NUMBER:")
	pdf.SetFont("Helvetica", "", 8)
	cell(rightX+5, yPos+16, contentWidth/2-10, "LM", suffix(order.ID.Hex(), 8))
	pdf.SetFont("Helvetica", "B", 9)
	cell(rightX+5, yPos+30, contentWidth/2-10, "LM", "REF NUMBER:")
	pdf.SetFont("Helvetica", "", 8)
	cell(rightX+5, yPos+43, contentWidth/2-10, "LM", suffix(item.ProductID.Hex(), 8))

	// Barcode section with the scan string beneath the bars
	yPos += detailsHeight + 5
	const barcodeBoxHeight = 100.0
	pdf.Rect(pageMargin, yPos, contentWidth, barcodeBoxHeight, "D")

	const barcodeWidth = 300.0
	const barcodeHeight = 50.0
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(scanCode, opts, bytes.NewReader(barcodePNG))
	pdf.ImageOptions(scanCode, pageMargin+(contentWidth-barcodeWidth)/2, yPos+8, barcodeWidth, barcodeHeight, false, opts, 0, "")

	darkGreen()
	pdf.SetFont("Helvetica", "", 7)
	cell(pageMargin, yPos+56, contentWidth, "CM", scanCode)

	red()
	pdf.SetFont("Helvetica", "B", 10)
	cell(pageMargin, yPos+68, contentWidth, "CM", "HANDLE WITH CARE")

	darkGreen()
	pdf.SetFont("Helvetica", "B", 9)
	trackingNumber := "00" + suffix(order.ID.Hex(), 15)
	cell(pageMargin, yPos+82, contentWidth, "CM", "TRACKING: "+trackingNumber)

	pdf.SetFont("Helvetica", "", 7)
	cell(pageMargin, pageHeight-20, contentWidth, "CM", "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))

	if pdf.Err() {
		return nil, fmt.Errorf("invoice rendering failed: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice rendering failed: %w", err)
	}
	return buf.Bytes(), nil
}

func suffix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
