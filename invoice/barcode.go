package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

const scanPrefix = "INV"

var ErrInvalidScanCode = errors.New("invalid invoice scan code")

// EncodeScanCode builds the payload embedded in the shipping-label
// barcode. The INV-{orderId}-{lineItemIndex} format is relied on by
// deployed scanners and must not change.
func EncodeScanCode(orderID string, index int) string {
	return fmt.Sprintf("%s-%s-%d", scanPrefix, orderID, index)
}

// DecodeScanCode parses a scanned payload back into an order id and
// line item index. Order ids are 24-character hex strings and can
// never contain a dash, so the index is split off at the last dash;
// anything else is rejected.
func DecodeScanCode(code string) (string, int, error) {
	rest, ok := strings.CutPrefix(code, scanPrefix+"-")
	if !ok {
		return "", 0, ErrInvalidScanCode
	}

	cut := strings.LastIndex(rest, "-")
	if cut <= 0 {
		return "", 0, ErrInvalidScanCode
	}

	orderID := rest[:cut]
	if !isHexObjectID(orderID) {
		return "", 0, ErrInvalidScanCode
	}

	index, err := strconv.Atoi(rest[cut+1:])
	if err != nil || index < 0 {
		return "", 0, ErrInvalidScanCode
	}

	return orderID, index, nil
}

func isHexObjectID(s string) bool {
	if len(s) != 24 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// BarcodePNG renders text as a Code128 symbol and returns the PNG
// bytes.
func BarcodePNG(text string) ([]byte, error) {
	symbol, err := code128.Encode(text)
	if err != nil {
		return nil, err
	}

	scaled, err := barcode.Scale(symbol, 600, 100)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
