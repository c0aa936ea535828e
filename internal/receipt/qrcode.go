package receipt

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// DefaultQRGenerator renders a PNG linking to the customer order-status page,
// printed on collection receipts.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID string) ([]byte, error) {
	qrData := fmt.Sprintf("%s/order-status/%s", g.BaseURL, orderID)
	return qrcode.Encode(qrData, qrcode.Medium, 256)
}
