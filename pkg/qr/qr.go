package qr

import qrcode "github.com/skip2/go-qrcode"

// ItfQR renders a shareable QR code for a public result locator.
type ItfQR interface {
	GeneratePNG(content string, size int) ([]byte, error)
}

type qrGenerator struct{}

func New() ItfQR {
	return &qrGenerator{}
}

func (q *qrGenerator) GeneratePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 250
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}
