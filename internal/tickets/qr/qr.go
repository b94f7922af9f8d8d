package qr

import (
	"errors"
	"os"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of a generated QR image.
const DefaultSize = 256

// EncodePNG renders a ticket's raw QR payload as a PNG image.
func EncodePNG(qrData string, size int) ([]byte, error) {
	if qrData == "" {
		return nil, errors.New("qr data is empty")
	}
	if size <= 0 {
		size = DefaultSize
	}
	return qrcode.Encode(qrData, qrcode.Medium, size)
}

// WriteFile renders the QR payload and saves it to path.
func WriteFile(qrData, path string) error {
	png, err := EncodePNG(qrData, DefaultSize)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}
