package infra

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// LicenciaQR renders a license barcode as a square PNG QR code.
func LicenciaQR(codigo string, size int) ([]byte, error) {
	png, err := qrcode.Encode(codigo, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", codigo, err)
	}
	return png, nil
}
