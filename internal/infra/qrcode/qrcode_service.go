package qrcode

import (
	"encoding/json"

	"barbershop/config"
	"barbershop/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	defaultSize = 256
	bookingType = "booking"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// BookingQRData is the payload encoded in a booking confirmation QR code
type BookingQRData struct {
	RefID         string `json:"ref_id"`
	AppointmentID int64  `json:"appointment_id"`
	Type          string `json:"type"`
}

// NewQRCodeService creates a QR code service from configuration
func NewQRCodeService(cfg *config.Config) service.QRCodeService {
	size, level := defaultSize, ""
	if cfg.QRCode != nil {
		if cfg.QRCode.Size > 0 {
			size = cfg.QRCode.Size
		}
		level = cfg.QRCode.ErrorCorrectionLevel
	}

	return newQRCodeService(size, level)
}

func newQRCodeService(size int, errorCorrectionLevel string) *qrcodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateBookingQR renders the confirmation QR of a paid booking as PNG
func (s *qrcodeService) GenerateBookingQR(refID string, appointmentID int64) ([]byte, error) {
	if refID == "" {
		return nil, errors.New("ref id is required")
	}

	jsonData, err := json.Marshal(BookingQRData{
		RefID:         refID,
		AppointmentID: appointmentID,
		Type:          bookingType,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal QR code data")
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
