package service

// QRCodeService defines the interface for QR code generation
type QRCodeService interface {
	// GenerateBookingQR renders the confirmation QR of a paid booking as PNG
	GenerateBookingQR(refID string, appointmentID int64) ([]byte, error)
}
