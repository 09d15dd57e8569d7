package dto

// IdentityQRPayload is the machine-readable JSON payload embedded in the
// QR code on the back of newer-generation identity cards. When present it
// is authoritative and skips the inference round-trip entirely.
type IdentityQRPayload struct {
	FullName     string `json:"name"`
	IDNumber     string `json:"id_number"`
	DateOfBirth  string `json:"date_of_birth"`
	ExpiryDate   string `json:"expiry_date"`
	PlaceOfBirth string `json:"place_of_birth"`
}
