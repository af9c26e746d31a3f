package dto

type PaymentRequest struct {
	RegistrationNumber string `json:"registration_number"`
	PayerEmail         string `json:"payer_email"`
	AmountPaisa        int64  `json:"amount_paisa"`
	Currency           string `json:"currency"`
	Description        string `json:"description"`
}
