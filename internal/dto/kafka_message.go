package dto

type KafkaMessage struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// RegistrationPaymentUpdate tells the registration service to mark the
// owning registration paid or failed. Keyed by transaction number so the
// consumer can de-duplicate.
type RegistrationPaymentUpdate struct {
	TransactionNumber  string `json:"transaction_number"`
	RegistrationNumber string `json:"registration_number"`
	AmountPaisa        int64  `json:"amount_paisa"`
	Currency           string `json:"currency"`
	Status             string `json:"status"`
	ResponseCode       string `json:"response_code"`
}
