package dto

// CheckoutResponse carries everything the browser needs to redirect the
// payer to the gateway's hosted page: a form action plus the signed fields.
type CheckoutResponse struct {
	TxnRefNo string            `json:"txn_ref_no"`
	Action   string            `json:"action"`
	Method   string            `json:"method"`
	Fields   map[string]string `json:"fields"`
}

type PaymentResponse struct {
	TxnRefNo           string `json:"txn_ref_no"`
	RegistrationNumber string `json:"registration_number"`
	AmountPaisa        int64  `json:"amount_paisa"`
	Currency           string `json:"currency"`
	Status             string `json:"status"`
	ResponseCode       string `json:"response_code,omitempty"`
	ResponseMessage    string `json:"response_message,omitempty"`
	IPNDeliveryCount   int64  `json:"ipn_delivery_count"`
	PaidAt             *int64 `json:"paid_at,omitempty"`
	CreatedAt          int64  `json:"created_at"`
}

// PaymentResult is what the browser-return page shows. Status is always the
// stored post-reconciliation status, never the raw payload's.
type PaymentResult struct {
	TxnRefNo string
	Status   string
	Message  string
}

type StatusInquiryResponse struct {
	TxnRefNo        string `json:"txn_ref_no"`
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
	PaymentCode     string `json:"payment_response_code"`
	PaymentMessage  string `json:"payment_response_message"`
	Status          string `json:"status"`
}
