package dto

// IPNAcknowledgement is the signed receipt body the gateway expects back
// from the IPN endpoint.
type IPNAcknowledgement struct {
	ResponseCode    string `json:"pp_ResponseCode"`
	ResponseMessage string `json:"pp_ResponseMessage"`
	SecureHash      string `json:"pp_SecureHash"`
}

// StatusInquiryResult is the gateway's reply to a status inquiry. The outer
// code reports the inquiry call itself; the payment fields report the state
// of the inquired transaction.
type StatusInquiryResult struct {
	ResponseCode           string `json:"pp_ResponseCode"`
	ResponseMessage        string `json:"pp_ResponseMessage"`
	PaymentResponseCode    string `json:"pp_PaymentResponseCode"`
	PaymentResponseMessage string `json:"pp_PaymentResponseMessage"`
	Status                 string `json:"pp_Status"`
}
