package domain

// Transaction is one payment attempt against the gateway. Amount, currency
// and txn_ref_no are immutable after creation; status changes only through
// ApplyOutcome under the store's row lock. Rows are never deleted.
type Transaction struct {
	ID                 int64   `db:"id"`
	RegistrationNumber string  `db:"registration_number"`
	PayerEmail         string  `db:"payer_email"`
	TxnRefNo           string  `db:"txn_ref_no"`
	AmountPaisa        int64   `db:"amount_paisa"`
	Currency           string  `db:"currency"`
	Description        string  `db:"description"`
	Status             string  `db:"status"`
	ResponseCode       string  `db:"response_code"`
	ResponseMessage    string  `db:"response_message"`
	RawPayload         string  `db:"raw_payload"`
	IPNDeliveryCount   int64   `db:"ipn_delivery_count"`
	ExpiredAt          int64   `db:"expired_at"`
	PaidAt             *int64  `db:"paid_at"`
	CreatedAt          int64   `db:"created_at"`
	UpdatedAt          int64   `db:"updated_at"`
}

// IPNDeliveryLog records every POST received on the IPN endpoint, accepted
// or not. Append-only: only the outcome and processed_at are filled in once
// processing finishes.
type IPNDeliveryLog struct {
	ID               string  `db:"id"`
	TxnRefNo         string  `db:"txn_ref_no"`
	MatchedTxnRefNo  *string `db:"matched_txn_ref_no"`
	SourceIP         string  `db:"source_ip"`
	ResponseCode     string  `db:"response_code"`
	ResponseMessage  string  `db:"response_message"`
	RawPayload       string  `db:"raw_payload"`
	HashVerified     bool    `db:"hash_verified"`
	Outcome          string  `db:"outcome"`
	ReceivedAt       int64   `db:"received_at"`
	ProcessedAt      *int64  `db:"processed_at"`
}

const (
	IPNOutcomeReceived                 = "received"
	IPNOutcomeApplied                  = "applied"
	IPNOutcomeDuplicateIgnored         = "duplicate_ignored"
	IPNOutcomeConflict                 = "conflict"
	IPNOutcomeRejectedInvalidHash      = "rejected_invalid_hash"
	IPNOutcomeRejectedUnknownReference = "rejected_unknown_reference"
)
