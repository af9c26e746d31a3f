package domain

const (
	StatusPending       = "pending"
	StatusPendingAction = "pending_action"
	StatusConfirmed     = "confirmed"
	StatusDeclined      = "declined"
	StatusExpired       = "expired"
	StatusError         = "error"
)

// Gateway response codes, reproduced verbatim from the integration guide.
const (
	ResponseCodeSuccess        = "000"
	ResponseCodePending        = "121"
	ResponseCodeTimeout        = "134"
	ResponseCodeFailure        = "199"
	ResponseCodeTechnicalError = "999"
)

// StatusForResponseCode maps a gateway response code to a transaction
// status. Unrecognized codes map to error: unknown must never read as paid.
func StatusForResponseCode(code string) string {
	switch code {
	case ResponseCodeSuccess:
		return StatusConfirmed
	case ResponseCodePending:
		return StatusPendingAction
	case ResponseCodeTimeout, ResponseCodeFailure:
		return StatusDeclined
	case ResponseCodeTechnicalError:
		return StatusError
	default:
		return StatusError
	}
}

func IsTerminal(status string) bool {
	switch status {
	case StatusConfirmed, StatusDeclined, StatusExpired, StatusError:
		return true
	}
	return false
}

// ApplyOutcome is the single transition function both delivery channels go
// through. It returns the next status plus whether the proposal was applied
// or conflicts with an already-terminal outcome. Rules:
//
//   - re-delivering the current status is a duplicate no-op
//   - pending and pending_action accept any more specific outcome
//   - a terminal status accepts nothing else; a different terminal proposal
//     is a conflict and must not be applied
func ApplyOutcome(current string, proposed string) (next string, applied bool, conflict bool) {
	if proposed == current {
		return current, false, false
	}

	switch current {
	case StatusPending:
		return proposed, true, false
	case StatusPendingAction:
		if proposed == StatusPending {
			return current, false, false
		}
		return proposed, true, false
	default:
		return current, false, true
	}
}
