package quote

import "github.com/moiseinternational-web/mws-lead-backup-2/internal/httperr"

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func InitialStatus() Status {
	return StatusDraft
}

// CanEdit: item/total edits are only allowed while the quote is a draft.
func CanEdit(current Status) error {
	if current != StatusDraft {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanSend: a rejected quote cannot be re-delivered; anything else can
// (re-sending a sent quote is allowed, delivery is best effort).
func CanSend(current Status) error {
	if current == StatusRejected {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanAccept(current Status) error {
	if current != StatusSent {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanReject(current Status) error {
	if current != StatusSent {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}
