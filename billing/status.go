package billing

import "time"

// Status buckets a contract's billing urgency relative to a moment in time.
type Status string

const (
	StatusActive   Status = "active"
	StatusExpiring Status = "expiring"
	StatusExpired  Status = "expired"
)

// ExpiryHorizon is the calendar window ahead of now within which a
// contract counts as expiring.
const ExpiryHorizon = 30 * 24 * time.Hour

// ClassifyContractStatus buckets a contract end date against now.
// The instant endDate == now is expiring, not expired; the instant
// exactly now + ExpiryHorizon is still expiring, never active.
func ClassifyContractStatus(endDate, now time.Time) Status {
	if endDate.Before(now) {
		return StatusExpired
	}
	if endDate.After(now.Add(ExpiryHorizon)) {
		return StatusActive
	}
	return StatusExpiring
}
