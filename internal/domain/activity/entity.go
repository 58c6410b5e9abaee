package activity

import "time"

// Event kinds recorded in the append-only activity log.
type Event string

const (
	EventRegister     Event = "register"
	EventAnalyze      Event = "analyze"
	EventCompare      Event = "compare"
	EventExport       Event = "export"
	EventSubscribe    Event = "subscribe"
	EventRateLimitHit Event = "rate_limit_hit"
	EventCreditDenied Event = "credit_denied"
	EventCreditRefund Event = "credit_refund"
)

// Record is one activity entry. Payload is a small free-form blob
// (serialized JSON) describing the causing operation.
type Record struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Event     Event     `json:"event"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
