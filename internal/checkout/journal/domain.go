// Package journal defines the checkout journal: an append-only record of
// every transition a checkout session goes through.
//
// Session storage only holds the latest value of each sub-object. The
// journal keeps the path that led there, so support can see where a buyer
// stopped and jump to the distributed trace of any transition.
package journal

import "time"

// Entry is a single row in the checkout_journal table.
type Entry struct {
	// SessionID identifies the checkout session.
	SessionID string

	// Action is the name of the committed action, e.g. "set_address".
	Action string

	// Step and FlowMode are the values after the transition.
	Step     int
	FlowMode string

	// Payload is the JSON of the sub-object the action changed. Empty for
	// navigation and flow changes.
	Payload string

	// TraceID and SpanID come from the OpenTelemetry span active when the
	// entry was built.
	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
