package journal

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// there is no valid span, e.g. in unit tests.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an Entry stamped with the trace info found in ctx.
//
//	entry := journal.NewEntry(ctx, sessionID, "set_address", 2, "three", payload)
//	_ = repo.Save(ctx, entry)
func NewEntry(ctx context.Context, sessionID, action string, step int, flowMode, payload string) *Entry {
	ti := ExtractTraceInfo(ctx)

	return &Entry{
		SessionID: sessionID,
		Action:    action,
		Step:      step,
		FlowMode:  flowMode,
		Payload:   payload,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		UpdatedAt: time.Now().UTC(),
	}
}
