// Package audit records security-relevant actions: signup, login, token
// refresh and revocation, organization changes and invitations.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"orgbase.org/internal/auth"
	"orgbase.org/internal/obs"
)

type requestIDKey struct{}

// WithRequestID attaches the request identifier for later audit entries.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// LogEvent writes one audit entry enriched with the request id and the
// acting user from the context. Events never carry credentials or tokens;
// callers pass identifying fields only.
func LogEvent(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		entry["user_id"] = userID
	}
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	entry["fields"] = copied

	obs.Emit(entry)
	return nil
}
