package journal

import (
	"strconv"
	"time"
)

// CallEvent is one control-plane RPC as seen by the client.
type CallEvent struct {
	ID      string `json:"id"`       // UUID of the record
	TraceID string `json:"trace_id"` // x-trace-id sent with the call
	Method  string `json:"method"`   // full gRPC method
	OrgID   string `json:"org_id,omitempty"`
	AgentID string `json:"agent_id,omitempty"`

	// Outcome
	Code       string    `json:"code"`           // gRPC status code name
	Kind       string    `json:"kind,omitempty"` // error kind, empty on success
	DurationMs int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
	Error      string    `json:"error,omitempty"`
}

// values flattens the event into stream fields.
func (e CallEvent) values() map[string]interface{} {
	v := map[string]interface{}{
		"id":          e.ID,
		"trace_id":    e.TraceID,
		"method":      e.Method,
		"code":        e.Code,
		"duration_ms": strconv.FormatInt(e.DurationMs, 10),
		"timestamp":   e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if e.OrgID != "" {
		v["org_id"] = e.OrgID
	}
	if e.AgentID != "" {
		v["agent_id"] = e.AgentID
	}
	if e.Kind != "" {
		v["kind"] = e.Kind
	}
	if e.Error != "" {
		v["error"] = e.Error
	}
	return v
}
