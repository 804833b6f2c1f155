package gameapi

import (
	"encoding/json"
	"time"
)

// Exchange is one request/response pair with the service. Request and
// Response hold raw JSON bodies; Err is set when no response arrived.
type Exchange struct {
	Time     time.Time       `json:"time"`
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Status   int             `json:"status,omitempty"`
	Request  json.RawMessage `json:"request,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
	Err      string          `json:"error,omitempty"`
	Duration time.Duration   `json:"duration"`
}

// Recorder receives exchanges. Implementations must be safe for
// concurrent use and must not block for long.
type Recorder interface {
	RecordExchange(Exchange)
}
