// Package logging writes one JSON object per line through the standard logger.
package logging

import (
	"encoding/json"
	"log"
	"time"
)

// Fields is the set of keys a log line may carry. Empty values are omitted.
type Fields struct {
	Service    string `json:"service"`
	RequestID  string `json:"request_id,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Entity     string `json:"entity,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Step       string `json:"step,omitempty"`
	Status     string `json:"status,omitempty"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	HTTPStatus int    `json:"http_status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
	Timestamp  string `json:"timestamp"`
}

var service = "storefront"

// SetService sets the service name stamped on every line.
func SetService(name string) { service = name }

// Log writes fields as a JSON line.
func Log(fields Fields) {
	if fields.Service == "" {
		fields.Service = service
	}
	fields.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	data, err := json.Marshal(fields)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}

// Error logs err with the step it happened in.
func Error(step string, err error, fields Fields) {
	fields.Step = step
	fields.Status = "error"
	if err != nil {
		fields.Error = err.Error()
	}
	Log(fields)
}
