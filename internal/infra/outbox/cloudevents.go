package outbox

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	appoutbox "villafinder/internal/app/outbox"
)

const (
	specVersion      = "1.0"
	typeSuffix       = ".v1"
	cloudEventsMedia = "application/cloudevents+json"
)

var ErrMalformedEnvelope = errors.New("outbox: malformed cloud event")

// Envelope is the structured-mode CloudEvents document published per record.
type Envelope struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	Data            json.RawMessage `json:"data"`
}

// Encode wraps a stored record. The record id is kept as the event id so
// consumers can deduplicate redeliveries.
func Encode(doc *EventDocument, source string) ([]byte, error) {
	if !json.Valid(doc.Payload) {
		return nil, ErrMalformedEnvelope
	}
	env := Envelope{
		SpecVersion:     specVersion,
		ID:              doc.ID,
		Type:            doc.Name + typeSuffix,
		Source:          source,
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     doc.Headers["traceparent"],
		Data:            json.RawMessage(doc.Payload),
	}
	return json.Marshal(env)
}

// Decode turns a published envelope back into an outbox record.
func Decode(payload []byte) (appoutbox.EventRecord, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return appoutbox.EventRecord{}, errors.Join(ErrMalformedEnvelope, err)
	}
	if env.ID == "" || env.Type == "" {
		return appoutbox.EventRecord{}, ErrMalformedEnvelope
	}
	rec := appoutbox.EventRecord{
		ID:         env.ID,
		Name:       strings.TrimSuffix(env.Type, typeSuffix),
		Payload:    []byte(env.Data),
		OccurredAt: env.Time,
		Aggregate:  env.Subject,
		Headers:    map[string]string{},
	}
	if env.TraceParent != "" {
		rec.Headers["traceparent"] = env.TraceParent
	}
	return rec, nil
}
