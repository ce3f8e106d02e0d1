package postgres

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sort"

	domainvillas "villafinder/internal/domain/villas"
)

// jsonbDecoder decodes JSONB columns once at the store boundary. Columns
// written by the scraper may hold a JSON string wrapping the document; those
// are unwrapped first. Malformed documents are logged and leave the zero
// value behind.
type jsonbDecoder struct {
	logger *slog.Logger
	table  string
	id     string
}

func (d jsonbDecoder) decode(field string, raw []byte, out any) {
	raw, ok := d.document(field, raw)
	if !ok {
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		d.warn(field, err)
	}
}

// document trims raw and unwraps one level of string encoding. It reports
// false for empty, null and undecodable values.
func (d jsonbDecoder) document(field string, raw []byte) ([]byte, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			d.warn(field, err)
			return nil, false
		}
		raw = bytes.TrimSpace([]byte(inner))
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

func (d jsonbDecoder) warn(field string, err error) {
	d.logger.Warn("malformed jsonb column", "table", d.table, "id", d.id, "field", field, "error", err)
}

// policies accepts the list form [{topic, content}] and the object form
// {"topic": "content"}; object keys are sorted for a stable order.
func (d jsonbDecoder) policies(raw []byte) []domainvillas.Policy {
	raw, ok := d.document("policies", raw)
	if !ok {
		return nil
	}
	if raw[0] == '{' {
		var byTopic map[string]any
		d.decode("policies", raw, &byTopic)
		topics := make([]string, 0, len(byTopic))
		for topic := range byTopic {
			topics = append(topics, topic)
		}
		sort.Strings(topics)
		out := make([]domainvillas.Policy, 0, len(topics))
		for _, topic := range topics {
			if content, ok := byTopic[topic].(string); ok {
				out = append(out, domainvillas.Policy{Topic: topic, Content: content})
			}
		}
		return out
	}
	var out []domainvillas.Policy
	d.decode("policies", raw, &out)
	return out
}

func encodeJSON(v any, empty string) []byte {
	raw, err := json.Marshal(v)
	if err != nil || bytes.Equal(raw, []byte("null")) {
		return []byte(empty)
	}
	return raw
}
