package dto

// ViewAck acknowledges a recorded or applied page view.
type ViewAck struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
	ID      string `json:"id"`
}
