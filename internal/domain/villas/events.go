package villas

import "time"

type ViewedEvent struct {
	VillaID VillaID   `json:"villa_id"`
	Slug    string    `json:"slug"`
	At      time.Time `json:"at"`
}

func (e ViewedEvent) EventName() string     { return "villa.viewed" }
func (e ViewedEvent) AggregateID() string   { return string(e.VillaID) }
func (e ViewedEvent) OccurredAt() time.Time { return e.At }
