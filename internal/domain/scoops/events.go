package scoops

import "time"

type ViewedEvent struct {
	ScoopID ScoopID   `json:"scoop_id"`
	Slug    string    `json:"slug"`
	At      time.Time `json:"at"`
}

func (e ViewedEvent) EventName() string     { return "scoop.viewed" }
func (e ViewedEvent) AggregateID() string   { return string(e.ScoopID) }
func (e ViewedEvent) OccurredAt() time.Time { return e.At }
