package events

import "time"

// DomainEvent is a fact recorded by the domain and relayed through the outbox.
type DomainEvent interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

// Kind returns the aggregate part of an event name ("villa" for "villa.viewed").
func Kind(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}
