package mq

import "github.com/google/uuid"

// TopicProvider reports which topic a message should be routed to.
type TopicProvider interface {
	GetTopic() uuid.UUID
}

type RecordEventQueueWrapper interface {
	GetRecordEventQueue(action Action) RecordEventQueue
}

type RecordEventQueue interface {
	GetAction() Action
	Publish(msg RecordEventMessage) error
	// Subscribe registers a consumer for the tenant's events and returns the
	// subscriber id used for DeSubscribe.
	Subscribe(tenant uuid.UUID) (uuid.UUID, <-chan RecordEventMessage, error)
	DeSubscribe(id uuid.UUID) error
}
