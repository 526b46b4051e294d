package mq

import (
	"time"

	"github.com/google/uuid"
)

type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
	ActionCnt
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// EntityKind names the record type a change event refers to.
type EntityKind string

const (
	EntityVehicle  EntityKind = "vehicle"
	EntityDriver   EntityKind = "driver"
	EntityContract EntityKind = "contract"
	EntityTrip     EntityKind = "trip"
)

// RecordEventMessage describes one mutation of a tenant's record. For
// updates, ChangedFields holds the dotted paths of the fields that differ
// between the old and new values.
type RecordEventMessage struct {
	Entity        EntityKind
	EntityID      uuid.UUID
	UserID        uuid.UUID
	ChangedFields []string
	OccurredAt    time.Time
}

// GetTopic routes events by tenant so a subscriber only sees its own records.
func (m RecordEventMessage) GetTopic() uuid.UUID {
	return m.UserID
}
