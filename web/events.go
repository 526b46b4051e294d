package web

import (
	"log"
	"time"

	"github.com/google/uuid"

	"yathra/libs/diff"
	"yathra/mq/mq"
)

// eventPublisher pushes record change events onto the queue wrapper. Publish
// failures are logged and never fail the mutation that triggered them.
type eventPublisher struct {
	queues mq.RecordEventQueueWrapper
}

func (p *eventPublisher) publish(action mq.Action, entity mq.EntityKind, tenant, entityID uuid.UUID, changedFields []string) {
	if p.queues == nil {
		return
	}
	q := p.queues.GetRecordEventQueue(action)
	if q == nil {
		return
	}

	msg := mq.RecordEventMessage{
		Entity:        entity,
		EntityID:      entityID,
		UserID:        tenant,
		ChangedFields: changedFields,
		OccurredAt:    time.Now().UTC(),
	}
	if err := q.Publish(msg); err != nil {
		log.Printf("failed to publish %s %s event for %s: %v", entity, action, entityID, err)
	}
}

// publishUpdate diffs the old and new values and attaches the changed-field
// list to the event.
func (p *eventPublisher) publishUpdate(entity mq.EntityKind, tenant, entityID uuid.UUID, old, new interface{}) {
	fields, err := diff.ChangedFields(old, new)
	if err != nil {
		log.Printf("failed to diff %s %s for update event: %v", entity, entityID, err)
	}
	p.publish(mq.ActionUpdate, entity, tenant, entityID, fields)
}
