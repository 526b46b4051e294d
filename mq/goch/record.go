package goch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"yathra/mq/mq"
)

type QueueError string

func (e QueueError) Error() string {
	return string(e)
}

const (
	ErrQueueFull QueueError = "message queue is full"
)

type subscriber struct {
	topic   uuid.UUID
	channel chan mq.RecordEventMessage
}

// ChannelRecordEventQueue implements mq.RecordEventQueue with in-process Go
// channels. Each subscriber gets its own buffered channel; messages are fanned
// out to every subscriber whose topic matches the message's tenant.
type ChannelRecordEventQueue struct {
	action      mq.Action
	bufferSize  int
	mu          sync.RWMutex
	subscribers map[uuid.UUID]*subscriber
}

// NewChannelRecordEventQueue creates a channel-backed queue for one action.
// bufferSize caps how many undelivered messages each subscriber may hold.
func NewChannelRecordEventQueue(action mq.Action, bufferSize int) *ChannelRecordEventQueue {
	return &ChannelRecordEventQueue{
		action:      action,
		bufferSize:  bufferSize,
		subscribers: make(map[uuid.UUID]*subscriber),
	}
}

func (q *ChannelRecordEventQueue) GetAction() mq.Action {
	return q.action
}

// Publish fans the message out to matching subscribers without blocking. A
// subscriber whose buffer is full misses the message and Publish reports
// ErrQueueFull after delivering to the rest.
func (q *ChannelRecordEventQueue) Publish(msg mq.RecordEventMessage) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	var full bool
	for _, sub := range q.subscribers {
		if sub.topic != msg.GetTopic() {
			continue
		}
		select {
		case sub.channel <- msg:
		default:
			full = true
		}
	}
	if full {
		return ErrQueueFull
	}
	return nil
}

func (q *ChannelRecordEventQueue) Subscribe(tenant uuid.UUID) (uuid.UUID, <-chan mq.RecordEventMessage, error) {
	id := uuid.New()
	sub := &subscriber{
		topic:   tenant,
		channel: make(chan mq.RecordEventMessage, q.bufferSize),
	}

	q.mu.Lock()
	q.subscribers[id] = sub
	q.mu.Unlock()

	return id, sub.channel, nil
}

func (q *ChannelRecordEventQueue) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber %s not found", id)
	}
	delete(q.subscribers, id)
	close(sub.channel)
	return nil
}

// GoChanRecordEventQueueWrapper bundles one channel queue per action.
type GoChanRecordEventQueueWrapper struct {
	QueueArray [mq.ActionCnt]mq.RecordEventQueue
}

func (wrapper *GoChanRecordEventQueueWrapper) GetRecordEventQueue(action mq.Action) mq.RecordEventQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.QueueArray[action]
}

// NewGoChanRecordEventQueueWrapper creates an in-process wrapper covering
// create, update and delete events.
func NewGoChanRecordEventQueueWrapper() mq.RecordEventQueueWrapper {
	wrapper := GoChanRecordEventQueueWrapper{}
	wrapper.QueueArray[mq.ActionCreate] = NewChannelRecordEventQueue(mq.ActionCreate, 16)
	wrapper.QueueArray[mq.ActionUpdate] = NewChannelRecordEventQueue(mq.ActionUpdate, 16)
	wrapper.QueueArray[mq.ActionDelete] = NewChannelRecordEventQueue(mq.ActionDelete, 16)
	return &wrapper
}
