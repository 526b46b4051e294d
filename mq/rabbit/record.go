package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"yathra/mq/mq"
)

const (
	exchangeName = "record_events_exchange" // All record change events go through this exchange
)

const (
	recordCreateRoutingKey = "record.create"
	recordUpdateRoutingKey = "record.update"
	recordDeleteRoutingKey = "record.delete"
)

func getRoutingKey(action mq.Action) string {
	switch action {
	case mq.ActionCreate:
		return recordCreateRoutingKey
	case mq.ActionUpdate:
		return recordUpdateRoutingKey
	case mq.ActionDelete:
		return recordDeleteRoutingKey
	}
	return ""
}

type rabbitSubscriber struct {
	topic   uuid.UUID
	channel chan mq.RecordEventMessage
}

// rabbitRecordEventQueue implements mq.RecordEventQueue for RabbitMQ.
type rabbitRecordEventQueue struct {
	action     mq.Action
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	queueName  string
	routingKey string
	mu         sync.RWMutex // protects the consumers map
	consumers  map[uuid.UUID]*rabbitSubscriber
}

// NewRabbitRecordEventQueue creates a RabbitMQ-backed queue for one action.
func NewRabbitRecordEventQueue(action mq.Action, conn *amqp091.Connection) (mq.RecordEventQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queueName := fmt.Sprintf("record_event_%d_queue", action)
	routingKey := getRoutingKey(action)

	if err := DeclareQueueAndExchange(ch, queueName, exchangeName, routingKey); err != nil {
		ch.Close()
		return nil, err
	}

	return &rabbitRecordEventQueue{
		action:     action,
		conn:       conn,
		channel:    ch,
		queueName:  queueName,
		routingKey: routingKey,
		consumers:  make(map[uuid.UUID]*rabbitSubscriber),
	}, nil
}

func (q *rabbitRecordEventQueue) GetAction() mq.Action {
	return q.action
}

func (q *rabbitRecordEventQueue) Publish(msg mq.RecordEventMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.channel.PublishWithContext(ctx,
		exchangeName, // exchange
		q.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe registers a consumer on the action's queue. Events of other
// tenants are dropped client-side before they reach the subscriber channel.
func (q *rabbitRecordEventQueue) Subscribe(tenant uuid.UUID) (uuid.UUID, <-chan mq.RecordEventMessage, error) {
	msgs, err := q.channel.Consume(
		q.queueName, // queue
		"",          // consumer
		true,        // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	subscriberID := uuid.New()
	sub := &rabbitSubscriber{
		topic:   tenant,
		channel: make(chan mq.RecordEventMessage),
	}

	q.mu.Lock()
	q.consumers[subscriberID] = sub
	q.mu.Unlock()

	go func() {
		defer func() {
			q.mu.Lock()
			if s, ok := q.consumers[subscriberID]; ok {
				close(s.channel)
				delete(q.consumers, subscriberID)
			}
			q.mu.Unlock()
		}()

		for d := range msgs {
			var msg mq.RecordEventMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				log.Printf("Failed to unmarshal RecordEventMessage: %v", err)
				continue
			}
			if msg.GetTopic() != sub.topic {
				continue
			}

			q.mu.RLock()
			if s, ok := q.consumers[subscriberID]; ok {
				select {
				case s.channel <- msg:
					// Message sent to consumer
				case <-time.After(1 * time.Second): // Prevent blocking indefinitely
					log.Printf("Timeout sending message to consumer %s. Skipping.", subscriberID)
				}
				q.mu.RUnlock()
			} else {
				// Consumer was unsubscribed while message was in flight
				q.mu.RUnlock()
				return
			}
		}
	}()

	return subscriberID, sub.channel, nil
}

func (q *rabbitRecordEventQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if sub, ok := q.consumers[subscriberID]; ok {
		delete(q.consumers, subscriberID)
		close(sub.channel)
		return nil
	}
	return fmt.Errorf("consumer with ID %s not found for queue %s", subscriberID, q.queueName)
}

// rabbitRecordEventQueueWrapper implements mq.RecordEventQueueWrapper for RabbitMQ.
type rabbitRecordEventQueueWrapper struct {
	QueueArray [mq.ActionCnt]mq.RecordEventQueue
	conn       *amqp091.Connection
}

// NewRabbitRecordEventQueueWrapper opens one channel-backed queue per action
// on the given connection.
func NewRabbitRecordEventQueueWrapper(conn *amqp091.Connection) (mq.RecordEventQueueWrapper, error) {
	wrapper := &rabbitRecordEventQueueWrapper{
		conn: conn,
	}

	var err error
	wrapper.QueueArray[mq.ActionCreate], err = NewRabbitRecordEventQueue(mq.ActionCreate, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create create-event mq: %w", err)
	}
	wrapper.QueueArray[mq.ActionUpdate], err = NewRabbitRecordEventQueue(mq.ActionUpdate, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create update-event mq: %w", err)
	}
	wrapper.QueueArray[mq.ActionDelete], err = NewRabbitRecordEventQueue(mq.ActionDelete, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create delete-event mq: %w", err)
	}

	return wrapper, nil
}

func (wrapper *rabbitRecordEventQueueWrapper) GetRecordEventQueue(action mq.Action) mq.RecordEventQueue {
	if action < 0 || action >= mq.ActionCnt {
		return nil
	}
	return wrapper.QueueArray[action]
}

// Close closes all channels and the RabbitMQ connection.
func (wrapper *rabbitRecordEventQueueWrapper) Close() {
	for _, q := range wrapper.QueueArray {
		if rmq, ok := q.(*rabbitRecordEventQueue); ok && rmq.channel != nil {
			rmq.channel.Close()
		}
	}
	if wrapper.conn != nil {
		wrapper.conn.Close()
	}
}
