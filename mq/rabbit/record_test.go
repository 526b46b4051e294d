package rabbit_test // Testing the 'rabbit' package as a black box providing 'mq' interfaces

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"yathra/mq/mq"
	rabbitMQ "yathra/mq/rabbit"
)

// getTestConnection establishes a real AMQP connection for tests. Tests are
// skipped when RABBITMQ_URL is unset so the suite stays runnable offline.
func getTestConnection(t *testing.T) *amqp.Connection {
	t.Helper()
	if os.Getenv("RABBITMQ_URL") == "" {
		t.Skip("Skipping test: RABBITMQ_URL environment variable not set. Please start RabbitMQ.")
	}
	url := rabbitMQ.CreateAmqpURL()
	conn, err := amqp.Dial(url)
	if err != nil {
		t.Fatalf("PRE-REQUISITE FAILED: Could not connect to RabbitMQ at %s for testing. Error: %v", url, err)
	}
	return conn
}

func receiveMsgWithTimeout[T any](tb testing.TB, ch <-chan T, timeout time.Duration) (T, bool) {
	tb.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			var zero T
			return zero, false
		}
		return msg, true
	case <-time.After(timeout):
		var zero T
		return zero, false
	}
}

func TestRecordEventQueuesWithRabbitMQ(t *testing.T) {
	conn := getTestConnection(t)
	defer conn.Close()

	wrapper, err := rabbitMQ.NewRabbitRecordEventQueueWrapper(conn)
	if err != nil {
		t.Fatalf("Failed to create wrapper: %v", err)
	}

	t.Run("PublishAndReceive", func(t *testing.T) {
		q := wrapper.GetRecordEventQueue(mq.ActionCreate)
		if q == nil {
			t.Fatal("wrapper should provide a create queue")
		}

		tenant := uuid.New()
		subID, ch, err := q.Subscribe(tenant)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer func() {
			_ = q.DeSubscribe(subID)
		}()

		msg := mq.RecordEventMessage{
			Entity:     mq.EntityVehicle,
			EntityID:   uuid.New(),
			UserID:     tenant,
			OccurredAt: time.Now().UTC(),
		}
		if err := q.Publish(msg); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		got, ok := receiveMsgWithTimeout(t, ch, 5*time.Second)
		if !ok {
			t.Fatal("expected to receive the published event")
		}
		if got.EntityID != msg.EntityID {
			t.Errorf("got entity id %s, want %s", got.EntityID, msg.EntityID)
		}
		if got.Entity != mq.EntityVehicle {
			t.Errorf("got entity %s, want %s", got.Entity, mq.EntityVehicle)
		}
	})

	t.Run("OtherTenantFiltered", func(t *testing.T) {
		q := wrapper.GetRecordEventQueue(mq.ActionUpdate)

		tenant := uuid.New()
		subID, ch, err := q.Subscribe(tenant)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer func() {
			_ = q.DeSubscribe(subID)
		}()

		other := mq.RecordEventMessage{
			Entity:   mq.EntityTrip,
			EntityID: uuid.New(),
			UserID:   uuid.New(),
		}
		if err := q.Publish(other); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		if _, ok := receiveMsgWithTimeout(t, ch, 2*time.Second); ok {
			t.Fatal("subscriber should not see another tenant's event")
		}
	})

	t.Run("DeSubscribeClosesChannel", func(t *testing.T) {
		q := wrapper.GetRecordEventQueue(mq.ActionDelete)

		subID, ch, err := q.Subscribe(uuid.New())
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		if err := q.DeSubscribe(subID); err != nil {
			t.Fatalf("DeSubscribe failed: %v", err)
		}

		if _, ok := receiveMsgWithTimeout(t, ch, time.Second); ok {
			t.Fatal("channel should be closed after DeSubscribe")
		}
		if err := q.DeSubscribe(subID); err == nil {
			t.Fatal("second DeSubscribe should fail")
		}
	})
}
