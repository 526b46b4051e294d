package gcppubsub_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"yathra/mq/gcppubsub"
	"yathra/mq/mq"
)

// --- Test Pre-requisite ---
// This test suite requires the Google Cloud Pub/Sub emulator to be running.
// Before running the tests, start the emulator using the gcloud CLI:
//
//	gcloud beta emulators pubsub start --project=test-project
//
// The tests detect the PUBSUB_EMULATOR_HOST environment variable set by the
// emulator; without it, all tests are skipped. The project ID used here must
// match the one used to start the emulator.
const testProjectID = "test-project"

// getTestWrapper connects to the Pub/Sub emulator and creates a new wrapper
// for testing. It skips the test if the emulator is not running.
func getTestWrapper(t *testing.T) mq.RecordEventQueueWrapper {
	t.Helper()
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("Skipping test: PUBSUB_EMULATOR_HOST environment variable not set. Please start the Pub/Sub emulator.")
	}

	ctx := context.Background()
	wrapper, err := gcppubsub.NewGCPRecordEventQueueWrapper(ctx, testProjectID)
	if err != nil {
		t.Fatalf("Failed to create GCPRecordEventQueueWrapper for emulator: %v", err)
	}
	return wrapper
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

func TestPublishSubscribeRoundTrip(t *testing.T) {
	wrapper := getTestWrapper(t)
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

	// Give the emulator a moment to set up the filtered subscription.
	time.Sleep(time.Second)

	msg := mq.RecordEventMessage{
		Entity:     mq.EntityContract,
		EntityID:   uuid.New(),
		UserID:     tenant,
		OccurredAt: time.Now().UTC(),
	}
	if err := q.Publish(msg); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got, ok := receiveMsgWithTimeout(t, ch, 10*time.Second)
	if !ok {
		t.Fatal("expected to receive the published event")
	}
	if got.EntityID != msg.EntityID {
		t.Errorf("got entity id %s, want %s", got.EntityID, msg.EntityID)
	}
}

func TestSubscriptionFiltersByTenant(t *testing.T) {
	wrapper := getTestWrapper(t)
	q := wrapper.GetRecordEventQueue(mq.ActionUpdate)

	tenant := uuid.New()
	subID, ch, err := q.Subscribe(tenant)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer func() {
		_ = q.DeSubscribe(subID)
	}()

	time.Sleep(time.Second)

	other := mq.RecordEventMessage{
		Entity:        mq.EntityTrip,
		EntityID:      uuid.New(),
		UserID:        uuid.New(),
		ChangedFields: []string{"TripRate"},
	}
	if err := q.Publish(other); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if _, ok := receiveMsgWithTimeout(t, ch, 3*time.Second); ok {
		t.Fatal("filtered subscription should not deliver another tenant's event")
	}
}

func TestDeSubscribeStopsDelivery(t *testing.T) {
	wrapper := getTestWrapper(t)
	q := wrapper.GetRecordEventQueue(mq.ActionDelete)

	subID, ch, err := q.Subscribe(uuid.New())
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := q.DeSubscribe(subID); err != nil {
		t.Fatalf("DeSubscribe failed: %v", err)
	}

	// The receiver goroutine closes the channel on its way out.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel should be closed after DeSubscribe")
		}
	}
}
