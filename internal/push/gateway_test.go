package push

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"

	"github.com/tech-service/push-relay/internal/logger"
)

// fakeSender emulates the FCM client.
type fakeSender struct {
	sendFunc func(ctx context.Context, message *messaging.Message) (string, error)

	messages []*messaging.Message
}

func (f *fakeSender) Send(ctx context.Context, message *messaging.Message) (string, error) {
	f.messages = append(f.messages, message)
	if f.sendFunc != nil {
		return f.sendFunc(ctx, message)
	}
	return "projects/test/messages/1", nil
}

func newTestGateway(sender *fakeSender) *Gateway {
	log := logger.New(logger.Config{}).WithComponent("gateway-test")
	return NewGateway(sender, "", "", log)
}

func TestGatewaySendUnicast(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	gw := newTestGateway(sender)

	payload := BuildPayload(Intent{Title: "Hi"}, RelayDefaults)
	result, err := gw.Send(ctx, UnicastTarget("tok-abc"), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.MessageID != "projects/test/messages/1" {
		t.Errorf("expected backend message id, got %q", result.MessageID)
	}

	if len(sender.messages) != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", len(sender.messages))
	}

	msg := sender.messages[0]
	if msg.Token != "tok-abc" {
		t.Errorf("expected token tok-abc, got %q", msg.Token)
	}
	if msg.Topic != "" {
		t.Errorf("unicast send must not set a topic, got %q", msg.Topic)
	}
	if msg.Notification.Title != "Hi" || msg.Notification.Body != "" {
		t.Errorf("unexpected notification: %+v", msg.Notification)
	}
}

func TestGatewaySendTopic(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{}
	gw := newTestGateway(sender)

	payload := BuildPayload(Intent{}, AssignmentDefaults)
	_, err := gw.Send(ctx, TopicForTechnician("tech7"), payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.messages) != 1 {
		t.Fatalf("expected exactly one outbound call, got %d", len(sender.messages))
	}

	msg := sender.messages[0]
	if msg.Topic != "technician_tech7" {
		t.Errorf("expected topic technician_tech7, got %q", msg.Topic)
	}
	if msg.Token != "" {
		t.Errorf("topic send must not set a token, got %q", msg.Token)
	}
	if msg.Data[AttrServiceID] != "" {
		t.Errorf("expected empty serviceId in data, got %q", msg.Data[AttrServiceID])
	}
}

func TestGatewaySendFailure(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("registration-token-not-registered")
	sender := &fakeSender{
		sendFunc: func(ctx context.Context, message *messaging.Message) (string, error) {
			return "", backendErr
		},
	}
	gw := newTestGateway(sender)

	result, err := gw.Send(ctx, UnicastTarget("tok-stale"), BuildPayload(Intent{}, RelayDefaults))
	if err == nil {
		t.Fatal("expected an error")
	}

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected a DeliveryError, got %T", err)
	}
	if !errors.Is(err, backendErr) {
		t.Error("expected the backend error to be wrapped")
	}
	if result.MessageID != "" {
		t.Errorf("expected empty result on failure, got %q", result.MessageID)
	}

	// Failure is terminal: one attempt, no retry.
	if len(sender.messages) != 1 {
		t.Errorf("expected exactly one outbound call, got %d", len(sender.messages))
	}
}
